package db

import (
	"context"
	"errors"

	"it_inventory/apperr"
	"it_inventory/lifecycle"
	"it_inventory/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

func preloadDisposal(q *gorm.DB) *gorm.DB {
	return q.Preload("Inventory").Preload("ApprovedBy").Preload("DisposedBy")
}

func (r *Repo) FindDisposal(ctx context.Context, id string) (*models.Disposal, error) {
	var d models.Disposal
	if err := preloadDisposal(r.DB.WithContext(ctx)).First(&d, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Disposal record not found")
	}
	return &d, nil
}

func countOpenDisposals(tx *gorm.DB, inventoryID string) (int64, error) {
	var n int64
	err := tx.Model(&models.Disposal{}).
		Where("inventory_id = ? AND status IN ?", inventoryID, models.Strings(models.OpenDisposalStatuses)).
		Count(&n).Error
	return n, err
}

// RequestDisposal opens a Pending disposal for an asset that is neither
// borrowed, retired nor already under an open disposal.
func (r *Repo) RequestDisposal(ctx context.Context, cmd lifecycle.DisposalCommand) (*models.Disposal, error) {
	var d *models.Disposal
	err := r.inTx(ctx, "request_disposal", func(tx *gorm.DB) error {
		inv, err := lockInventory(tx, cmd.InventoryID)
		if err != nil {
			return err
		}
		n, err := countOpenDisposals(tx, inv.ID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckDisposalRequest(inv, n); err != nil {
			return err
		}
		d = lifecycle.NewDisposal(cmd, uuid.NewString())
		if err := tx.Create(d).Error; err != nil {
			return conflict(err, apperr.CodeDuplicateDisposal, "There is already a pending or approved disposal request for this item")
		}
		return nil
	}, attribute.String("inventory.id", cmd.InventoryID))
	if err != nil {
		return nil, err
	}
	r.committed("disposal", "request", 1)
	return r.FindDisposal(ctx, d.ID)
}

// lockDisposalWithAsset keeps the asset-then-record lock order.
func lockDisposalWithAsset(tx *gorm.DB, id string) (*models.Disposal, *models.Inventory, error) {
	var peek models.Disposal
	if err := tx.Select("id", "inventory_id").First(&peek, "id = ?", id).Error; err != nil {
		return nil, nil, notFound(err, "Disposal record not found")
	}
	var invp *models.Inventory
	var inv models.Inventory
	err := forUpdate(tx.Unscoped()).First(&inv, "id = ?", peek.InventoryID).Error
	switch {
	case err == nil:
		invp = &inv
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, err
	}
	var d models.Disposal
	if err := forUpdate(tx).First(&d, "id = ?", id).Error; err != nil {
		return nil, nil, notFound(err, "Disposal record not found")
	}
	return &d, invp, nil
}

// transitionDisposal writes d's new state guarded on the status it was read in.
func transitionDisposal(tx *gorm.DB, d *models.Disposal, from models.DisposalStatus, cols map[string]any) error {
	cols["status"] = d.Status
	res := tx.Model(&models.Disposal{}).Where("id = ? AND status = ?", d.ID, from).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return apperr.InvalidState(apperr.CodeBadTransition, "Disposal status changed concurrently")
	}
	return nil
}

func (r *Repo) UpdateDisposal(ctx context.Context, id string, patch lifecycle.DisposalPatch) (*models.Disposal, error) {
	err := r.inTx(ctx, "update_disposal", func(tx *gorm.DB) error {
		var d models.Disposal
		if err := forUpdate(tx).First(&d, "id = ?", id).Error; err != nil {
			return notFound(err, "Disposal record not found")
		}
		if err := lifecycle.CheckDisposalUpdate(&d); err != nil {
			return err
		}
		lifecycle.ApplyDisposalPatch(&d, patch)
		return transitionDisposal(tx, &d, models.DisposalPending, map[string]any{
			"disposal_date":      d.DisposalDate,
			"disposal_method":    d.DisposalMethod,
			"reason":             d.Reason,
			"sale_price":         d.SalePrice,
			"recipient_name":     d.RecipientName,
			"recipient_contact":  d.RecipientContact,
			"certificate_number": d.CertificateNumber,
			"notes":              d.Notes,
		})
	}, attribute.String("disposal.id", id))
	if err != nil {
		return nil, err
	}
	return r.FindDisposal(ctx, id)
}

func (r *Repo) ApproveDisposal(ctx context.Context, id, approver string) (*models.Disposal, error) {
	err := r.inTx(ctx, "approve_disposal", func(tx *gorm.DB) error {
		d, inv, err := lockDisposalWithAsset(tx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckApprove(d, inv); err != nil {
			return err
		}
		lifecycle.ApplyApprove(d, approver)
		return transitionDisposal(tx, d, models.DisposalPending, map[string]any{"approved_by_id": d.ApprovedByID})
	}, attribute.String("disposal.id", id))
	if err != nil {
		return nil, err
	}
	r.committed("disposal", "approve", 1)
	return r.FindDisposal(ctx, id)
}

// CompleteDisposal finalizes an Approved disposal and retires the asset.
func (r *Repo) CompleteDisposal(ctx context.Context, cmd lifecycle.CompleteCommand) (*models.Disposal, error) {
	err := r.inTx(ctx, "complete_disposal", func(tx *gorm.DB) error {
		d, inv, err := lockDisposalWithAsset(tx, cmd.DisposalID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckComplete(d, inv); err != nil {
			return err
		}
		lifecycle.ApplyComplete(d, inv, cmd, r.Now())
		if err := transitionDisposal(tx, d, models.DisposalApproved, map[string]any{
			"completed_at":       d.CompletedAt,
			"disposed_by_id":     d.DisposedByID,
			"certificate_number": d.CertificateNumber,
			"notes":              d.Notes,
		}); err != nil {
			return err
		}
		if inv == nil {
			return nil
		}
		return tx.Unscoped().Model(&models.Inventory{}).
			Where("id = ?", inv.ID).
			Updates(map[string]any{"status": inv.Status, "remarks": inv.Remarks}).Error
	}, attribute.String("disposal.id", cmd.DisposalID))
	if err != nil {
		return nil, err
	}
	r.committed("disposal", "complete", 1)
	return r.FindDisposal(ctx, cmd.DisposalID)
}

func (r *Repo) CancelDisposal(ctx context.Context, cmd lifecycle.CancelCommand) (*models.Disposal, error) {
	err := r.inTx(ctx, "cancel_disposal", func(tx *gorm.DB) error {
		var d models.Disposal
		if err := forUpdate(tx).First(&d, "id = ?", cmd.DisposalID).Error; err != nil {
			return notFound(err, "Disposal record not found")
		}
		if err := lifecycle.CheckCancel(&d); err != nil {
			return err
		}
		from := d.Status
		lifecycle.ApplyCancel(&d, cmd)
		return transitionDisposal(tx, &d, from, map[string]any{"notes": d.Notes})
	}, attribute.String("disposal.id", cmd.DisposalID))
	if err != nil {
		return nil, err
	}
	r.committed("disposal", "cancel", 1)
	return r.FindDisposal(ctx, cmd.DisposalID)
}

func (r *Repo) DeleteDisposal(ctx context.Context, id string) error {
	err := r.inTx(ctx, "delete_disposal", func(tx *gorm.DB) error {
		var d models.Disposal
		if err := forUpdate(tx).First(&d, "id = ?", id).Error; err != nil {
			return notFound(err, "Disposal record not found")
		}
		if err := lifecycle.CheckDisposalDelete(&d); err != nil {
			return err
		}
		return tx.Where("status IN ?", []string{string(models.DisposalPending), string(models.DisposalCancelled)}).
			Delete(&models.Disposal{}, "id = ?", id).Error
	}, attribute.String("disposal.id", id))
	if err != nil {
		return err
	}
	r.committed("disposal", "delete", 1)
	return nil
}

// AvailableForDisposal lists assets that can enter a new disposal: not
// borrowed, not retired and without an open disposal.
func (r *Repo) AvailableForDisposal(ctx context.Context, search string) ([]models.InventoryRef, error) {
	open := r.DB.Model(&models.Disposal{}).
		Select("inventory_id").
		Where("status IN ?", models.Strings(models.OpenDisposalStatuses))
	q := r.DB.WithContext(ctx).Model(&models.Inventory{}).
		Where("is_borrowed = ? AND status <> ?", false, models.InventoryRetired).
		Where("id NOT IN (?)", open)
	if like, ok := likePattern(search); ok {
		q = q.Where(searchClause(inventorySearchColumns[:4]), likeArgs(like, 4)...)
	}
	var out []models.InventoryRef
	err := q.Order("full_name ASC").Limit(50).Find(&out).Error
	return out, err
}
