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

func preloadBorrow(q *gorm.DB) *gorm.DB {
	return q.Preload("Inventory").Preload("Borrower").Preload("Approver").Preload("ReturnProcessor")
}

func (r *Repo) FindBorrowRecord(ctx context.Context, id string) (*models.BorrowRecord, error) {
	var rec models.BorrowRecord
	if err := preloadBorrow(r.DB.WithContext(ctx)).First(&rec, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Borrow record not found")
	}
	return &rec, nil
}

func countActiveBorrows(tx *gorm.DB, inventoryID string) (int64, error) {
	var n int64
	err := tx.Model(&models.BorrowRecord{}).
		Where("inventory_id = ? AND status IN ?", inventoryID, models.Strings(models.ActiveBorrowStatuses)).
		Count(&n).Error
	return n, err
}

// Release lends an asset: lock the asset row, re-check that nothing is
// borrowing it, flip the flag and insert the record in one transaction.
func (r *Repo) Release(ctx context.Context, cmd lifecycle.ReleaseCommand) (*models.BorrowRecord, error) {
	var rec *models.BorrowRecord
	err := r.inTx(ctx, "release", func(tx *gorm.DB) error {
		inv, err := lockInventory(tx, cmd.InventoryID)
		if err != nil {
			return err
		}
		if err := fillBorrower(tx, &cmd.Borrower); err != nil {
			return err
		}
		n, err := countActiveBorrows(tx, inv.ID)
		if err != nil {
			return err
		}
		open, err := countOpenDisposals(tx, inv.ID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckRelease(inv, n, open); err != nil {
			return err
		}

		rec = lifecycle.ApplyRelease(inv, cmd, uuid.NewString(), r.today())

		res := tx.Model(&models.Inventory{}).
			Where("id = ? AND is_borrowed = ?", inv.ID, false).
			Updates(map[string]any{"is_borrowed": true, "status": inv.Status})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return apperr.Conflict(apperr.CodeAlreadyBorrowed, "This item is already borrowed")
		}
		if err := tx.Create(rec).Error; err != nil {
			return conflict(err, apperr.CodeAlreadyBorrowed, "This item is already borrowed")
		}
		return nil
	}, attribute.String("inventory.id", cmd.InventoryID))
	if err != nil {
		return nil, err
	}
	r.committed("borrow", "release", 1)
	return r.FindBorrowRecord(ctx, rec.ID)
}

// fillBorrower completes borrower details from the account when only an id was given.
func fillBorrower(tx *gorm.DB, b *lifecycle.Borrower) error {
	if b.UserID == nil {
		return nil
	}
	var u models.User
	if err := tx.First(&u, "id = ?", *b.UserID).Error; err != nil {
		return notFound(err, "Borrower not found")
	}
	if b.Name == "" {
		b.Name = u.FullName
	}
	if b.Email == nil && u.Email != "" {
		email := u.Email
		b.Email = &email
	}
	if b.Department == nil {
		b.Department = u.Department
	}
	return nil
}

// lockBorrowWithAsset locks the asset first and then the record, the same
// order Release uses, so concurrent lifecycle operations cannot deadlock.
func lockBorrowWithAsset(tx *gorm.DB, recordID string) (*models.BorrowRecord, *models.Inventory, error) {
	var peek models.BorrowRecord
	if err := tx.Select("id", "inventory_id").First(&peek, "id = ?", recordID).Error; err != nil {
		return nil, nil, notFound(err, "Borrow record not found")
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
	var rec models.BorrowRecord
	if err := forUpdate(tx).First(&rec, "id = ?", recordID).Error; err != nil {
		return nil, nil, notFound(err, "Borrow record not found")
	}
	return &rec, invp, nil
}

func (r *Repo) ProcessReturn(ctx context.Context, cmd lifecycle.ReturnCommand) (*models.BorrowRecord, error) {
	err := r.inTx(ctx, "return", func(tx *gorm.DB) error {
		rec, inv, err := lockBorrowWithAsset(tx, cmd.RecordID)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckReturn(rec); err != nil {
			return err
		}
		lifecycle.ApplyReturn(rec, inv, cmd, r.today())

		res := tx.Model(&models.BorrowRecord{}).
			Where("id = ? AND status <> ?", rec.ID, models.BorrowReturned).
			Updates(map[string]any{
				"status":              rec.Status,
				"actual_return_date":  rec.ActualReturnDate,
				"return_condition":    rec.ReturnCondition,
				"notes":               rec.Notes,
				"return_processed_by": rec.ReturnProcessedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return apperr.InvalidState(apperr.CodeAlreadyReturned, "This item has already been returned")
		}
		if inv == nil {
			return nil
		}
		return tx.Unscoped().Model(&models.Inventory{}).
			Where("id = ?", inv.ID).
			Updates(map[string]any{"is_borrowed": false, "status": inv.Status}).Error
	}, attribute.String("borrow.id", cmd.RecordID))
	if err != nil {
		return nil, err
	}
	r.committed("borrow", "return", 1)
	return r.FindBorrowRecord(ctx, cmd.RecordID)
}

func (r *Repo) ExtendBorrow(ctx context.Context, cmd lifecycle.ExtendCommand) (*models.BorrowRecord, error) {
	err := r.inTx(ctx, "extend", func(tx *gorm.DB) error {
		var rec models.BorrowRecord
		if err := forUpdate(tx).First(&rec, "id = ?", cmd.RecordID).Error; err != nil {
			return notFound(err, "Borrow record not found")
		}
		if err := lifecycle.CheckExtend(&rec, cmd.NewExpectedReturnDate); err != nil {
			return err
		}
		lifecycle.ApplyExtend(&rec, cmd)
		res := tx.Model(&models.BorrowRecord{}).
			Where("id = ? AND status <> ?", rec.ID, models.BorrowReturned).
			Updates(map[string]any{
				"status":               rec.Status,
				"expected_return_date": rec.ExpectedReturnDate,
				"notes":                rec.Notes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return apperr.InvalidState(apperr.CodeAlreadyReturned, "Cannot extend returned item")
		}
		return nil
	}, attribute.String("borrow.id", cmd.RecordID))
	if err != nil {
		return nil, err
	}
	r.committed("borrow", "extend", 1)
	return r.FindBorrowRecord(ctx, cmd.RecordID)
}

// SweepOverdue marks stale Borrowed/Extended records Overdue as of asOf. The
// status check and the write are one statement, so a record returned
// concurrently is never overwritten and a second run changes nothing.
func (r *Repo) SweepOverdue(ctx context.Context, asOf models.Date) (int64, error) {
	var n int64
	err := r.inTx(ctx, "sweep", func(tx *gorm.DB) error {
		res := tx.Model(&models.BorrowRecord{}).
			Where("status IN ? AND expected_return_date < ?",
				[]string{string(models.BorrowBorrowed), string(models.BorrowExtended)}, asOf).
			Update("status", models.BorrowOverdue)
		n = res.RowsAffected
		return res.Error
	}, attribute.String("as_of", asOf.String()))
	if err != nil {
		return 0, err
	}
	r.committed("borrow", "overdue", int(n))
	return n, nil
}

// DeleteBorrowRecord removes a record; an active record first clears the
// asset's borrowed flag.
func (r *Repo) DeleteBorrowRecord(ctx context.Context, id string) error {
	err := r.inTx(ctx, "delete_borrow", func(tx *gorm.DB) error {
		rec, inv, err := lockBorrowWithAsset(tx, id)
		if err != nil {
			return err
		}
		if lifecycle.BorrowDeleteCompensates(rec) && inv != nil {
			if err := tx.Unscoped().Model(&models.Inventory{}).
				Where("id = ?", inv.ID).
				Update("is_borrowed", false).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.BorrowRecord{}, "id = ?", rec.ID).Error
	}, attribute.String("borrow.id", id))
	if err != nil {
		return err
	}
	r.committed("borrow", "delete", 1)
	return nil
}

// ListOverdue is the read-only overdue view: records already marked Overdue
// plus active records past due that the sweep has not reached yet.
func (r *Repo) ListOverdue(ctx context.Context) ([]models.BorrowRecord, error) {
	var out []models.BorrowRecord
	err := r.DB.WithContext(ctx).
		Preload("Inventory").Preload("Borrower").
		Where("status = ? OR (status IN ? AND expected_return_date < ?)",
			models.BorrowOverdue,
			[]string{string(models.BorrowBorrowed), string(models.BorrowExtended)},
			r.today()).
		Order("expected_return_date ASC").
		Find(&out).Error
	return out, err
}

// ListDueWithin returns active records whose expected return date falls in
// [today, today+days].
func (r *Repo) ListDueWithin(ctx context.Context, days int) ([]models.BorrowRecord, error) {
	today := r.today()
	var out []models.BorrowRecord
	err := r.DB.WithContext(ctx).
		Preload("Inventory").Preload("Borrower").
		Where("status IN ? AND expected_return_date >= ? AND expected_return_date <= ?",
			models.Strings(models.ActiveBorrowStatuses), today, today.AddDays(days)).
		Order("expected_return_date ASC").
		Find(&out).Error
	return out, err
}

// ListReminderTargets is ListDueWithin restricted to Borrowed/Extended records
// that have a borrower e-mail.
func (r *Repo) ListReminderTargets(ctx context.Context, days int) ([]models.BorrowRecord, error) {
	today := r.today()
	var out []models.BorrowRecord
	err := r.DB.WithContext(ctx).
		Preload("Inventory").
		Where("status IN ? AND expected_return_date >= ? AND expected_return_date <= ?",
			[]string{string(models.BorrowBorrowed), string(models.BorrowExtended)}, today, today.AddDays(days)).
		Where("borrower_email IS NOT NULL AND borrower_email <> ''").
		Order("expected_return_date ASC").
		Find(&out).Error
	return out, err
}

// RecentBorrows returns the latest records for one asset.
func (r *Repo) RecentBorrows(ctx context.Context, inventoryID string, limit int) ([]models.BorrowRecord, error) {
	var out []models.BorrowRecord
	err := r.DB.WithContext(ctx).
		Preload("Borrower").
		Where("inventory_id = ?", inventoryID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
