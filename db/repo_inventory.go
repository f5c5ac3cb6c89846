package db

import (
	"context"
	"strings"

	"it_inventory/apperr"
	"it_inventory/lifecycle"
	"it_inventory/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const duplicateSerialMsg = "Serial number already exists"

// serialTaken also counts soft-deleted rows; their serials stay reserved.
func serialTaken(tx *gorm.DB, serial *string, exceptID string) (bool, error) {
	if serial == nil {
		return false, nil
	}
	var n int64
	q := tx.Unscoped().Model(&models.Inventory{}).Where("serial_number = ?", *serial)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func checkAssignee(tx *gorm.DB, userID *string) error {
	if userID == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", *userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("Assigned user not found")
	}
	return nil
}

func (r *Repo) CreateInventory(ctx context.Context, inv *models.Inventory) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := serialTaken(tx, inv.SerialNumber, "")
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(apperr.CodeDuplicateSerial, duplicateSerialMsg)
		}
		if err := checkAssignee(tx, inv.AssignedTo); err != nil {
			return err
		}
		inv.ID = uuid.NewString()
		inv.IsBorrowed = false
		return conflict(tx.Create(inv).Error, apperr.CodeDuplicateSerial, duplicateSerialMsg)
	})
}

// UpdateInventory locks the row, lets mutate apply the request and writes the
// editable columns back. The borrowed flag is never written here.
func (r *Repo) UpdateInventory(ctx context.Context, id string, mutate func(*models.Inventory) error) (*models.Inventory, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInventory(tx, id)
		if err != nil {
			return err
		}
		from := inv.Status
		if err := mutate(inv); err != nil {
			return err
		}
		if err := lifecycle.CheckStatusChange(from, inv.Status); err != nil {
			return err
		}
		taken, err := serialTaken(tx, inv.SerialNumber, inv.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(apperr.CodeDuplicateSerial, duplicateSerialMsg)
		}
		if err := checkAssignee(tx, inv.AssignedTo); err != nil {
			return err
		}
		err = tx.Model(inv).
			Select("full_name", "department", "pc_name", "windows_version", "microsoft_office",
				"applications_system", "pc_type", "status", "user_status", "remarks", "serial_number",
				"brand", "model", "purchase_date", "warranty_expiry", "assigned_to", "specifications").
			Updates(inv).Error
		return conflict(err, apperr.CodeDuplicateSerial, duplicateSerialMsg)
	})
	if err != nil {
		return nil, err
	}
	return r.FindInventoryByID(ctx, id)
}

// DeleteInventory soft-deletes an asset that is not borrowed. Borrow and
// disposal history keep pointing at the retained row.
func (r *Repo) DeleteInventory(ctx context.Context, id string) error {
	err := r.inTx(ctx, "delete_inventory", func(tx *gorm.DB) error {
		inv, err := lockInventory(tx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.CheckInventoryDelete(inv); err != nil {
			return err
		}
		return tx.Where("is_borrowed = ?", false).Delete(&models.Inventory{}, "id = ?", id).Error
	}, attribute.String("inventory.id", id))
	if err != nil {
		return err
	}
	r.committed("inventory", "delete", 1)
	return nil
}

// Departments lists the distinct non-empty department names used by assets.
func (r *Repo) Departments(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&models.Inventory{}).
		Where("department IS NOT NULL AND department <> ''").
		Distinct("department").
		Order("department ASC").
		Pluck("department", &out).Error
	return out, err
}

type ImportItem struct {
	Label     string
	Inventory *models.Inventory
	Err       error // validation failure found before the insert
}

type ImportError struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

type ImportResult struct {
	Success int           `json:"success"`
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors"`
}

// ImportInventory inserts each item on its own so one bad row does not reject
// the batch.
func (r *Repo) ImportInventory(ctx context.Context, items []ImportItem) ImportResult {
	res := ImportResult{Errors: []ImportError{}}
	for _, it := range items {
		err := it.Err
		if err == nil {
			err = r.CreateInventory(ctx, it.Inventory)
		}
		if err != nil {
			res.Failed++
			msg := err.Error()
			if e, ok := apperr.As(err); ok {
				msg = e.Message
			}
			res.Errors = append(res.Errors, ImportError{Item: strings.TrimSpace(it.Label), Error: msg})
			continue
		}
		res.Success++
	}
	return res
}
