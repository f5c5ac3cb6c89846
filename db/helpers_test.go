package db

import (
	"context"
	"testing"
	"time"

	"it_inventory/lifecycle"
	"it_inventory/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testToday = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

// newTestRepo opens a private in-memory database. One connection keeps every
// statement on the same memory database and serializes transactions.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), gormConfig())
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(gdb))
	return NewRepo(gdb)
}

func strp(s string) *string { return &s }

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func seedInventory(t *testing.T, r *Repo, name, dept string, mutate ...func(*models.Inventory)) *models.Inventory {
	t.Helper()
	inv := &models.Inventory{
		FullName:   name,
		Department: dept,
		PCType:     models.PCLaptop,
		Status:     models.InventoryActiveUser,
		UserStatus: models.UserStatusActive,
	}
	for _, m := range mutate {
		m(inv)
	}
	require.NoError(t, r.CreateInventory(context.Background(), inv))
	return inv
}

func release(t *testing.T, r *Repo, invID, borrower string) *models.BorrowRecord {
	t.Helper()
	rec, err := r.Release(context.Background(), lifecycle.ReleaseCommand{
		InventoryID:        invID,
		Borrower:           lifecycle.Borrower{Name: borrower, Email: strp("b@example.com")},
		BorrowDate:         r.today(),
		ExpectedReturnDate: r.today().AddDays(3),
	})
	require.NoError(t, err)
	return rec
}

func requestDisposal(t *testing.T, r *Repo, invID string, method models.DisposalMethod) *models.Disposal {
	t.Helper()
	d, err := r.RequestDisposal(context.Background(), lifecycle.DisposalCommand{
		InventoryID:  invID,
		DisposalDate: r.today(),
		Method:       method,
		Reason:       "end of life",
		RequestedBy:  "admin-1",
	})
	require.NoError(t, err)
	return d
}

func reloadInventory(t *testing.T, r *Repo, id string) *models.Inventory {
	t.Helper()
	var inv models.Inventory
	require.NoError(t, r.DB.Unscoped().First(&inv, "id = ?", id).Error)
	return &inv
}
