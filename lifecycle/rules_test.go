package lifecycle

import (
	"errors"
	"testing"
	"time"

	"it_inventory/apperr"
	"it_inventory/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func day(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCheckRelease(t *testing.T) {
	inv := &models.Inventory{ID: "a", Status: models.InventoryAvailable}
	assert.NoError(t, CheckRelease(inv, 0, 0))

	err := CheckRelease(inv, 1, 0)
	assert.True(t, errors.Is(err, apperr.ErrAlreadyBorrowed))

	assert.True(t, errors.Is(CheckRelease(inv, 0, 1), apperr.ErrDisposalPending))

	inv.IsBorrowed = true
	assert.True(t, errors.Is(CheckRelease(inv, 0, 0), apperr.ErrAlreadyBorrowed))

	retired := &models.Inventory{ID: "b", Status: models.InventoryRetired}
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(CheckRelease(retired, 0, 0)))
}

func TestApplyRelease(t *testing.T) {
	inv := &models.Inventory{ID: "a", Status: models.InventoryAvailable}
	cmd := ReleaseCommand{
		InventoryID:        "a",
		Borrower:           Borrower{Name: "Ana Cruz", Email: ptr("ana@example.com")},
		ExpectedReturnDate: day("2024-06-10"),
		ApprovedBy:         "admin-1",
	}
	rec := ApplyRelease(inv, cmd, "rec-1", day("2024-06-01"))

	assert.True(t, inv.IsBorrowed)
	assert.Equal(t, models.InventoryTransfer, inv.Status)
	assert.Equal(t, "rec-1", rec.ID)
	assert.Equal(t, models.BorrowBorrowed, rec.Status)
	assert.Equal(t, "2024-06-01", rec.BorrowDate.String())
	assert.Equal(t, "2024-06-10", rec.ExpectedReturnDate.String())
	require.NotNil(t, rec.ApprovedBy)
	assert.Equal(t, "admin-1", *rec.ApprovedBy)

	cmd.BorrowDate = day("2024-05-30")
	rec = ApplyRelease(&models.Inventory{ID: "b"}, cmd, "rec-2", day("2024-06-01"))
	assert.Equal(t, "2024-05-30", rec.BorrowDate.String())
}

func TestApplyReturn(t *testing.T) {
	cases := []struct {
		cond      models.ReturnCondition
		wantCond  models.ReturnCondition
		wantAsset models.InventoryStatus
	}{
		{"", models.ConditionGood, models.InventoryActiveUser},
		{models.ConditionGood, models.ConditionGood, models.InventoryActiveUser},
		{models.ConditionDamaged, models.ConditionDamaged, models.InventoryMaintenance},
		{models.ConditionLost, models.ConditionLost, models.InventoryActiveUser},
	}
	for _, tc := range cases {
		t.Run(string(tc.wantCond), func(t *testing.T) {
			inv := &models.Inventory{ID: "a", IsBorrowed: true, Status: models.InventoryTransfer}
			rec := &models.BorrowRecord{ID: "r", Status: models.BorrowOverdue, Notes: ptr("old")}
			require.NoError(t, CheckReturn(rec))

			ApplyReturn(rec, inv, ReturnCommand{RecordID: "r", Condition: tc.cond, ProcessedBy: "u1"}, day("2024-06-05"))

			assert.Equal(t, models.BorrowReturned, rec.Status)
			assert.Equal(t, tc.wantCond, *rec.ReturnCondition)
			assert.Equal(t, "2024-06-05", rec.ActualReturnDate.String())
			assert.Equal(t, "old", *rec.Notes)
			assert.Equal(t, "u1", *rec.ReturnProcessedBy)
			assert.False(t, inv.IsBorrowed)
			assert.Equal(t, tc.wantAsset, inv.Status)
		})
	}
}

func TestReturnTwiceFails(t *testing.T) {
	rec := &models.BorrowRecord{Status: models.BorrowBorrowed}
	ApplyReturn(rec, nil, ReturnCommand{Notes: ptr("fine")}, day("2024-06-05"))
	assert.Equal(t, "fine", *rec.Notes)

	err := CheckReturn(rec)
	assert.True(t, errors.Is(err, apperr.ErrAlreadyReturned))
}

func TestApplyExtend(t *testing.T) {
	rec := &models.BorrowRecord{Status: models.BorrowOverdue, BorrowDate: day("2024-06-01")}
	require.NoError(t, CheckExtend(rec, day("2024-07-01")))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(CheckExtend(rec, day("2024-05-01"))))

	ApplyExtend(rec, ExtendCommand{NewExpectedReturnDate: day("2024-07-01")})
	assert.Equal(t, models.BorrowExtended, rec.Status)
	assert.Equal(t, "Extension: No reason provided", *rec.Notes)

	ApplyExtend(rec, ExtendCommand{NewExpectedReturnDate: day("2024-07-15"), Reason: "project slipped"})
	assert.Equal(t, "Extension: No reason provided\n\nExtension: project slipped", *rec.Notes)
	assert.Equal(t, "2024-07-15", rec.ExpectedReturnDate.String())

	rec.Status = models.BorrowReturned
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(CheckExtend(rec, day("2024-08-01"))))
}

func TestIsOverdue(t *testing.T) {
	today := day("2024-06-10")
	assert.True(t, IsOverdue(&models.BorrowRecord{Status: models.BorrowBorrowed, ExpectedReturnDate: day("2024-06-09")}, today))
	assert.True(t, IsOverdue(&models.BorrowRecord{Status: models.BorrowExtended, ExpectedReturnDate: day("2024-06-01")}, today))
	assert.False(t, IsOverdue(&models.BorrowRecord{Status: models.BorrowBorrowed, ExpectedReturnDate: today}, today))
	assert.False(t, IsOverdue(&models.BorrowRecord{Status: models.BorrowReturned, ExpectedReturnDate: day("2024-01-01")}, today))
	assert.False(t, IsOverdue(&models.BorrowRecord{Status: models.BorrowOverdue, ExpectedReturnDate: day("2024-01-01")}, today))
}

func TestBorrowTransitions(t *testing.T) {
	assert.True(t, CanTransitionBorrow(models.BorrowOverdue, models.BorrowReturned))
	assert.True(t, CanTransitionBorrow(models.BorrowOverdue, models.BorrowExtended))
	assert.False(t, CanTransitionBorrow(models.BorrowReturned, models.BorrowBorrowed))
	assert.False(t, CanTransitionBorrow(models.BorrowOverdue, models.BorrowBorrowed))
}

func TestCheckDisposalRequest(t *testing.T) {
	inv := &models.Inventory{Status: models.InventoryActiveUser}
	assert.NoError(t, CheckDisposalRequest(inv, 0))
	assert.True(t, errors.Is(CheckDisposalRequest(inv, 1), apperr.ErrDuplicateDisposal))

	inv.IsBorrowed = true
	assert.True(t, errors.Is(CheckDisposalRequest(inv, 0), apperr.ErrAssetBorrowed))

	retired := &models.Inventory{Status: models.InventoryRetired}
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(CheckDisposalRequest(retired, 0)))
}

func TestNewDisposalScrubsMethodFields(t *testing.T) {
	cmd := DisposalCommand{
		InventoryID:   "a",
		DisposalDate:  day("2024-06-01"),
		Method:        models.MethodRecycled,
		Reason:        "end of life",
		SalePrice:     decimal.NewNullDecimal(decimal.RequireFromString("150.00")),
		RecipientName: ptr("Shop"),
		RequestedBy:   "m1",
	}
	d := NewDisposal(cmd, "d1")
	assert.Equal(t, models.DisposalPending, d.Status)
	assert.False(t, d.SalePrice.Valid)
	assert.Nil(t, d.RecipientName)

	cmd.Method = models.MethodTradeIn
	d = NewDisposal(cmd, "d2")
	assert.True(t, d.SalePrice.Valid)
	assert.Nil(t, d.RecipientName)

	cmd.Method = models.MethodSold
	d = NewDisposal(cmd, "d3")
	assert.True(t, d.SalePrice.Valid)
	assert.Equal(t, "Shop", *d.RecipientName)

	cmd.Method = models.MethodDonated
	d = NewDisposal(cmd, "d4")
	assert.False(t, d.SalePrice.Valid)
	assert.Equal(t, "Shop", *d.RecipientName)
}

func TestDisposalStateMachine(t *testing.T) {
	d := &models.Disposal{Status: models.DisposalPending, DisposalMethod: models.MethodScrapped, DisposalDate: day("2024-06-01"), Reason: "broken"}
	inv := &models.Inventory{Status: models.InventoryActiveUser, Remarks: ptr("spare")}
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(CheckComplete(d, inv)))
	require.NoError(t, CheckApprove(d, inv))
	ApplyApprove(d, "admin-1")
	assert.Equal(t, models.DisposalApproved, d.Status)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(CheckApprove(d, inv)))
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(CheckDisposalUpdate(d)))

	now := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, CheckComplete(d, inv))
	ApplyComplete(d, inv, CompleteCommand{DisposedBy: "m1", CertificateNumber: ptr("C-1")}, now)

	assert.Equal(t, models.DisposalCompleted, d.Status)
	assert.Equal(t, now, *d.CompletedAt)
	assert.Equal(t, "C-1", *d.CertificateNumber)
	assert.Equal(t, models.InventoryRetired, inv.Status)
	assert.Equal(t, "spare\nDisposed via Scrapped on 2024-06-01. broken", *inv.Remarks)

	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(CheckCancel(d)))
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(CheckApprove(d, inv)))
	assert.Error(t, CheckDisposalDelete(d))
}

func TestCancelDisposal(t *testing.T) {
	d := &models.Disposal{Status: models.DisposalApproved, Notes: ptr("first")}
	require.NoError(t, CheckCancel(d))
	ApplyCancel(d, CancelCommand{Notes: ptr("budget freeze")})
	assert.Equal(t, models.DisposalCancelled, d.Status)
	assert.Equal(t, "first\nCancellation reason: budget freeze", *d.Notes)

	assert.Error(t, CheckCancel(d))
	assert.NoError(t, CheckDisposalDelete(d))
}

func TestApplyDisposalPatch(t *testing.T) {
	d := &models.Disposal{Status: models.DisposalPending, DisposalMethod: models.MethodSold, RecipientName: ptr("Buyer")}
	method := models.MethodRecycled
	reason := "changed plan"
	ApplyDisposalPatch(d, DisposalPatch{Method: &method, Reason: &reason})
	assert.Equal(t, models.MethodRecycled, d.DisposalMethod)
	assert.Equal(t, "changed plan", d.Reason)
	assert.Nil(t, d.RecipientName)
}

func TestDeletionRules(t *testing.T) {
	assert.True(t, BorrowDeleteCompensates(&models.BorrowRecord{Status: models.BorrowOverdue}))
	assert.False(t, BorrowDeleteCompensates(&models.BorrowRecord{Status: models.BorrowReturned}))

	assert.NoError(t, CheckDisposalDelete(&models.Disposal{Status: models.DisposalPending}))
	assert.Error(t, CheckDisposalDelete(&models.Disposal{Status: models.DisposalApproved}))

	assert.Error(t, CheckInventoryDelete(&models.Inventory{IsBorrowed: true}))
	assert.NoError(t, CheckInventoryDelete(&models.Inventory{}))
}

func TestAppendNote(t *testing.T) {
	assert.Equal(t, "x", *AppendNote(nil, "\n", "x"))
	assert.Equal(t, "x", *AppendNote(ptr("  "), "\n", "x"))
	assert.Equal(t, "a\nx", *AppendNote(ptr("a"), "\n", "x"))
}

func TestDisposalRejectsBorrowedAsset(t *testing.T) {
	lent := &models.Inventory{Status: models.InventoryActiveUser, IsBorrowed: true}

	pending := &models.Disposal{Status: models.DisposalPending}
	assert.True(t, errors.Is(CheckApprove(pending, lent), apperr.ErrAssetBorrowed))

	approved := &models.Disposal{Status: models.DisposalApproved}
	assert.True(t, errors.Is(CheckComplete(approved, lent), apperr.ErrAssetBorrowed))

	retired := &models.Inventory{Status: models.InventoryRetired}
	assert.True(t, errors.Is(CheckComplete(approved, retired), apperr.ErrAssetRetired))

	assert.NoError(t, CheckComplete(approved, nil), "hard-deleted asset")
}

func TestCheckStatusChange(t *testing.T) {
	assert.NoError(t, CheckStatusChange(models.InventoryAvailable, models.InventoryActiveUser))
	assert.NoError(t, CheckStatusChange(models.InventoryRetired, models.InventoryRetired))

	err := CheckStatusChange(models.InventoryRetired, models.InventoryAvailable)
	assert.True(t, errors.Is(err, apperr.ErrAssetRetired))

	err = CheckStatusChange(models.InventoryAvailable, models.InventoryRetired)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}
