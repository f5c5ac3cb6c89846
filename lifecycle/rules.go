// Package lifecycle holds the status-transition rules for assets, borrow
// records and disposals. Functions here are pure: they validate a freshly read
// state and mutate the in-memory entities; persistence happens in db.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"it_inventory/apperr"
	"it_inventory/models"
)

var borrowTransitions = map[models.BorrowStatus][]models.BorrowStatus{
	models.BorrowBorrowed: {models.BorrowExtended, models.BorrowOverdue, models.BorrowReturned},
	models.BorrowExtended: {models.BorrowExtended, models.BorrowOverdue, models.BorrowReturned},
	models.BorrowOverdue:  {models.BorrowExtended, models.BorrowReturned},
}

var disposalTransitions = map[models.DisposalStatus][]models.DisposalStatus{
	models.DisposalPending:  {models.DisposalApproved, models.DisposalCancelled},
	models.DisposalApproved: {models.DisposalCompleted, models.DisposalCancelled},
}

func CanTransitionBorrow(from, to models.BorrowStatus) bool {
	for _, s := range borrowTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CanTransitionDisposal(from, to models.DisposalStatus) bool {
	for _, s := range disposalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AppendNote concatenates note onto existing, newest last. A nil or blank
// existing value yields note alone.
func AppendNote(existing *string, sep, note string) *string {
	if existing == nil || strings.TrimSpace(*existing) == "" {
		return &note
	}
	v := *existing + sep + note
	return &v
}

// ----- borrow -----

// CheckRelease validates that inv can be released. activeBorrows and
// openDisposals count the active borrow records and the Pending/Approved
// disposals currently pointing at it.
func CheckRelease(inv *models.Inventory, activeBorrows, openDisposals int64) error {
	if inv.Status == models.InventoryRetired {
		return apperr.InvalidState(apperr.CodeAssetRetired, "Retired equipment cannot be borrowed")
	}
	if inv.IsBorrowed || activeBorrows > 0 {
		return apperr.Conflict(apperr.CodeAlreadyBorrowed, "This item is already borrowed")
	}
	if openDisposals > 0 {
		return apperr.Conflict(apperr.CodeDisposalPending, "This item has a pending or approved disposal request")
	}
	return nil
}

// ApplyRelease flags inv as borrowed and returns the new record.
func ApplyRelease(inv *models.Inventory, cmd ReleaseCommand, id string, today models.Date) *models.BorrowRecord {
	borrowDate := cmd.BorrowDate
	if borrowDate.IsZero() {
		borrowDate = today
	}
	approver := cmd.ApprovedBy
	rec := &models.BorrowRecord{
		ID:                 id,
		InventoryID:        inv.ID,
		BorrowerID:         cmd.Borrower.UserID,
		BorrowerName:       cmd.Borrower.Name,
		BorrowerEmail:      cmd.Borrower.Email,
		BorrowerDepartment: cmd.Borrower.Department,
		BorrowDate:         borrowDate,
		ExpectedReturnDate: cmd.ExpectedReturnDate,
		Status:             models.BorrowBorrowed,
		Purpose:            cmd.Purpose,
		Notes:              cmd.Notes,
	}
	if approver != "" {
		rec.ApprovedBy = &approver
	}
	inv.IsBorrowed = true
	inv.Status = models.InventoryTransfer
	return rec
}

func CheckReturn(rec *models.BorrowRecord) error {
	if rec.Status == models.BorrowReturned {
		return apperr.InvalidState(apperr.CodeAlreadyReturned, "This item has already been returned")
	}
	return nil
}

// ReturnedAssetStatus is the asset status implied by a return condition.
func ReturnedAssetStatus(cond models.ReturnCondition) models.InventoryStatus {
	if cond == models.ConditionDamaged {
		return models.InventoryMaintenance
	}
	return models.InventoryActiveUser
}

func ApplyReturn(rec *models.BorrowRecord, inv *models.Inventory, cmd ReturnCommand, today models.Date) {
	cond := cmd.Condition
	if cond == "" {
		cond = models.ConditionGood
	}
	rec.Status = models.BorrowReturned
	rec.ActualReturnDate = &today
	rec.ReturnCondition = &cond
	if cmd.Notes != nil {
		rec.Notes = cmd.Notes
	}
	if cmd.ProcessedBy != "" {
		by := cmd.ProcessedBy
		rec.ReturnProcessedBy = &by
	}
	if inv != nil {
		inv.IsBorrowed = false
		inv.Status = ReturnedAssetStatus(cond)
	}
}

func CheckExtend(rec *models.BorrowRecord, newExpected models.Date) error {
	if rec.Status == models.BorrowReturned {
		return apperr.InvalidState(apperr.CodeAlreadyReturned, "Cannot extend returned item")
	}
	if newExpected.Before(rec.BorrowDate) {
		return apperr.Validation("newExpectedReturnDate cannot be before the borrow date")
	}
	return nil
}

func ApplyExtend(rec *models.BorrowRecord, cmd ExtendCommand) {
	reason := cmd.Reason
	if reason == "" {
		reason = "No reason provided"
	}
	rec.Status = models.BorrowExtended
	rec.ExpectedReturnDate = cmd.NewExpectedReturnDate
	rec.Notes = AppendNote(rec.Notes, "\n\n", "Extension: "+reason)
}

// IsOverdue reports whether the sweep should move rec to Overdue as of asOf.
func IsOverdue(rec *models.BorrowRecord, asOf models.Date) bool {
	if rec.Status != models.BorrowBorrowed && rec.Status != models.BorrowExtended {
		return false
	}
	return rec.ExpectedReturnDate.Before(asOf)
}

// ----- disposal -----

func CheckDisposalRequest(inv *models.Inventory, openDisposals int64) error {
	if inv.Status == models.InventoryRetired {
		return apperr.InvalidState(apperr.CodeAssetRetired, "This item has already been retired")
	}
	if inv.IsBorrowed {
		return apperr.Conflict(apperr.CodeAssetBorrowed, "Cannot dispose borrowed item. Please process return first.")
	}
	if openDisposals > 0 {
		return apperr.Conflict(apperr.CodeDuplicateDisposal, "There is already a pending or approved disposal request for this item")
	}
	return nil
}

// NewDisposal builds a Pending disposal, dropping fields the method does not carry.
func NewDisposal(cmd DisposalCommand, id string) *models.Disposal {
	d := &models.Disposal{
		ID:                id,
		InventoryID:       cmd.InventoryID,
		DisposalDate:      cmd.DisposalDate,
		DisposalMethod:    cmd.Method,
		Reason:            cmd.Reason,
		Status:            models.DisposalPending,
		SalePrice:         cmd.SalePrice,
		RecipientName:     cmd.RecipientName,
		RecipientContact:  cmd.RecipientContact,
		CertificateNumber: cmd.CertificateNumber,
		Notes:             cmd.Notes,
		ApprovedByID:      cmd.RequestedBy,
	}
	ScrubConditionalFields(d)
	return d
}

// ScrubConditionalFields clears sale price and recipient details that do not
// apply to the disposal method.
func ScrubConditionalFields(d *models.Disposal) {
	if !d.DisposalMethod.CarriesPrice() {
		d.SalePrice.Valid = false
	}
	if !d.DisposalMethod.CarriesRecipient() {
		d.RecipientName = nil
		d.RecipientContact = nil
	}
}

func checkDisposalTransition(d *models.Disposal, to models.DisposalStatus, msg string) error {
	if !CanTransitionDisposal(d.Status, to) {
		return apperr.InvalidState(apperr.CodeBadTransition, msg)
	}
	return nil
}

func CheckDisposalUpdate(d *models.Disposal) error {
	if d.Status != models.DisposalPending {
		return apperr.InvalidState(apperr.CodeBadTransition, "Only pending disposal requests can be updated")
	}
	return nil
}

func ApplyDisposalPatch(d *models.Disposal, p DisposalPatch) {
	if p.DisposalDate != nil {
		d.DisposalDate = *p.DisposalDate
	}
	if p.Method != nil {
		d.DisposalMethod = *p.Method
	}
	if p.Reason != nil {
		d.Reason = *p.Reason
	}
	if p.SalePrice != nil {
		d.SalePrice = *p.SalePrice
	}
	if p.RecipientName != nil {
		d.RecipientName = *p.RecipientName
	}
	if p.RecipientContact != nil {
		d.RecipientContact = *p.RecipientContact
	}
	if p.CertificateNumber != nil {
		d.CertificateNumber = *p.CertificateNumber
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	ScrubConditionalFields(d)
}

// checkDisposableAsset guards approval and completion: the asset must not be
// out on loan or already retired. A nil asset (hard-deleted row) passes.
func checkDisposableAsset(inv *models.Inventory) error {
	switch {
	case inv == nil:
		return nil
	case inv.IsBorrowed:
		return apperr.Conflict(apperr.CodeAssetBorrowed, "Cannot dispose borrowed item. Please process return first.")
	case inv.Status == models.InventoryRetired:
		return apperr.InvalidState(apperr.CodeAssetRetired, "This item has already been retired")
	}
	return nil
}

func CheckApprove(d *models.Disposal, inv *models.Inventory) error {
	if err := checkDisposalTransition(d, models.DisposalApproved, "Only pending disposals can be approved"); err != nil {
		return err
	}
	return checkDisposableAsset(inv)
}

func ApplyApprove(d *models.Disposal, approver string) {
	d.Status = models.DisposalApproved
	if approver != "" {
		d.ApprovedByID = approver
	}
}

func CheckComplete(d *models.Disposal, inv *models.Inventory) error {
	if err := checkDisposalTransition(d, models.DisposalCompleted, "Only approved disposals can be completed"); err != nil {
		return err
	}
	return checkDisposableAsset(inv)
}

// DisposalSummary is the remark appended to a retired asset.
func DisposalSummary(d *models.Disposal) string {
	return fmt.Sprintf("Disposed via %s on %s. %s", d.DisposalMethod, d.DisposalDate, d.Reason)
}

func ApplyComplete(d *models.Disposal, inv *models.Inventory, cmd CompleteCommand, now time.Time) {
	d.Status = models.DisposalCompleted
	d.CompletedAt = &now
	if cmd.DisposedBy != "" {
		by := cmd.DisposedBy
		d.DisposedByID = &by
	}
	if cmd.CertificateNumber != nil {
		d.CertificateNumber = cmd.CertificateNumber
	}
	if cmd.Notes != nil {
		d.Notes = cmd.Notes
	}
	if inv != nil {
		inv.Status = models.InventoryRetired
		inv.Remarks = AppendNote(inv.Remarks, "\n", DisposalSummary(d))
	}
}

func CheckCancel(d *models.Disposal) error {
	if d.Status == models.DisposalCompleted {
		return apperr.InvalidState(apperr.CodeBadTransition, "Completed disposals cannot be cancelled")
	}
	return checkDisposalTransition(d, models.DisposalCancelled, "This disposal has already been cancelled")
}

func ApplyCancel(d *models.Disposal, cmd CancelCommand) {
	d.Status = models.DisposalCancelled
	if cmd.Notes != nil {
		d.Notes = AppendNote(d.Notes, "\n", "Cancellation reason: "+*cmd.Notes)
	}
}

// ----- deletion -----

// BorrowDeleteCompensates reports whether deleting rec must clear the asset's
// borrowed flag.
func BorrowDeleteCompensates(rec *models.BorrowRecord) bool { return rec.Status.Active() }

func CheckDisposalDelete(d *models.Disposal) error {
	if d.Status != models.DisposalPending && d.Status != models.DisposalCancelled {
		return apperr.InvalidState(apperr.CodeBadTransition, "Only pending or cancelled disposals can be deleted")
	}
	return nil
}

func CheckInventoryDelete(inv *models.Inventory) error {
	if inv.IsBorrowed {
		return apperr.Conflict(apperr.CodeAssetBorrowed, "Cannot delete borrowed item. Please process return first.")
	}
	return nil
}

// CheckStatusChange guards manual edits of Inventory.status. Retired is
// entered only by completing a disposal and is never left.
func CheckStatusChange(from, to models.InventoryStatus) error {
	switch {
	case from == to:
		return nil
	case from == models.InventoryRetired:
		return apperr.InvalidState(apperr.CodeAssetRetired, "Retired equipment cannot change status")
	case to == models.InventoryRetired:
		return apperr.InvalidState(apperr.CodeBadTransition, "Equipment is retired by completing a disposal")
	}
	return nil
}
