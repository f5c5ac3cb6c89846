package input

import (
	"it_inventory/lifecycle"
	"it_inventory/models"
)

type ReleaseRequest struct {
	InventoryID        *string `json:"inventoryId"`
	BorrowerID         *string `json:"borrowerId"`
	BorrowerName       *string `json:"borrowerName"`
	BorrowerEmail      *string `json:"borrowerEmail"`
	BorrowerDepartment *string `json:"borrowerDepartment"`
	BorrowDate         *string `json:"borrowDate"`
	ExpectedReturnDate *string `json:"expectedReturnDate"`
	Purpose            *string `json:"purpose"`
	Notes              *string `json:"notes"`
}

// Release validates a borrow request. The borrower name may be omitted when a
// borrowerId is given; the repository fills it from the account.
func Release(req ReleaseRequest, actor string) (lifecycle.ReleaseCommand, error) {
	var p problems
	cmd := lifecycle.ReleaseCommand{
		InventoryID: p.required("inventoryId", req.InventoryID),
		Borrower: lifecycle.Borrower{
			UserID:     Optional(req.BorrowerID),
			Email:      p.email("borrowerEmail", req.BorrowerEmail),
			Department: Optional(req.BorrowerDepartment),
		},
		ExpectedReturnDate: p.requiredDate("expectedReturnDate", req.ExpectedReturnDate),
		Purpose:            Optional(req.Purpose),
		Notes:              Optional(req.Notes),
		ApprovedBy:         actor,
	}
	if name := Optional(req.BorrowerName); name != nil {
		cmd.Borrower.Name = *name
	} else if cmd.Borrower.UserID == nil {
		p.add("borrowerName is required")
	}
	if d := p.date("borrowDate", req.BorrowDate); d != nil {
		cmd.BorrowDate = *d
	}
	if !cmd.BorrowDate.IsZero() && !cmd.ExpectedReturnDate.IsZero() && cmd.ExpectedReturnDate.Before(cmd.BorrowDate) {
		p.add("expectedReturnDate cannot be before borrowDate")
	}
	return cmd, p.err()
}

type ReturnRequest struct {
	ReturnCondition *string `json:"returnCondition"`
	Notes           *string `json:"notes"`
}

func Return(recordID string, req ReturnRequest, actor string) (lifecycle.ReturnCommand, error) {
	var p problems
	cmd := lifecycle.ReturnCommand{RecordID: recordID, Notes: Optional(req.Notes), ProcessedBy: actor}
	if c := enum(&p, "returnCondition", req.ReturnCondition, models.ReturnConditions); c != nil {
		cmd.Condition = *c
	}
	return cmd, p.err()
}

type ExtendRequest struct {
	NewExpectedReturnDate *string `json:"newExpectedReturnDate"`
	Reason                *string `json:"reason"`
}

func Extend(recordID string, req ExtendRequest) (lifecycle.ExtendCommand, error) {
	var p problems
	cmd := lifecycle.ExtendCommand{
		RecordID:              recordID,
		NewExpectedReturnDate: p.requiredDate("newExpectedReturnDate", req.NewExpectedReturnDate),
	}
	if r := Optional(req.Reason); r != nil {
		cmd.Reason = *r
	}
	return cmd, p.err()
}
