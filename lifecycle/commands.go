package lifecycle

import (
	"it_inventory/models"

	"github.com/shopspring/decimal"
)

// Commands are produced by the input package after normalization; every field
// is already trimmed, enum-checked and parsed.

type Borrower struct {
	UserID     *string
	Name       string
	Email      *string
	Department *string
}

type ReleaseCommand struct {
	InventoryID        string
	Borrower           Borrower
	BorrowDate         models.Date // zero means today
	ExpectedReturnDate models.Date
	Purpose            *string
	Notes              *string
	ApprovedBy         string
}

type ReturnCommand struct {
	RecordID    string
	Condition   models.ReturnCondition // empty means Good
	Notes       *string
	ProcessedBy string
}

type ExtendCommand struct {
	RecordID              string
	NewExpectedReturnDate models.Date
	Reason                string
}

type DisposalCommand struct {
	InventoryID       string
	DisposalDate      models.Date
	Method            models.DisposalMethod
	Reason            string
	SalePrice         decimal.NullDecimal
	RecipientName     *string
	RecipientContact  *string
	CertificateNumber *string
	Notes             *string
	RequestedBy       string
}

// DisposalPatch carries only the fields present in an update request.
type DisposalPatch struct {
	DisposalDate      *models.Date
	Method            *models.DisposalMethod
	Reason            *string
	SalePrice         *decimal.NullDecimal
	RecipientName     **string
	RecipientContact  **string
	CertificateNumber **string
	Notes             **string
}

type CompleteCommand struct {
	DisposalID        string
	CertificateNumber *string
	Notes             *string
	DisposedBy        string
}

type CancelCommand struct {
	DisposalID string
	Notes      *string
}
