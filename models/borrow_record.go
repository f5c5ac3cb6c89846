package models

import "time"

const BorrowRecordTable = "borrow_records"

// BorrowRecord is one release of an asset to a borrower. Borrowers without an
// account are carried by the denormalized name/email/department fields.
type BorrowRecord struct {
	ID                 string           `gorm:"primaryKey;size:36" json:"id"`
	InventoryID        string           `gorm:"size:36;not null;index" json:"inventoryId"`
	BorrowerID         *string          `gorm:"size:36;index" json:"borrowerId"`
	BorrowerName       string           `gorm:"size:100;not null" json:"borrowerName"`
	BorrowerEmail      *string          `gorm:"size:100" json:"borrowerEmail"`
	BorrowerDepartment *string          `gorm:"size:100" json:"borrowerDepartment"`
	BorrowDate         Date             `gorm:"not null;index" json:"borrowDate"`
	ExpectedReturnDate Date             `gorm:"not null;index" json:"expectedReturnDate"`
	ActualReturnDate   *Date            `json:"actualReturnDate"`
	Status             BorrowStatus     `gorm:"size:20;not null;default:'Borrowed';index" json:"status"`
	Purpose            *string          `gorm:"type:text" json:"purpose"`
	Notes              *string          `gorm:"type:text" json:"notes"`
	ReturnCondition    *ReturnCondition `gorm:"size:20" json:"returnCondition"`
	ApprovedBy         *string          `gorm:"size:36" json:"approvedBy"`
	ReturnProcessedBy  *string          `gorm:"size:36" json:"returnProcessedBy"`

	Inventory       *InventoryRef `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`
	Borrower        *UserRef      `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	Approver        *UserRef      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ReturnProcessor *UserRef      `gorm:"foreignKey:ReturnProcessedBy" json:"returnProcessor,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BorrowRecord) TableName() string { return BorrowRecordTable }
