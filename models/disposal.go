package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DisposalTable = "disposals"

type Disposal struct {
	ID                string              `gorm:"primaryKey;size:36" json:"id"`
	InventoryID       string              `gorm:"size:36;not null;index" json:"inventoryId"`
	DisposalDate      Date                `gorm:"not null" json:"disposalDate"`
	DisposalMethod    DisposalMethod      `gorm:"size:20;not null;index" json:"disposalMethod"`
	Reason            string              `gorm:"type:text;not null" json:"reason"`
	Status            DisposalStatus      `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	SalePrice         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"salePrice"`
	RecipientName     *string             `gorm:"size:100" json:"recipientName"`
	RecipientContact  *string             `gorm:"size:100" json:"recipientContact"`
	CertificateNumber *string             `gorm:"size:50" json:"certificateNumber"`
	Notes             *string             `gorm:"type:text" json:"notes"`
	ApprovedByID      string              `gorm:"size:36;not null" json:"approvedById"`
	DisposedByID      *string             `gorm:"size:36" json:"disposedById"`
	CompletedAt       *time.Time          `json:"completedAt"`

	Inventory  *InventoryRef `gorm:"foreignKey:InventoryID" json:"inventory,omitempty"`
	ApprovedBy *UserRef      `gorm:"foreignKey:ApprovedByID" json:"approvedBy,omitempty"`
	DisposedBy *UserRef      `gorm:"foreignKey:DisposedByID" json:"disposedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Disposal) TableName() string { return DisposalTable }
