// models/inventory.go
package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const InventoryTable = "inventory"

// Inventory is one physical PC or laptop. IsBorrowed mirrors the existence of an
// active BorrowRecord and is only written inside lifecycle transactions.
type Inventory struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	FullName           string          `gorm:"size:100;not null" json:"fullName"`
	Department         string          `gorm:"size:100;not null;index" json:"department"`
	PCName             *string         `gorm:"column:pc_name;size:100" json:"pcName"`
	WindowsVersion     *WindowsVersion `gorm:"size:30" json:"windowsVersion"`
	MicrosoftOffice    *OfficeVersion  `gorm:"size:30" json:"microsoftOffice"`
	ApplicationsSystem *string         `gorm:"size:255" json:"applicationsSystem"`
	PCType             PCType          `gorm:"column:pc_type;size:20;not null;index" json:"pcType"`
	Status             InventoryStatus `gorm:"size:20;not null;default:'Active User';index" json:"status"`
	UserStatus         UserStatus      `gorm:"size:20;not null;default:'Active User'" json:"userStatus"`
	Remarks            *string         `gorm:"type:text" json:"remarks"`
	SerialNumber       *string         `gorm:"size:100;uniqueIndex" json:"serialNumber"`
	Brand              *string         `gorm:"size:50" json:"brand"`
	Model              *string         `gorm:"size:100" json:"model"`
	PurchaseDate       *Date           `json:"purchaseDate"`
	WarrantyExpiry     *Date           `json:"warrantyExpiry"`
	AssignedTo         *string         `gorm:"size:36;index" json:"assignedTo"`
	IsBorrowed         bool            `gorm:"not null;default:false;index" json:"isBorrowed"`
	Specifications     datatypes.JSON  `json:"specifications,omitempty"`

	AssignedUser *UserRef `gorm:"foreignKey:AssignedTo" json:"assignedUser,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Inventory) TableName() string { return InventoryTable }

func equipmentName(brand, model *string, t PCType) string {
	name := ""
	if brand != nil {
		name = *brand
	}
	if model != nil {
		if name != "" {
			name += " "
		}
		name += *model
	}
	if name == "" {
		return "(" + string(t) + ")"
	}
	return name + " (" + string(t) + ")"
}

// EquipmentName is the human label used in notifications.
func (it *Inventory) EquipmentName() string { return equipmentName(it.Brand, it.Model, it.PCType) }

// InventoryRef is the trimmed projection embedded in borrow and disposal payloads.
type InventoryRef struct {
	ID           string          `json:"id"`
	FullName     string          `json:"fullName"`
	PCName       *string         `gorm:"column:pc_name" json:"pcName"`
	PCType       PCType          `gorm:"column:pc_type" json:"pcType"`
	Department   string          `json:"department"`
	SerialNumber *string         `json:"serialNumber"`
	Brand        *string         `json:"brand,omitempty"`
	Model        *string         `json:"model,omitempty"`
	Status       InventoryStatus `json:"status"`
}

func (InventoryRef) TableName() string { return InventoryTable }

func (r *InventoryRef) EquipmentName() string { return equipmentName(r.Brand, r.Model, r.PCType) }
