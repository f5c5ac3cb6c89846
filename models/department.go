package models

import "time"

const DepartmentTable = "departments"

// Department is curated reference data; Inventory.Department stays free text.
type Department struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	HeadName    *string   `gorm:"size:100" json:"headName"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Department) TableName() string { return DepartmentTable }
