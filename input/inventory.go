package input

import (
	"encoding/json"

	"it_inventory/models"

	"gorm.io/datatypes"
)

type InventoryRequest struct {
	FullName           *string         `json:"fullName"`
	Department         *string         `json:"department"`
	PCName             *string         `json:"pcName"`
	WindowsVersion     *string         `json:"windowsVersion"`
	MicrosoftOffice    *string         `json:"microsoftOffice"`
	ApplicationsSystem *string         `json:"applicationsSystem"`
	PCType             *string         `json:"pcType"`
	Status             *string         `json:"status"`
	UserStatus         *string         `json:"userStatus"`
	Remarks            *string         `json:"remarks"`
	SerialNumber       *string         `json:"serialNumber"`
	Brand              *string         `json:"brand"`
	Model              *string         `json:"model"`
	PurchaseDate       *string         `json:"purchaseDate"`
	WarrantyExpiry     *string         `json:"warrantyExpiry"`
	AssignedTo         *string         `json:"assignedTo"`
	Specifications     json.RawMessage `json:"specifications"`
}

// NewInventory validates a create payload. Status and userStatus default to
// Active User.
func NewInventory(req InventoryRequest) (*models.Inventory, error) {
	var p problems
	inv := &models.Inventory{
		FullName:   p.required("fullName", req.FullName),
		Department: p.required("department", req.Department),
		Status:     models.InventoryActiveUser,
		UserStatus: models.UserStatusActive,
	}
	if pt := enum(&p, "pcType", req.PCType, models.PCTypes); pt != nil {
		inv.PCType = *pt
	} else if Optional(req.PCType) == nil {
		p.add("pcType is required")
	}
	if s := enum(&p, "status", req.Status, models.InventoryStatuses); s != nil {
		inv.Status = *s
	}
	if s := enum(&p, "userStatus", req.UserStatus, models.UserStatuses); s != nil {
		inv.UserStatus = *s
	}
	inv.WindowsVersion = enum(&p, "windowsVersion", req.WindowsVersion, models.WindowsVersions)
	inv.MicrosoftOffice = enum(&p, "microsoftOffice", req.MicrosoftOffice, models.OfficeVersions)
	inv.PCName = Optional(req.PCName)
	inv.ApplicationsSystem = Optional(req.ApplicationsSystem)
	inv.Remarks = Optional(req.Remarks)
	inv.SerialNumber = Optional(req.SerialNumber)
	inv.Brand = Optional(req.Brand)
	inv.Model = Optional(req.Model)
	inv.AssignedTo = Optional(req.AssignedTo)
	inv.PurchaseDate = p.date("purchaseDate", req.PurchaseDate)
	inv.WarrantyExpiry = p.date("warrantyExpiry", req.WarrantyExpiry)
	inv.Specifications = specifications(&p, req.Specifications)
	return inv, p.err()
}

// ApplyInventoryUpdate copies the fields present in req onto inv. A present but
// blank optional field clears the column; required fields cannot be cleared.
func ApplyInventoryUpdate(inv *models.Inventory, req InventoryRequest) error {
	var p problems
	if set(req.FullName) {
		inv.FullName = p.required("fullName", req.FullName)
	}
	if set(req.Department) {
		inv.Department = p.required("department", req.Department)
	}
	if set(req.PCType) {
		if pt := enum(&p, "pcType", req.PCType, models.PCTypes); pt != nil {
			inv.PCType = *pt
		} else if Optional(req.PCType) == nil {
			p.add("pcType is required")
		}
	}
	if set(req.Status) {
		if s := enum(&p, "status", req.Status, models.InventoryStatuses); s != nil {
			inv.Status = *s
		} else if Optional(req.Status) == nil {
			p.add("status is required")
		}
	}
	if set(req.UserStatus) {
		if s := enum(&p, "userStatus", req.UserStatus, models.UserStatuses); s != nil {
			inv.UserStatus = *s
		} else if Optional(req.UserStatus) == nil {
			p.add("userStatus is required")
		}
	}
	if set(req.WindowsVersion) {
		inv.WindowsVersion = enum(&p, "windowsVersion", req.WindowsVersion, models.WindowsVersions)
	}
	if set(req.MicrosoftOffice) {
		inv.MicrosoftOffice = enum(&p, "microsoftOffice", req.MicrosoftOffice, models.OfficeVersions)
	}
	if set(req.PCName) {
		inv.PCName = Optional(req.PCName)
	}
	if set(req.ApplicationsSystem) {
		inv.ApplicationsSystem = Optional(req.ApplicationsSystem)
	}
	if set(req.Remarks) {
		inv.Remarks = Optional(req.Remarks)
	}
	if set(req.SerialNumber) {
		inv.SerialNumber = Optional(req.SerialNumber)
	}
	if set(req.Brand) {
		inv.Brand = Optional(req.Brand)
	}
	if set(req.Model) {
		inv.Model = Optional(req.Model)
	}
	if set(req.AssignedTo) {
		inv.AssignedTo = Optional(req.AssignedTo)
	}
	if set(req.PurchaseDate) {
		inv.PurchaseDate = p.date("purchaseDate", req.PurchaseDate)
	}
	if set(req.WarrantyExpiry) {
		inv.WarrantyExpiry = p.date("warrantyExpiry", req.WarrantyExpiry)
	}
	if req.Specifications != nil {
		inv.Specifications = specifications(&p, req.Specifications)
	}
	return p.err()
}

func specifications(p *problems, raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		p.add("specifications must be a JSON object")
		return nil
	}
	return datatypes.JSON(raw)
}
