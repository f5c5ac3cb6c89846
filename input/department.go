package input

import "it_inventory/models"

type DepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	HeadName    *string `json:"headName"`
	IsActive    *bool   `json:"isActive"`
}

func NewDepartment(req DepartmentRequest) (*models.Department, error) {
	var p problems
	d := &models.Department{
		Name:        p.required("name", req.Name),
		Description: Optional(req.Description),
		HeadName:    Optional(req.HeadName),
		IsActive:    true,
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	return d, p.err()
}

func ApplyDepartmentUpdate(d *models.Department, req DepartmentRequest) error {
	var p problems
	if set(req.Name) {
		d.Name = p.required("name", req.Name)
	}
	if set(req.Description) {
		d.Description = Optional(req.Description)
	}
	if set(req.HeadName) {
		d.HeadName = Optional(req.HeadName)
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	return p.err()
}
