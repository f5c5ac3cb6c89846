package db

import (
	"context"

	"it_inventory/apperr"
	"it_inventory/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const duplicateDepartmentMsg = "Department name already exists"

func (r *Repo) ListDepartments(ctx context.Context, activeOnly bool) ([]models.Department, error) {
	q := r.DB.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	out := []models.Department{}
	err := q.Find(&out).Error
	return out, err
}

func (r *Repo) FindDepartment(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := r.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Department not found")
	}
	return &d, nil
}

func (r *Repo) CreateDepartment(ctx context.Context, d *models.Department) error {
	d.ID = uuid.NewString()
	return conflict(r.DB.WithContext(ctx).Create(d).Error, apperr.CodeDuplicateName, duplicateDepartmentMsg)
}

func (r *Repo) UpdateDepartment(ctx context.Context, id string, mutate func(*models.Department) error) (*models.Department, error) {
	var d models.Department
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&d, "id = ?", id).Error; err != nil {
			return notFound(err, "Department not found")
		}
		if err := mutate(&d); err != nil {
			return err
		}
		err := tx.Model(&d).Select("name", "description", "head_name", "is_active").Updates(&d).Error
		return conflict(err, apperr.CodeDuplicateName, duplicateDepartmentMsg)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDepartment removes the reference entry only; assets keep their
// free-text department.
func (r *Repo) DeleteDepartment(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Department{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Department not found")
	}
	return nil
}
