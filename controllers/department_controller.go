package controllers

import (
	"net/http"

	"it_inventory/input"
	"it_inventory/models"

	"github.com/gin-gonic/gin"
)

type DepartmentController struct{ *Srv }

func NewDepartmentController(s *Srv) *DepartmentController { return &DepartmentController{s} }

// GET /api/departments?active=true
func (dc *DepartmentController) List(c *gin.Context) {
	ds, err := dc.Repo.ListDepartments(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		dc.fail(c, err)
		return
	}
	ok(c, ds)
}

func (dc *DepartmentController) Get(c *gin.Context) {
	d, err := dc.Repo.FindDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		dc.fail(c, err)
		return
	}
	ok(c, d)
}

func (dc *DepartmentController) Create(c *gin.Context) {
	var req input.DepartmentRequest
	if !dc.bind(c, &req) {
		return
	}
	d, err := input.NewDepartment(req)
	if err != nil {
		dc.fail(c, err)
		return
	}
	if err := dc.Repo.CreateDepartment(c.Request.Context(), d); err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusCreated, "Department created successfully", d)
}

func (dc *DepartmentController) Update(c *gin.Context) {
	var req input.DepartmentRequest
	if !dc.bind(c, &req) {
		return
	}
	d, err := dc.Repo.UpdateDepartment(c.Request.Context(), c.Param("id"), func(d *models.Department) error {
		return input.ApplyDepartmentUpdate(d, req)
	})
	if err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Department updated successfully", d)
}

func (dc *DepartmentController) Delete(c *gin.Context) {
	if err := dc.Repo.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Department deleted successfully", nil)
}
