package controllers

import (
	"net/http"

	"it_inventory/app"
	"it_inventory/db"
	"it_inventory/input"
	"it_inventory/models"

	"github.com/gin-gonic/gin"
)

const recentBorrowsShown = 10

type InventoryController struct{ *Srv }

func NewInventoryController(s *Srv) *InventoryController { return &InventoryController{s} }

var inventoryFilters = []string{"department", "status", "pcType", "userStatus", "windowsVersion", "isBorrowed"}

// GET /api/inventory
func (ic *InventoryController) List(c *gin.Context) {
	p, err := listParams(c, inventoryFilters...)
	if err != nil {
		ic.fail(c, err)
		return
	}
	page, err := ic.Repo.ListInventory(c.Request.Context(), p)
	if err != nil {
		ic.fail(c, err)
		return
	}
	ok(c, app.H{"inventory": page.Items, "pagination": page.Pagination})
}

type inventoryDetail struct {
	*models.Inventory
	BorrowRecords []models.BorrowRecord `json:"borrowRecords"`
}

// GET /api/inventory/:id includes the latest borrow records.
func (ic *InventoryController) Get(c *gin.Context) {
	ctx := c.Request.Context()
	inv, err := ic.Repo.FindInventoryByID(ctx, c.Param("id"))
	if err != nil {
		ic.fail(c, err)
		return
	}
	recent, err := ic.Repo.RecentBorrows(ctx, inv.ID, recentBorrowsShown)
	if err != nil {
		ic.fail(c, err)
		return
	}
	ok(c, inventoryDetail{Inventory: inv, BorrowRecords: recent})
}

// POST /api/inventory
func (ic *InventoryController) Create(c *gin.Context) {
	var req input.InventoryRequest
	if !ic.bind(c, &req) {
		return
	}
	inv, err := input.NewInventory(req)
	if err != nil {
		ic.fail(c, err)
		return
	}
	if err := ic.Repo.CreateInventory(c.Request.Context(), inv); err != nil {
		ic.fail(c, err)
		return
	}
	okMsg(c, http.StatusCreated, "Inventory item created successfully", inv)
}

// PUT /api/inventory/:id
func (ic *InventoryController) Update(c *gin.Context) {
	var req input.InventoryRequest
	if !ic.bind(c, &req) {
		return
	}
	inv, err := ic.Repo.UpdateInventory(c.Request.Context(), c.Param("id"), func(inv *models.Inventory) error {
		return input.ApplyInventoryUpdate(inv, req)
	})
	if err != nil {
		ic.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Inventory item updated successfully", inv)
}

// DELETE /api/inventory/:id
func (ic *InventoryController) Delete(c *gin.Context) {
	if err := ic.Repo.DeleteInventory(c.Request.Context(), c.Param("id")); err != nil {
		ic.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Inventory item deleted successfully", nil)
}

// GET /api/inventory/departments
func (ic *InventoryController) Departments(c *gin.Context) {
	names, err := ic.Repo.Departments(c.Request.Context())
	if err != nil {
		ic.fail(c, err)
		return
	}
	ok(c, names)
}

// GET /api/inventory/statistics
func (ic *InventoryController) Statistics(c *gin.Context) {
	stats, err := ic.Repo.InventoryStats(c.Request.Context())
	if err != nil {
		ic.fail(c, err)
		return
	}
	ok(c, stats)
}

type bulkImportRequest struct {
	Items []input.InventoryRequest `json:"items"`
}

func importLabel(req input.InventoryRequest) string {
	for _, s := range []*string{req.SerialNumber, req.FullName} {
		if v := input.Optional(s); v != nil {
			return *v
		}
	}
	return "Unknown"
}

// POST /api/inventory/bulk-import {items: [...]}; each item succeeds or fails
// on its own.
func (ic *InventoryController) BulkImport(c *gin.Context) {
	var req bulkImportRequest
	if !ic.bind(c, &req) {
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"success": false, "message": "Items array is required"})
		return
	}
	items := make([]db.ImportItem, len(req.Items))
	for i, r := range req.Items {
		inv, err := input.NewInventory(r)
		items[i] = db.ImportItem{Label: importLabel(r), Inventory: inv, Err: err}
	}
	res := ic.Repo.ImportInventory(c.Request.Context(), items)
	okMsg(c, http.StatusOK, "Bulk import completed", res)
}
