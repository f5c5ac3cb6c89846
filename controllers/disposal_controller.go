package controllers

import (
	"net/http"

	"it_inventory/app"
	"it_inventory/input"

	"github.com/gin-gonic/gin"
)

type DisposalController struct{ *Srv }

func NewDisposalController(s *Srv) *DisposalController { return &DisposalController{s} }

var disposalFilters = []string{"status", "disposalMethod", "inventoryId"}

// GET /api/disposal
func (dc *DisposalController) List(c *gin.Context) {
	p, err := listParams(c, disposalFilters...)
	if err != nil {
		dc.fail(c, err)
		return
	}
	page, err := dc.Repo.ListDisposals(c.Request.Context(), p)
	if err != nil {
		dc.fail(c, err)
		return
	}
	ok(c, app.H{"disposals": page.Items, "pagination": page.Pagination})
}

// GET /api/disposal/:id
func (dc *DisposalController) Get(c *gin.Context) {
	d, err := dc.Repo.FindDisposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		dc.fail(c, err)
		return
	}
	ok(c, d)
}

// POST /api/disposal opens a Pending disposal request.
func (dc *DisposalController) Create(c *gin.Context) {
	var req input.DisposalRequest
	if !dc.bind(c, &req) {
		return
	}
	cmd, err := input.Disposal(req, app.CurrentUserID(c))
	if err != nil {
		dc.fail(c, err)
		return
	}
	d, err := dc.Repo.RequestDisposal(c.Request.Context(), cmd)
	if err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusCreated, "Disposal request created successfully", d)
}

// PUT /api/disposal/:id edits a Pending request.
func (dc *DisposalController) Update(c *gin.Context) {
	var req input.DisposalRequest
	if !dc.bind(c, &req) {
		return
	}
	patch, err := input.DisposalUpdate(req)
	if err != nil {
		dc.fail(c, err)
		return
	}
	d, err := dc.Repo.UpdateDisposal(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Disposal updated successfully", d)
}

// POST /api/disposal/:id/approve
func (dc *DisposalController) Approve(c *gin.Context) {
	d, err := dc.Repo.ApproveDisposal(c.Request.Context(), c.Param("id"), app.CurrentUserID(c))
	if err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Disposal approved successfully", d)
}

// POST /api/disposal/:id/complete retires the asset.
func (dc *DisposalController) Complete(c *gin.Context) {
	var req input.CompleteRequest
	if c.Request.ContentLength > 0 && !dc.bind(c, &req) {
		return
	}
	d, err := dc.Repo.CompleteDisposal(c.Request.Context(), input.Complete(c.Param("id"), req, app.CurrentUserID(c)))
	if err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Disposal completed successfully", d)
}

// POST /api/disposal/:id/cancel
func (dc *DisposalController) Cancel(c *gin.Context) {
	var req input.CancelRequest
	if c.Request.ContentLength > 0 && !dc.bind(c, &req) {
		return
	}
	d, err := dc.Repo.CancelDisposal(c.Request.Context(), input.Cancel(c.Param("id"), req))
	if err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Disposal cancelled successfully", d)
}

// DELETE /api/disposal/:id
func (dc *DisposalController) Delete(c *gin.Context) {
	if err := dc.Repo.DeleteDisposal(c.Request.Context(), c.Param("id")); err != nil {
		dc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Disposal record deleted successfully", nil)
}

// GET /api/disposal/statistics
func (dc *DisposalController) Statistics(c *gin.Context) {
	stats, err := dc.Repo.DisposalStats(c.Request.Context())
	if err != nil {
		dc.fail(c, err)
		return
	}
	ok(c, stats)
}

// GET /api/disposal/available-items?search=
func (dc *DisposalController) AvailableItems(c *gin.Context) {
	items, err := dc.Repo.AvailableForDisposal(c.Request.Context(), c.Query("search"))
	if err != nil {
		dc.fail(c, err)
		return
	}
	ok(c, items)
}
