package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"it_inventory/app"
	"it_inventory/apperr"
	"it_inventory/export"
	"it_inventory/exportstore"

	"github.com/gin-gonic/gin"
)

const defaultActivityDays = 30

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{s} }

// GET /api/reports/dashboard
func (rc *ReportController) Dashboard(c *gin.Context) {
	d, err := rc.Repo.Dashboard(c.Request.Context())
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, d)
}

// GET /api/reports/inventory?format=csv&archive=true
func (rc *ReportController) Inventory(c *gin.Context) {
	p, err := listParams(c, "department", "status", "pcType")
	if err != nil {
		rc.fail(c, err)
		return
	}
	rep, err := rc.Repo.InventoryReport(c.Request.Context(), p)
	if err != nil {
		rc.fail(c, err)
		return
	}
	if wantsCSV(c) {
		rc.sendCSV(c, "inventory", export.CSV(export.InventoryColumns, rep.Items))
		return
	}
	ok(c, rep)
}

// GET /api/reports/borrow?format=csv&archive=true
func (rc *ReportController) Borrow(c *gin.Context) {
	p, err := listParams(c, "status", "department")
	if err != nil {
		rc.fail(c, err)
		return
	}
	rep, err := rc.Repo.BorrowReport(c.Request.Context(), p)
	if err != nil {
		rc.fail(c, err)
		return
	}
	if wantsCSV(c) {
		rc.sendCSV(c, "borrow", export.CSV(export.BorrowColumns, rep.Records))
		return
	}
	ok(c, rep)
}

// GET /api/reports/disposal?format=csv&archive=true
func (rc *ReportController) Disposal(c *gin.Context) {
	p, err := listParams(c, "status", "disposalMethod")
	if err != nil {
		rc.fail(c, err)
		return
	}
	rep, err := rc.Repo.DisposalReport(c.Request.Context(), p)
	if err != nil {
		rc.fail(c, err)
		return
	}
	if wantsCSV(c) {
		rc.sendCSV(c, "disposal", export.CSV(export.DisposalColumns, rep.Disposals))
		return
	}
	ok(c, rep)
}

// GET /api/reports/departments
func (rc *ReportController) Departments(c *gin.Context) {
	rows, err := rc.Repo.DepartmentReport(c.Request.Context())
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, rows)
}

// GET /api/reports/activity?days=30
func (rc *ReportController) Activity(c *gin.Context) {
	days := queryInt(c, "days", defaultActivityDays)
	if days < 1 || days > maxWindowDays {
		rc.fail(c, apperr.Validationf("days must be between 1 and %d", maxWindowDays))
		return
	}
	rep, err := rc.Repo.ActivityReport(c.Request.Context(), days)
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, rep)
}

// GET /api/reports/exports?prefix=borrow/
func (rc *ReportController) ListExports(c *gin.Context) {
	items, err := rc.Exports.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		rc.fail(c, apperr.Dependency("Export store unavailable", err))
		return
	}
	ok(c, app.H{"driver": rc.Exports.Driver(), "exports": items})
}

// GET /api/reports/exports/*key streams an archived report back.
func (rc *ReportController) DownloadExport(c *gin.Context) {
	key, err := exportstore.CleanKey(trimSlash(c.Param("key")))
	if err != nil {
		rc.fail(c, apperr.Validation("Invalid export key"))
		return
	}
	info, body, err := rc.Exports.Get(c.Request.Context(), key)
	if errors.Is(err, exportstore.ErrNotFound) {
		rc.fail(c, apperr.NotFound("Export not found"))
		return
	}
	if err != nil {
		rc.fail(c, apperr.Dependency("Export store unavailable", err))
		return
	}
	defer body.Close()
	name := info.Metadata["filename"]
	if name == "" {
		name = key
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	if info.Checksum != "" {
		c.Header("X-Checksum-Xxhash64", info.Checksum)
	}
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, nil)
}

func wantsCSV(c *gin.Context) bool { return c.Query("format") == "csv" }

func trimSlash(s string) string {
	for len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	return s
}

// sendCSV writes the export as an attachment, archiving a copy first when
// archive=true. An archive failure does not block the download.
func (rc *ReportController) sendCSV(c *gin.Context, kind string, data []byte) {
	now := rc.Repo.Now()
	name := export.Filename(kind, now)
	if c.Query("archive") == "true" {
		key := exportstore.ReportKey(kind, name, now)
		md := map[string]string{"filename": name, "kind": kind, "requestedBy": app.CurrentUserID(c)}
		info, err := rc.Exports.Put(c.Request.Context(), key, bytes.NewReader(data), export.ContentType, md)
		if err != nil {
			rc.Log.Warn("archiving export failed", "kind", apperr.KindDependencyFailure, "key", key, "err", err)
		} else {
			c.Header("X-Export-Key", info.Key)
		}
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	c.Data(http.StatusOK, export.ContentType, data)
}
