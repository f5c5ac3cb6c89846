package controllers

import (
	"fmt"
	"net/http"

	"it_inventory/app"
	"it_inventory/apperr"
	"it_inventory/input"
	"it_inventory/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultUpcomingDays = 7
	defaultReminderDays = 3
	maxWindowDays       = 365
)

type BorrowController struct{ *Srv }

func NewBorrowController(s *Srv) *BorrowController { return &BorrowController{s} }

var borrowFilters = []string{"status", "department", "inventoryId", "borrowerId"}

func windowDays(days int) (int, error) {
	if days < 0 || days > maxWindowDays {
		return 0, apperr.Validationf("days must be between 0 and %d", maxWindowDays)
	}
	return days, nil
}

// GET /api/borrow
func (bc *BorrowController) List(c *gin.Context) {
	p, err := listParams(c, borrowFilters...)
	if err != nil {
		bc.fail(c, err)
		return
	}
	page, err := bc.Repo.ListBorrowRecords(c.Request.Context(), p)
	if err != nil {
		bc.fail(c, err)
		return
	}
	ok(c, app.H{"records": page.Items, "pagination": page.Pagination})
}

// GET /api/borrow/:id
func (bc *BorrowController) Get(c *gin.Context) {
	rec, err := bc.Repo.FindBorrowRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		bc.fail(c, err)
		return
	}
	ok(c, rec)
}

// POST /api/borrow releases an asset and mails the borrower.
func (bc *BorrowController) Create(c *gin.Context) {
	var req input.ReleaseRequest
	if !bc.bind(c, &req) {
		return
	}
	cmd, err := input.Release(req, app.CurrentUserID(c))
	if err != nil {
		bc.fail(c, err)
		return
	}
	rec, err := bc.Repo.Release(c.Request.Context(), cmd)
	if err != nil {
		bc.fail(c, err)
		return
	}
	bc.Notifier.BorrowConfirmed(rec)
	okMsg(c, http.StatusCreated, "Item borrowed successfully", rec)
}

// PUT /api/borrow/:id/return
func (bc *BorrowController) Return(c *gin.Context) {
	var req input.ReturnRequest
	if c.Request.ContentLength > 0 && !bc.bind(c, &req) {
		return
	}
	cmd, err := input.Return(c.Param("id"), req, app.CurrentUserID(c))
	if err != nil {
		bc.fail(c, err)
		return
	}
	rec, err := bc.Repo.ProcessReturn(c.Request.Context(), cmd)
	if err != nil {
		bc.fail(c, err)
		return
	}
	bc.Notifier.ReturnConfirmed(rec)
	okMsg(c, http.StatusOK, "Item returned successfully", rec)
}

// PUT /api/borrow/:id/extend
func (bc *BorrowController) Extend(c *gin.Context) {
	var req input.ExtendRequest
	if !bc.bind(c, &req) {
		return
	}
	cmd, err := input.Extend(c.Param("id"), req)
	if err != nil {
		bc.fail(c, err)
		return
	}
	rec, err := bc.Repo.ExtendBorrow(c.Request.Context(), cmd)
	if err != nil {
		bc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Borrow period extended successfully", rec)
}

// GET /api/borrow/overdue is read-only; it does not run the sweep.
func (bc *BorrowController) Overdue(c *gin.Context) {
	recs, err := bc.Repo.ListOverdue(c.Request.Context())
	if err != nil {
		bc.fail(c, err)
		return
	}
	ok(c, recs)
}

// GET /api/borrow/upcoming?days=7
func (bc *BorrowController) Upcoming(c *gin.Context) {
	days, err := windowDays(queryInt(c, "days", defaultUpcomingDays))
	if err != nil {
		bc.fail(c, err)
		return
	}
	recs, err := bc.Repo.ListDueWithin(c.Request.Context(), days)
	if err != nil {
		bc.fail(c, err)
		return
	}
	ok(c, recs)
}

type reminderRequest struct {
	Days *int `json:"days"`
}

// POST /api/borrow/send-reminders {days?}. Mail goes out synchronously so the
// response can report how many were delivered.
func (bc *BorrowController) SendReminders(c *gin.Context) {
	var req reminderRequest
	if c.Request.ContentLength > 0 && !bc.bind(c, &req) {
		return
	}
	days := defaultReminderDays
	if req.Days != nil {
		days = *req.Days
	}
	days, err := windowDays(days)
	if err != nil {
		bc.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	recs, err := bc.Repo.ListReminderTargets(ctx, days)
	if err != nil {
		bc.fail(c, err)
		return
	}
	res := bc.Notifier.SendReminders(ctx, recs)
	okMsg(c, http.StatusOK, fmt.Sprintf("Sent %d reminder emails", res.EmailsSent), res)
}

// POST /api/borrow/sweep marks stale borrows Overdue now instead of waiting
// for the scheduled run.
func (bc *BorrowController) Sweep(c *gin.Context) {
	n, err := bc.Repo.SweepOverdue(c.Request.Context(), models.DateOf(bc.Repo.Now()))
	if err != nil {
		bc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, fmt.Sprintf("Marked %d records overdue", n), app.H{"transitioned": n})
}

// GET /api/borrow/statistics?days=7
func (bc *BorrowController) Statistics(c *gin.Context) {
	days, err := windowDays(queryInt(c, "days", defaultUpcomingDays))
	if err != nil {
		bc.fail(c, err)
		return
	}
	stats, err := bc.Repo.BorrowStats(c.Request.Context(), days)
	if err != nil {
		bc.fail(c, err)
		return
	}
	ok(c, stats)
}

// DELETE /api/borrow/:id
func (bc *BorrowController) Delete(c *gin.Context) {
	if err := bc.Repo.DeleteBorrowRecord(c.Request.Context(), c.Param("id")); err != nil {
		bc.fail(c, err)
		return
	}
	okMsg(c, http.StatusOK, "Borrow record deleted successfully", nil)
}
