package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"it_inventory/app"
	"it_inventory/apperr"
	"it_inventory/db"
	"it_inventory/models"

	"github.com/gin-gonic/gin"
)

func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err. Typed rejections keep their message; anything else is
// logged and hidden behind a generic 500.
func (s *Srv) fail(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		c.JSON(statusFor(e.Kind), app.H{"success": false, "kind": e.Kind, "code": e.Code, "message": e.Message})
		return
	}
	s.Log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, app.H{"success": false, "message": "Internal server error"})
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, app.H{"success": true, "data": data})
}

func okMsg(c *gin.Context, status int, msg string, data any) {
	body := app.H{"success": true, "message": msg}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// bind decodes the JSON body; a malformed body is a validation error.
func (s *Srv) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.fail(c, apperr.Validationf("Invalid request body: %v", err))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func queryDate(c *gin.Context, key string) (*models.Date, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, apperr.Validationf("%s: %v", key, err)
	}
	return &d, nil
}

// listParams reads page, limit, search, sort, date range and the named
// exact-match filters from the query string.
func listParams(c *gin.Context, filters ...string) (db.ListParams, error) {
	p := db.ListParams{
		Page:      queryInt(c, "page", db.DefaultPage),
		Limit:     queryInt(c, "limit", db.DefaultLimit),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Filters:   map[string]string{},
	}
	for _, f := range filters {
		if v, ok := c.GetQuery(f); ok && v != "" {
			p.Filters[f] = v
		}
	}
	var err error
	if p.StartDate, err = queryDate(c, "startDate"); err != nil {
		return p, err
	}
	if p.EndDate, err = queryDate(c, "endDate"); err != nil {
		return p, err
	}
	return p, nil
}
