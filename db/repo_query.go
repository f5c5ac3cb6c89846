package db

import (
	"context"
	"fmt"
	"math"
	"strings"

	"it_inventory/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams is a paged, filtered, sorted list request. Filters are keyed by
// the API field name; unknown keys are ignored and unknown values simply match
// nothing.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	Filters   map[string]string
	StartDate *models.Date
	EndDate   *models.Date
	SortBy    string
	SortOrder string
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type filterKind int

const (
	filterString filterKind = iota
	filterBool
)

type filterCol struct {
	column string
	kind   filterKind
}

// listSpec describes how one entity is searched, filtered and sorted.
type listSpec struct {
	searchColumns []string
	// searchVia, when set, applies searchColumns to the referenced inventory
	// row instead of the entity's own columns.
	searchVia  string
	filters    map[string]filterCol
	dateColumn string
	sorts      map[string]string
	preload    func(*gorm.DB) *gorm.DB
}

var inventorySearchColumns = []string{"full_name", "pc_name", "serial_number", "department", "remarks"}

var inventoryList = listSpec{
	searchColumns: inventorySearchColumns,
	filters: map[string]filterCol{
		"department":     {"department", filterString},
		"status":         {"status", filterString},
		"pcType":         {"pc_type", filterString},
		"userStatus":     {"user_status", filterString},
		"windowsVersion": {"windows_version", filterString},
		"isBorrowed":     {"is_borrowed", filterBool},
	},
	dateColumn: "created_at",
	sorts: map[string]string{
		"createdAt":    "created_at",
		"updatedAt":    "updated_at",
		"fullName":     "full_name",
		"department":   "department",
		"pcName":       "pc_name",
		"pcType":       "pc_type",
		"status":       "status",
		"serialNumber": "serial_number",
	},
	preload: func(q *gorm.DB) *gorm.DB { return q.Preload("AssignedUser") },
}

var borrowList = listSpec{
	searchColumns: []string{"borrower_name", "borrower_department"},
	filters: map[string]filterCol{
		"status":      {"status", filterString},
		"department":  {"borrower_department", filterString},
		"inventoryId": {"inventory_id", filterString},
		"borrowerId":  {"borrower_id", filterString},
	},
	dateColumn: "borrow_date",
	sorts: map[string]string{
		"createdAt":          "created_at",
		"borrowDate":         "borrow_date",
		"expectedReturnDate": "expected_return_date",
		"actualReturnDate":   "actual_return_date",
		"borrowerName":       "borrower_name",
		"status":             "status",
	},
	preload: func(q *gorm.DB) *gorm.DB {
		return q.Preload("Inventory").Preload("Borrower").Preload("Approver")
	},
}

var disposalList = listSpec{
	searchColumns: inventorySearchColumns[:4],
	searchVia:     models.InventoryTable,
	filters: map[string]filterCol{
		"status":         {"status", filterString},
		"disposalMethod": {"disposal_method", filterString},
		"inventoryId":    {"inventory_id", filterString},
	},
	dateColumn: "disposal_date",
	sorts: map[string]string{
		"createdAt":      "created_at",
		"disposalDate":   "disposal_date",
		"disposalMethod": "disposal_method",
		"status":         "status",
		"completedAt":    "completed_at",
	},
	preload: preloadDisposal,
}

// likePattern lower-cases and escapes s for a LIKE ... ESCAPE '!' match.
func likePattern(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%", true
}

func searchClause(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", c)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func likeArgs(like string, n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = like
	}
	return args
}

// applyFilters adds search, exact-match and date-range predicates to q.
func (s listSpec) applyFilters(db *gorm.DB, q *gorm.DB, p ListParams) *gorm.DB {
	if like, ok := likePattern(p.Search); ok {
		cond := searchClause(s.searchColumns)
		args := likeArgs(like, len(s.searchColumns))
		if s.searchVia != "" {
			sub := db.Table(s.searchVia).Select("id").Where(cond, args...)
			q = q.Where("inventory_id IN (?)", sub)
		} else {
			q = q.Where(cond, args...)
		}
	}
	for key, val := range p.Filters {
		f, ok := s.filters[key]
		if !ok || val == "" {
			continue
		}
		switch f.kind {
		case filterBool:
			switch val {
			case "true":
				q = q.Where(f.column+" = ?", true)
			case "false":
				q = q.Where(f.column+" = ?", false)
			default:
				q = q.Where("1 = 0")
			}
		default:
			q = q.Where(f.column+" = ?", val)
		}
	}
	// Both bounds are inclusive calendar days.
	if p.StartDate != nil {
		q = q.Where(s.dateColumn+" >= ?", *p.StartDate)
	}
	if p.EndDate != nil {
		q = q.Where(s.dateColumn+" < ?", p.EndDate.AddDays(1))
	}
	return q
}

func (s listSpec) order(q *gorm.DB, p ListParams) *gorm.DB {
	col, ok := s.sorts[p.SortBy]
	if !ok {
		col = "created_at"
	}
	desc := !strings.EqualFold(p.SortOrder, "ASC")
	if !ok {
		desc = true
	}
	return q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
}

func list[T any](ctx context.Context, db *gorm.DB, spec listSpec, p ListParams) (Page[T], error) {
	p.normalize()
	var model T
	q := spec.applyFilters(db, db.WithContext(ctx).Model(&model), p).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	items := make([]T, 0, p.Limit)
	find := spec.order(q, p).Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
	if spec.preload != nil {
		find = spec.preload(find)
	}
	if err := find.Find(&items).Error; err != nil {
		return Page[T]{}, err
	}
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Total:      total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
		},
	}, nil
}

func (r *Repo) ListInventory(ctx context.Context, p ListParams) (Page[models.Inventory], error) {
	return list[models.Inventory](ctx, r.DB, inventoryList, p)
}

func (r *Repo) ListBorrowRecords(ctx context.Context, p ListParams) (Page[models.BorrowRecord], error) {
	return list[models.BorrowRecord](ctx, r.DB, borrowList, p)
}

func (r *Repo) ListDisposals(ctx context.Context, p ListParams) (Page[models.Disposal], error) {
	return list[models.Disposal](ctx, r.DB, disposalList, p)
}

// all returns every row matching p without paging, ordered by orderBy. Reports
// use it for their item lists and CSV bodies.
func all[T any](ctx context.Context, db *gorm.DB, spec listSpec, p ListParams, orderBy ...string) ([]T, error) {
	var model T
	q := spec.applyFilters(db, db.WithContext(ctx).Model(&model), p)
	for _, o := range orderBy {
		q = q.Order(o)
	}
	if spec.preload != nil {
		q = spec.preload(q)
	}
	var out []T
	err := q.Find(&out).Error
	return out, err
}
