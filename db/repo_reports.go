package db

import (
	"context"
	"fmt"
	"time"

	"it_inventory/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Aggregates below are read-only. The overdue sweep is the only writer of
// Overdue and never runs from here.

const (
	UpcomingWindowDays = 7
	TrendMonths        = 12
	ActivityLimit      = 50
	RecentCompletion   = 30 * 24 * time.Hour
)

type groupRow struct {
	Grp *string
	N   int64
}

// countBy groups q by column. NULL groups are dropped.
func countBy(q *gorm.DB, column string) (map[string]int64, error) {
	var rows []groupRow
	if err := q.Select(column + " AS grp, COUNT(*) AS n").Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		if r.Grp != nil {
			out[*r.Grp] = r.N
		}
	}
	return out, nil
}

func countWhere(q *gorm.DB, query string, args ...any) (int64, error) {
	var n int64
	err := q.Where(query, args...).Count(&n).Error
	return n, err
}

// sumWhere adds up column over matching rows; NULLs count as zero.
func sumWhere(q *gorm.DB, column, query string, args ...any) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := q.Where(query, args...).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).
		Row().Scan(&total)
	return total, err
}

func caseSum(alias, cond string) string {
	return fmt.Sprintf("COALESCE(SUM(CASE WHEN %s THEN 1 ELSE 0 END), 0) AS %s", cond, alias)
}

// inventoryTallies is the shared column list of the inventory overview and
// the per-department report.
func inventoryTallies() (string, []any) {
	sel := "COUNT(*) AS total, " +
		caseSum("active", "status = ?") + ", " +
		caseSum("available", "status = ?") + ", " +
		caseSum("maintenance", "status = ?") + ", " +
		caseSum("transfer", "status = ?") + ", " +
		caseSum("borrowed", "is_borrowed = ?") + ", " +
		caseSum("laptops", "pc_type = ?") + ", " +
		caseSum("desktops", "pc_type = ?")
	args := []any{
		models.InventoryActiveUser, models.InventoryAvailable, models.InventoryMaintenance,
		models.InventoryTransfer, true, models.PCLaptop, models.PCDesktop,
	}
	return sel, args
}

type inventoryTotals struct {
	Department  string
	Total       int64
	Active      int64
	Available   int64
	Maintenance int64
	Transfer    int64
	Borrowed    int64
	Laptops     int64
	Desktops    int64
}

type InventoryOverview struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Available   int64 `json:"available"`
	Maintenance int64 `json:"maintenance"`
	Transfer    int64 `json:"transfer"`
	Borrowed    int64 `json:"borrowed"`
}

type PCTypeCounts struct {
	Laptops  int64 `json:"laptops"`
	Desktops int64 `json:"desktops"`
}

type InventoryStats struct {
	Overview     InventoryOverview `json:"overview"`
	PCTypes      PCTypeCounts      `json:"pcTypes"`
	ByPCType     map[string]int64  `json:"byPcType"`
	ByDepartment map[string]int64  `json:"byDepartment"`
	ByStatus     map[string]int64  `json:"byStatus"`
}

func (r *Repo) inventoryTotals(ctx context.Context) (inventoryTotals, error) {
	sel, args := inventoryTallies()
	var t inventoryTotals
	err := r.DB.WithContext(ctx).Model(&models.Inventory{}).Select(sel, args...).Scan(&t).Error
	return t, err
}

func (r *Repo) InventoryStats(ctx context.Context) (*InventoryStats, error) {
	t, err := r.inventoryTotals(ctx)
	if err != nil {
		return nil, err
	}
	byDept, err := countBy(r.DB.WithContext(ctx).Model(&models.Inventory{}), "department")
	if err != nil {
		return nil, err
	}
	byStatus, err := countBy(r.DB.WithContext(ctx).Model(&models.Inventory{}), "status")
	if err != nil {
		return nil, err
	}
	byPCType, err := countBy(r.DB.WithContext(ctx).Model(&models.Inventory{}), "pc_type")
	if err != nil {
		return nil, err
	}
	return &InventoryStats{
		Overview: InventoryOverview{
			Total: t.Total, Active: t.Active, Available: t.Available,
			Maintenance: t.Maintenance, Transfer: t.Transfer, Borrowed: t.Borrowed,
		},
		PCTypes:      PCTypeCounts{Laptops: t.Laptops, Desktops: t.Desktops},
		ByPCType:     byPCType,
		ByDepartment: byDept,
		ByStatus:     byStatus,
	}, nil
}

type BorrowOverview struct {
	TotalBorrowed   int64 `json:"totalBorrowed"`
	TotalReturned   int64 `json:"totalReturned"`
	TotalOverdue    int64 `json:"totalOverdue"`
	UpcomingReturns int64 `json:"upcomingReturns"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type BorrowStats struct {
	Overview      BorrowOverview `json:"overview"`
	MonthlyTrends []MonthCount   `json:"monthlyTrends"`
}

// UpcomingReturns counts active records due in [today, today+days].
func (r *Repo) UpcomingReturns(ctx context.Context, days int) (int64, error) {
	today := r.today()
	return countWhere(r.DB.WithContext(ctx).Model(&models.BorrowRecord{}),
		"status IN ? AND expected_return_date >= ? AND expected_return_date <= ?",
		models.Strings(models.ActiveBorrowStatuses), today, today.AddDays(days))
}

func (r *Repo) BorrowStats(ctx context.Context, upcomingDays int) (*BorrowStats, error) {
	if upcomingDays <= 0 {
		upcomingDays = UpcomingWindowDays
	}
	records := func() *gorm.DB { return r.DB.WithContext(ctx).Model(&models.BorrowRecord{}) }

	var o BorrowOverview
	var err error
	if o.TotalBorrowed, err = countWhere(records(), "status IN ?", models.Strings(models.ActiveBorrowStatuses)); err != nil {
		return nil, err
	}
	if o.TotalReturned, err = countWhere(records(), "status = ?", models.BorrowReturned); err != nil {
		return nil, err
	}
	if o.TotalOverdue, err = countWhere(records(), "status = ?", models.BorrowOverdue); err != nil {
		return nil, err
	}
	if o.UpcomingReturns, err = r.UpcomingReturns(ctx, upcomingDays); err != nil {
		return nil, err
	}
	trend, err := r.MonthlyBorrowTrend(ctx, TrendMonths)
	if err != nil {
		return nil, err
	}
	return &BorrowStats{Overview: o, MonthlyTrends: trend}, nil
}

// monthExpr buckets a date column into YYYY-MM for the connected dialect.
func monthExpr(db *gorm.DB, column string) string {
	switch db.Dialector.Name() {
	case DriverPostgres:
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
	case DriverMySQL:
		return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m')", column)
	default:
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
	}
}

// MonthlyBorrowTrend counts borrows per calendar month of borrow_date, latest
// months first.
func (r *Repo) MonthlyBorrowTrend(ctx context.Context, months int) ([]MonthCount, error) {
	expr := monthExpr(r.DB, "borrow_date")
	out := []MonthCount{}
	err := r.DB.WithContext(ctx).Model(&models.BorrowRecord{}).
		Select(expr + " AS month, COUNT(*) AS count").
		Group(expr).
		Order(expr + " DESC").
		Limit(months).
		Scan(&out).Error
	return out, err
}

type DisposalOverview struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

type DisposalStats struct {
	Overview          DisposalOverview `json:"overview"`
	ByMethod          map[string]int64 `json:"byMethod"`
	TotalSaleValue    decimal.Decimal  `json:"totalSaleValue"`
	RecentCompletions int64            `json:"recentCompletions"`
}

func priceCarryingMethods() []string {
	var out []string
	for _, m := range models.DisposalMethods {
		if m.CarriesPrice() {
			out = append(out, string(m))
		}
	}
	return out
}

func (r *Repo) DisposalStats(ctx context.Context) (*DisposalStats, error) {
	disposals := func() *gorm.DB { return r.DB.WithContext(ctx).Model(&models.Disposal{}) }

	byStatus, err := countBy(disposals(), "status")
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byStatus {
		total += n
	}
	byMethod, err := countBy(disposals().Where("status = ?", models.DisposalCompleted), "disposal_method")
	if err != nil {
		return nil, err
	}
	sale, err := sumWhere(disposals(), "sale_price", "status = ? AND disposal_method IN ?",
		models.DisposalCompleted, priceCarryingMethods())
	if err != nil {
		return nil, err
	}
	recent, err := countWhere(disposals(), "status = ? AND completed_at >= ?",
		models.DisposalCompleted, r.Now().Add(-RecentCompletion))
	if err != nil {
		return nil, err
	}
	return &DisposalStats{
		Overview: DisposalOverview{
			Total:     total,
			Pending:   byStatus[string(models.DisposalPending)],
			Approved:  byStatus[string(models.DisposalApproved)],
			Completed: byStatus[string(models.DisposalCompleted)],
			Cancelled: byStatus[string(models.DisposalCancelled)],
		},
		ByMethod:          byMethod,
		TotalSaleValue:    sale,
		RecentCompletions: recent,
	}, nil
}

type DashboardBorrows struct {
	Active          int64 `json:"active"`
	Overdue         int64 `json:"overdue"`
	UpcomingReturns int64 `json:"upcomingReturns"`
}

type Dashboard struct {
	Inventory      InventoryOverview     `json:"inventory"`
	PCTypes        PCTypeCounts          `json:"pcTypes"`
	Borrows        DashboardBorrows      `json:"borrows"`
	RecentActivity []models.BorrowRecord `json:"recentActivity"`
}

func (r *Repo) Dashboard(ctx context.Context) (*Dashboard, error) {
	t, err := r.inventoryTotals(ctx)
	if err != nil {
		return nil, err
	}
	records := func() *gorm.DB { return r.DB.WithContext(ctx).Model(&models.BorrowRecord{}) }

	var b DashboardBorrows
	if b.Active, err = countWhere(records(), "status IN ?",
		[]string{string(models.BorrowBorrowed), string(models.BorrowExtended)}); err != nil {
		return nil, err
	}
	if b.Overdue, err = countWhere(records(), "status = ?", models.BorrowOverdue); err != nil {
		return nil, err
	}
	if b.UpcomingReturns, err = r.UpcomingReturns(ctx, UpcomingWindowDays); err != nil {
		return nil, err
	}

	recent := []models.BorrowRecord{}
	if err := r.DB.WithContext(ctx).Preload("Inventory").
		Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return nil, err
	}
	return &Dashboard{
		Inventory: InventoryOverview{
			Total: t.Total, Active: t.Active, Available: t.Available,
			Maintenance: t.Maintenance, Transfer: t.Transfer, Borrowed: t.Borrowed,
		},
		PCTypes:        PCTypeCounts{Laptops: t.Laptops, Desktops: t.Desktops},
		Borrows:        b,
		RecentActivity: recent,
	}, nil
}

type DepartmentRow struct {
	Department       string `json:"department"`
	TotalItems       int64  `json:"totalItems"`
	ActiveItems      int64  `json:"activeItems"`
	AvailableItems   int64  `json:"availableItems"`
	MaintenanceItems int64  `json:"maintenanceItems"`
	Laptops          int64  `json:"laptops"`
	Desktops         int64  `json:"desktops"`
	Borrowed         int64  `json:"borrowed"`
}

// DepartmentReport breaks the inventory down per department, by name.
func (r *Repo) DepartmentReport(ctx context.Context) ([]DepartmentRow, error) {
	sel, args := inventoryTallies()
	var rows []inventoryTotals
	if err := r.DB.WithContext(ctx).Model(&models.Inventory{}).
		Select("department, "+sel, args...).
		Group("department").
		Order("department ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]DepartmentRow, len(rows))
	for i, t := range rows {
		out[i] = DepartmentRow{
			Department:       t.Department,
			TotalItems:       t.Total,
			ActiveItems:      t.Active,
			AvailableItems:   t.Available,
			MaintenanceItems: t.Maintenance,
			Laptops:          t.Laptops,
			Desktops:         t.Desktops,
			Borrowed:         t.Borrowed,
		}
	}
	return out, nil
}

type InventorySummary struct {
	TotalItems       int            `json:"totalItems"`
	ByStatus         map[string]int `json:"byStatus"`
	ByPCType         map[string]int `json:"byPcType"`
	ByDepartment     map[string]int `json:"byDepartment"`
	ByWindowsVersion map[string]int `json:"byWindowsVersion"`
}

type InventoryReport struct {
	Summary     InventorySummary   `json:"summary"`
	Items       []models.Inventory `json:"items"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

func SummarizeInventory(items []models.Inventory) InventorySummary {
	s := InventorySummary{
		TotalItems:       len(items),
		ByStatus:         map[string]int{},
		ByPCType:         map[string]int{},
		ByDepartment:     map[string]int{},
		ByWindowsVersion: map[string]int{},
	}
	for _, it := range items {
		s.ByStatus[string(it.Status)]++
		s.ByPCType[string(it.PCType)]++
		s.ByDepartment[it.Department]++
		if it.WindowsVersion != nil && *it.WindowsVersion != "" {
			s.ByWindowsVersion[string(*it.WindowsVersion)]++
		}
	}
	return s
}

// InventoryReport lists every matching item, by department then owner name.
func (r *Repo) InventoryReport(ctx context.Context, p ListParams) (*InventoryReport, error) {
	items, err := all[models.Inventory](ctx, r.DB, inventoryList, p, "department ASC", "full_name ASC")
	if err != nil {
		return nil, err
	}
	return &InventoryReport{Summary: SummarizeInventory(items), Items: items, GeneratedAt: r.Now()}, nil
}

type BorrowSummary struct {
	TotalRecords  int            `json:"totalRecords"`
	ByStatus      map[string]int `json:"byStatus"`
	TotalBorrowed int            `json:"totalBorrowed"`
	TotalReturned int            `json:"totalReturned"`
	TotalOverdue  int            `json:"totalOverdue"`
	TotalExtended int            `json:"totalExtended"`
}

type BorrowReport struct {
	Summary     BorrowSummary         `json:"summary"`
	Records     []models.BorrowRecord `json:"records"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

func SummarizeBorrows(records []models.BorrowRecord) BorrowSummary {
	s := BorrowSummary{TotalRecords: len(records), ByStatus: map[string]int{}}
	for _, rec := range records {
		s.ByStatus[string(rec.Status)]++
	}
	s.TotalBorrowed = s.ByStatus[string(models.BorrowBorrowed)]
	s.TotalReturned = s.ByStatus[string(models.BorrowReturned)]
	s.TotalOverdue = s.ByStatus[string(models.BorrowOverdue)]
	s.TotalExtended = s.ByStatus[string(models.BorrowExtended)]
	return s
}

// BorrowReport lists every matching record, latest borrow date first.
func (r *Repo) BorrowReport(ctx context.Context, p ListParams) (*BorrowReport, error) {
	records, err := all[models.BorrowRecord](ctx, r.DB, borrowList, p, "borrow_date DESC", "created_at DESC")
	if err != nil {
		return nil, err
	}
	return &BorrowReport{Summary: SummarizeBorrows(records), Records: records, GeneratedAt: r.Now()}, nil
}

type DisposalSummary struct {
	TotalRecords   int             `json:"totalRecords"`
	ByStatus       map[string]int  `json:"byStatus"`
	ByMethod       map[string]int  `json:"byMethod"`
	TotalSaleValue decimal.Decimal `json:"totalSaleValue"`
}

type DisposalReport struct {
	Summary     DisposalSummary   `json:"summary"`
	Disposals   []models.Disposal `json:"disposals"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

func SummarizeDisposals(ds []models.Disposal) DisposalSummary {
	s := DisposalSummary{
		TotalRecords:   len(ds),
		ByStatus:       map[string]int{},
		ByMethod:       map[string]int{},
		TotalSaleValue: decimal.Zero,
	}
	for _, d := range ds {
		s.ByStatus[string(d.Status)]++
		s.ByMethod[string(d.DisposalMethod)]++
		if d.Status == models.DisposalCompleted && d.DisposalMethod.CarriesPrice() && d.SalePrice.Valid {
			s.TotalSaleValue = s.TotalSaleValue.Add(d.SalePrice.Decimal)
		}
	}
	return s
}

// DisposalReport lists every matching disposal, latest disposal date first.
func (r *Repo) DisposalReport(ctx context.Context, p ListParams) (*DisposalReport, error) {
	ds, err := all[models.Disposal](ctx, r.DB, disposalList, p, "disposal_date DESC", "created_at DESC")
	if err != nil {
		return nil, err
	}
	return &DisposalReport{Summary: SummarizeDisposals(ds), Disposals: ds, GeneratedAt: r.Now()}, nil
}

type ActivitySection[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

func section[T any](items []T) ActivitySection[T] {
	return ActivitySection[T]{Count: len(items), Items: items}
}

type ActivityReport struct {
	Period          string                               `json:"period"`
	RecentAdditions ActivitySection[models.Inventory]    `json:"recentAdditions"`
	RecentBorrows   ActivitySection[models.BorrowRecord] `json:"recentBorrows"`
	RecentReturns   ActivitySection[models.BorrowRecord] `json:"recentReturns"`
	GeneratedAt     time.Time                            `json:"generatedAt"`
}

// ActivityReport collects additions, borrows and returns from the last days
// days, at most ActivityLimit of each.
func (r *Repo) ActivityReport(ctx context.Context, days int) (*ActivityReport, error) {
	now := r.Now()
	since := now.AddDate(0, 0, -days)

	additions := []models.Inventory{}
	if err := r.DB.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").Limit(ActivityLimit).
		Find(&additions).Error; err != nil {
		return nil, err
	}
	borrows := []models.BorrowRecord{}
	if err := r.DB.WithContext(ctx).Preload("Inventory").
		Where("created_at >= ?", since).
		Order("created_at DESC").Limit(ActivityLimit).
		Find(&borrows).Error; err != nil {
		return nil, err
	}
	returns := []models.BorrowRecord{}
	if err := r.DB.WithContext(ctx).Preload("Inventory").
		Where("status = ? AND actual_return_date >= ?", models.BorrowReturned, models.DateOf(since)).
		Order("actual_return_date DESC").Limit(ActivityLimit).
		Find(&returns).Error; err != nil {
		return nil, err
	}
	return &ActivityReport{
		Period:          fmt.Sprintf("Last %d days", days),
		RecentAdditions: section(additions),
		RecentBorrows:   section(borrows),
		RecentReturns:   section(returns),
		GeneratedAt:     now,
	}, nil
}
