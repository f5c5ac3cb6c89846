package export

import (
	"time"

	"it_inventory/models"
)

const na = "N/A"

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func enumStr[T ~string](v *T) string {
	if v == nil {
		return ""
	}
	return string(*v)
}

func dateStr(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func asset(ref *models.InventoryRef) models.InventoryRef {
	if ref == nil {
		return models.InventoryRef{}
	}
	return *ref
}

var InventoryColumns = []Column[models.Inventory]{
	{"fullName", func(i *models.Inventory) string { return i.FullName }},
	{"department", func(i *models.Inventory) string { return i.Department }},
	{"pcName", func(i *models.Inventory) string { return str(i.PCName) }},
	{"pcType", func(i *models.Inventory) string { return string(i.PCType) }},
	{"windowsVersion", func(i *models.Inventory) string { return enumStr(i.WindowsVersion) }},
	{"microsoftOffice", func(i *models.Inventory) string { return enumStr(i.MicrosoftOffice) }},
	{"applicationsSystem", func(i *models.Inventory) string { return str(i.ApplicationsSystem) }},
	{"status", func(i *models.Inventory) string { return string(i.Status) }},
	{"userStatus", func(i *models.Inventory) string { return string(i.UserStatus) }},
	{"serialNumber", func(i *models.Inventory) string { return str(i.SerialNumber) }},
	{"brand", func(i *models.Inventory) string { return str(i.Brand) }},
	{"model", func(i *models.Inventory) string { return str(i.Model) }},
	{"remarks", func(i *models.Inventory) string { return str(i.Remarks) }},
}

// BorrowColumns flattens the borrowed asset into the row; missing values
// print as N/A.
var BorrowColumns = []Column[models.BorrowRecord]{
	{"borrowerName", func(r *models.BorrowRecord) string { return strOr(&r.BorrowerName, na) }},
	{"borrowerDepartment", func(r *models.BorrowRecord) string { return strOr(r.BorrowerDepartment, na) }},
	{"itemName", func(r *models.BorrowRecord) string { return strOr(asset(r.Inventory).PCName, na) }},
	{"pcType", func(r *models.BorrowRecord) string {
		t := string(asset(r.Inventory).PCType)
		return strOr(&t, na)
	}},
	{"serialNumber", func(r *models.BorrowRecord) string { return strOr(asset(r.Inventory).SerialNumber, na) }},
	{"borrowDate", func(r *models.BorrowRecord) string { return r.BorrowDate.String() }},
	{"expectedReturnDate", func(r *models.BorrowRecord) string { return r.ExpectedReturnDate.String() }},
	{"actualReturnDate", func(r *models.BorrowRecord) string {
		d := dateStr(r.ActualReturnDate)
		return strOr(&d, na)
	}},
	{"status", func(r *models.BorrowRecord) string { return string(r.Status) }},
	{"returnCondition", func(r *models.BorrowRecord) string {
		c := enumStr(r.ReturnCondition)
		return strOr(&c, na)
	}},
	{"purpose", func(r *models.BorrowRecord) string { return strOr(r.Purpose, na) }},
}

var DisposalColumns = []Column[models.Disposal]{
	{"fullName", func(d *models.Disposal) string { return asset(d.Inventory).FullName }},
	{"pcName", func(d *models.Disposal) string { return str(asset(d.Inventory).PCName) }},
	{"serialNumber", func(d *models.Disposal) string { return str(asset(d.Inventory).SerialNumber) }},
	{"disposalDate", func(d *models.Disposal) string { return d.DisposalDate.String() }},
	{"disposalMethod", func(d *models.Disposal) string { return string(d.DisposalMethod) }},
	{"status", func(d *models.Disposal) string { return string(d.Status) }},
	{"reason", func(d *models.Disposal) string { return d.Reason }},
	{"salePrice", func(d *models.Disposal) string {
		if !d.SalePrice.Valid {
			return ""
		}
		return d.SalePrice.Decimal.StringFixed(2)
	}},
	{"recipientName", func(d *models.Disposal) string { return str(d.RecipientName) }},
	{"certificateNumber", func(d *models.Disposal) string { return str(d.CertificateNumber) }},
	{"completedAt", func(d *models.Disposal) string {
		if d.CompletedAt == nil {
			return ""
		}
		return d.CompletedAt.UTC().Format(time.RFC3339)
	}},
}

// Filename is the download name for a report generated at t.
func Filename(kind string, t time.Time) string {
	return kind + "-report-" + t.UTC().Format(models.DateLayout) + ".csv"
}
