package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"it_inventory/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct{ a, b string }

var rowCols = []Column[row]{
	{"a", func(r *row) string { return r.a }},
	{"b", func(r *row) string { return r.b }},
}

func TestCSVQuotesOnlyWhenNeeded(t *testing.T) {
	out := CSV(rowCols, []row{
		{"plain", `Dell, "Latitude"`},
		{"line\nbreak", ""},
	})
	assert.Equal(t, "a,b\nplain,\"Dell, \"\"Latitude\"\"\"\n\"line\nbreak\",", string(out))
}

func TestCSVEmptyDataset(t *testing.T) {
	assert.Equal(t, "a,b\n", string(CSV(rowCols, nil)))
}

func TestCSVRoundTrips(t *testing.T) {
	rows := []row{{`he said "hi", then left`, "x\r\ny"}, {"", "z"}}
	recs, err := csv.NewReader(bytes.NewReader(CSV(rowCols, rows))).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a", "b"}, recs[0])
	assert.Equal(t, `he said "hi", then left`, recs[1][0])
	assert.Equal(t, []string{"", "z"}, recs[2])
}

func TestBorrowColumnsDefaultToNA(t *testing.T) {
	rec := models.BorrowRecord{
		BorrowerName:       "Bob",
		BorrowDate:         models.DateOf(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		ExpectedReturnDate: models.DateOf(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)),
		Status:             models.BorrowBorrowed,
	}
	out := string(CSV(BorrowColumns, []models.BorrowRecord{rec}))
	assert.Equal(t,
		"borrowerName,borrowerDepartment,itemName,pcType,serialNumber,borrowDate,expectedReturnDate,actualReturnDate,status,returnCondition,purpose\n"+
			"Bob,N/A,N/A,N/A,N/A,2024-06-01,2024-06-08,N/A,Borrowed,N/A,N/A",
		out)
}

func TestInventoryAndDisposalColumns(t *testing.T) {
	pc := "FIN-01"
	inv := models.Inventory{FullName: "Alice", Department: "Finance", PCName: &pc, PCType: models.PCLaptop,
		Status: models.InventoryActiveUser, UserStatus: models.UserStatusActive}
	out := string(CSV(InventoryColumns, []models.Inventory{inv}))
	assert.Equal(t,
		"fullName,department,pcName,pcType,windowsVersion,microsoftOffice,applicationsSystem,status,userStatus,serialNumber,brand,model,remarks\n"+
			"Alice,Finance,FIN-01,LAPTOP,,,,Active User,Active User,,,,",
		out)

	d := models.Disposal{
		Inventory:      &models.InventoryRef{FullName: "Alice", PCName: &pc},
		DisposalDate:   models.DateOf(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		DisposalMethod: models.MethodSold, Status: models.DisposalPending, Reason: "old, slow",
		SalePrice: decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
	}
	out = string(CSV(DisposalColumns, []models.Disposal{d}))
	assert.Equal(t,
		"fullName,pcName,serialNumber,disposalDate,disposalMethod,status,reason,salePrice,recipientName,certificateNumber,completedAt\n"+
			"Alice,FIN-01,,2024-06-01,Sold,Pending,\"old, slow\",12.50,,,",
		out)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "borrow-report-2024-06-10.csv", Filename("borrow", time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC)))
}
