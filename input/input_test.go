package input

import (
	"encoding/json"
	"testing"

	"it_inventory/apperr"
	"it_inventory/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s(v string) *string { return &v }

func TestNewInventoryNormalizes(t *testing.T) {
	inv, err := NewInventory(InventoryRequest{
		FullName:       s("  Maria Santos "),
		Department:     s("Finance"),
		PCType:         s("LAPTOP"),
		SerialNumber:   s("   "),
		Brand:          s(""),
		Model:          s(" T14 "),
		WindowsVersion: s("Windows 11"),
		PurchaseDate:   s("2023-02-01"),
		WarrantyExpiry: s(""),
		Specifications: json.RawMessage(`{"ram":"16GB"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", inv.FullName)
	assert.Equal(t, models.PCLaptop, inv.PCType)
	assert.Equal(t, models.InventoryActiveUser, inv.Status)
	assert.Equal(t, models.UserStatusActive, inv.UserStatus)
	assert.Nil(t, inv.SerialNumber)
	assert.Nil(t, inv.Brand)
	assert.Equal(t, "T14", *inv.Model)
	assert.Equal(t, "2023-02-01", inv.PurchaseDate.String())
	assert.Nil(t, inv.WarrantyExpiry)
	assert.JSONEq(t, `{"ram":"16GB"}`, string(inv.Specifications))
}

func TestNewInventoryReportsAllProblems(t *testing.T) {
	_, err := NewInventory(InventoryRequest{
		FullName:     s(" "),
		PCType:       s("TABLET"),
		Status:       s("Lost"),
		PurchaseDate: s("01/02/2023"),
	})
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Contains(t, e.Message, "fullName is required")
	assert.Contains(t, e.Message, "department is required")
	assert.Contains(t, e.Message, "pcType has invalid value TABLET")
	assert.Contains(t, e.Message, "status has invalid value Lost")
	assert.Contains(t, e.Message, "purchaseDate")
}

func TestApplyInventoryUpdatePartial(t *testing.T) {
	inv := &models.Inventory{FullName: "A", Department: "IT", PCType: models.PCDesktop, Brand: s("Dell"), Remarks: s("old")}
	err := ApplyInventoryUpdate(inv, InventoryRequest{Remarks: s(""), Status: s("Available")})
	require.NoError(t, err)
	assert.Nil(t, inv.Remarks)
	assert.Equal(t, "Dell", *inv.Brand)
	assert.Equal(t, models.InventoryAvailable, inv.Status)

	err = ApplyInventoryUpdate(inv, InventoryRequest{FullName: s("")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRelease(t *testing.T) {
	cmd, err := Release(ReleaseRequest{
		InventoryID:        s("inv-1"),
		BorrowerName:       s(" Juan "),
		BorrowerEmail:      s("juan@example.com"),
		ExpectedReturnDate: s("2024-06-10"),
		Purpose:            s(""),
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "Juan", cmd.Borrower.Name)
	assert.True(t, cmd.BorrowDate.IsZero())
	assert.Nil(t, cmd.Purpose)
	assert.Equal(t, "admin-1", cmd.ApprovedBy)

	_, err = Release(ReleaseRequest{InventoryID: s("inv-1"), BorrowerID: s("u-1"), ExpectedReturnDate: s("2024-06-10")}, "a")
	assert.NoError(t, err)

	_, err = Release(ReleaseRequest{InventoryID: s("inv-1"), BorrowerName: s("x"), ExpectedReturnDate: s("2024-06-10"), BorrowerEmail: s("not-an-email")}, "a")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = Release(ReleaseRequest{InventoryID: s("inv-1"), BorrowerName: s("x"), BorrowDate: s("2024-06-10"), ExpectedReturnDate: s("2024-06-01")}, "a")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = Release(ReleaseRequest{InventoryID: s("inv-1"), BorrowerName: s("x")}, "a")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestReturnAndExtend(t *testing.T) {
	cmd, err := Return("r1", ReturnRequest{ReturnCondition: s("Damaged"), Notes: s(" ")}, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ConditionDamaged, cmd.Condition)
	assert.Nil(t, cmd.Notes)

	_, err = Return("r1", ReturnRequest{ReturnCondition: s("Broken")}, "u1")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	ext, err := Extend("r1", ExtendRequest{NewExpectedReturnDate: s("2024-07-01")})
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", ext.NewExpectedReturnDate.String())
	assert.Equal(t, "", ext.Reason)

	_, err = Extend("r1", ExtendRequest{NewExpectedReturnDate: s("next week")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDisposal(t *testing.T) {
	price := decimal.RequireFromString("99.999")
	cmd, err := Disposal(DisposalRequest{
		InventoryID:    s("inv-1"),
		DisposalDate:   s("2024-06-01"),
		DisposalMethod: s("Trade-In"),
		Reason:         s("upgrade cycle"),
		SalePrice:      &price,
	}, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.MethodTradeIn, cmd.Method)
	assert.Equal(t, "100", cmd.SalePrice.Decimal.String())

	neg := decimal.NewFromInt(-5)
	_, err = Disposal(DisposalRequest{InventoryID: s("x"), DisposalDate: s("2024-06-01"), DisposalMethod: s("Sold"), Reason: s("r"), SalePrice: &neg}, "m1")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = Disposal(DisposalRequest{InventoryID: s("x"), DisposalDate: s("2024-06-01"), DisposalMethod: s("Burned"), Reason: s("r")}, "m1")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDisposalUpdateClearsOptional(t *testing.T) {
	patch, err := DisposalUpdate(DisposalRequest{Notes: s(""), Reason: s("new")})
	require.NoError(t, err)
	require.NotNil(t, patch.Notes)
	assert.Nil(t, *patch.Notes)
	assert.Equal(t, "new", *patch.Reason)
	assert.Nil(t, patch.RecipientName)
	assert.Nil(t, patch.Method)
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(RegisterRequest{Username: s("jdoe"), Email: s("j@x.io"), Password: "secret1", FullName: s("J Doe")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, u.IsActive)

	_, err = NewUser(RegisterRequest{Username: s("jd"), Email: s("j@x.io"), Password: "123", FullName: s("J")})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, e.Message, "Username must be between 3 and 50 characters")
	assert.Contains(t, e.Message, "Password must be at least 6 characters")
}

func TestApplyUserUpdateSelfServiceIgnoresRole(t *testing.T) {
	u := &models.User{Role: models.RoleUser, IsActive: true, FullName: "A"}
	active := false
	require.NoError(t, ApplyUserUpdate(u, UserUpdateRequest{Role: s("admin"), IsActive: &active, FullName: s("B")}, true))
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, "B", u.FullName)

	require.NoError(t, ApplyUserUpdate(u, UserUpdateRequest{Role: s("manager"), IsActive: &active}, false))
	assert.Equal(t, models.RoleManager, u.Role)
	assert.False(t, u.IsActive)
}

func TestEnumLiteralsWithSpaces(t *testing.T) {
	assert.Equal(t, "oneof='LAPTOP' 'DESKTOP' 'LAPTOP DESKTOP'", oneOf(models.PCTypes))

	inv, err := NewInventory(InventoryRequest{
		FullName:   s("A"),
		Department: s("IT"),
		PCType:     s("LAPTOP DESKTOP"),
		Status:     s("Active User"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PCLaptopDesktop, inv.PCType)
	assert.Equal(t, models.InventoryActiveUser, inv.Status)

	// Each half of a spaced literal is not a value on its own.
	_, err = NewInventory(InventoryRequest{FullName: s("A"), Department: s("IT"), PCType: s("LAPTOP"), Status: s("Active")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestEmailValidation(t *testing.T) {
	base := ReleaseRequest{InventoryID: s("inv-1"), BorrowerName: s("Bob"), ExpectedReturnDate: s("2024-06-20")}

	ok := base
	ok.BorrowerEmail = s(" bob@example.com ")
	cmd, err := Release(ok, "u1")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", *cmd.Borrower.Email)

	bad := base
	bad.BorrowerEmail = s("bob@")
	_, err = Release(bad, "u1")
	e, isApp := apperr.As(err)
	require.True(t, isApp)
	assert.Contains(t, e.Message, "must be a valid email address")

	_, err = NewUser(RegisterRequest{Username: s("jdoe"), Email: s("not-an-email"), Password: "secret1", FullName: s("J")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
