package models

// Enum values are persisted as their literal strings.

type InventoryStatus string

const (
	InventoryActiveUser  InventoryStatus = "Active User"
	InventoryTransfer    InventoryStatus = "Transfer"
	InventoryForUpgrade  InventoryStatus = "For Upgrade"
	InventoryAvailable   InventoryStatus = "Available"
	InventoryMaintenance InventoryStatus = "Maintenance"
	InventoryRetired     InventoryStatus = "Retired"
)

var InventoryStatuses = []InventoryStatus{
	InventoryActiveUser, InventoryTransfer, InventoryForUpgrade,
	InventoryAvailable, InventoryMaintenance, InventoryRetired,
}

func (s InventoryStatus) Valid() bool { return contains(InventoryStatuses, s) }

type UserStatus string

const (
	UserStatusActive   UserStatus = "Active User"
	UserStatusInactive UserStatus = "Inactive"
	UserStatusOnLeave  UserStatus = "On Leave"
)

var UserStatuses = []UserStatus{UserStatusActive, UserStatusInactive, UserStatusOnLeave}

func (s UserStatus) Valid() bool { return contains(UserStatuses, s) }

type PCType string

const (
	PCLaptop        PCType = "LAPTOP"
	PCDesktop       PCType = "DESKTOP"
	PCLaptopDesktop PCType = "LAPTOP DESKTOP"
)

var PCTypes = []PCType{PCLaptop, PCDesktop, PCLaptopDesktop}

func (t PCType) Valid() bool { return contains(PCTypes, t) }

type WindowsVersion string

var WindowsVersions = []WindowsVersion{"Windows 10", "Windows 11", "Windows Server"}

func (v WindowsVersion) Valid() bool { return contains(WindowsVersions, v) }

type OfficeVersion string

var OfficeVersions = []OfficeVersion{"Office 365", "Office LTSC", "Office 2021", "Office 2019", "None"}

func (v OfficeVersion) Valid() bool { return contains(OfficeVersions, v) }

type BorrowStatus string

const (
	BorrowBorrowed BorrowStatus = "Borrowed"
	BorrowExtended BorrowStatus = "Extended"
	BorrowOverdue  BorrowStatus = "Overdue"
	BorrowReturned BorrowStatus = "Returned"
)

var BorrowStatuses = []BorrowStatus{BorrowBorrowed, BorrowExtended, BorrowOverdue, BorrowReturned}

// ActiveBorrowStatuses are the statuses that keep an asset flagged as borrowed.
var ActiveBorrowStatuses = []BorrowStatus{BorrowBorrowed, BorrowExtended, BorrowOverdue}

func (s BorrowStatus) Valid() bool  { return contains(BorrowStatuses, s) }
func (s BorrowStatus) Active() bool { return contains(ActiveBorrowStatuses, s) }

type ReturnCondition string

const (
	ConditionGood    ReturnCondition = "Good"
	ConditionDamaged ReturnCondition = "Damaged"
	ConditionLost    ReturnCondition = "Lost"
)

var ReturnConditions = []ReturnCondition{ConditionGood, ConditionDamaged, ConditionLost}

func (c ReturnCondition) Valid() bool { return contains(ReturnConditions, c) }

type DisposalMethod string

const (
	MethodSold     DisposalMethod = "Sold"
	MethodDonated  DisposalMethod = "Donated"
	MethodRecycled DisposalMethod = "Recycled"
	MethodScrapped DisposalMethod = "Scrapped"
	MethodTradeIn  DisposalMethod = "Trade-In"
	MethodOther    DisposalMethod = "Other"
)

var DisposalMethods = []DisposalMethod{MethodSold, MethodDonated, MethodRecycled, MethodScrapped, MethodTradeIn, MethodOther}

func (m DisposalMethod) Valid() bool { return contains(DisposalMethods, m) }

// CarriesPrice reports whether a sale price is meaningful for the method.
func (m DisposalMethod) CarriesPrice() bool { return m == MethodSold || m == MethodTradeIn }

// CarriesRecipient reports whether recipient details are meaningful for the method.
func (m DisposalMethod) CarriesRecipient() bool { return m == MethodSold || m == MethodDonated }

type DisposalStatus string

const (
	DisposalPending   DisposalStatus = "Pending"
	DisposalApproved  DisposalStatus = "Approved"
	DisposalCompleted DisposalStatus = "Completed"
	DisposalCancelled DisposalStatus = "Cancelled"
)

var DisposalStatuses = []DisposalStatus{DisposalPending, DisposalApproved, DisposalCompleted, DisposalCancelled}

// OpenDisposalStatuses block a new disposal request for the same asset.
var OpenDisposalStatuses = []DisposalStatus{DisposalPending, DisposalApproved}

func (s DisposalStatus) Valid() bool { return contains(DisposalStatuses, s) }
func (s DisposalStatus) Open() bool  { return contains(OpenDisposalStatuses, s) }

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleUser}

func (r Role) Valid() bool { return contains(Roles, r) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Strings converts a typed enum slice for use in SQL IN clauses.
func Strings[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
