package enum

// ── Order lifecycle (CHECK constrained in DB) ──

const (
	OrderStatusReceived  = "received"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusArchived  = "archived"
)

const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
)

// ── Catalog and staff labels (CHECK constrained in DB) ──

const (
	CategoryAppetizers  = "Appetizers"
	CategoryMainCourses = "Main Courses"
	CategoryDesserts    = "Desserts"
	CategoryBeverages   = "Beverages"
)

const (
	StaffRoleManager = "Manager"
	StaffRoleChef    = "Chef"
	StaffRoleWaiter  = "Waiter"
	StaffRoleBusboy  = "Busboy"
)

const (
	ShiftMorning   = "Morning"
	ShiftAfternoon = "Afternoon"
	ShiftNight     = "Night"
)

// ── Admin panel sections (no DB constraint) ──

const (
	SectionMenu            = "menu"
	SectionOrders          = "orders"
	SectionTables          = "tables"
	SectionStaff           = "staff"
	SectionCustomers       = "customers"
	SectionBills           = "bills"
	SectionReports         = "reports"
	SectionConfig          = "config"
	SectionRecommendations = "recommendations"
)

// ActiveOrderStatuses lists the board columns in lifecycle order.
var ActiveOrderStatuses = []string{
	OrderStatusReceived,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusServed,
}

var AllSections = []string{
	SectionMenu,
	SectionOrders,
	SectionTables,
	SectionStaff,
	SectionCustomers,
	SectionBills,
	SectionReports,
	SectionConfig,
	SectionRecommendations,
}

func IsCategory(s string) bool {
	switch s {
	case CategoryAppetizers, CategoryMainCourses, CategoryDesserts, CategoryBeverages:
		return true
	}
	return false
}

func IsTableStatus(s string) bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved:
		return true
	}
	return false
}

func IsStaffRole(s string) bool {
	switch s {
	case StaffRoleManager, StaffRoleChef, StaffRoleWaiter, StaffRoleBusboy:
		return true
	}
	return false
}

func IsShift(s string) bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

func IsSection(s string) bool {
	for _, sec := range AllSections {
		if sec == s {
			return true
		}
	}
	return false
}
