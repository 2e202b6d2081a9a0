package rbac

import "github.com/ems-portal/ems-portal/internal/navigation"

// Permission names a capability checked by RequireAny.
const (
	PermDashboardView      = "dashboard.view"
	PermSchoolsView        = "schools.view"
	PermEmployeesView      = "employees.view"
	PermAttendanceView     = "attendance.view"
	PermTransfersView      = "transfers.view"
	PermStaffStatementView = "staff_statement.view"
	PermLogsView           = "logs.view"
)

// grants mirrors the navigation entries each role is shown.
var grants = map[navigation.Role][]string{
	navigation.RoleAdmin: {
		PermDashboardView,
		PermSchoolsView,
		PermTransfersView,
		PermStaffStatementView,
		PermLogsView,
	},
	navigation.RoleSchoolAdmin: {
		PermDashboardView,
		PermEmployeesView,
		PermAttendanceView,
		PermTransfersView,
		PermStaffStatementView,
		PermLogsView,
	},
	navigation.RoleStaff: {
		PermDashboardView,
	},
}
