package home

import "github.com/ems-portal/ems-portal/internal/navigation"

// placeholder describes a page that only renders the shell and a short note.
type placeholder struct {
	Title   string
	Heading string
	Body    string
}

var (
	dashboardPage = placeholder{
		Title:   "Dashboard",
		Heading: "Dashboard",
		Body:    "Welcome to the Employee Management System.",
	}
	schoolStatusPage = placeholder{
		Title:   "School Status",
		Heading: "School Status",
		Body:    "Staffing status across schools will appear here.",
	}
	transfersPage = placeholder{
		Title:   "Transfers",
		Heading: "Transfers",
		Body:    "Transfer requests awaiting review will appear here.",
	}
	outgoingPage = placeholder{
		Title:   "Outgoing Transfers",
		Heading: "Outgoing Transfers",
		Body:    "Staff transfers requested out of your school will appear here.",
	}
	incomingPage = placeholder{
		Title:   "Incoming Transfers",
		Heading: "Incoming Transfers",
		Body:    "Staff transfers requested into your school will appear here.",
	}
	staffStatementPage = placeholder{
		Title:   "Staff statement",
		Heading: "Staff statement",
		Body:    "Staff statements will appear here.",
	}
	forbiddenPage = placeholder{
		Title:   "Access denied",
		Heading: "Access denied",
		Body:    "Your account does not have access to this page.",
	}
	attendancePage = placeholder{
		Title:   "Attendance",
		Heading: "Attendance",
		Body:    "Daily attendance will appear here.",
	}
)

func employeesPage(schoolID string) placeholder {
	return placeholder{
		Title:   "Employees",
		Heading: "Employees of school " + schoolID,
		Body:    "The employee roster of this school will appear here.",
	}
}

// routes maps each placeholder path to its page.
var routes = map[string]placeholder{
	navigation.PathDashboard:      dashboardPage,
	navigation.PathSchoolStatus:   schoolStatusPage,
	navigation.PathTransfers:      transfersPage,
	navigation.PathTransfersOut:   outgoingPage,
	navigation.PathTransfersIn:    incomingPage,
	navigation.PathStaffStatement: staffStatementPage,
	navigation.PathAttendance:     attendancePage,
}
