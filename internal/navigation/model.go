package navigation

import (
	"strconv"
	"strings"
)

// Application routes.
const (
	PathLogin          = "/login"
	PathDashboard      = "/home/dashboard"
	PathSchoolStatus   = "/home/school-status"
	PathTransfers      = "/home/transfers"
	PathTransfersOut   = "/home/transfers/outgoing"
	PathTransfersIn    = "/home/transfers/incoming"
	PathStaffStatement = "/home/staff-statement"
	PathLogs           = "/home/logs"
	PathAttendance     = "/home/attendance"
	schoolStatusPrefix = PathSchoolStatus + "/"
)

// ParseSchoolID converts the raw school identifier stored on the user record.
// Missing or non-numeric values yield nil.
func ParseSchoolID(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &id
}

// SchoolStatusPath builds the per-school status route. A nil id produces a
// path with an empty final segment; the link is left broken on purpose so
// the missing identifier stays visible.
func SchoolStatusPath(schoolID *int) string {
	if schoolID == nil {
		return schoolStatusPrefix
	}
	return schoolStatusPrefix + strconv.Itoa(*schoolID)
}

// ForRole returns the sidebar entries for role. Unknown roles get an empty list.
func ForRole(role Role, schoolID *int) []Entry {
	switch role {
	case RoleAdmin:
		return []Entry{
			Leaf{Title: "Dashboard", Destination: PathDashboard, Icon: IconDashboard},
			Leaf{Title: "School Status", Destination: PathSchoolStatus, Icon: IconSchool},
			Leaf{Title: "Transfers", Destination: PathTransfers, Icon: IconTransfer},
			Leaf{Title: "Staff statement", Destination: PathStaffStatement, Icon: IconFile},
			Leaf{Title: "Logs", Destination: PathLogs, Icon: IconClipboard},
		}
	case RoleSchoolAdmin:
		return []Entry{
			Leaf{Title: "Dashboard", Destination: PathDashboard, Icon: IconDashboard},
			Leaf{Title: "Employees", Destination: SchoolStatusPath(schoolID), Icon: IconUsers},
			Leaf{Title: "Attendance", Destination: PathAttendance, Icon: IconBook},
			Group{
				Title: "Transfers",
				Icon:  IconTransfer,
				Children: []Leaf{
					{Title: "Outgoing Transfers", Destination: PathTransfersOut, Icon: IconUpload},
					{Title: "Incoming Transfers", Destination: PathTransfersIn, Icon: IconDownload},
				},
			},
			Leaf{Title: "Staff statement", Destination: PathStaffStatement, Icon: IconFile},
			Leaf{Title: "Logs", Destination: PathLogs, Icon: IconClipboard},
		}
	case RoleStaff:
		return []Entry{
			Leaf{Title: "Dashboard", Destination: PathDashboard, Icon: IconDashboard},
		}
	}
	return []Entry{}
}

// FindLeaf looks up a leaf, including group children, by title.
func FindLeaf(entries []Entry, title string) (Leaf, bool) {
	for _, entry := range entries {
		switch e := entry.(type) {
		case Leaf:
			if e.Title == title {
				return e, true
			}
		case Group:
			for _, child := range e.Children {
				if child.Title == title {
					return child, true
				}
			}
		}
	}
	return Leaf{}, false
}

// FindGroup looks up a top-level group by title.
func FindGroup(entries []Entry, title string) (Group, bool) {
	for _, entry := range entries {
		if g, ok := entry.(Group); ok && g.Title == title {
			return g, true
		}
	}
	return Group{}, false
}
