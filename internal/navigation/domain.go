// Package navigation holds the per-role sidebar model and the resolver that
// decides which entry corresponds to the current URL path.
package navigation

// Role identifies the kind of signed-in user.
type Role string

// Known roles.
const (
	RoleAdmin       Role = "admin"
	RoleSchoolAdmin Role = "schoolAdmin"
	RoleStaff       Role = "staff"
)

// Roles lists the recognised roles in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSchoolAdmin, RoleStaff}
}

// Valid reports whether r is one of the recognised roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSchoolAdmin, RoleStaff:
		return true
	}
	return false
}

// Label returns the human readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleSchoolAdmin:
		return "School Admin"
	case RoleStaff:
		return "Staff"
	}
	return string(r)
}

// Icon names a glyph from the static icon sprite.
type Icon string

// Sidebar icons.
const (
	IconDashboard Icon = "layout-dashboard"
	IconSchool    Icon = "school"
	IconUsers     Icon = "users"
	IconBook      Icon = "book-a"
	IconTransfer  Icon = "arrow-left-right"
	IconFile      Icon = "file"
	IconClipboard Icon = "clipboard"
	IconUpload    Icon = "upload"
	IconDownload  Icon = "download"
)

// Entry is a sidebar item. It is either a Leaf or a Group.
type Entry interface {
	EntryTitle() string
	EntryIcon() Icon
	isEntry()
}

// Leaf navigates straight to Destination.
type Leaf struct {
	Title       string
	Destination string
	Icon        Icon
}

// Group expands into child leaves instead of navigating.
type Group struct {
	Title    string
	Icon     Icon
	Children []Leaf
}

func (l Leaf) EntryTitle() string { return l.Title }
func (l Leaf) EntryIcon() Icon    { return l.Icon }
func (Leaf) isEntry()             {}

func (g Group) EntryTitle() string { return g.Title }
func (g Group) EntryIcon() Icon    { return g.Icon }
func (Group) isEntry()             {}

// LogoutTab is the sentinel tab marked active on the login path.
const LogoutTab = "logout"

// Active is the result of resolving a path against an entry list.
type Active struct {
	// Tab is the title of the matched entry, or LogoutTab.
	Tab string
	// GroupOpen is set when a group child matched.
	GroupOpen bool
	// Matched is false when nothing matched; callers keep their previous tab.
	Matched bool
}
