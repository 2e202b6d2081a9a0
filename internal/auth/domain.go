package auth

import "github.com/ems-portal/ems-portal/internal/navigation"

// User is the signed-in account held by the session context.
type User struct {
	Role     navigation.Role `json:"role"`
	UserID   string          `json:"userId"`
	Password string          `json:"-"`
	SchoolID string          `json:"schoolId,omitempty"`
}

// SchoolNumber parses SchoolID. Nil when absent or not numeric.
func (u User) SchoolNumber() *int {
	return navigation.ParseSchoolID(u.SchoolID)
}

// Account is a fixed demo login.
type Account struct {
	Role     navigation.Role
	UserID   string
	Password string
	SchoolID string
}

// DemoAccounts are the three logins accepted by the prototype.
func DemoAccounts() []Account {
	return []Account{
		{Role: navigation.RoleAdmin, UserID: "admin", Password: "admin123"},
		{Role: navigation.RoleSchoolAdmin, UserID: "schoolAdmin", Password: "school123", SchoolID: "101"},
		{Role: navigation.RoleStaff, UserID: "staff", Password: "staff123"},
	}
}
