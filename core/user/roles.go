package user

// Roles
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleStudent, RoleFaculty, RoleAdmin}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Faculty", Value: RoleFaculty},
		{Name: "Admin", Value: RoleAdmin},
	}

	studentLinks = []NavLink{
		{To: "/dashboard", Icon: "home", Label: "Dashboard"},
		{To: "/attendance", Icon: "calendar", Label: "Attendance"},
		{To: "/assignments", Icon: "file-text", Label: "Assignments"},
		{To: "/timetable", Icon: "book-open", Label: "Timetable"},
	}
	facultyLinks = []NavLink{
		{To: "/dashboard", Icon: "home", Label: "Dashboard"},
		{To: "/students", Icon: "users", Label: "Students"},
		{To: "/assignments", Icon: "file-text", Label: "Assignments"},
		{To: "/attendance", Icon: "calendar", Label: "Attendance"},
	}
	adminLinks = []NavLink{
		{To: "/dashboard", Icon: "home", Label: "Dashboard"},
		{To: "/users", Icon: "users", Label: "Users"},
		{To: "/settings", Icon: "settings", Label: "Settings"},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func IsRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type NavLink struct {
	To    string `json:"to"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// NavLinks returns the navigation links of the given role.
// Any role other than student and faculty gets the admin links.
func NavLinks(role string) []NavLink {
	var links []NavLink
	switch role {
	case RoleStudent:
		links = studentLinks
	case RoleFaculty:
		links = facultyLinks
	default:
		links = adminLinks
	}
	return append([]NavLink(nil), links...)
}
