package models

// UserRole represents the roles recognised on access tokens.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleHoD   UserRole = "HOD"
)

// Identity is the resolved caller used to scope statistics requests.
type Identity struct {
	UserID     string   `json:"userId"`
	Role       UserRole `json:"role"`
	College    string   `json:"college,omitempty"`
	Department string   `json:"department,omitempty"`
}

// CanAccess reports whether the identity may read data for the given scope.
// Admins see everything; heads of department see their own department only.
func (i Identity) CanAccess(college, department string) bool {
	switch i.Role {
	case RoleAdmin:
		return true
	case RoleHoD:
		return i.College == college && i.Department == department
	default:
		return false
	}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
