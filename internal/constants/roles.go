package constants

// UserRole mirrors the role column on the users table.
type UserRole string

const (
	RoleViewer UserRole = "viewer"
	RoleEditor UserRole = "editor"
	RoleAdmin  UserRole = "admin"
)

// CanEdit reports whether the role may create or modify dashboard content.
func (r UserRole) CanEdit() bool {
	return r == RoleEditor || r == RoleAdmin
}
