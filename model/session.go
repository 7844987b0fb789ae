package model

// Role is the closed set of caller roles carried by a session token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Session is the resolved identity of a caller. It only exists after the
// token has been validated; handlers and services never see raw claims.
type Session struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
