package model

// Role is the privilege level carried in a caller's token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

// IsAdmin reports whether the caller holds elevated privilege.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Customer is the user summary attached to admin order listings.
type Customer struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
