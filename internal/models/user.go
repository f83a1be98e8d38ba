package models

import "time"

// User represents a user in the system
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Roles        Role      `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal returns the authenticated identity of the user
func (u *User) Principal() *Principal {
	return &Principal{
		UserID:   u.ID,
		Username: u.Username,
		Roles:    u.Roles,
	}
}

// Principal is the identity attached to an authenticated request
type Principal struct {
	UserID   int
	Username string
	Roles    Role
}

// UserExport is the profile document returned by the user export endpoint
type UserExport struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserExport builds an export document from a user
func NewUserExport(u *User) *UserExport {
	return &UserExport{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.Roles.Names(),
		CreatedAt: u.CreatedAt,
	}
}
