package domain

import "time"

// UserRole separates coaching clients from administrators.
type UserRole string

const (
	UserRoleClient UserRole = "CLIENT"
	UserRoleAdmin  UserRole = "ADMIN"
)

// User is the domain model for registered accounts.
type User struct {
	ID           string
	FullName     string
	Email        string
	Phone        *string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account may use the admin panel.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// Identity is the public projection of a user held by a session.
type Identity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Identity projects the user into a session identity.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.FullName, Email: u.Email, IsAdmin: u.IsAdmin()}
}

// ClientSummary is an admin listing row.
type ClientSummary struct {
	ID            string
	Email         string
	FullName      string
	Phone         *string
	CreatedAt     time.Time
	TotalServices int
}
