package domain

import "time"

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Role      UserRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// RegistrationData is what a visitor submits when creating an account.
type RegistrationData struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Phone    string `json:"phone,omitempty"`
}
