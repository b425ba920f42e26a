package domain

import "time"

// DefaultGravatar is assigned to every newly registered user.
const DefaultGravatar = "https://0.gravatar.com/userimage/225067096/87fad03c0e2ab249aaecad8ed8587725?size=1200"

// Role groups the role names granted to a user.
type Role struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Gravatar     string    `json:"gravatar"`
	RoleID       string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
