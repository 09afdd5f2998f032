package models

import "time"

// Profile mirrors account-creation data for a user. It carries no business
// logic; the id doubles as the user id everywhere else.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
