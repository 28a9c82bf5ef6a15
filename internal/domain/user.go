package domain

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicProfile devuelve la vista del usuario sin campos sensibles.
func (u User) PublicProfile() User {
	u.PasswordHash = ""
	return u
}
