package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field.
// AccessToken holds the current session token; empty means logged out.
type User struct {
	ID          string
	Username    string
	Password    string
	AccessToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LoggedIn reports whether the user currently holds a session token.
func (u *User) LoggedIn() bool {
	return u != nil && u.AccessToken != ""
}
