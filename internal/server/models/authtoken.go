package models

import "time"

// AuthToken is the bearer credential of an account. An account holds at
// most one, reused across logins.
type AuthToken struct {
	AccountID string
	Token     string
	CreatedAt time.Time
}
