// Package models holds the data the CLI receives from the accounts API.
package models

import "time"

// Account is the public view of a registered account.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Registration is the outcome of a sign-up. CodeSent is false when the
// server could not deliver the verification code; a resend fixes that.
type Registration struct {
	Account  Account
	CodeSent bool
}

// RegisterRequest carries the sign-up form.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}
