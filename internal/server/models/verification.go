package models

import (
	"crypto/subtle"
	"time"
)

// Verification is the one-time code state of an account. There is exactly
// one per account; issuing a new code overwrites Code and ExpiresAt.
// Verified moves from false to true and never back.
type Verification struct {
	AccountID string
	Code      string
	ExpiresAt time.Time
	Verified  bool
	UpdatedAt time.Time
}

// Accepts reports whether code matches and is still valid at now.
// Expiry is strict: a code is rejected at exactly ExpiresAt.
func (v *Verification) Accepts(code string, now time.Time) bool {
	match := subtle.ConstantTimeCompare([]byte(code), []byte(v.Code)) == 1
	return match && now.Before(v.ExpiresAt)
}
