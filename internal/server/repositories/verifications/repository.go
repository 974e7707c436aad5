// Package verifications stores the one-time verification code of each
// account.
package verifications

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

type Repository interface {
	// Upsert stores code for the account, replacing any previous code and
	// expiry. The verified flag is left untouched.
	Upsert(ctx context.Context, accountID, code string, expiresAt time.Time) error
	// GetByAccountID returns common.ErrorNotFound when no record exists.
	GetByAccountID(ctx context.Context, accountID string) (*models.Verification, error)
	MarkVerified(ctx context.Context, accountID string) error
}
