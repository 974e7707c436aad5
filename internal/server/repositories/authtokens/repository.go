// Package authtokens stores the bearer token issued to each verified account.
package authtokens

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

type Repository interface {
	// GetOrCreate returns the account's token, storing candidate only when
	// the account has none yet. Run it inside a transaction so the insert
	// and the read observe the same row.
	GetOrCreate(ctx context.Context, accountID, candidate string) (*models.AuthToken, error)
	// FindByToken returns common.ErrorNotFound for unknown tokens.
	FindByToken(ctx context.Context, token string) (*models.AuthToken, error)
}
