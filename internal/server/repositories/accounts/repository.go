// Package accounts declares the account store and its PostgreSQL
// implementation.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/models"
)

type Repository interface {
	// Create inserts acc, assigning an ID when it has none. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, acc *models.Account) (*models.Account, error)
	// GetByEmail matches case-insensitively; common.ErrorNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
