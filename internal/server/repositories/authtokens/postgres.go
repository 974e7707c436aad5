package authtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetOrCreate(ctx context.Context, accountID, candidate string) (*models.AuthToken, error) {
	insert := `
		INSERT INTO auth_tokens (account_id, token)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, accountID, candidate); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	query := `
		SELECT account_id, token, created_at
		FROM auth_tokens
		WHERE account_id = $1
	`
	t := &models.AuthToken{}
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&t.AccountID, &t.Token, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.AuthToken, error) {
	query := `
		SELECT account_id, token, created_at
		FROM auth_tokens
		WHERE token = $1
	`
	t := &models.AuthToken{}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&t.AccountID, &t.Token, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
