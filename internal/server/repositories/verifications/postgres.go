package verifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Upsert(ctx context.Context, accountID, code string, expiresAt time.Time) error {
	query := `
		INSERT INTO verifications (account_id, code, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE
		SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, code, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Verification, error) {
	query := `
		SELECT account_id, code, expires_at, verified, updated_at
		FROM verifications
		WHERE account_id = $1
	`
	v := &models.Verification{}
	err := r.db.QueryRowContext(ctx, query, accountID).
		Scan(&v.AccountID, &v.Code, &v.ExpiresAt, &v.Verified, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// MarkVerified sets the verified flag. Marking an already verified record is
// not an error.
func (r *PostgresRepository) MarkVerified(ctx context.Context, accountID string) error {
	query := `
		UPDATE verifications
		SET verified = TRUE, updated_at = now()
		WHERE account_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
