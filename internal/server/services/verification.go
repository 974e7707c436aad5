package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/mail"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
)

// VerificationSettings shape the one-time code.
type VerificationSettings struct {
	CodeLength int
	CodeTTL    time.Duration
}

// errInvalidCode is returned for a wrong code and for an expired one alike.
var errInvalidCode = fmt.Errorf("%w: %w", common.ErrorValidation, common.ErrorInvalidCode)

// VerificationService issues, delivers and checks verification codes.
type VerificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sender      mail.Sender
	settings    VerificationSettings
	logger      logging.Logger
	now         func() time.Time
}

func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, sender mail.Sender,
	settings VerificationSettings, logger logging.Logger) *VerificationService {
	return &VerificationService{
		db:          db,
		repomanager: m,
		sender:      sender,
		settings:    settings,
		logger:      logger.With("module", "verification"),
		now:         time.Now,
	}
}

// IssueCode stores a fresh code for the account through tx and returns it.
// Any earlier code stops being valid.
func (s *VerificationService) IssueCode(ctx context.Context, tx dbx.DBTX, accountID string) (string, error) {
	code, err := GenerateCode(s.settings.CodeLength)
	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(s.settings.CodeTTL)
	if err := s.repomanager.Verifications(tx).Upsert(ctx, accountID, code, expiresAt); err != nil {
		return "", fmt.Errorf("error storing verification code: %w", err)
	}
	return code, nil
}

// Deliver mails code to the account holder. Failures wrap common.ErrorDelivery.
func (s *VerificationService) Deliver(ctx context.Context, acc *models.Account, code string) error {
	body := mail.VerificationBody(acc.FirstName, code, s.settings.CodeTTL)
	if err := s.sender.Send(ctx, acc.Email, mail.VerificationSubject, body); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorDelivery, err)
	}
	return nil
}

// Resend issues a new code for an unverified account and mails it.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return common.ValidationErrors{"email": "email is required"}
	}

	acc, err := s.findAccount(ctx, email)
	if err != nil {
		return err
	}

	code, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (string, error) {
		v, err := s.repomanager.Verifications(tx).GetByAccountID(ctx, acc.ID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("error loading verification: %w", err)
		}
		if v != nil && v.Verified {
			return "", common.ErrorAlreadyVerified
		}
		return s.IssueCode(ctx, tx, acc.ID)
	})
	if err != nil {
		return err
	}

	if err := s.Deliver(ctx, acc, code); err != nil {
		s.logger.Warn(ctx, "verification code not delivered", "account_id", acc.ID, "error", err)
		return err
	}

	s.logger.Info(ctx, "verification code re-sent", "account_id", acc.ID)
	return nil
}

// Verify marks the account verified when code matches the stored one and
// has not expired. Verifying twice with a still valid code succeeds.
func (s *VerificationService) Verify(ctx context.Context, email, code string) (*models.Verification, error) {
	email = normalizeEmail(email)

	errs := common.ValidationErrors{}
	if email == "" {
		errs.Add("email", "email is required")
	}
	if code == "" {
		errs.Add("verificationCode", "verification code is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	acc, err := s.findAccount(ctx, email)
	if err != nil {
		return nil, err
	}

	v, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Verification, error) {
		repo := s.repomanager.Verifications(tx)

		v, err := repo.GetByAccountID(ctx, acc.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, errInvalidCode
			}
			return nil, fmt.Errorf("error loading verification: %w", err)
		}

		if !v.Accepts(code, s.now()) {
			return nil, errInvalidCode
		}

		if !v.Verified {
			if err := repo.MarkVerified(ctx, acc.ID); err != nil {
				return nil, fmt.Errorf("error marking verified: %w", err)
			}
			v.Verified = true
		}
		return v, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCode) {
			s.logger.Info(ctx, "verification rejected", "account_id", acc.ID)
		}
		return nil, err
	}

	s.logger.Info(ctx, "account verified", "account_id", acc.ID)
	return v, nil
}

func (s *VerificationService) findAccount(ctx context.Context, email string) (*models.Account, error) {
	acc, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return acc, nil
}
