// Package services holds the account lifecycle: registration, email
// verification and login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
)

// PasswordHasher hashes and checks passwords. Compare with a nil hash must
// cost about as much as a real comparison and return false.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) bool
}

// Registration is the outcome of a successful Register. CodeSent is false
// when the account exists but the verification mail could not be delivered;
// the holder can ask for a resend.
type Registration struct {
	Account  *models.Account
	CodeSent bool
}

type RegistrationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	verifier    *VerificationService
	logger      logging.Logger
}

func NewRegistrationService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher,
	verifier *VerificationService, logger logging.Logger) *RegistrationService {
	return &RegistrationService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		verifier:    verifier,
		logger:      logger.With("module", "registration"),
	}
}

// Register validates in, then creates the account and its first
// verification code in one transaction and mails the code after commit.
// A taken email yields common.ErrorAlreadyExists and leaves nothing behind.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*Registration, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	acc := &models.Account{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}

	var code string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Accounts(tx).Create(ctx, acc)
		if err != nil {
			return err
		}
		acc = created

		code, err = s.verifier.IssueCode(ctx, tx, acc.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "registration failed", "email", in.Email, "error", err)
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	reg := &Registration{Account: acc}
	if err := s.verifier.Deliver(ctx, acc, code); err != nil {
		s.logger.Warn(ctx, "verification code not delivered", "account_id", acc.ID, "error", err)
	} else {
		reg.CodeSent = true
	}

	s.logger.Info(ctx, "account registered", "account_id", acc.ID, "code_sent", reg.CodeSent)
	return reg, nil
}
