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
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
)

type LoginStatus int

const (
	LoginOK LoginStatus = iota
	LoginInvalidCredentials
	LoginUnverified
)

func (s LoginStatus) String() string {
	switch s {
	case LoginOK:
		return "ok"
	case LoginInvalidCredentials:
		return "invalid_credentials"
	case LoginUnverified:
		return "unverified"
	default:
		return fmt.Sprintf("LoginStatus(%d)", int(s))
	}
}

// LoginResult tells the three login outcomes apart. Token is set only
// for LoginOK.
type LoginResult struct {
	Status LoginStatus
	Token  string
}

type AuthenticationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	secretKey   []byte
	logger      logging.Logger
	now         func() time.Time
}

func NewAuthenticationService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher,
	secretKey string, logger logging.Logger) *AuthenticationService {
	return &AuthenticationService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		secretKey:   []byte(secretKey),
		logger:      logger.With("module", "authentication"),
		now:         time.Now,
	}
}

// Login checks credentials and, for a verified account, returns its bearer
// token, minting one on first use. Unknown accounts and wrong passwords are
// indistinguishable to the caller.
func (s *AuthenticationService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = normalizeEmail(username)
	if username == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and/or password missing", common.ErrorValidation)
	}

	acc, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Compare(nil, password)
			return LoginResult{Status: LoginInvalidCredentials}, nil
		}
		return LoginResult{}, fmt.Errorf("error loading account: %w", err)
	}

	if !s.hasher.Compare(acc.PasswordHash, password) {
		return LoginResult{Status: LoginInvalidCredentials}, nil
	}

	v, err := s.repomanager.Verifications(s.db).GetByAccountID(ctx, acc.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return LoginResult{}, fmt.Errorf("error loading verification: %w", err)
	}
	if v == nil || !v.Verified {
		s.logger.Info(ctx, "login refused for unverified account", "account_id", acc.ID)
		return LoginResult{Status: LoginUnverified}, nil
	}

	tok, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.AuthToken, error) {
		candidate, err := auth.GenerateToken(acc.ID, s.secretKey, s.now())
		if err != nil {
			return nil, fmt.Errorf("error generating token: %w", err)
		}
		return s.repomanager.AuthTokens(tx).GetOrCreate(ctx, acc.ID, candidate)
	})
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "account_id", acc.ID, "error", err)
		return LoginResult{}, fmt.Errorf("error issuing token: %w", err)
	}

	return LoginResult{Status: LoginOK, Token: tok.Token}, nil
}

// Authenticate resolves a bearer token to its account. Anything other than
// a stored token signed with our key yields common.ErrorUnauthorized.
func (s *AuthenticationService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	accountID, err := auth.GetAccountIDFromToken(token, s.secretKey)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	stored, err := s.repomanager.AuthTokens(s.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading token: %w", err)
	}
	if stored.AccountID != accountID {
		return nil, common.ErrorUnauthorized
	}

	acc, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return acc, nil
}
