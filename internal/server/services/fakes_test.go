package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/authtokens"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/verifications"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memStore backs the fake repositories. Errors set on it are returned by the
// matching operation.
type memStore struct {
	mu            sync.Mutex
	accounts      map[string]*models.Account
	verifications map[string]*models.Verification
	tokens        map[string]*models.AuthToken

	createErr error
	getErr    error
	upsertErr error
	verGetErr error
	markErr   error
	tokenErr  error

	upserts int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:      map[string]*models.Account{},
		verifications: map[string]*models.Verification{},
		tokens:        map[string]*models.AuthToken{},
	}
}

type fakeAccounts struct{ s *memStore }

func (f *fakeAccounts) Create(_ context.Context, acc *models.Account) (*models.Account, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createErr != nil {
		return nil, f.s.createErr
	}
	for _, a := range f.s.accounts {
		if strings.EqualFold(a.Email, acc.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *acc
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	f.s.accounts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.getErr != nil {
		return nil, f.s.getErr
	}
	for _, a := range f.s.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.getErr != nil {
		return nil, f.s.getErr
	}
	a, ok := f.s.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeVerifications struct{ s *memStore }

func (f *fakeVerifications) Upsert(_ context.Context, accountID, code string, expiresAt time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.upsertErr != nil {
		return f.s.upsertErr
	}
	f.s.upserts++
	v, ok := f.s.verifications[accountID]
	if !ok {
		v = &models.Verification{AccountID: accountID}
		f.s.verifications[accountID] = v
	}
	v.Code = code
	v.ExpiresAt = expiresAt
	return nil
}

func (f *fakeVerifications) GetByAccountID(_ context.Context, accountID string) (*models.Verification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.verGetErr != nil {
		return nil, f.s.verGetErr
	}
	v, ok := f.s.verifications[accountID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVerifications) MarkVerified(_ context.Context, accountID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.markErr != nil {
		return f.s.markErr
	}
	v, ok := f.s.verifications[accountID]
	if !ok {
		return common.ErrorNotFound
	}
	v.Verified = true
	return nil
}

type fakeTokens struct{ s *memStore }

func (f *fakeTokens) GetOrCreate(_ context.Context, accountID, candidate string) (*models.AuthToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.tokenErr != nil {
		return nil, f.s.tokenErr
	}
	t, ok := f.s.tokens[accountID]
	if !ok {
		t = &models.AuthToken{AccountID: accountID, Token: candidate, CreatedAt: time.Now()}
		f.s.tokens[accountID] = t
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokens) FindByToken(_ context.Context, token string) (*models.AuthToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.tokenErr != nil {
		return nil, f.s.tokenErr
	}
	for _, t := range f.s.tokens {
		if t.Token == token {
			cp := *t
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository      { return &fakeAccounts{m.s} }
func (m *fakeRepoManager) Verifications(dbx.DBTX) verifications.Repository {
	return &fakeVerifications{m.s}
}
func (m *fakeRepoManager) AuthTokens(dbx.DBTX) authtokens.Repository { return &fakeTokens{m.s} }

type sentMail struct {
	to, subject, body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

// fixture wires the three services over one fake store and a sqlmock DB.
// Each dbx.WithTx a test triggers needs a matching Begin/Commit or
// Begin/Rollback expectation.
type fixture struct {
	db     *sql.DB
	mock   sqlmock.Sqlmock
	store  *memStore
	sender *fakeSender
	clock  time.Time

	registration   *RegistrationService
	verification   *VerificationService
	authentication *AuthenticationService
}

var testHasher = func() *auth.BcryptHasher {
	h, err := auth.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}()

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	f := &fixture{
		db:     db,
		mock:   mock,
		store:  newMemStore(),
		sender: &fakeSender{},
		clock:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	rm := &fakeRepoManager{s: f.store}
	log := logging.Nop()
	now := func() time.Time { return f.clock }

	f.verification = NewVerificationService(db, rm, f.sender, VerificationSettings{CodeLength: 4, CodeTTL: 5 * time.Minute}, log)
	f.verification.now = now
	f.registration = NewRegistrationService(db, rm, testHasher, f.verification, log)
	f.authentication = NewAuthenticationService(db, rm, testHasher, "test-secret", log)
	f.authentication.now = now
	return f
}

func (f *fixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func validInput() RegistrationInput {
	return RegistrationInput{
		Username:        "ignored",
		Email:           "Alice@Example.com",
		FirstName:       "Alice",
		LastName:        "Liddell",
		Password:        "super12345",
		ConfirmPassword: "super12345",
	}
}

// register creates an account through the service and returns it with the
// code that was mailed.
func (f *fixture) register(t *testing.T) (*models.Account, string) {
	t.Helper()
	f.expectCommit()
	reg, err := f.registration.Register(context.Background(), validInput())
	require.NoError(t, err)
	return reg.Account, f.store.verifications[reg.Account.ID].Code
}

func (f *fixture) registerVerified(t *testing.T) *models.Account {
	t.Helper()
	acc, code := f.register(t)
	f.expectCommit()
	_, err := f.verification.Verify(context.Background(), acc.Email, code)
	require.NoError(t, err)
	return acc
}
