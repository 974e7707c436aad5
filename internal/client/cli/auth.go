package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/client/client"
	"github.com/dmitrijs2005/accounts/internal/client/models"
	"github.com/dmitrijs2005/accounts/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

// promptEmail asks for an email, offering the last one used as default.
func (a *App) promptEmail() (string, error) {
	prompt := "Enter email"
	if a.email != "" {
		prompt = fmt.Sprintf("Enter email [%s]", a.email)
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if email == "" {
		email = a.email
	}
	return email, nil
}

// Register collects the sign-up form and creates the account. Passwords
// are read without echo and wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	first, err := getSimpleText(a.reader, "Enter first name", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Enter last name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	// Mismatch is reported by the server together with any other field errors.
	reg, err := a.api.Register(ctx, models.RegisterRequest{
		Username:        email,
		Email:           email,
		FirstName:       first,
		LastName:        last,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		return err
	}

	a.email = reg.Account.Email
	if reg.CodeSent {
		fmt.Fprintf(a.out, "Account created. A verification code was sent to %s.\n", reg.Account.Email)
	} else {
		fmt.Fprintln(a.out, "Account created, but the verification code could not be sent. Use 'resend'.")
	}
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	email, err := a.promptEmail()
	if err != nil {
		return err
	}
	code, err := getSimpleText(a.reader, "Enter verification code", a.out)
	if err != nil {
		return err
	}

	if err := a.api.Verify(ctx, email, code); err != nil {
		return err
	}
	a.email = email
	fmt.Fprintln(a.out, "Email verified, you can log in now.")
	return nil
}

func (a *App) Resend(ctx context.Context) error {
	email, err := a.promptEmail()
	if err != nil {
		return err
	}

	if err := a.api.Resend(ctx, email); err != nil {
		return err
	}
	a.email = email
	fmt.Fprintf(a.out, "A new verification code was sent to %s.\n", email)
	return nil
}

// Login prompts for credentials and keeps the issued token for 'me'.
func (a *App) Login(ctx context.Context) error {
	email, err := a.promptEmail()
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.email = email
	a.token = token
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	acc, err := a.api.Me(ctx, a.token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.token = ""
		}
		return err
	}

	fmt.Fprintf(a.out, "ID:      %s\nEmail:   %s\nName:    %s %s\nCreated: %s\n",
		acc.ID, acc.Email, acc.FirstName, acc.LastName, acc.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// Logout forgets the token. Tokens do not expire server-side, so logging
// in again returns the same one.
func (a *App) Logout(context.Context) error {
	a.token = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// describeError turns API errors into short user-facing messages.
func describeError(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, client.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, client.ErrUnauthorized):
		return "session is no longer valid, please log in again"
	case errors.Is(err, common.ErrorNotVerified):
		return "account not verified, use 'verify' (or 'resend' for a new code)"
	case errors.As(err, &apiErr):
		return apiErr.Error()
	default:
		return err.Error()
	}
}
