package client

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, req models.RegisterRequest) (*models.Registration, error)
	Verify(ctx context.Context, email, code string) error
	Resend(ctx context.Context, email string) error
	Login(ctx context.Context, username string, password []byte) (string, error)
	Me(ctx context.Context, token string) (*models.Account, error)
}
