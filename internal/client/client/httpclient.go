package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/client/models"
	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/netx"
)

// HTTPClient implements Client against the JSON API rooted at baseURL.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, header http.Header, in, out any) (int, error) {
	status, err := netx.DoJSON(ctx, c.http, method, c.baseURL+path, header, in, out)
	if err != nil && status == 0 {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return status, err
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var env envelope
	status, err := c.do(ctx, http.MethodGet, "/ping", nil, nil, &env)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return mapError(status, env)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.Registration, error) {
	var resp struct {
		models.Account
		envelope
		VerificationSent *bool `json:"verification_sent"`
	}
	status, err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, mapError(status, resp.envelope)
	}

	sent := resp.VerificationSent != nil && *resp.VerificationSent
	return &models.Registration{Account: resp.Account, CodeSent: sent}, nil
}

func (c *HTTPClient) Verify(ctx context.Context, email, code string) error {
	in := map[string]string{"email": email, "verificationCode": code}

	var env envelope
	status, err := c.do(ctx, http.MethodPost, "/api/auth/verify", nil, in, &env)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return mapError(status, env)
	}
	return nil
}

func (c *HTTPClient) Resend(ctx context.Context, email string) error {
	var env envelope
	status, err := c.do(ctx, http.MethodPost, "/api/auth/resend", nil, map[string]string{"email": email}, &env)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return mapError(status, env)
	}
	return nil
}

// Login returns the bearer token for a verified account. The server
// answers bad credentials with 200 and an error body, which is reported
// as ErrInvalidCredentials.
func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	in := map[string]string{"username": username, "password": string(password)}

	var env envelope
	status, err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, in, &env)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", mapError(status, env)
	}
	if env.Token == "" {
		return "", ErrInvalidCredentials
	}
	return env.Token, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.Account, error) {
	h := http.Header{}
	h.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	var resp struct {
		models.Account
		envelope
	}
	status, err := c.do(ctx, http.MethodGet, "/api/auth/me", h, nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, mapError(status, resp.envelope)
	}
	return &resp.Account, nil
}
