// Package httpserver exposes the account services as a JSON API over gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Registrar interface {
	Register(ctx context.Context, in services.RegistrationInput) (*services.Registration, error)
}

type Verifier interface {
	Verify(ctx context.Context, email, code string) (*models.Verification, error)
	Resend(ctx context.Context, email string) error
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (services.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

type HTTPServer struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	registration    Registrar
	verification    Verifier
	authentication  Authenticator
}

func NewHTTPServer(address string, shutdownTimeout time.Duration, l logging.Logger,
	r Registrar, v Verifier, a Authenticator) *HTTPServer {
	return &HTTPServer{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
		registration:    r,
		verification:    v,
		authentication:  a,
	}
}

// Router builds the gin engine with every route registered.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger(), s.recovery())

	r.GET("/ping", s.ping)

	api := r.Group("/api/auth")
	{
		api.POST("/register", s.register)
		api.POST("/login", s.login)
		api.POST("/verify", s.verify)
		api.POST("/resend", s.resend)
		api.GET("/me", s.bearerAuth(), s.me)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully, giving
// in-flight requests shutdownTimeout to finish.
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *HTTPServer) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
