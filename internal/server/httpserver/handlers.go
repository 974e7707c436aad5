package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type registerRequest struct {
	Username        string `json:"username" binding:"max=254"`
	Email           string `json:"email" binding:"max=254"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	Password        string `json:"password" binding:"max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"max=128"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyRequest struct {
	Email            string `json:"email" binding:"required"`
	VerificationCode string `json:"verificationCode" binding:"required"`
}

type resendRequest struct {
	Email string `json:"email" binding:"required"`
}

type accountResponse struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	CreatedAt        time.Time `json:"created_at"`
	VerificationSent *bool     `json:"verification_sent,omitempty"`
}

func toAccountResponse(acc *models.Account) accountResponse {
	return accountResponse{
		ID:        acc.ID,
		Username:  acc.Email,
		Email:     acc.Email,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		CreatedAt: acc.CreatedAt,
	}
}

func (s *HTTPServer) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err, "")
		return
	}

	reg, err := s.registration.Register(c.Request.Context(), services.RegistrationInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := toAccountResponse(reg.Account)
	resp.VerificationSent = &reg.CodeSent
	c.JSON(http.StatusCreated, resp)
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err, "username and/or password missing")
		return
	}

	res, err := s.authentication.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	switch res.Status {
	case services.LoginOK:
		c.JSON(http.StatusOK, gin.H{"token": res.Token})
	case services.LoginUnverified:
		c.JSON(http.StatusForbidden, gin.H{"error": "account not verified"})
	default:
		c.JSON(http.StatusOK, gin.H{"error": "invalid credentials"})
	}
}

func (s *HTTPServer) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err, "email and verificationCode are required")
		return
	}

	if _, err := s.verification.Verify(c.Request.Context(), req.Email, req.VerificationCode); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": "email verified successfully"})
}

func (s *HTTPServer) resend(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err, "email is required")
		return
	}

	if err := s.verification.Resend(c.Request.Context(), req.Email); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": "verification code has been sent"})
}

func (s *HTTPServer) me(c *gin.Context) {
	acc, ok := accountFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acc))
}

// badRequest answers a failed bind. Missing required fields produce
// missingMsg; limit violations are reported per field.
func (s *HTTPServer) badRequest(c *gin.Context, err error, missingMsg string) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fields := fieldErrors(ve)
	for _, fe := range ve {
		if fe.Tag() == "required" && missingMsg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": missingMsg})
			return
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
}
