package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var tagNameOnce sync.Once

// useJSONFieldNames makes validator report fields by their json name.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func init() { useJSONFieldNames() }

func fieldErrors(ve validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = field + " is required"
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}

// writeError maps a service error to its HTTP status and body.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	var fields common.ValidationErrors

	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusBadRequest, gin.H{"errors": map[string]string(fields)})
	case errors.Is(err, common.ErrorInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": common.ErrorInvalidCode.Error()})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
	case errors.Is(err, common.ErrorAlreadyVerified):
		c.JSON(http.StatusConflict, gin.H{"error": common.ErrorAlreadyVerified.Error()})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
	case errors.Is(err, common.ErrorNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": common.ErrorNotVerified.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorDelivery):
		c.JSON(http.StatusBadGateway, gin.H{"error": common.ErrorDelivery.Error()})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
