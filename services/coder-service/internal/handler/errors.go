package handler

import (
	"errors"
	"net/http"

	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnsupportedLanguage),
		errors.Is(err, domain.ErrFormatFailed),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredential),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrInteractionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, domain.ErrExecutionTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, domain.ErrModelTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUpstreamUnavailable),
		errors.Is(err, domain.ErrFormatterUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": msg}. Unclassified failures are logged and
// reported without their detail.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, domain.ErrExecutionFailed) {
		log.FromContext(c.Request.Context()).Error("request failed", "err", err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}
