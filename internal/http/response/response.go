package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondServiceError maps pipeline error kinds onto HTTP statuses. Gateway
// faults are 502s: the request was fine, an upstream dependency was not.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrTranscription):
		RespondError(c, http.StatusBadGateway, "transcription_failed", err)
	case errors.Is(err, apperrors.ErrEmbedding):
		RespondError(c, http.StatusBadGateway, "embedding_failed", err)
	case errors.Is(err, apperrors.ErrSynthesis):
		RespondError(c, http.StatusBadGateway, "synthesis_failed", err)
	case errors.Is(err, apperrors.ErrPersistence):
		RespondError(c, http.StatusInternalServerError, "persistence_failed", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
