package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardesignspace/gallery-backend/internal/platform/apierr"
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

// RespondServiceError maps an apierr-tagged error onto the wire,
// defaulting to 500 with the given fallback code.
func RespondServiceError(c *gin.Context, err error, fallbackCode string) {
	RespondError(c, apierr.Status(err), apierr.CodeOf(err, fallbackCode), err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
