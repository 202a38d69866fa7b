package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/code-explainer-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope carries the message twice: under error for our own clients
// and as detail for clients written against the FastAPI shape.
type ErrorEnvelope struct {
	Error  APIError `json:"error"`
	Detail string   `json:"detail"`
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
		Detail: msg,
	})
}

// RespondAPIError renders any error, mapping non-API errors to a 500.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.As(err)
	RespondError(c, ae.Status, ae.Code, ae)
}

func AbortWithError(c *gin.Context, status int, code string, err error) {
	RespondError(c, status, code, err)
	c.Abort()
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
