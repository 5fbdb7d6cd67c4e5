package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openconvo/convograph-backend/internal/data/graph"
)

type APIError struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
	// CommittedUID names the entity that was persisted before a partial
	// write failed, so callers can resume instead of re-creating.
	CommittedUID string `json:"committed_uid,omitempty"`
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

// RespondGraphError maps the store error taxonomy onto HTTP statuses.
func RespondGraphError(c *gin.Context, err error) {
	code := graph.CodeOf(err)
	env := ErrorEnvelope{Error: APIError{
		Message: err.Error(),
		Code:    string(code),
	}}
	var gerr *graph.Error
	if errors.As(err, &gerr) {
		if gerr.CommittedUID != uuid.Nil {
			env.Error.CommittedUID = gerr.CommittedUID.String()
		}
		if fe, ok := gerr.Cause.(graph.FieldErrors); ok {
			env.Error.Fields = fe
		}
	}
	c.JSON(statusFor(code), env)
}

func statusFor(code graph.ErrorCode) int {
	switch code {
	case graph.CodeNotFound:
		return http.StatusNotFound
	case graph.CodeConflict:
		return http.StatusConflict
	case graph.CodeValidation:
		return http.StatusUnprocessableEntity
	case graph.CodeTransport:
		return http.StatusBadGateway
	case graph.CodePartialWrite:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
