package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError maps a service error onto the right status code. Typed errors
// from utils/errors.go carry their own code; anything else is a 500 with the
// passed fallback code taking precedence when it is not zero.
func RespondError(c *gin.Context, code int, err error) {
	if code == 0 {
		code = StatusOf(err)
	}

	resp := JSONResponse{
		Status:  false,
		Message: err.Error(),
	}
	if ve, ok := err.(*ValidationError); ok {
		resp.Errors = ve.Fields
	}
	c.JSON(code, resp)
}

// RespondServiceError lets controllers forward a service error without
// choosing a status themselves.
func RespondServiceError(c *gin.Context, err error) {
	RespondError(c, StatusOf(err), err)
}

// StatusOf resolves the HTTP status for a service error.
func StatusOf(err error) int {
	switch err.(type) {
	case *ValidationError:
		return http.StatusUnprocessableEntity
	case *AuthError:
		return http.StatusUnauthorized
	case *PermissionError:
		return http.StatusForbidden
	case *NotFoundError:
		return http.StatusNotFound
	case *ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
