package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaops/rota-backend/internal/apperr"
)

// Fail writes the JSON failure response for err, mapping the error taxonomy
// to HTTP statuses. Validation failures carry their field list so forms can
// render inline messages.
func Fail(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	body := gin.H{"ok": false, "error": e.Msg}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	c.JSON(statusFor(e.Kind), body)
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
