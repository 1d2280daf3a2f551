package httpapi

import (
	"net/http"

	"campusblog/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a use-case error onto the API surface. Internal errors
// are not echoed to the client.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
