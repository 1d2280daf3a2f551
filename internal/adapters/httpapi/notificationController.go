package httpapi

import (
	"net/http"

	"campusblog/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ nc NotificationUseCase }

func NewNotificationController(nc NotificationUseCase) *NotificationController {
	return &NotificationController{nc: nc}
}

// ListNotifications is the polling fallback of the push channel; clients are
// expected to hit it every few seconds while connected.
func (ctl *NotificationController) ListNotifications(c *gin.Context) {
	res, err := ctl.nc.List(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *NotificationController) MarkRead(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	_ = c.ShouldBindJSON(&req)

	recipient := middleware.IdentityFrom(c).Username
	if recipient == "" {
		recipient = req.Username
	}
	if recipient == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	id := c.Param("id")
	if err := ctl.nc.MarkRead(c.Request.Context(), id, recipient); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification " + id + " updated successfully"})
}
