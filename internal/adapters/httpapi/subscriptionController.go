package httpapi

import (
	"net/http"

	"campusblog/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct{ sc SubscriptionUseCase }

func NewSubscriptionController(sc SubscriptionUseCase) *SubscriptionController {
	return &SubscriptionController{sc: sc}
}

func (ctl *SubscriptionController) Subscribe(c *gin.Context) {
	username, ok := ctl.subscriber(c)
	if !ok {
		return
	}
	topic := c.Param("topic")
	if err := ctl.sc.Subscribe(c.Request.Context(), username, topic); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": username + " subscribed to " + topic})
}

func (ctl *SubscriptionController) Unsubscribe(c *gin.Context) {
	username, ok := ctl.subscriber(c)
	if !ok {
		return
	}
	topic := c.Param("topic")
	if err := ctl.sc.Unsubscribe(c.Request.Context(), username, topic); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": username + " unsubscribed from " + topic})
}

func (ctl *SubscriptionController) ListSubscriptions(c *gin.Context) {
	res, err := ctl.sc.ListSubscriptions(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *SubscriptionController) subscriber(c *gin.Context) (string, bool) {
	var req struct {
		Username string `json:"username"`
	}
	_ = c.ShouldBindJSON(&req)

	username := middleware.IdentityFrom(c).Username
	if username == "" {
		username = req.Username
	}
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return "", false
	}
	return username, true
}
