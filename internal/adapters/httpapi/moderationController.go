package httpapi

import (
	"net/http"

	"campusblog/internal/adapters/httpapi/middleware"
	postEntity "campusblog/internal/core/post"

	"github.com/gin-gonic/gin"
)

type ModerationController struct{ mc ModerationUseCase }

func NewModerationController(mc ModerationUseCase) *ModerationController {
	return &ModerationController{mc: mc}
}

func (ctl *ModerationController) ReportPost(c *gin.Context) {
	var req struct {
		Reporter string `json:"reporter"`
	}
	// The body is optional when the caller is authenticated.
	_ = c.ShouldBindJSON(&req)

	reporter := middleware.IdentityFrom(c).Username
	if reporter == "" {
		reporter = req.Reporter
	}

	if err := ctl.mc.Report(c.Request.Context(), c.Param("id"), reporter); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post reported successfully, it is now under review"})
}

func (ctl *ModerationController) ReviewPost(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	reviewer := middleware.IdentityFrom(c).Persona
	if err := ctl.mc.Review(c.Request.Context(), c.Param("id"), postEntity.ReviewAction(req.Action), reviewer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review " + req.Action + " applied"})
}

func (ctl *ModerationController) ReportedPosts(c *gin.Context) {
	viewer := middleware.IdentityFrom(c).Persona
	res, err := ctl.mc.ReportedPosts(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
