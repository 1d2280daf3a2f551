package httpapi

import (
	"net/http"

	"campusblog/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type PostController struct{ pc PostUseCase }

func NewPostController(pc PostUseCase) *PostController { return &PostController{pc: pc} }

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req struct {
		Title        string `json:"title" binding:"required"`
		Content      string `json:"content" binding:"required"`
		Topic        string `json:"topic" binding:"required"`
		Author       string `json:"author"`
		ImageURL     string `json:"imageURL"`
		ExternalLink string `json:"externalLink"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields (title, content, topic)"})
		return
	}

	// The authenticated caller is the author; the body field only serves
	// callers coming through the trusted gateway without a claim.
	author := middleware.IdentityFrom(c).Username
	if author == "" {
		author = req.Author
	}

	res, err := ctl.pc.CreatePost(c.Request.Context(), author, req.Topic, req.Title, req.Content, req.ImageURL, req.ExternalLink)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	viewer := middleware.IdentityFrom(c).Persona
	res, err := ctl.pc.ListPosts(c.Request.Context(), c.Query("topic"), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	viewer := middleware.IdentityFrom(c).Persona
	res, err := ctl.pc.GetPost(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.pc.DeletePost(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post " + id + " deleted"})
}

func (ctl *PostController) AddReply(c *gin.Context) {
	var req struct {
		Text   string `json:"text" binding:"required"`
		Author string `json:"author"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reply text is required"})
		return
	}

	author := middleware.IdentityFrom(c).Username
	if author == "" {
		author = req.Author
	}

	res, err := ctl.pc.AddReply(c.Request.Context(), c.Param("id"), req.Text, author)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) Search(c *gin.Context) {
	viewer := middleware.IdentityFrom(c).Persona
	res, err := ctl.pc.Search(c.Request.Context(), c.Query("q"), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": res})
}

func (ctl *PostController) GenerateReply(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
		Tone   string `json:"tone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	text, err := ctl.pc.GenerateReply(c.Request.Context(), c.Param("id"), req.Prompt, req.Tone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": gin.H{"text": text}})
}
