package httpapi

import (
	"context"

	"campusblog/internal/adapters/httpapi/middleware"
	"campusblog/internal/adapters/stream"
	"campusblog/internal/core/identity"
	postEntity "campusblog/internal/core/post"
	notifPort "campusblog/internal/ports/notification"
	postPort "campusblog/internal/ports/post"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Inbound ports: the use-case interfaces the controllers are wired against.

type PostUseCase interface {
	CreatePost(ctx context.Context, author, topic, title, content, imageURL, externalLink string) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, id string, viewer identity.Persona) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context, topic string, viewer identity.Persona) ([]*postPort.PostDTO, error)
	DeletePost(ctx context.Context, id string) error
	AddReply(ctx context.Context, postID, text, author string) (*postPort.ReplyDTO, error)
	Search(ctx context.Context, query string, viewer identity.Persona) ([]*postPort.PostDTO, error)
	GenerateReply(ctx context.Context, postID, prompt, tone string) (string, error)
}

type ModerationUseCase interface {
	Report(ctx context.Context, postID, reporter string) error
	Review(ctx context.Context, postID string, action postEntity.ReviewAction, reviewer identity.Persona) error
	ReportedPosts(ctx context.Context, viewer identity.Persona) ([]*postPort.PostDTO, error)
}

type SubscriptionUseCase interface {
	Subscribe(ctx context.Context, username, topic string) error
	Unsubscribe(ctx context.Context, username, topic string) error
	ListSubscriptions(ctx context.Context, username string) ([]string, error)
}

type NotificationUseCase interface {
	List(ctx context.Context, recipient string) ([]*notifPort.NotificationDTO, error)
	MarkRead(ctx context.Context, id, recipient string) error
}

// SetupRoutes wires the API surface; use cases are injected from outside.
func SetupRoutes(
	postUC PostUseCase,
	moderationUC ModerationUseCase,
	subscriptionUC SubscriptionUseCase,
	notificationUC NotificationUseCase,
	hub *stream.Hub,
	jwtSecret []byte,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Metrics())
	r.Use(middleware.Identity(jwtSecret))

	pc := NewPostController(postUC)
	mc := NewModerationController(moderationUC)
	sc := NewSubscriptionController(subscriptionUC)
	nc := NewNotificationController(notificationUC)
	stc := NewStreamController(hub, logger)

	r.POST("/posts", pc.CreatePost)
	r.GET("/posts", pc.ListPosts)
	r.GET("/posts/:id", pc.GetPost)
	r.DELETE("/posts/:id", pc.DeletePost)
	r.POST("/posts/:id/replies", pc.AddReply)
	r.POST("/posts/:id/report", mc.ReportPost)
	r.POST("/posts/:id/review", mc.ReviewPost)
	r.POST("/posts/:id/generate-reply", pc.GenerateReply)
	r.GET("/reported-posts", mc.ReportedPosts)
	r.GET("/search", pc.Search)

	r.POST("/subscribe/:topic", sc.Subscribe)
	r.POST("/unsubscribe/:topic", sc.Unsubscribe)
	r.GET("/subscriptions/:username", sc.ListSubscriptions)

	r.GET("/notifications/:username", nc.ListNotifications)
	r.PUT("/notifications/:id", nc.MarkRead)
	r.GET("/ws/notifications", middleware.RequireIdentity(), stc.ServeNotifications)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
