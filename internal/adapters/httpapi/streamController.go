package httpapi

import (
	"context"
	"net/http"

	"campusblog/internal/adapters/httpapi/middleware"
	"campusblog/internal/adapters/stream"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StreamController serves the live notification event stream: one websocket
// per connection, fed from the hub. Delivery here is best effort; the
// polling endpoint is the durable path.
type StreamController struct {
	hub      *stream.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewStreamController(hub *stream.Hub, logger *zap.Logger) *StreamController {
	return &StreamController{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policing belongs to the excluded transport wiring.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (ctl *StreamController) ServeNotifications(c *gin.Context) {
	username := middleware.IdentityFrom(c).Username

	conn, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ctl.logger.Warn("websocket upgrade failed", zap.String("username", username), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, chID := ctl.hub.Attach(ctx, username)
	ctl.logger.Info("stream connection opened", zap.String("username", username), zap.String("connection", chID))

	// Reader goroutine: we expect no client messages, but reading is what
	// surfaces the close frame.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			ctl.logger.Info("stream connection closed", zap.String("username", username), zap.String("connection", chID))
			return
		case payload := <-events:
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				ctl.logger.Warn("stream write failed", zap.String("username", username), zap.Error(err))
				return
			}
		}
	}
}
