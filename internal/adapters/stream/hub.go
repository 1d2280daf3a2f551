package stream

import (
	"context"
	"strings"
	"sync"

	redisadapter "campusblog/internal/adapters/redis"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Per-connection buffer. A reader that falls further behind than this loses
// events and has to rely on polling.
const connectionBuffer = 8

// Hub fans live notification events out to attached clients. It bridges the
// redis pub/sub side (one channel per recipient) to in-process per-connection
// channels keyed by username.
//
// All internal state is managed through the receivers; adding/removing a
// connection grabs the write lock, delivering grabs the read lock.
type Hub struct {
	client *redis.Client
	logger *zap.Logger

	// connectionMap maps username -> connection id -> payload channel, so a
	// user open on several devices gets every event on each of them and
	// removing one connection is O(1).
	connectionMap map[string]map[string]chan []byte
	mu            sync.RWMutex
}

func NewHub(client *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		client:        client,
		logger:        logger,
		connectionMap: make(map[string]map[string]chan []byte),
	}
}

// Attach registers a live connection for username. The connection is removed
// again when ctx terminates; when a user's last connection goes, so does the
// user's entry.
func (h *Hub) Attach(ctx context.Context, username string) (<-chan []byte, string) {
	chID := "stream_" + uuid.Must(uuid.NewV4()).String()
	ch := make(chan []byte, connectionBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connectionMap[username]; !ok {
		h.connectionMap[username] = make(map[string]chan []byte)
	}
	h.connectionMap[username][chID] = ch

	go h.cleanUp(ctx, chID, username)

	return ch, chID
}

func (h *Hub) cleanUp(ctx context.Context, chID, username string) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.connectionMap[username], chID)
	if len(h.connectionMap[username]) == 0 {
		delete(h.connectionMap, username)
	}
}

func (h *Hub) ActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, conns := range h.connectionMap {
		count += len(conns)
	}
	return count
}

// Deliver hands a payload to every live connection of username. Best effort:
// a full connection buffer drops the event rather than blocking delivery for
// everyone else.
func (h *Hub) Deliver(username string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for chID, ch := range h.connectionMap[username] {
		select {
		case ch <- payload:
		default:
			h.logger.Warn("stream connection too slow, dropping event",
				zap.String("username", username), zap.String("connection", chID))
		}
	}
}

// Run subscribes the redis side and routes events to attached connections
// until ctx terminates. Meant to run as its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.client.PSubscribe(ctx, redisadapter.ChannelFor("*"))
	defer pubsub.Close()

	h.logger.Info("stream hub started")
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("stream hub stopped")
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				h.logger.Warn("pub/sub channel closed")
				return
			}
			username := strings.TrimPrefix(msg.Channel, redisadapter.ChannelFor(""))
			h.Deliver(username, []byte(msg.Payload))
		}
	}
}
