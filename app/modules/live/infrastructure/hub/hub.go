package livehub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	livedomain "github.com/Black-And-White-Club/scorekeeper/app/modules/live/domain"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability/attr"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

// Config controls keepalive timing. PingPeriod must be shorter than PongWait.
type Config struct {
	PongWait   time.Duration
	PingPeriod time.Duration
}

func DefaultConfig() Config {
	return Config{
		PongWait:   60 * time.Second,
		PingPeriod: 54 * time.Second,
	}
}

// Hub fans ranking frames out to the websocket subscribers of each
// leaderboard. A subscriber whose buffer is full is dropped.
type Hub struct {
	mu      sync.Mutex
	rooms   map[uuid.UUID]map[*client]struct{}
	cfg     Config
	logger  *slog.Logger
	metrics observability.OperationMetrics
}

type client struct {
	leaderboardID uuid.UUID
	conn          *websocket.Conn
	send          chan []byte
}

func NewHub(cfg Config, logger *slog.Logger, metrics observability.OperationMetrics) *Hub {
	if cfg.PongWait <= 0 || cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg = DefaultConfig()
	}
	return &Hub{
		rooms:   make(map[uuid.UUID]map[*client]struct{}),
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Serve streams frames for leaderboardID to conn until the peer goes away,
// ctx is cancelled or the subscriber is dropped. snapshot, if set, is the
// first frame written.
func (h *Hub) Serve(ctx context.Context, leaderboardID uuid.UUID, conn *websocket.Conn, snapshot *livedomain.Frame) {
	c := &client{
		leaderboardID: leaderboardID,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
	}
	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err == nil {
			c.send <- data
		}
	}
	h.register(c)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			h.unregister(c)
		case <-done:
		}
	}()

	go h.writePump(c)
	h.readPump(c)
	close(done)
	h.unregister(c)
}

// Broadcast queues frame for every subscriber of its leaderboard and returns
// how many received it.
func (h *Hub) Broadcast(ctx context.Context, frame livedomain.Frame) (int, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal frame: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for c := range h.rooms[frame.LeaderboardID] {
		select {
		case c.send <- data:
			delivered++
		default:
			h.logger.WarnContext(ctx, "Dropping slow subscriber",
				attr.UUID("leaderboard_id", frame.LeaderboardID),
			)
			h.metrics.RecordOperationFailure(ctx, "broadcast", "live")
			h.removeLocked(c)
		}
	}
	h.metrics.RecordOperationSuccess(ctx, "broadcast", "live")
	return delivered, nil
}

// Subscribers reports the number of connected subscribers of leaderboardID.
func (h *Hub) Subscribers(leaderboardID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[leaderboardID])
}

// Close drops every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for c := range room {
			h.removeLocked(c)
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.leaderboardID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.leaderboardID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked closes c.send once; the writer then closes the connection.
func (h *Hub) removeLocked(c *client) {
	room, ok := h.rooms[c.leaderboardID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.leaderboardID)
	}
	close(c.send)
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; subscribers never send data.
func (h *Hub) readPump(c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("Subscriber read failed",
					attr.UUID("leaderboard_id", c.leaderboardID),
					attr.Error(err),
				)
			}
			return
		}
	}
}
