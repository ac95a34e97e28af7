package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WorkspaceLauncher/backend/internal/shared/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	queueDepth = 32
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Progress UI runs on a local origin
	},
}

type client struct {
	conn *websocket.Conn
	send chan any
}

// Hub fans out launch progress to WebSocket clients
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{} // Protected by mu
	last    *types.StatusMessage // Protected by mu
	closed  bool                 // Protected by mu
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHub creates a new hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// WithMetrics adds metrics tracking to the hub
func (h *Hub) WithMetrics(metrics *monitoring.Metrics) *Hub {
	h.metrics = metrics
	return h
}

// Publish queues a status message for every client without blocking.
// Clients whose queue is full miss this message.
func (h *Hub) Publish(sessionID string, status types.LaunchStatusMap) {
	msg := types.NewStatusMessage(sessionID, status, time.Now().Unix())

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &msg
	for c := range h.clients {
		h.enqueue(c, msg, "status")
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan any, queueDepth)}
	if !h.register(cl) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go h.writePump(cl)
	h.readPump(cl)
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		h.drop(c)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}

	h.enqueue(c, gin.H{
		"type":      "system",
		"message":   "Connected to workspace launcher",
		"timestamp": time.Now().Unix(),
	}, "system")
	if h.last != nil {
		h.enqueue(c, *h.last, "status")
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		h.drop(c)
	}
}

// drop removes a client and ends its writer (must hold mu)
func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
}

// enqueue hands msg to the client writer (must hold mu)
func (h *Hub) enqueue(c *client, msg any, msgType string) {
	select {
	case c.send <- msg:
		if h.metrics != nil {
			h.metrics.RecordWSMessage("out", msgType)
		}
	default:
		h.logger.Debug("WebSocket client queue full, dropping message", zap.String("type", msgType))
	}
}

func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	for {
		var msg types.WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		var reply any
		switch msg.Type {
		case "ping":
			reply = gin.H{"type": "pong"}
		case "status":
			h.mu.RLock()
			if h.last != nil {
				reply = *h.last
			}
			h.mu.RUnlock()
		default:
			reply = gin.H{"type": "error", "message": "unknown message type", "timestamp": time.Now().Unix()}
		}
		if reply == nil {
			continue
		}

		h.mu.Lock()
		if _, ok := h.clients[c]; ok {
			h.enqueue(c, reply, "reply")
		}
		h.mu.Unlock()
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			h.logger.Debug("WebSocket write failed", zap.Error(err))
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
