package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventOrderPlaced = "order_placed"
	EventOrderStatus = "order_status"

	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// OrderEvent is pushed to websocket subscribers of the order's session.
type OrderEvent struct {
	Type           string             `json:"type"`
	SessionID      string             `json:"sessionId"`
	Order          models.Order       `json:"order"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
}

type subscriber struct {
	conn    *websocket.Conn
	session string
	send    chan []byte
}

// Hub fans order events out to websocket subscribers. It is an orders.Sink;
// a subscriber that cannot keep up loses events rather than blocking checkout.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:      logger.Named("ws"),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// ServeWS subscribes the connection to the session given by the "session"
// query parameter or the session header.
func (h *Hub) ServeWS(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		sessionID = c.GetHeader(SessionHeader)
	}
	if sessionID == "" {
		sessionID = storage.DefaultSession
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn, session: sessionID, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("Subscriber connected", zap.String("session", sessionID))

	go h.writeLoop(sub)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sub)
}

func (h *Hub) writeLoop(sub *subscriber) {
	defer sub.conn.Close()

	for msg := range sub.send {
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("Subscriber write failed", zap.String("session", sub.session), zap.Error(err))
			return
		}
	}
	_ = sub.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) broadcast(event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		if sub.session != event.SessionID {
			continue
		}
		select {
		case sub.send <- data:
		default:
			h.logger.Warn("Dropping order event for slow subscriber", zap.String("session", sub.session))
		}
	}
	return nil
}

func (h *Hub) OrderPlaced(_ context.Context, sessionID string, order models.Order) error {
	return h.broadcast(OrderEvent{Type: EventOrderPlaced, SessionID: sessionID, Order: order})
}

func (h *Hub) OrderStatusChanged(_ context.Context, sessionID string, order models.Order, from models.OrderStatus) error {
	return h.broadcast(OrderEvent{Type: EventOrderStatus, SessionID: sessionID, Order: order, PreviousStatus: from})
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers {
		delete(h.subscribers, sub)
		close(sub.send)
	}
}
