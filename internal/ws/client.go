package ws

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"prediction_webapp/internal/domain"
	"prediction_webapp/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 256
)

// Publisher republishes client-originated events through the pub/sub path
// so they reach every node's fan-out.
type Publisher interface {
	Publish(ctx context.Context, env *domain.NotificationEnvelope) error
}

type Client struct {
	ID     string
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte

	hub *Hub
	pub Publisher
}

func NewClient(userID int64, conn *websocket.Conn, hub *Hub, pub Publisher) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		hub:    hub,
		pub:    pub,
	}
}

// UserRoom is the room key a user's directed notifications are addressed to.
func (c *Client) UserRoom() string {
	return strconv.FormatInt(c.UserID, 10)
}

// Run joins the client to its own user room and blocks in the read pump
// until the connection drops.
func (c *Client) Run() {
	go c.writePump()

	c.hub.Join(c, c.UserRoom())
	c.readPump()
}

// enqueue hands a frame to the write pump without blocking the caller.
func (c *Client) enqueue(data []byte) {
	select {
	case c.Send <- data:
		deliveries.WithLabelValues("sent").Inc()
	default:
		deliveries.WithLabelValues("dropped").Inc()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.LeaveAll(c)
		close(c.Send)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleMessage(raw)
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Warn("ws client sent malformed message", "user_id", c.UserID, "error", err)
		c.sendError("malformed message")
		return
	}

	switch msg.Type {
	case MsgJoinRoom:
		if msg.Room == "" {
			c.sendError("room required")
			return
		}
		c.hub.Join(c, msg.Room)

	case MsgLeaveRoom:
		if msg.Room == "" {
			c.sendError("room required")
			return
		}
		c.hub.Leave(c, msg.Room)

	case MsgChatMessage:
		if msg.Room == "" || msg.Text == "" {
			c.sendError("room and text required")
			return
		}
		env := domain.NewEnvelope(domain.EventChatMessage, "ws", c.ID, map[string]any{
			"from": c.UserID,
			"text": msg.Text,
		})
		env.To = msg.Room

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.pub.Publish(ctx, env); err != nil {
			logger.Error("chat publish failed", "user_id", c.UserID, "room", msg.Room, "error", err)
		}

	default:
		c.sendError("unknown message type")
	}
}

func (c *Client) sendError(reason string) {
	data, err := json.Marshal(Message{Event: MsgError, Payload: map[string]any{"message": reason}})
	if err != nil {
		return
	}
	c.enqueue(data)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
