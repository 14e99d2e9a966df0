package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"english-tutor-be/internal/dto"
	"english-tutor-be/internal/pkg/logger"
	"english-tutor-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// wsConn is the part of *websocket.Conn the pumps use.
type wsConn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

var _ wsConn = (*websocket.Conn)(nil)

// Client is one practice socket. Frames are handled one at a time in
// readPump, so a connection never races itself on the session.
type Client struct {
	Hub *Hub

	Conn wsConn

	SessionID string

	// Buffered channel of outbound frames.
	Send chan []byte

	service service.ITutorService
	logger  logger.ILogger

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn wsConn, sessionID string, svc service.ITutorService, log logger.ILogger) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
		service:   svc,
		logger:    log,
	}
}

// enqueue reports false when the buffer is full.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// reply goes to this connection only.
func (c *Client) reply(r *dto.PracticeReply) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	c.enqueue(data)
}

// readPump decodes frames and dispatches them until the peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
		c.logger.Info("PracticeSocket", "Connection closed", map[string]interface{}{"session_id": c.SessionID})
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("PracticeSocket", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}

		c.handleFrame(raw)

		// Pongs are not read while a frame is dispatched, so a slow turn
		// must not count against the peer.
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// handleFrame decodes one frame, runs it and routes the reply. Errors go to
// this connection only; results fan out to every tab on the session.
func (c *Client) handleFrame(raw []byte) {
	var frame dto.PracticeFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.reply(errorReply(invalidFrame()))
		return
	}
	c.logger.Debug("PracticeSocket", "Frame received", map[string]interface{}{
		"session_id": c.SessionID,
		"type":       frame.Type,
	})

	res := Dispatch(context.Background(), c.service, c.SessionID, &frame)
	if res.Type == dto.FrameError {
		c.logger.Warn("PracticeSocket", "Frame failed", map[string]interface{}{
			"session_id": c.SessionID,
			"type":       frame.Type,
			"error":      res.Error,
		})
		c.reply(res)
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	c.Hub.Send(context.Background(), c.SessionID, data)
}

// writePump owns all writes to the connection and keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
