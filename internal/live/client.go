package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 16 * 1024
	sendBuffer = 64
)

// Client is the websocket side of a session.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{} // closed when the write pump returns
	session *Session
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues msg for the write pump. Frames are dropped rather than
// blocking the session when the viewer falls behind.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "session", c.sessionID(), "type", msg.Type)
	}
}

func (c *Client) sessionID() string {
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

// ReadPump forwards client messages to the session until the connection
// closes, then cancels the session.
func (c *Client) ReadPump(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				slog.Debug("read error", "error", err, "session", c.sessionID())
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "session", c.sessionID())
			continue
		}
		msg.SessionID = c.sessionID()

		if !c.session.Deliver(&msg) {
			slog.Warn("session inbox full, dropping message", "session", c.sessionID(), "type", msg.Type)
		}
	}
}

// Flush closes the send queue and waits, at most writeWait, for the write
// pump to deliver what is still queued. Send must not be called afterwards.
func (c *Client) Flush() {
	close(c.send)
	select {
	case <-c.done:
	case <-time.After(writeWait):
		slog.Warn("timed out flushing client", "session", c.sessionID())
	}
}

// WritePump writes queued messages and keeps the connection alive. It
// returns once the send queue is closed and drained.
func (c *Client) WritePump(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "session", c.sessionID())
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
