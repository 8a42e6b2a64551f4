package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgrudge/lobby/internal/model"
)

const (
	// maxMessageSize bounds inbound envelopes
	maxMessageSize = 4096

	// sendBufferSize is the per-client outbound buffer; a client that falls
	// this far behind starts losing broadcasts
	sendBufferSize = 64
)

// Client is one live websocket connection. The read pump feeds the router;
// the write pump drains the send buffer and keeps the connection alive with
// pings.
type Client struct {
	id   model.PlayerID
	addr string

	hub    *Hub
	router *Router
	conn   *websocket.Conn
	send   chan []byte

	idleTimeout time.Duration
	writeWait   time.Duration

	closeOnce sync.Once
	logger    *slog.Logger
}

func newClient(id model.PlayerID, addr string, conn *websocket.Conn, hub *Hub, router *Router, idleTimeout, writeWait time.Duration, logger *slog.Logger) *Client {
	return &Client{
		id:          id,
		addr:        addr,
		hub:         hub,
		router:      router,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		idleTimeout: idleTimeout,
		writeWait:   writeWait,
		logger:      logger.With(slog.String("player_id", string(id))),
	}
}

// enqueue stages a message for the write pump. Returns false when the
// buffer is full; the message is dropped, per the best-effort contract.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeWithReason sends a close control frame and tears the connection down.
// The read pump unblocks and runs the disconnect cascade.
func (c *Client) closeWithReason(code int, reason string) {
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(c.writeWait)
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		_ = c.conn.Close()
	})
}

// readPump reads envelopes off the connection and hands each one to the
// router, one at a time. The read deadline doubles as the idle timeout: a
// connection that sends neither envelopes nor pongs is torn down and goes
// through the same disconnect cascade as a voluntary departure.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.router.Disconnect(context.Background(), c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("read error", slog.Any("error", err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
		c.router.Dispatch(context.Background(), c.id, c.addr, data)
	}
}

// writePump drains the send buffer and sends periodic pings. It exits when
// the hub closes the send channel or a write fails.
func (c *Client) writePump() {
	pingPeriod := c.idleTimeout * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
