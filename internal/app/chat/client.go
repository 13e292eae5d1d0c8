package chat

// The Client is a live WebSocket connection. Outbound envelopes are queued on a buffered
// channel and written by WritePump; inbound frames are read by the owning Session.

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"channelchat/internal/pkg/logx"
	"channelchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// capacity of the outbound queue before sends start failing.
	sendQueueSize = 256

	// MaxContentBytes is the maximum allowed size (in bytes) of a chat message.
	MaxContentBytes = 5000
)

// Client wraps a gorilla WebSocket connection and implements Socket.
type Client struct {
	id ConnID

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// mu guards closed and closeFrame.
	mu         sync.Mutex
	closed     bool
	closeFrame []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient wraps wsConn and configures its read limit and keep-alive deadline.
// The caller must start WritePump.
func NewClient(wsConn *websocket.Conn) *Client {
	id := ConnID(randx.ConnID())

	c := &Client{
		id:     id,
		conn:   wsConn,
		send:   make(chan []byte, sendQueueSize),
		logger: logx.Component("Client").With().Str("conn_id", string(id)).Logger(),
	}

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return c
}

// ID implements Conn.
func (c *Client) ID() ConnID {
	return c.id
}

// Send queues payload for WritePump without blocking.
func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnClosed
	}

	select {
	case c.send <- payload:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
		return ErrSendQueueFull
	}
}

// Close stops accepting new payloads. WritePump flushes what is already queued, writes a
// close frame carrying code and reason, and then closes the connection. Only the first
// call has any effect.
func (c *Client) Close(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.closeFrame = websocket.FormatCloseMessage(code, reason)
	close(c.send)

	c.logger.Debug().Int("close_code", code).Str("reason", reason).Msg("Client close requested.")
}

// Receive blocks until the next text frame arrives and returns its content.
// Binary frames are skipped. Any read error ends the connection.
func (c *Client) Receive() (string, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			return "", err
		}

		if msgType != websocket.TextMessage {
			c.logger.Debug().Int("frame_type", msgType).Msg("Ignoring non-text frame")
			continue
		}

		return string(data), nil
	}
}

// WritePump handles writing messages from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		c.Close(websocket.CloseGoingAway, "")

		// ensure the connection is closed on exit so a blocked Receive returns
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one queued payload, or the close frame once the queue is closed.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		c.mu.Lock()
		frame := c.closeFrame
		c.mu.Unlock()

		if err := c.conn.WriteMessage(websocket.CloseMessage, frame); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
