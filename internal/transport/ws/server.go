package ws

import (
	"crypto/rand"
	"encoding/base32"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/mushroom-arena/internal/multiplayer"
)

const (
	readLimit  = 1 << 16
	pingPeriod = 25 * time.Second
)

// Inbox receives decoded client messages. *multiplayer.Arena satisfies it.
type Inbox interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// Options tunes a connection.
type Options struct {
	SendBuffer   int
	WriteTimeout time.Duration
	PongTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.SendBuffer < 1 {
		o.SendBuffer = 64
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.PongTimeout <= 0 {
		o.PongTimeout = 60 * time.Second
	}
	return o
}

// Handler upgrades HTTP requests to arena sessions.
type Handler struct {
	inbox    Inbox
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler feeding inbox.
func NewHandler(inbox Inbox, opts Options, logger *log.Logger) *Handler {
	return &Handler{
		inbox:  inbox,
		opts:   opts.withDefaults(),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers load the page from the same server; other origins
			// are allowed for local development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	id := newSessionID()
	c := &conn{
		ws:      wsConn,
		session: multiplayer.NewChannelSession(id, h.opts.SendBuffer),
		opts:    h.opts,
		logger:  h.logger.With("session", id),
	}
	c.logger.Info("client connected", "remote", r.RemoteAddr)

	h.inbox.Send(multiplayer.ConnectMsg{Session: c.session})

	go c.writePump()
	c.readPump(h.inbox)
}

// conn pairs a WebSocket with the arena session it serves.
type conn struct {
	ws      *websocket.Conn
	session *multiplayer.ChannelSession
	opts    Options
	logger  *log.Logger
}

// readPump decodes client frames into arena messages. When it returns the
// session is closed and the arena is told about the disconnect.
func (c *conn) readPump(inbox Inbox) {
	defer func() {
		c.session.Close()
		c.ws.Close()
		inbox.Send(multiplayer.DisconnectMsg{SessionID: c.session.ID()})
		c.logger.Info("client disconnected")
	}()

	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read failed", "err", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))

		msg, err := decodeMessage(c.session.ID(), frame)
		if err != nil {
			c.logger.Warn("malformed frame, closing", "err", err)
			return
		}
		if msg == nil {
			c.logger.Debug("ignoring unknown message", "frame", string(frame))
			continue
		}
		inbox.Send(msg)
	}
}

// writePump drains the session's events onto the socket and keeps the
// connection alive with pings.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case evt := <-c.session.Events():
			frame, err := encodeEvent(evt)
			if err != nil {
				c.logger.Error("encode event", "err", err)
				continue
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Warn("write failed", "err", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.session.Done():
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.opts.WriteTimeout))
			return
		}
	}
}

func newSessionID() multiplayer.SessionID {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return multiplayer.SessionID(time.Now().Format("150405.000000000"))
	}
	return multiplayer.SessionID(strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b)))
}
