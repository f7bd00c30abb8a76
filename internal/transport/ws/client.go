package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/mushroom-arena/internal/multiplayer"
)

// Client is the player side of an arena WebSocket connection.
type Client struct {
	ws     *websocket.Conn
	events chan multiplayer.SessionEvent
	err    error

	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// Dial connects to an arena server, e.g. ws://localhost:3000/ws.
func Dial(ctx context.Context, url string) (*Client, error) {
	wsConn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws: dial %s: %w", url, err)
	}

	c := &Client{
		ws:     wsConn,
		events: make(chan multiplayer.SessionEvent, 64),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events returns decoded server events. The channel is closed when the
// connection ends; Err then reports why.
func (c *Client) Events() <-chan multiplayer.SessionEvent {
	return c.events
}

// Err returns the error that ended the connection, if any.
// Only valid after Events is closed.
func (c *Client) Err() error {
	return c.err
}

// Send encodes an arena message and writes it to the server.
// Only StartGameMsg, MoveMsg and JumpMsg travel over the wire.
func (c *Client) Send(msg multiplayer.CoordinatorMessage) error {
	frame, err := encodeMessage(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("ws: send: %w", err)
	}
	return nil
}

// Close ends the connection. Safe to call multiple times.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.events)

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.err = err
			}
			return
		}

		evt, err := decodeEvent(frame)
		if err != nil {
			c.err = err
			c.ws.Close()
			return
		}
		if evt == nil {
			continue
		}

		select {
		case c.events <- evt:
		case <-c.done:
			return
		}
	}
}
