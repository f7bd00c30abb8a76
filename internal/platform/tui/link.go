package tui

import (
	"github.com/vovakirdan/mushroom-arena/internal/multiplayer"
	"github.com/vovakirdan/mushroom-arena/internal/transport/ws"
)

// Link connects an ArenaModel to an arena. Messages sent through it need
// no session id; the link fills it in.
type Link interface {
	// Send forwards StartGameMsg, MoveMsg or JumpMsg to the arena.
	Send(msg multiplayer.CoordinatorMessage) error

	// Events returns arena events for this session. The channel is closed
	// when the link ends.
	Events() <-chan multiplayer.SessionEvent

	// Close leaves the arena.
	Close() error
}

// Inbox is the arena side of a LocalLink. *multiplayer.Arena satisfies it.
type Inbox interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// LocalLink attaches a session in the same process directly to the arena.
type LocalLink struct {
	inbox   Inbox
	session *multiplayer.ChannelSession
	events  chan multiplayer.SessionEvent
}

// NewLocalLink registers a new session with the arena.
func NewLocalLink(inbox Inbox, id multiplayer.SessionID, bufferSize int) *LocalLink {
	l := &LocalLink{
		inbox:   inbox,
		session: multiplayer.NewChannelSession(id, bufferSize),
		events:  make(chan multiplayer.SessionEvent),
	}
	go l.forward()
	inbox.Send(multiplayer.ConnectMsg{Session: l.session})
	return l
}

// forward relays session events until the session is closed, then closes
// the link's channel.
func (l *LocalLink) forward() {
	defer close(l.events)
	for {
		select {
		case <-l.session.Done():
			return
		case evt := <-l.session.Events():
			select {
			case l.events <- evt:
			case <-l.session.Done():
				return
			}
		}
	}
}

// ID returns the session id the arena knows this link by.
func (l *LocalLink) ID() multiplayer.SessionID {
	return l.session.ID()
}

// Send stamps msg with the session id and queues it on the arena inbox.
func (l *LocalLink) Send(msg multiplayer.CoordinatorMessage) error {
	l.inbox.Send(stamp(msg, l.session.ID()))
	return nil
}

// Events returns arena events for this session.
func (l *LocalLink) Events() <-chan multiplayer.SessionEvent {
	return l.events
}

// Close tells the arena the session is gone. Safe to call multiple times.
func (l *LocalLink) Close() error {
	select {
	case <-l.session.Done():
		return nil
	default:
	}
	l.session.Close()
	l.inbox.Send(multiplayer.DisconnectMsg{SessionID: l.session.ID()})
	return nil
}

// RemoteLink plays over a WebSocket connection.
type RemoteLink struct {
	client *ws.Client
}

// NewRemoteLink wraps a connected client.
func NewRemoteLink(client *ws.Client) *RemoteLink {
	return &RemoteLink{client: client}
}

// Send writes msg to the server.
func (l *RemoteLink) Send(msg multiplayer.CoordinatorMessage) error {
	return l.client.Send(msg)
}

// Events returns decoded server events.
func (l *RemoteLink) Events() <-chan multiplayer.SessionEvent {
	return l.client.Events()
}

// Close closes the connection.
func (l *RemoteLink) Close() error {
	return l.client.Close()
}

// stamp sets the session id on player messages.
func stamp(msg multiplayer.CoordinatorMessage, id multiplayer.SessionID) multiplayer.CoordinatorMessage {
	switch m := msg.(type) {
	case multiplayer.StartGameMsg:
		m.SessionID = id
		return m
	case multiplayer.MoveMsg:
		m.SessionID = id
		return m
	case multiplayer.JumpMsg:
		m.SessionID = id
		return m
	}
	return msg
}
