package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/core"
	"github.com/vovakirdan/mushroom-arena/internal/multiplayer"
	"github.com/vovakirdan/mushroom-arena/internal/protocol"
)

const (
	// holdRelease ends a movement once no key repeat arrived for this long.
	// Terminals report key presses but never key releases.
	holdRelease = 300 * time.Millisecond

	bannerDuration = 2 * time.Second

	// Rows used around the world view: HUD line on top, help at the bottom.
	chromeRows = 3
)

// linkClosedMsg reports that the arena connection ended.
type linkClosedMsg struct{}

// sendFailedMsg reports an error sending to the arena.
type sendFailedMsg struct{ err error }

// ArenaModel is the Bubble Tea model of one terminal player.
type ArenaModel struct {
	link   Link
	cfg    config.ArenaConfig
	keys   ArenaKeyMap
	help   help.Model
	screen *core.Screen
	now    func() time.Time

	width  int
	height int

	state    protocol.GameState
	hasState bool
	self     string // Last known own player id

	intent     core.Intent
	lastMoveAt time.Time

	banner      string
	bannerUntil time.Time

	err      error
	quitting bool
}

// NewArenaModel creates a model playing through link. cfg supplies the
// world dimensions used for projection.
func NewArenaModel(link Link, cfg config.ArenaConfig, width, height int) ArenaModel {
	return ArenaModel{
		link:   link,
		cfg:    cfg,
		keys:   DefaultArenaKeyMap(),
		help:   help.New(),
		screen: core.NewScreen(width, max(height-chromeRows, 1)),
		now:    time.Now,
		width:  width,
		height: height,
	}
}

// Init starts listening to the arena.
func (m ArenaModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.link.Events()), tickCmd(uiTickRate))
}

// waitForEvent returns a command that waits for the next arena event.
func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return linkClosedMsg{}
		}
		return evt
	}
}

// Update handles messages.
func (m ArenaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-chromeRows, 1))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		return m.handleTick()

	case multiplayer.GameStateEvent:
		m.state = msg.State
		m.hasState = true
		if msg.State.CurrentPlayer != "" {
			m.self = msg.State.CurrentPlayer
		}
		return m, waitForEvent(m.link.Events())

	case multiplayer.PlayerKilledEvent:
		m.handleKill(msg)
		return m, waitForEvent(m.link.Events())

	case linkClosedMsg:
		m.err = fmt.Errorf("connection to arena lost")
		m.quitting = true
		return m, tea.Quit

	case sendFailedMsg:
		m.err = msg.err
		m.quitting = true
		m.link.Close()
		return m, tea.Quit
	}
	return m, nil
}

func (m ArenaModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.keys.Action(msg) {
	case core.ActionQuit:
		m.quitting = true
		m.link.Close()
		return m, tea.Quit

	case core.ActionStart:
		if m.Playing() {
			return m, nil
		}
		return m, m.send(multiplayer.StartGameMsg{})

	case core.ActionJump:
		if !m.Playing() {
			return m, nil
		}
		return m, m.send(multiplayer.JumpMsg{})

	case core.ActionLeft:
		return m.move(core.Intent{Left: true})

	case core.ActionRight:
		return m.move(core.Intent{Right: true})
	}
	return m, nil
}

// move holds a direction until key repeats stop arriving.
func (m ArenaModel) move(in core.Intent) (tea.Model, tea.Cmd) {
	if !m.Playing() {
		return m, nil
	}
	m.lastMoveAt = m.now()
	if m.intent == in {
		return m, nil
	}
	m.intent = in
	return m, m.send(multiplayer.MoveMsg{Left: in.Left, Right: in.Right})
}

func (m ArenaModel) handleTick() (tea.Model, tea.Cmd) {
	now := m.now()
	var cmds []tea.Cmd

	if !m.intent.Idle() && now.Sub(m.lastMoveAt) >= holdRelease {
		m.intent = core.Intent{}
		cmds = append(cmds, m.send(multiplayer.MoveMsg{}))
	}
	if m.banner != "" && !now.Before(m.bannerUntil) {
		m.banner = ""
	}

	cmds = append(cmds, tickCmd(uiTickRate))
	return m, tea.Batch(cmds...)
}

func (m *ArenaModel) handleKill(evt multiplayer.PlayerKilledEvent) {
	if m.self == "" {
		return
	}
	switch m.self {
	case evt.Killed:
		m.banner = fmt.Sprintf("Squashed by %s!", m.nameOf(evt.Killer))
	case evt.Killer:
		m.banner = fmt.Sprintf("You squashed %s!", m.nameOf(evt.Killed))
	default:
		return
	}
	m.bannerUntil = m.now().Add(bannerDuration)
}

func (m ArenaModel) nameOf(id string) string {
	if p, ok := m.state.Players[id]; ok {
		return p.Name
	}
	return "someone"
}

// send returns a command that forwards msg to the arena.
func (m ArenaModel) send(msg multiplayer.CoordinatorMessage) tea.Cmd {
	link := m.link
	return func() tea.Msg {
		if err := link.Send(msg); err != nil {
			return sendFailedMsg{err: err}
		}
		return nil
	}
}

// Playing reports whether the viewer has a player in the world.
func (m ArenaModel) Playing() bool {
	return m.state.CurrentPlayer != ""
}

// Err returns the error that ended the session, if any.
func (m ArenaModel) Err() error {
	return m.err
}

// View renders the arena or the idle screen.
func (m ArenaModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.Playing() {
		return m.idleView()
	}

	drawWorld(m.screen, m.state, m.cfg)

	self := m.state.Players[m.state.CurrentPlayer]
	top := hudLine(self, len(m.state.Players))
	if m.banner != "" {
		top += "  " + bannerStyle.Render(m.banner)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		RenderScreen(m.screen),
		m.help.View(m.keys),
	)
}

func (m ArenaModel) idleView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("MUSHROOM ARENA"))
	sb.WriteString("\n\n")

	if m.banner != "" {
		sb.WriteString(bannerStyle.Render(m.banner))
		sb.WriteString("\n\n")
	}

	if !m.hasState {
		sb.WriteString(dimStyle.Render("Connecting..."))
	} else {
		sb.WriteString(fmt.Sprintf("%d players in the arena. Press enter to join.\n\n", len(m.state.Players)))
		if len(m.state.Players) > 0 {
			sb.WriteString(newLeaderboard(m.state).View())
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}
