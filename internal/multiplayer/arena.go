package multiplayer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mushroom-arena/internal/collision"
	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/core"
	"github.com/vovakirdan/mushroom-arena/internal/physics"
	"github.com/vovakirdan/mushroom-arena/internal/protocol"
	"github.com/vovakirdan/mushroom-arena/internal/world"
)

const inboxSize = 256

// StepResult summarizes one simulation tick.
type StepResult struct {
	Tick   uint64
	Events []collision.Event
}

// Arena is the authoritative simulation. One goroutine (Run) owns the world
// and the connection table; everything else talks to it through Send.
type Arena struct {
	cfg     config.ArenaConfig
	rng     core.Rand
	logger  *log.Logger
	world   *world.World
	engine  *collision.Engine
	saver   ResultSaver // Optional, can be nil
	metrics *Metrics

	inbox chan CoordinatorMessage
	done  chan struct{}

	conns     map[SessionID]*connection
	connOrder []SessionID

	tick   uint64
	latest atomic.Pointer[protocol.GameState]
}

// NewArena creates an arena with an empty world.
func NewArena(cfg config.ArenaConfig, rng core.Rand, logger *log.Logger) *Arena {
	a := &Arena{
		cfg:     cfg,
		rng:     rng,
		logger:  logger,
		world:   world.New(cfg),
		engine:  collision.NewEngine(),
		metrics: &Metrics{},
		inbox:   make(chan CoordinatorMessage, inboxSize),
		done:    make(chan struct{}),
		conns:   make(map[SessionID]*connection),
	}
	a.publish(a.baseState())
	return a
}

// SetResultSaver sets the optional result saver.
func (a *Arena) SetResultSaver(saver ResultSaver) {
	a.saver = saver
}

// Metrics returns the arena counters.
func (a *Arena) Metrics() *Metrics {
	return a.metrics
}

// Latest returns the most recent snapshot without a current player.
func (a *Arena) Latest() protocol.GameState {
	return *a.latest.Load()
}

// Send queues a message for the arena goroutine. It blocks while the inbox
// is full and returns immediately once the arena has stopped.
func (a *Arena) Send(msg CoordinatorMessage) {
	select {
	case a.inbox <- msg:
	case <-a.done:
	}
}

// Done closes when Run returns.
func (a *Arena) Done() <-chan struct{} {
	return a.done
}

// Run steps the world at the configured tick rate and handles inbox
// messages between ticks. It returns when ctx is cancelled.
func (a *Arena) Run(ctx context.Context) {
	defer close(a.done)

	ticker := time.NewTicker(a.cfg.Server.TickInterval())
	defer ticker.Stop()

	a.logger.Info("arena running", "tick_rate", a.cfg.Server.TickRate)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("arena stopped", "ticks", a.tick)
			return
		case msg := <-a.inbox:
			a.Handle(msg)
		case <-ticker.C:
			a.Step()
		}
	}
}

// Handle applies one inbox message. Only the arena goroutine may call it,
// or tests that drive the arena without Run.
func (a *Arena) Handle(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case ConnectMsg:
		a.handleConnect(m)
	case StartGameMsg:
		a.handleStartGame(m)
	case MoveMsg:
		a.handleMove(m)
	case JumpMsg:
		a.handleJump(m)
	case DisconnectMsg:
		a.handleDisconnect(m.SessionID, "disconnect")
	case ReloadConfigMsg:
		a.handleReload(m)
	default:
		a.logger.Warn("unknown arena message", "type", fmt.Sprintf("%T", msg))
	}
}

// Step advances the world by one tick: hazard, player physics in join
// order, collisions, then broadcast.
func (a *Arena) Step() StepResult {
	start := time.Now()
	a.tick++

	physics.AdvanceHazard(a.world.Hazard, a.cfg)

	for _, p := range a.world.Players() {
		var intent core.Intent
		jump := false
		if c, ok := a.conns[SessionID(p.ID)]; ok {
			intent = c.input.Intent()
			jump = c.input.TakeJump()
		}

		physics.ApplyMovement(p, intent, a.cfg)
		if jump && !physics.ApplyJump(p, a.cfg) {
			a.metrics.IncIgnored()
			a.logger.Debug("jump ignored while airborne", "player", p.ID, "tick", a.tick)
		}
		physics.ApplyGravity(p, a.cfg)
	}

	events := a.engine.Resolve(a.world, a.rng, a.cfg)
	for _, evt := range events {
		a.applyEvent(evt)
	}

	a.broadcastState()

	a.metrics.SetPlayers(a.world.Len())
	a.metrics.AddTick(time.Since(start).Nanoseconds())

	return StepResult{Tick: a.tick, Events: events}
}

func (a *Arena) applyEvent(evt collision.Event) {
	switch evt.Kind {
	case collision.HazardBounced:
		a.logger.Debug("mushroom bounce", "player", evt.Player, "moving", evt.HazardMoving)

	case collision.PlayerKilled:
		a.metrics.IncKills()
		a.logger.Info("player killed", "killer", evt.Player, "killed", evt.Target)
		a.broadcast(PlayerKilledEvent{Killer: string(evt.Player), Killed: string(evt.Target)})

	case collision.PlayerEliminated:
		a.metrics.IncEliminated()
		a.logger.Info("player eliminated", "player", evt.Target, "score", evt.Final.Score)
		if c, ok := a.conns[SessionID(evt.Target)]; ok {
			c.leaveWorld()
		}
		a.recordResult(evt.Final, ResultEliminated)
	}
}

// broadcastState sends the current world to every session, each with its
// own current player.
func (a *Arena) broadcastState() {
	base := a.baseState()
	a.publish(base)

	var closed []SessionID
	for _, id := range a.connOrder {
		c := a.conns[id]
		if !a.deliver(c, GameStateEvent{State: c.stateFor(base)}) {
			closed = append(closed, id)
		}
	}

	for _, id := range closed {
		a.handleDisconnect(id, "send failed")
	}
}

// broadcast sends an event to every session. Closed sessions are removed.
func (a *Arena) broadcast(evt SessionEvent) {
	var closed []SessionID
	for _, id := range a.connOrder {
		if !a.deliver(a.conns[id], evt) {
			closed = append(closed, id)
		}
	}
	for _, id := range closed {
		a.handleDisconnect(id, "send failed")
	}
}

// deliver sends one event to a connection and counts the outcome.
func (a *Arena) deliver(c *connection, evt SessionEvent) bool {
	if !c.handle.Send(evt) {
		a.metrics.IncLost()
		return false
	}
	a.metrics.IncSent()
	return true
}

// baseState builds the snapshot shared by all sessions. The players map is
// fresh on every call and never mutated afterwards, so sessions may read it
// from other goroutines.
func (a *Arena) baseState() protocol.GameState {
	players := make(map[string]protocol.PlayerSnapshot, a.world.Len())
	for _, p := range a.world.Players() {
		players[string(p.ID)] = protocol.PlayerSnapshot{
			ID:         string(p.ID),
			Name:       p.Name,
			X:          p.X,
			Y:          p.Y,
			VelocityY:  p.VelocityY,
			CanJump:    p.CanJump,
			FacingLeft: p.FacingLeft,
			Score:      p.Score,
			Lives:      p.Lives,
			Level:      p.Level,
			Powerup:    p.Powerup,
		}
	}

	h := a.world.Hazard
	return protocol.GameState{
		Tick:    a.tick,
		Players: players,
		Mushroom: protocol.MushroomSnapshot{
			X:         h.X,
			Y:         h.Y,
			Direction: h.Direction,
			Speed:     h.Speed,
			IsMoving:  h.IsMoving,
			Mood:      string(h.Mood),
		},
	}
}

func (a *Arena) publish(state protocol.GameState) {
	a.latest.Store(&state)
}

func (a *Arena) recordResult(p world.Player, reason ResultReason) {
	if a.saver == nil {
		return
	}
	err := a.saver.SaveResult(Result{
		PlayerID: string(p.ID),
		Name:     p.Name,
		Score:    p.Score,
		Level:    p.Level,
		Reason:   reason,
		EndedAt:  time.Now(),
	})
	if err != nil {
		a.logger.Error("save result", "player", p.ID, "err", err)
	}
}

// handleReload swaps tuning values. World dimensions, the hazard's position
// and server settings stay as they were at startup.
func (a *Arena) handleReload(m ReloadConfigMsg) {
	next := m.Config
	if err := next.Validate(); err != nil {
		a.logger.Warn("config reload rejected", "err", err)
		return
	}

	a.cfg.Player.Speed = next.Player.Speed
	a.cfg.Physics = next.Physics
	a.cfg.Scoring = next.Scoring
	a.cfg.Hazard.Speed = next.Hazard.Speed
	a.world.Hazard.Speed = next.Hazard.Speed

	a.logger.Info("config reloaded",
		"speed", a.cfg.Player.Speed,
		"gravity", a.cfg.Physics.Gravity,
		"jump_force", a.cfg.Physics.JumpForce,
		"hazard_speed", a.cfg.Hazard.Speed,
	)
}
