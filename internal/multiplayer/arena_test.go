package multiplayer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/mushroom-arena/internal/collision"
	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/logging"
	"github.com/vovakirdan/mushroom-arena/internal/physics"
	"github.com/vovakirdan/mushroom-arena/internal/protocol"
	"github.com/vovakirdan/mushroom-arena/internal/world"
)

type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(int) int     { return r.n }

// fakeSession records every event it is sent.
type fakeSession struct {
	id SessionID

	mu     sync.Mutex
	events []SessionEvent
	closed bool
	done   chan struct{}
}

func newFakeSession(id SessionID) *fakeSession {
	return &fakeSession{id: id, done: make(chan struct{})}
}

func (s *fakeSession) ID() SessionID { return s.id }

func (s *fakeSession) Send(evt SessionEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.events = append(s.events, evt)
	return true
}

func (s *fakeSession) Done() <-chan struct{} { return s.done }

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
}

func (s *fakeSession) Events() []SessionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SessionEvent, len(s.events))
	copy(out, s.events)
	return out
}

// lastState returns the most recent game state the session received.
func (s *fakeSession) lastState(t *testing.T) protocol.GameState {
	t.Helper()
	events := s.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if gs, ok := events[i].(GameStateEvent); ok {
			return gs.State
		}
	}
	t.Fatalf("session %s received no game state", s.id)
	return protocol.GameState{}
}

type fakeSaver struct {
	results []Result
}

func (f *fakeSaver) SaveResult(r Result) error {
	f.results = append(f.results, r)
	return nil
}

func newTestArena(rng fixedRand) *Arena {
	return NewArena(config.DefaultArenaConfig(), rng, logging.Discard())
}

// join connects a session and starts a game for it.
func join(a *Arena, id SessionID) *fakeSession {
	s := newFakeSession(id)
	a.Handle(ConnectMsg{Session: s})
	a.Handle(StartGameMsg{SessionID: id})
	return s
}

func TestStartGameCreatesPlayer(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5, n: 42})
	s := join(a, "c1")

	p, ok := a.world.Get("c1")
	if !ok {
		t.Fatal("player not in world")
	}
	if p.Name != "Hobbit 42" {
		t.Errorf("name = %q, expected Hobbit 42", p.Name)
	}
	if p.Lives != 3 || p.Level != 1 || p.Score != 0 || p.Powerup != "-" {
		t.Errorf("unexpected starting values %+v", p)
	}
	if p.X != 400 || p.Y != physics.GroundY(a.cfg) || !p.CanJump {
		t.Errorf("unexpected spawn (%v, %v) grounded=%v", p.X, p.Y, p.CanJump)
	}

	// The joining session gets a snapshot immediately.
	st := s.lastState(t)
	if st.CurrentPlayer != "c1" {
		t.Errorf("currentPlayer = %q, expected c1", st.CurrentPlayer)
	}
	if _, ok := st.Players["c1"]; !ok {
		t.Error("snapshot missing own player")
	}
}

func TestStartGameTwiceIsIgnored(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	join(a, "c1")

	p, _ := a.world.Get("c1")
	p.Score = 250
	a.Handle(StartGameMsg{SessionID: "c1"})

	if a.world.Len() != 1 {
		t.Errorf("world has %d players, expected 1", a.world.Len())
	}
	if p2, _ := a.world.Get("c1"); p2.Score != 250 {
		t.Error("second start replaced the player")
	}
}

func TestStartGameUnknownSession(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	a.Handle(StartGameMsg{SessionID: "ghost"})
	if a.world.Len() != 0 {
		t.Error("unknown session should not get a player")
	}
}

func TestMoveIntentPersistsAcrossTicks(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	join(a, "c1")

	a.Handle(MoveMsg{SessionID: "c1", Right: true})
	for i := 0; i < 3; i++ {
		a.Step()
	}

	p, _ := a.world.Get("c1")
	if p.X != 415 {
		t.Errorf("x = %v, expected 415 after three ticks", p.X)
	}

	a.Handle(MoveMsg{SessionID: "c1"})
	a.Step()
	if p.X != 415 {
		t.Errorf("x = %v, expected player to stop", p.X)
	}
}

func TestMoveLeftAtEdgeClamps(t *testing.T) {
	a := newTestArena(fixedRand{f: 0})
	join(a, "c1")

	p, _ := a.world.Get("c1")
	p.X = 0
	a.Handle(MoveMsg{SessionID: "c1", Left: true})
	a.Step()

	if p.X != 16 {
		t.Errorf("x = %v, expected 16", p.X)
	}
	if !p.FacingLeft {
		t.Error("expected facing left")
	}
}

func TestJumpIsOneShot(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.1})
	join(a, "c1")
	p, _ := a.world.Get("c1")
	ground := physics.GroundY(a.cfg)

	a.Handle(JumpMsg{SessionID: "c1"})
	a.Step()

	if p.CanJump || p.Y >= ground {
		t.Fatalf("expected airborne after jump, y=%v canJump=%v", p.Y, p.CanJump)
	}
	if p.VelocityY != -15+0.8 {
		t.Errorf("VelocityY = %v, expected %v", p.VelocityY, -15+0.8)
	}

	// A jump while airborne is dropped, not kept for landing.
	a.Handle(JumpMsg{SessionID: "c1"})
	a.Step()
	if got := a.metrics.Snapshot()["inputs_ignored"].(int64); got != 1 {
		t.Errorf("inputs_ignored = %d, expected 1", got)
	}

	for i := 0; i < 100 && !p.CanJump; i++ {
		a.Step()
	}
	if !p.CanJump || p.Y != ground || p.VelocityY != 0 {
		t.Fatalf("expected to land, got y=%v vy=%v", p.Y, p.VelocityY)
	}
	a.Step()
	if !p.CanJump {
		t.Error("dropped airborne jump fired after landing")
	}
}

func TestInputFromUnknownSessionIgnored(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	join(a, "c1")

	a.Handle(MoveMsg{SessionID: "ghost", Left: true})
	a.Handle(JumpMsg{SessionID: "ghost"})
	a.Step()

	p, _ := a.world.Get("c1")
	if p.X != 400 || !p.CanJump {
		t.Errorf("player affected by foreign input: %+v", p)
	}
}

func TestCurrentPlayerIsPerConnection(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	player := join(a, "c1")
	watcher := newFakeSession("c2")
	a.Handle(ConnectMsg{Session: watcher})

	a.Step()

	if got := player.lastState(t).CurrentPlayer; got != "c1" {
		t.Errorf("player currentPlayer = %q, expected c1", got)
	}
	st := watcher.lastState(t)
	if st.CurrentPlayer != "" {
		t.Errorf("watcher currentPlayer = %q, expected empty", st.CurrentPlayer)
	}
	if len(st.Players) != 1 {
		t.Errorf("watcher sees %d players, expected 1", len(st.Players))
	}
}

func TestDisconnectRemovesPlayerAndRecordsResult(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5, n: 7})
	saver := &fakeSaver{}
	a.SetResultSaver(saver)
	join(a, "c1")
	other := join(a, "c2")

	p, _ := a.world.Get("c1")
	p.Score = 150
	a.Handle(DisconnectMsg{SessionID: "c1"})
	a.Step()

	if _, ok := a.world.Get("c1"); ok {
		t.Error("player still in world")
	}
	if _, ok := other.lastState(t).Players["c1"]; ok {
		t.Error("disconnected player still in snapshot")
	}
	if len(saver.results) != 1 {
		t.Fatalf("expected one result, got %d", len(saver.results))
	}
	r := saver.results[0]
	if r.PlayerID != "c1" || r.Score != 150 || r.Reason != ResultDisconnect || r.Name != "Hobbit 7" {
		t.Errorf("unexpected result %+v", r)
	}

	// Disconnecting twice is harmless.
	a.Handle(DisconnectMsg{SessionID: "c1"})
	if len(saver.results) != 1 {
		t.Error("second disconnect recorded another result")
	}
}

func TestClosedSessionIsDropped(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	s := join(a, "c1")
	s.Close()

	a.Step()

	if _, ok := a.conns["c1"]; ok {
		t.Error("closed session still registered")
	}
	if a.world.Len() != 0 {
		t.Error("player of closed session still in world")
	}
	if got := a.metrics.Snapshot()["messages_lost"].(int64); got != 1 {
		t.Errorf("messages_lost = %d, expected 1", got)
	}
}

func TestStepStompBroadcastsKill(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.9})
	sa := join(a, "A")
	sb := join(a, "B")

	ground := physics.GroundY(a.cfg)
	pa, _ := a.world.Get("A")
	pb, _ := a.world.Get("B")
	pa.X, pa.Y, pa.VelocityY, pa.CanJump = 200, ground-30, 4, false
	pb.X, pb.Y = 200, ground

	res := a.Step()

	if pa.Score != 100 || pb.Lives != 2 {
		t.Fatalf("A.Score=%d B.Lives=%d, expected 100/2", pa.Score, pb.Lives)
	}
	if len(res.Events) != 1 || res.Events[0].Player != "A" {
		t.Errorf("unexpected step events %+v", res.Events)
	}

	for _, s := range []*fakeSession{sa, sb} {
		events := s.Events()
		if len(events) < 2 {
			t.Fatalf("session %s got %d events", s.id, len(events))
		}
		kill, ok := events[len(events)-2].(PlayerKilledEvent)
		if !ok {
			t.Fatalf("session %s: expected kill before state, got %T", s.id, events[len(events)-2])
		}
		if kill.Killer != "A" || kill.Killed != "B" {
			t.Errorf("unexpected kill %+v", kill)
		}
		if _, ok := events[len(events)-1].(GameStateEvent); !ok {
			t.Errorf("session %s: expected state last", s.id)
		}
	}

	// A start snapshot for each joiner, then a kill and a state per session.
	snap := a.metrics.Snapshot()
	if got := snap["messages_sent"].(int64); got != 6 {
		t.Errorf("messages_sent = %d, expected 6", got)
	}
	if got := snap["messages_lost"].(int64); got != 0 {
		t.Errorf("messages_lost = %d, expected 0", got)
	}
}

func TestBounceArcLandsOnHazardAgain(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	join(a, "P")

	h := a.world.Hazard
	h.SetMoving(false)

	// The player just bounced off the mushroom and is on its way up.
	p, _ := a.world.Get("P")
	p.X, p.Y, p.VelocityY, p.CanJump = h.X, 498.8, -a.cfg.Physics.JumpForce, false

	bounced := false
	for tick := 0; tick < 60 && !bounced; tick++ {
		for _, evt := range a.Step().Events {
			if evt.Kind == collision.HazardBounced && evt.Player == "P" {
				bounced = true
			}
		}
	}

	if !bounced {
		t.Fatalf("player came down on the mushroom without bouncing: y=%v vy=%v", p.Y, p.VelocityY)
	}
	if !h.IsMoving || h.Mood != world.MoodHappy {
		t.Errorf("hazard moving=%v mood=%q, expected it to start again", h.IsMoving, h.Mood)
	}
	if p.Score != a.cfg.Scoring.HazardBonus {
		t.Errorf("score = %d, expected %d", p.Score, a.cfg.Scoring.HazardBonus)
	}
	if p.VelocityY != -a.cfg.Physics.JumpForce || p.Y > physics.GroundY(a.cfg) {
		t.Errorf("unexpected player after bounce y=%v vy=%v", p.Y, p.VelocityY)
	}
}

func TestEliminatedConnectionCanRestart(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.9})
	saver := &fakeSaver{}
	a.SetResultSaver(saver)
	join(a, "A")
	sb := join(a, "B")

	ground := physics.GroundY(a.cfg)
	pa, _ := a.world.Get("A")
	pb, _ := a.world.Get("B")
	pa.X, pa.Y, pa.VelocityY, pa.CanJump = 200, ground-30, 4, false
	pb.X, pb.Y, pb.Lives, pb.Score = 200, ground, 1, 50

	a.Step()

	if _, ok := a.world.Get("B"); ok {
		t.Fatal("B should be eliminated")
	}
	st := sb.lastState(t)
	if st.CurrentPlayer != "" {
		t.Errorf("eliminated connection currentPlayer = %q", st.CurrentPlayer)
	}
	if _, ok := st.Players["B"]; ok {
		t.Error("eliminated player present in next snapshot")
	}
	if len(saver.results) != 1 || saver.results[0].Reason != ResultEliminated || saver.results[0].Score != 50 {
		t.Errorf("unexpected results %+v", saver.results)
	}

	a.Handle(StartGameMsg{SessionID: "B"})
	pb, ok := a.world.Get("B")
	if !ok {
		t.Fatal("B could not restart")
	}
	if pb.Lives != 3 || pb.Score != 0 {
		t.Errorf("restarted player has lives=%d score=%d", pb.Lives, pb.Score)
	}
}

func TestReloadConfigChangesTuning(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	join(a, "c1")

	next := config.DefaultArenaConfig()
	next.Player.Speed = 10
	next.Hazard.Speed = 4
	next.World.ScreenWidth = 2000
	a.Handle(ReloadConfigMsg{Config: next})

	a.Handle(MoveMsg{SessionID: "c1", Right: true})
	a.Step()

	p, _ := a.world.Get("c1")
	if p.X != 410 {
		t.Errorf("x = %v, expected 410 with new speed", p.X)
	}
	if a.world.Hazard.Speed != 4 {
		t.Errorf("hazard speed = %v, expected 4", a.world.Hazard.Speed)
	}
	if a.cfg.World.ScreenWidth != 800 {
		t.Error("reload must not resize the world")
	}

	bad := config.DefaultArenaConfig()
	bad.Physics.Gravity = 0
	a.Handle(ReloadConfigMsg{Config: bad})
	if a.cfg.Physics.Gravity != 0.8 {
		t.Error("invalid config was applied")
	}
}

func TestLatestSnapshotTracksTicks(t *testing.T) {
	a := newTestArena(fixedRand{f: 0.5})
	if got := a.Latest(); got.Tick != 0 || got.Mushroom.Mood != "happy" {
		t.Errorf("unexpected initial snapshot %+v", got)
	}
	join(a, "c1")
	a.Step()
	a.Step()

	got := a.Latest()
	if got.Tick != 2 || len(got.Players) != 1 || got.CurrentPlayer != "" {
		t.Errorf("unexpected latest snapshot %+v", got)
	}
	if got.Mushroom.X != 404 {
		t.Errorf("mushroom x = %v, expected 404", got.Mushroom.X)
	}
}

func TestRunProcessesInboxAndTicks(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	cfg.Server.TickRate = 200
	a := NewArena(cfg, fixedRand{f: 0.5}, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)

	s := newFakeSession("c1")
	a.Send(ConnectMsg{Session: s})
	a.Send(StartGameMsg{SessionID: "c1"})

	deadline := time.After(2 * time.Second)
	for {
		if a.Latest().Tick >= 5 && len(a.Latest().Players) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("arena did not tick, latest=%+v", a.Latest())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// Send after stop must not block.
	a.Send(DisconnectMsg{SessionID: "c1"})
}
