package multiplayer

import "sync/atomic"

// Metrics records arena counters for the /metrics endpoint.
// All methods are safe for concurrent use.
type Metrics struct {
	ticks          atomic.Int64
	totalTickNs    atomic.Int64
	inputsAccepted atomic.Int64
	inputsIgnored  atomic.Int64
	kills          atomic.Int64
	eliminations   atomic.Int64
	messagesSent   atomic.Int64
	messagesLost   atomic.Int64
	sessions       atomic.Int64
	players        atomic.Int64
}

func (m *Metrics) AddTick(ns int64) {
	m.ticks.Add(1)
	m.totalTickNs.Add(ns)
}

func (m *Metrics) IncAccepted()      { m.inputsAccepted.Add(1) }
func (m *Metrics) IncIgnored()       { m.inputsIgnored.Add(1) }
func (m *Metrics) IncKills()         { m.kills.Add(1) }
func (m *Metrics) IncEliminated()    { m.eliminations.Add(1) }
func (m *Metrics) IncSent()          { m.messagesSent.Add(1) }
func (m *Metrics) IncLost()          { m.messagesLost.Add(1) }
func (m *Metrics) SetSessions(n int) { m.sessions.Store(int64(n)) }
func (m *Metrics) SetPlayers(n int)  { m.players.Store(int64(n)) }

// Snapshot returns a read-only copy suitable for JSON output.
func (m *Metrics) Snapshot() map[string]any {
	ticks := m.ticks.Load()
	total := m.totalTickNs.Load()
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":      ticks,
		"avg_tick_ms":     avgMs,
		"inputs_accepted": m.inputsAccepted.Load(),
		"inputs_ignored":  m.inputsIgnored.Load(),
		"kills":           m.kills.Load(),
		"eliminations":    m.eliminations.Load(),
		"messages_sent":   m.messagesSent.Load(),
		"messages_lost":   m.messagesLost.Load(),
		"sessions":        m.sessions.Load(),
		"players":         m.players.Load(),
	}
}
