package tui

import (
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mushroom-arena/internal/protocol"
)

// leaderboardSize is the number of players listed on the idle screen.
const leaderboardSize = 5

// topPlayers returns up to n players, highest score first. Ties are broken
// by name, then id, so the order is stable between snapshots.
func topPlayers(st protocol.GameState, n int) []protocol.PlayerSnapshot {
	players := make([]protocol.PlayerSnapshot, 0, len(st.Players))
	for _, p := range st.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	if len(players) > n {
		players = players[:n]
	}
	return players
}

// newLeaderboard builds a read-only table of the top players.
func newLeaderboard(st protocol.GameState) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Lives", Width: 6},
	}

	top := topPlayers(st, leaderboardSize)
	rows := make([]table.Row, 0, len(top))
	for i, p := range top {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			p.Name,
			strconv.Itoa(p.Score),
			strconv.Itoa(p.Lives),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(leaderboardSize+1),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)

	return t
}
