package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/core"
	"github.com/vovakirdan/mushroom-arena/internal/protocol"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var (
	hudStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9")).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Sprites.
const (
	runeSelf     = '@'
	runeOther    = 'o'
	runeMushroom = '♣'
	runeGround   = '▀'
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// drawWorld projects the snapshot onto the screen. The viewer's own player
// is drawn last so it stays visible in a crowd.
func drawWorld(s *core.Screen, st protocol.GameState, cfg config.ArenaConfig) {
	s.Clear()
	w, h := cfg.World.ScreenWidth, cfg.World.ScreenHeight

	_, gy := s.Project(0, cfg.World.GroundLevel(), w, h)
	s.DrawHLine(0, gy, s.Width(), runeGround, core.ColorGreen)

	mx, my := s.Project(st.Mushroom.X, st.Mushroom.Y, w, h)
	mushroomColor := core.ColorRed
	if st.Mushroom.Mood == "sad" {
		mushroomColor = core.ColorBlue
	}
	s.Set(mx, my, runeMushroom, mushroomColor)

	for id, p := range st.Players {
		if id == st.CurrentPlayer {
			continue
		}
		drawPlayer(s, p, runeOther, core.ColorCyan, cfg)
	}
	if self, ok := st.Players[st.CurrentPlayer]; ok {
		drawPlayer(s, self, runeSelf, core.ColorYellow, cfg)
	}
}

func drawPlayer(s *core.Screen, p protocol.PlayerSnapshot, r rune, c core.Color, cfg config.ArenaConfig) {
	x, y := s.Project(p.X, p.Y, cfg.World.ScreenWidth, cfg.World.ScreenHeight)
	s.Set(x, y, r, c)

	label := []rune(p.Name)
	if len(label) > 10 {
		label = label[:10]
	}
	s.DrawText(x-len(label)/2, y-1, string(label), core.ColorGray)
}

// hudLine summarizes the viewer's player.
func hudLine(p protocol.PlayerSnapshot, players int) string {
	return hudStyle.Render(fmt.Sprintf("%s  Score %d  Lives %s  Level %d  Powerup %s",
		p.Name, p.Score, strings.Repeat("♥", max(p.Lives, 0)), p.Level, p.Powerup)) +
		dimStyle.Render(fmt.Sprintf("   %d in arena", players))
}
