package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mushroom-arena/internal/platform/tui"
	"github.com/vovakirdan/mushroom-arena/internal/transport/ws"
)

var flagURL string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Join a running arena from this terminal",
	Long: `Connect to an arena server over WebSocket and play in the terminal.

Controls:
  Left/A, Right/D  - Run
  Space/Up         - Jump
  Enter            - Join the arena
  Q/Ctrl+C         - Quit

Examples:
  arena play
  arena play --url ws://arena.example.com:3000/ws`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagURL, "url", "ws://localhost:3000/ws", "Arena WebSocket URL")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := ws.Dial(ctx, flagURL)
	if err != nil {
		return err
	}
	link := tui.NewRemoteLink(client)
	defer link.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	model := tui.NewArenaModel(link, cfg, width, height)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("running client: %w", err)
	}

	if m, ok := final.(tui.ArenaModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
