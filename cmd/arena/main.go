// arena is a server-authoritative multiplayer platformer: players run,
// jump on each other and bounce off a wandering mushroom.
//
// Usage:
//
//	arena serve              - Run the arena (HTTP + WebSocket, optional SSH)
//	arena play               - Play in the terminal against a running server
//	arena scores             - Show the best finished runs
//
// Global flags:
//
//	--config <path>     - Arena config file (YAML)
//	--seed <value>      - RNG seed for spawn positions and names
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a rotating file instead of stderr
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/logging"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Mushroom Arena - a multiplayer platformer server",
	Long: `Mushroom Arena runs one shared world at 60 ticks per second.
Browsers connect over WebSocket, terminals over SSH or 'arena play'.

Available commands:
  serve    - Run the arena server
  play     - Join a running server from this terminal
  scores   - View the best finished runs

Examples:
  arena serve
  arena serve --ssh :23234 --db ~/.arena/ledger.db
  arena play --url ws://localhost:3000/ws
  arena scores --db ~/.arena/ledger.db`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to arena config (YAML)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Rotating log file (default: stderr)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig resolves the arena config and applies .env and environment
// overrides on top of it.
func loadConfig() (config.ArenaConfig, error) {
	cfg, err := config.LoadArena(flagConfig)
	if err != nil {
		return config.ArenaConfig{}, err
	}
	if err := config.ApplyEnv(&cfg, ".env"); err != nil {
		return config.ArenaConfig{}, err
	}
	return cfg, nil
}

func newLogger(prefix string) (*log.Logger, error) {
	return logging.New(logging.Options{
		Level:  flagLogLevel,
		File:   flagLogFile,
		Prefix: prefix,
	})
}
