package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mushroom-arena/internal/config"
	"github.com/vovakirdan/mushroom-arena/internal/core"
	"github.com/vovakirdan/mushroom-arena/internal/multiplayer"
	"github.com/vovakirdan/mushroom-arena/internal/platform/tui"
	"github.com/vovakirdan/mushroom-arena/internal/server"
	"github.com/vovakirdan/mushroom-arena/internal/storage"
)

var (
	flagAddr        string
	flagSSHAddr     string
	flagHostKey     string
	flagDBPath      string
	flagStaticDir   string
	flagWatchConfig bool
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the arena server",
	Long: `Run the shared arena and serve it over HTTP and WebSocket.

Endpoints:
  /ws        WebSocket for players
  /state     Latest world snapshot (JSON)
  /scores    Best finished runs (JSON)
  /metrics   Tick and input counters (JSON)
  /healthz   Liveness
  /          Static files from --static

The ledger of finished runs lives in memory unless --db names a file.
With --ssh, terminal players can join with: ssh localhost -p 23234

Examples:
  arena serve
  arena serve --addr :8080 --static ./web
  arena serve --ssh :23234
  arena serve --config ./arena.yaml --watch-config`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (default from config, :3000)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (empty disables SSH)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagDBPath, "db", "", "Ledger database path (default from config, :memory:)")
	serveCmd.Flags().StringVar(&flagStaticDir, "static", "", "Directory served at / (default from config)")
	serveCmd.Flags().BoolVar(&flagWatchConfig, "watch-config", false, "Reload tuning when --config changes")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "SSH idle timeout in minutes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cmd, &cfg)

	logger, err := newLogger("arena")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	arena := multiplayer.NewArena(cfg, core.NewRand(flagSeed), logger.WithPrefix("sim"))
	arena.SetResultSaver(store)
	go arena.Run(ctx)

	if flagWatchConfig {
		if flagConfig == "" {
			return fmt.Errorf("--watch-config needs --config")
		}
		go watchConfig(ctx, flagConfig, arena, logger)
	}

	errCh := make(chan error, 2)

	if cfg.Server.SSHAddr != "" {
		sshSrv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.Server.SSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
			SendBuffer:  cfg.Server.SendBuffer,
		}, arena, cfg, logger)
		if err != nil {
			return err
		}
		go func() { errCh <- sshSrv.ListenAndServe(ctx) }()
	}

	httpSrv := server.New(cfg.Server, arena, store, logger.WithPrefix("http"))
	go func() { errCh <- httpSrv.ListenAndServe(ctx) }()

	logger.Info("arena started",
		"addr", cfg.Server.Addr,
		"ssh", cfg.Server.SSHAddr,
		"db", cfg.Server.DBPath,
		"tick_rate", cfg.Server.TickRate,
	)

	select {
	case err := <-errCh:
		stop()
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	<-arena.Done()
	logger.Info("arena stopped")
	return nil
}

// applyServeFlags lets explicit flags win over config and environment.
func applyServeFlags(cmd *cobra.Command, cfg *config.ArenaConfig) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = flagAddr
	}
	if flags.Changed("ssh") {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flags.Changed("db") {
		cfg.Server.DBPath = flagDBPath
	}
	if flags.Changed("static") {
		cfg.Server.StaticDir = flagStaticDir
	}
}

func watchConfig(ctx context.Context, path string, arena *multiplayer.Arena, logger *log.Logger) {
	err := config.Watch(ctx, path, logger.WithPrefix("config"), func(cfg config.ArenaConfig) {
		arena.Send(multiplayer.ReloadConfigMsg{Config: cfg})
	})
	if err != nil {
		logger.Error("config watcher stopped", "err", err)
	}
}
