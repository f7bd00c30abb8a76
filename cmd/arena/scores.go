package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mushroom-arena/internal/storage"
)

var (
	flagScoresDB    string
	flagScoresLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best finished runs",
	Long: `Display the best finished runs from a ledger database.

The server keeps its ledger in memory by default, so this command is only
useful with a file ledger: start the server with --db and pass the same path.

Examples:
  arena scores --db ~/.arena/ledger.db
  arena scores --db ./ledger.db --limit 20`,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresDB, "db", "", "Ledger database path (default from config)")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dbPath := cfg.Server.DBPath
	if cmd.Flags().Changed("db") {
		dbPath = flagScoresDB
	}
	if dbPath == "" || dbPath == storage.MemoryPath {
		return fmt.Errorf("the ledger is in memory; pass --db with the server's ledger file")
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.TopResults(flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Println("Best Runs - Mushroom Arena")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %-10s  %s\n", "Rank", "Player", "Score", "Ended", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-10s  %s\n", "----", "------", "-----", "-----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-16s  %-8d  %-10s  %s\n",
			i+1, r.Name, r.Score, r.Reason, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %d  Average: %.1f\n", stats.Runs, stats.HighScore, stats.AvgScore)
	}
	return nil
}
