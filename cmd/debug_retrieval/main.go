package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ai-resume-be/internal/bootstrap"
	"ai-resume-be/internal/config"
	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/repository/memory"
	"ai-resume-be/internal/service"
	"ai-resume-be/pkg/rag"
	"ai-resume-be/pkg/rag/search"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	limit   int
	shown   map[string]int
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   `debug_retrieval "<query>"`,
	Short: "Print ranked experiences for a query",
	Long: `debug_retrieval embeds a query and prints the ranked experiences with their
similarity. With --shown, exposure penalties are applied and both scores are
printed. Without a database the data directory is indexed in memory first.

Examples:
  debug_retrieval "distributed systems leadership"
  debug_retrieval "kafka" --shown 3f2c...=2 --limit 3`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVar(&limit, "limit", 5, "number of results")
	rootCmd.Flags().StringToIntVar(&shown, "shown", nil, "exposure counts as id=count")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Keys.GoogleGemini == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}

	log := logger.NewConsoleLogger(verbose)
	defer log.Sync()
	ctx := context.Background()

	infra, err := bootstrap.NewInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	if _, inMemory := infra.Repository.(*memory.ExperienceIndex); inMemory {
		color.Yellow("No database configured, indexing %s in memory", cfg.App.DataDir)
		ingest := service.NewIngestService(infra.Repository, infra.Embedder, cfg.App.DataDir, cfg.App.IngestConcurrency, log)
		if _, err := ingest.Sync(ctx); err != nil {
			return err
		}
	}

	orch := search.NewOrchestrator(infra.Embedder, infra.Repository, rag.DiversityConfig{
		PenaltyPerShowing: cfg.Conversation.PenaltyPerShowing,
		MaxPenalty:        cfg.Conversation.MaxPenalty,
	}, log)

	query := args[0]
	results, err := orch.Search(ctx, query, limit, shown)
	if err != nil {
		return err
	}

	color.Cyan("Query: %q", query)
	if len(shown) > 0 {
		color.Cyan("Shown: %v", shown)
	}
	fmt.Println(strings.Repeat("-", 72))
	if len(results) == 0 {
		color.Red("No results")
		return nil
	}

	for i, r := range results {
		e := r.Experience
		color.New(color.FgGreen, color.Bold).Printf("%d. %s", i+1, e.Title)
		fmt.Printf("  [%s] %s\n", e.Type(), e.Id)

		if r.Similarity != r.BaseSimilarity() {
			color.Yellow("   similarity %.4f -> %.4f (shown %d)", r.BaseSimilarity(), r.Similarity, shown[e.Id.String()])
		} else {
			fmt.Printf("   similarity %.4f\n", r.Similarity)
		}
		if len(e.Skills) > 0 {
			fmt.Printf("   skills: %s\n", strings.Join(e.Skills, ", "))
		}
		if verbose {
			fmt.Printf("   %s\n", preview(e.Content, 160))
		}
	}
	return nil
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
