package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"ai-resume-be/internal/bootstrap"
	"ai-resume-be/internal/config"
	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/repository/contract"
	"ai-resume-be/internal/repository/specification"
	"ai-resume-be/internal/service"
	"ai-resume-be/pkg/ingest"

	"github.com/spf13/cobra"
)

var (
	dataDir     string
	concurrency int
	dryRun      bool
	list        bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Index the experience markdown files",
	Long: `seed parses data/jobs/*.md and data/projects/*.md, embeds new and changed
documents, and removes records whose file no longer exists.

Examples:
  # Sync the default data directory
  seed

  # Show what would be indexed without calling the embedding API
  seed --dry-run --data-dir ./data`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "experience data directory (default DATA_DIR)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel embedding calls (default INGEST_CONCURRENCY)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and list documents only")
	rootCmd.Flags().BoolVar(&list, "list", false, "list indexed experiences instead of syncing")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = cfg.App.DataDir
	}
	if concurrency <= 0 {
		concurrency = cfg.App.IngestConcurrency
	}

	if dryRun {
		docs, err := ingest.LoadFS(os.DirFS(dataDir))
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-8v %s\n", d.SourceId, d.Metadata["type"], d.Title)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d documents\n", len(docs))
		return nil
	}

	if cfg.Keys.GoogleGemini == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if cfg.Database.Connection == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is not set; the in-memory index does not outlive this command")
	}

	log := logger.NewConsoleLogger(verbose)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	infra, err := bootstrap.NewInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	if list {
		return listIndexed(ctx, cmd, infra.Repository)
	}

	report, err := service.NewIngestService(infra.Repository, infra.Embedder, dataDir, concurrency, log).Sync(ctx)
	if report != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "parsed=%d embedded=%d unchanged=%d deleted=%d failed=%d\n",
			report.Parsed, report.Embedded, report.Unchanged, report.Deleted, len(report.Failed))
	}
	return err
}

func listIndexed(ctx context.Context, cmd *cobra.Command, store contract.VectorStore) error {
	repo, ok := store.(contract.ExperienceRepository)
	if !ok {
		return fmt.Errorf("listing needs the database repository")
	}
	experiences, err := repo.FindAll(ctx, specification.OrderBy{Field: "source_id"})
	if err != nil {
		return err
	}
	for _, e := range experiences {
		fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-8s %s %s\n", e.SourceId, e.Type(), shortHash(e.ContentHash), e.Title)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d experiences\n", len(experiences))
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
