package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"ai-resume-be/internal/entity"
	"ai-resume-be/internal/pkg/logger"
	"ai-resume-be/internal/repository/contract"
	"ai-resume-be/pkg/embedding"
	"ai-resume-be/pkg/ingest"

	"golang.org/x/sync/errgroup"
)

// ErrNoDocuments stops a sync that found nothing to index, so a bad data
// directory cannot wipe the store.
var ErrNoDocuments = errors.New("no experience documents found")

type Embedder interface {
	Embed(ctx context.Context, text string, taskType embedding.TaskType) ([]float32, error)
}

// SyncReport summarizes one ingestion run.
type SyncReport struct {
	Parsed    int      `json:"parsed"`
	Embedded  int      `json:"embedded"`
	Unchanged int      `json:"unchanged"`
	Deleted   int64    `json:"deleted"`
	Failed    []string `json:"failed"`
}

type IIngestService interface {
	// Sync indexes the configured data directory.
	Sync(ctx context.Context) (*SyncReport, error)
	// SyncFS indexes the experience folders of fsys.
	SyncFS(ctx context.Context, fsys fs.FS) (*SyncReport, error)
}

type ingestService struct {
	store       contract.ExperienceStore
	embedder    Embedder
	dataDir     string
	concurrency int
	logger      logger.ILogger
}

func NewIngestService(store contract.ExperienceStore, embedder Embedder, dataDir string, concurrency int, log logger.ILogger) IIngestService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ingestService{
		store:       store,
		embedder:    embedder,
		dataDir:     dataDir,
		concurrency: concurrency,
		logger:      log,
	}
}

func (s *ingestService) Sync(ctx context.Context) (*SyncReport, error) {
	return s.SyncFS(ctx, os.DirFS(s.dataDir))
}

// SyncFS re-embeds new and changed documents, skips unchanged ones by content
// hash, then deletes records whose source file is gone. Per-document failures
// are reported and do not stop the run; deletion still only removes sources
// that no longer exist.
func (s *ingestService) SyncFS(ctx context.Context, fsys fs.FS) (*SyncReport, error) {
	docs, err := ingest.LoadFS(fsys)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	report := &SyncReport{Parsed: len(docs)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, doc := range docs {
		g.Go(func() error {
			changed, err := s.syncOne(gctx, doc)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				if gctx.Err() != nil {
					return gctx.Err()
				}
				report.Failed = append(report.Failed, doc.SourceId)
				s.logger.Error("INGEST", "Failed to index document", map[string]interface{}{
					"source_id": doc.SourceId,
					"error":     err,
				})
			case changed:
				report.Embedded++
			default:
				report.Unchanged++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	keep := make([]string, len(docs))
	for i, d := range docs {
		keep[i] = d.SourceId
	}
	report.Deleted, err = s.store.DeleteMissing(ctx, keep)
	if err != nil {
		return report, fmt.Errorf("delete missing: %w", err)
	}

	s.logger.Info("INGEST", "Sync completed", map[string]interface{}{
		"parsed":    report.Parsed,
		"embedded":  report.Embedded,
		"unchanged": report.Unchanged,
		"deleted":   report.Deleted,
		"failed":    len(report.Failed),
	})
	if len(report.Failed) > 0 {
		return report, fmt.Errorf("%d documents failed to index", len(report.Failed))
	}
	return report, nil
}

func (s *ingestService) syncOne(ctx context.Context, doc *ingest.Document) (bool, error) {
	existing, err := s.store.FindBySourceId(ctx, doc.SourceId)
	if err != nil {
		return false, fmt.Errorf("lookup: %w", err)
	}
	if existing != nil && existing.ContentHash == doc.ContentHash {
		return false, nil
	}

	vector, err := s.embedder.Embed(ctx, doc.EmbeddingText(), embedding.TaskDocument)
	if err != nil {
		return false, fmt.Errorf("embed: %w", err)
	}

	experience := &entity.Experience{
		SourceId:    doc.SourceId,
		Title:       doc.Title,
		Content:     doc.Content,
		Skills:      doc.Skills,
		Metadata:    doc.Metadata,
		ContentHash: doc.ContentHash,
		Embedding:   vector,
	}
	if existing != nil {
		experience.Id = existing.Id
	}
	if err := s.store.Upsert(ctx, experience); err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}

	s.logger.Info("INGEST", "Indexed document", map[string]interface{}{
		"source_id": doc.SourceId,
		"title":     doc.Title,
	})
	return true, nil
}
