package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"zigdoc/internal/collect"
	zerrors "zigdoc/internal/errors"
	"zigdoc/internal/metrics"
	"zigdoc/internal/slogutil"
)

// IndexStats reports what one Index call did.
type IndexStats struct {
	RunID    string        `json:"runId"`
	Indexed  int           `json:"indexed"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Removed  int           `json:"removed"`
	Duration time.Duration `json:"duration"`
}

// Indexer keeps a Store in sync with the Zig files under a root directory.
type Indexer struct {
	store     *Store
	collector *collect.Collector
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewIndexer creates an indexer that extracts with collector and writes to store.
func NewIndexer(store *Store, collector *collect.Collector, logger *slog.Logger, m *metrics.Metrics) *Indexer {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Indexer{
		store:     store,
		collector: collector,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Index walks root and stores every new or changed file, keyed by its path
// relative to root. Unchanged files are skipped unless force is set; files no
// longer present are removed. A file that cannot be read or parsed is counted
// as failed and keeps its previous entry.
func (ix *Indexer) Index(ctx context.Context, root string, force bool) (*IndexStats, error) {
	return ix.IndexSubtree(ctx, root, ".", force)
}

// IndexSubtree is Index restricted to the slash-separated directory sub of
// base. Module paths stay relative to base, and only modules under sub are
// pruned, so indexing a subdirectory never drops the rest of the project.
// A run that fails after it was recorded is closed as RunAborted.
func (ix *Indexer) IndexSubtree(ctx context.Context, base, sub string, force bool) (*IndexStats, error) {
	sub = path.Clean(filepath.ToSlash(sub))
	if path.IsAbs(sub) || sub == ".." || strings.HasPrefix(sub, "../") {
		return nil, zerrors.Newf(zerrors.InvalidOption, "%s is outside the indexed root %s", sub, base)
	}

	start := ix.now()
	stats := &IndexStats{RunID: uuid.NewString()}

	rels, err := ix.collector.Discover(filepath.Join(base, filepath.FromSlash(sub)))
	if err != nil {
		return nil, err
	}

	if err := ix.store.StartRun(ctx, stats.RunID, sub, start); err != nil {
		return nil, zerrors.New(zerrors.StoreFailed, "cannot record index run", err)
	}

	if err := ix.sync(ctx, base, sub, rels, force, stats); err != nil {
		if closeErr := ix.closeRun(ctx, stats, RunAborted, start); closeErr != nil {
			ix.logger.Warn("Failed to close aborted run", "run", stats.RunID, "error", closeErr.Error())
		}
		ix.logger.Warn("Index aborted", "root", sub, "run", stats.RunID, "error", err.Error())
		return nil, err
	}

	if err := ix.closeRun(ctx, stats, RunComplete, start); err != nil {
		return nil, zerrors.New(zerrors.StoreFailed, "cannot record index run", err)
	}
	ix.metrics.ObserveIndexRun()

	ix.logger.Info("Index complete",
		"root", sub,
		"run", stats.RunID,
		"indexed", stats.Indexed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"removed", stats.Removed,
		"duration", stats.Duration,
	)
	return stats, nil
}

// sync stores the discovered files and prunes vanished modules under sub.
func (ix *Indexer) sync(ctx context.Context, base, sub string, rels []string, force bool, stats *IndexStats) error {
	seen := make(map[string]bool, len(rels))
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return err
		}
		modPath := path.Join(sub, rel)
		seen[modPath] = true

		indexed, err := ix.indexFile(ctx, base, modPath, stats.RunID, force)
		switch {
		case err == nil && indexed:
			stats.Indexed++
		case err == nil:
			stats.Skipped++
			ix.metrics.ObserveFile(metrics.OutcomeSkipped, 0)
		case zerrors.IsCode(err, zerrors.ParserUnavailable), zerrors.IsCode(err, zerrors.StoreFailed),
			errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			stats.Failed++
			ix.logger.Warn("Failed to index file", "path", modPath, "error", err.Error())
		}
	}

	known, err := ix.store.ModulePaths(ctx)
	if err != nil {
		return zerrors.New(zerrors.StoreFailed, "cannot list indexed modules", err)
	}
	for p := range known {
		if seen[p] || !withinSubtree(p, sub) {
			continue
		}
		if err := ix.store.DeleteModule(ctx, p); err != nil {
			return zerrors.New(zerrors.StoreFailed, "cannot prune "+p, err)
		}
		stats.Removed++
		ix.logger.Debug("Removed module", "path", p)
	}
	return nil
}

// closeRun records the run's outcome even when ctx is already cancelled.
func (ix *Indexer) closeRun(ctx context.Context, stats *IndexStats, status string, start time.Time) error {
	finished := ix.now()
	stats.Duration = finished.Sub(start)
	return ix.store.FinishRun(context.WithoutCancel(ctx), &Run{
		ID:         stats.RunID,
		Status:     status,
		FinishedAt: finished,
		Indexed:    stats.Indexed,
		Skipped:    stats.Skipped,
		Failed:     stats.Failed,
		Removed:    stats.Removed,
	})
}

func withinSubtree(p, sub string) bool {
	return sub == "." || p == sub || strings.HasPrefix(p, sub+"/")
}

func (ix *Indexer) indexFile(ctx context.Context, root, rel, runID string, force bool) (bool, error) {
	src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		ix.metrics.ObserveFile(metrics.OutcomeFailed, 0)
		return false, zerrors.New(zerrors.ReadFailed, "cannot read "+rel, err)
	}

	hash := ContentHash(src)
	if !force {
		stored, ok, err := ix.store.ModuleHash(ctx, rel)
		if err != nil {
			return false, zerrors.New(zerrors.StoreFailed, "cannot read module hash", err)
		}
		if ok && stored == hash {
			return false, nil
		}
	}

	mod, err := ix.collector.ExtractSource(ctx, rel, src)
	if err != nil {
		return false, err
	}

	if err := ix.store.SaveModule(ctx, mod, hash, runID, ix.now()); err != nil {
		return false, zerrors.New(zerrors.StoreFailed, "cannot save "+rel, err)
	}
	return true, nil
}
