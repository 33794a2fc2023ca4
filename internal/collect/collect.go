// Package collect turns Zig files and directory trees into documentation modules.
package collect

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"zigdoc/internal/docmodel"
	zerrors "zigdoc/internal/errors"
	"zigdoc/internal/extract"
	"zigdoc/internal/metrics"
	"zigdoc/internal/slogutil"
	"zigdoc/internal/syntax"
)

// Options configures a Collector.
type Options struct {
	// Include holds base-name patterns a file must match, default "*.zig".
	Include []string
	// Exclude holds directory or file base names that are never visited.
	Exclude []string
	// Workers bounds concurrent parses; 0 means GOMAXPROCS.
	Workers int

	Extract extract.Options
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Collector parses Zig files and extracts their documentation.
// It is safe for concurrent use; each file gets its own parser.
type Collector struct {
	include   []string
	exclude   map[string]bool
	workers   int
	extractor *extract.Extractor
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates a Collector.
func New(opts Options) *Collector {
	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	include := opts.Include
	if len(include) == 0 {
		include = []string{"*.zig"}
	}
	exclude := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = true
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Collector{
		include:   include,
		exclude:   exclude,
		workers:   workers,
		extractor: extract.New(opts.Extract, logger),
		logger:    logger,
		metrics:   opts.Metrics,
	}
}

// Extractor returns the extractor the collector applies to each tree.
func (c *Collector) Extractor() *extract.Extractor {
	return c.extractor
}

// ExtractSource parses src and extracts its documentation as a module named path.
func (c *Collector) ExtractSource(ctx context.Context, path string, src []byte) (*docmodel.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	parser, err := syntax.NewParser()
	if err != nil {
		c.metrics.ObserveFile(metrics.OutcomeFailed, 0)
		return nil, zerrors.New(zerrors.ParserUnavailable, "tree-sitter parser unavailable", err)
	}
	defer parser.Close()

	tree, err := parser.Parse(ctx, src)
	if err != nil {
		c.metrics.ObserveFile(metrics.OutcomeFailed, 0)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, zerrors.New(zerrors.ParseFailed, "cannot parse "+path, err)
	}
	defer tree.Close()

	model := c.extractor.ExtractTree(tree)
	name := filepath.ToSlash(path)

	fns, consts, structs, fields := model.Counts()
	c.metrics.ObserveFile(metrics.OutcomeOK, time.Since(start))
	c.metrics.ObserveEntries(fns, consts, structs, fields)
	c.logger.Debug("Extracted module",
		"path", name,
		"functions", fns,
		"constants", consts,
		"structs", structs,
		"duration", time.Since(start),
	)

	return &docmodel.Module{Path: name, Name: name, Model: *model}, nil
}

// ExtractFile reads and extracts one file.
func (c *Collector) ExtractFile(ctx context.Context, path string) (*docmodel.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		c.metrics.ObserveFile(metrics.OutcomeFailed, 0)
		if os.IsNotExist(err) {
			return nil, zerrors.New(zerrors.FileNotFound, path+" does not exist", err)
		}
		return nil, zerrors.New(zerrors.ReadFailed, "cannot read "+path, err)
	}
	return c.ExtractSource(ctx, path, src)
}

// Collect extracts identifier, which is a file or a directory. A directory is
// walked recursively and yields one module per matching file, ordered by path.
// The first failure cancels the remaining work.
func (c *Collector) Collect(ctx context.Context, identifier string) ([]docmodel.Module, error) {
	info, err := os.Stat(identifier)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerrors.New(zerrors.FileNotFound, identifier+" does not exist", err)
		}
		return nil, zerrors.New(zerrors.ReadFailed, "cannot stat "+identifier, err)
	}

	if !info.IsDir() {
		mod, err := c.ExtractFile(ctx, identifier)
		if err != nil {
			return nil, err
		}
		return []docmodel.Module{*mod}, nil
	}

	rels, err := c.Discover(identifier)
	if err != nil {
		return nil, err
	}

	modules := make([]docmodel.Module, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, rel := range rels {
		g.Go(func() error {
			mod, err := c.ExtractFile(gctx, filepath.Join(identifier, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			modules[i] = *mod
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Info("Collected modules", "root", identifier, "modules", len(modules))
	return modules, nil
}

// Discover returns the slash-separated paths, relative to root, of the files
// Collect would extract. Hidden and excluded directories are not entered.
func (c *Collector) Discover(root string) ([]string, error) {
	var rels []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()

		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || c.exclude[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if c.exclude[name] || !d.Type().IsRegular() || !c.matches(name) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, zerrors.New(zerrors.ReadFailed, "cannot walk "+root, err)
	}

	slices.SortFunc(rels, comparePaths)
	return rels, nil
}

func (c *Collector) matches(name string) bool {
	for _, pattern := range c.include {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// comparePaths orders slash paths component by component, so "a/b.zig"
// sorts before "a.zig".
func comparePaths(a, b string) int {
	pa, pb := strings.Split(a, "/"), strings.Split(b, "/")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := strings.Compare(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	return len(pa) - len(pb)
}
