package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"zigdoc/internal/store"
)

var (
	indexForce bool
	indexJSON  bool
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Index Zig documentation into the local database",
	Long: `Extract every Zig file under dir (default: the project root) into the
SQLite index at store.path. Module paths are always relative to the project root,
and dir must lie inside it. Files whose content hash is unchanged since the last
run are skipped; files under dir that disappeared are removed.

Examples:
  zigdoc index
  zigdoc index lib --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "Re-extract files even when unchanged")
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "Print run statistics as JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	sub := "."
	if len(args) == 1 {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if sub, err = filepath.Rel(a.root, dir); err != nil {
			return err
		}
	}

	opts, err := a.extractOptions(false)
	if err != nil {
		return err
	}

	db, err := store.Open(a.cfg.StorePath(a.root), a.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := newContext()
	defer cancel()

	indexer := store.NewIndexer(store.NewStore(db), a.newCollector(opts, nil), a.logger, nil)
	stats, err := indexer.IndexSubtree(ctx, a.root, filepath.ToSlash(sub), indexForce)
	if err != nil {
		return err
	}

	if indexJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Indexed %d, skipped %d, failed %d, removed %d in %s\n",
		stats.Indexed, stats.Skipped, stats.Failed, stats.Removed,
		stats.Duration.Round(time.Millisecond))
	fmt.Printf("Run %s -> %s\n", stats.RunID, db.Path())
	return nil
}
