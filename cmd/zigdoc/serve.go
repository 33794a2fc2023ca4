package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"zigdoc/internal/metrics"
	"zigdoc/internal/server"
	"zigdoc/internal/store"
)

var (
	serveAddr    string
	serveNoIndex bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [root]",
	Short: "Serve documentation over HTTP",
	Long: `Start an HTTP server that extracts documentation on every request.

Endpoints:
  GET /health            liveness
  GET /api/modules       modules under root with entry counts
  GET /api/modules/{path} one module as JSON (?format= for other formats)
  GET /docs/{path}       HTML page of a file or directory
  GET /api/search?q=     indexed symbol search, when an index exists
  GET /metrics           Prometheus metrics`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveNoIndex, "no-index", false, "Do not open the index for /api/search")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	root := a.root
	if len(args) == 1 {
		if root, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}
	addr := valueOrDefault(serveAddr, a.cfg.Serve.Addr)

	opts, err := a.extractOptions(false)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	var st *store.Store
	if dbPath := a.cfg.StorePath(a.root); !serveNoIndex && fileExists(dbPath) {
		db, err := store.Open(dbPath, a.logger)
		if err != nil {
			return err
		}
		defer db.Close()
		st = store.NewStore(db)
	}

	srv := server.New(addr, server.Options{
		Root:         root,
		Collector:    a.newCollector(opts, m),
		Store:        st,
		HeadingLevel: a.cfg.Output.HeadingLevel,
		Logger:       a.logger,
		Metrics:      m,
		Gatherer:     reg,
	})

	ctx, cancel := newContext()
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("zigdoc serving %s on http://%s\n", root, addr)
		fmt.Println("Press Ctrl+C to stop")
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
