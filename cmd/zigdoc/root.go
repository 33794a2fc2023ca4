package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"zigdoc/internal/collect"
	"zigdoc/internal/config"
	"zigdoc/internal/extract"
	"zigdoc/internal/metrics"
	"zigdoc/internal/slogutil"
	"zigdoc/internal/version"
)

var (
	// projectRoot holds .zigdoc/ and anchors the index path.
	projectRoot string
	verbosity   int
	quiet       bool
	logFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "zigdoc",
	Short: "zigdoc - documentation extraction for Zig",
	Long: `zigdoc extracts documentation from Zig source files. It reads //! module docs
and /// declaration docs with tree-sitter and emits functions, constants and
structs as JSON, YAML, TOML, Markdown, HTML or a SCIP index.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(version.Full() + "\n")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "root", "C", ".", "Project root holding .zigdoc/")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: human or json (default from config)")
}

// app bundles what every command needs.
type app struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
}

// newApp loads and validates the project config and builds the stderr logger.
func newApp(cmd *cobra.Command) (*app, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cmd, cfg)
	if cfg.File != "" {
		logger.Debug("Loaded config", "file", cfg.File)
	}

	return &app{root: root, cfg: cfg, logger: logger}, nil
}

// newLogger uses the configured level unless -v or -q was given.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := slogutil.LevelFromString(cfg.Logging.Level)
	flags := cmd.Flags()
	if flags.Changed("verbose") || flags.Changed("quiet") {
		level = slogutil.LevelFromVerbosity(verbosity, quiet)
	}

	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	return slogutil.NewWithFormat(os.Stderr, slogutil.Format(format), level)
}

// extractOptions maps the config onto extractor options; all overrides emission.
func (a *app) extractOptions(all bool) (extract.Options, error) {
	policy, err := extract.ParsePolicy(a.cfg.Extract.Emission)
	if err != nil {
		return extract.Options{}, err
	}
	if all {
		policy = extract.EmitAll
	}
	return extract.Options{
		Emission:      policy,
		ImportBuiltin: a.cfg.Extract.ImportBuiltin,
	}, nil
}

func (a *app) newCollector(opts extract.Options, m *metrics.Metrics) *collect.Collector {
	return collect.New(collect.Options{
		Include: a.cfg.Collect.Include,
		Exclude: a.cfg.Collect.Exclude,
		Workers: a.cfg.Collect.Workers,
		Extract: opts,
		Logger:  a.logger,
		Metrics: m,
	})
}

// newContext is cancelled on SIGINT or SIGTERM.
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
