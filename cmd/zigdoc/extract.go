package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"zigdoc/internal/render"
	"zigdoc/internal/scipexport"
	"zigdoc/internal/version"
)

var (
	extractFormat       string
	extractAll          bool
	extractOutput       string
	extractHeadingLevel int
)

var extractCmd = &cobra.Command{
	Use:   "extract <path>",
	Short: "Extract documentation from a Zig file or directory",
	Long: `Extract documentation from a Zig source file, or from every matching file
under a directory (recursively, in path order).

Formats: json, yaml, toml, markdown (md), html, scip.

Examples:
  zigdoc extract src/main.zig
  zigdoc extract src --format markdown --heading-level 2
  zigdoc extract . --all --format yaml
  zigdoc extract . --format scip -o index.scip`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "Output format (default from config)")
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "Emit undocumented functions and constants too")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write to a file instead of stdout")
	extractCmd.Flags().IntVar(&extractHeadingLevel, "heading-level", 0, "Markdown heading level of module titles, 1-6 (default from config)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	start := time.Now()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	format, err := render.ParseFormat(valueOrDefault(extractFormat, a.cfg.Output.Format))
	if err != nil {
		return err
	}
	headingLevel := a.cfg.Output.HeadingLevel
	if extractHeadingLevel != 0 {
		headingLevel = extractHeadingLevel
	}

	opts, err := a.extractOptions(extractAll)
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	modules, err := a.newCollector(opts, nil).Collect(ctx, args[0])
	if err != nil {
		return err
	}

	renderOpts := render.Options{
		Format:       format,
		HeadingLevel: headingLevel,
		Tool: scipexport.ToolInfo{
			Name:      "zigdoc",
			Version:   version.Version,
			Arguments: os.Args[1:],
		},
		ProjectRoot: fileURI(a.root),
	}

	if err := writeOutput(extractOutput, func(w io.Writer) error {
		return render.Render(w, modules, renderOpts)
	}); err != nil {
		return err
	}

	a.logger.Info("Extraction complete",
		"path", args[0],
		"modules", len(modules),
		"format", string(format),
		"duration", time.Since(start),
	)
	return nil
}

// writeOutput runs write against path, or stdout when path is empty.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		bw := bufio.NewWriter(os.Stdout)
		if err := write(bw); err != nil {
			return err
		}
		return bw.Flush()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fileURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
