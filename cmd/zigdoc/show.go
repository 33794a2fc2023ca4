package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"zigdoc/internal/docmodel"
	"zigdoc/internal/render"
	"zigdoc/internal/store"
)

var (
	showFormat       string
	showHeadingLevel int
)

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show an indexed module, or list the index",
	Long: `Print the stored documentation of one indexed module, addressed by its path
relative to the indexed root. Without a path, list every indexed module with its
entry counts and the last index run.

Examples:
  zigdoc show
  zigdoc show src/main.zig --format markdown`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "", "Output format for a module (default from config)")
	showCmd.Flags().IntVar(&showHeadingLevel, "heading-level", 0, "Markdown heading level, 1-6 (default from config)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
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
	st := store.NewStore(db)

	if len(args) == 0 {
		records, err := st.ListModules(ctx)
		if err != nil {
			return err
		}
		last, err := st.LastRun(ctx)
		if err != nil {
			return err
		}
		return formatIndexHuman(os.Stdout, records, last)
	}

	format, err := render.ParseFormat(valueOrDefault(showFormat, a.cfg.Output.Format))
	if err != nil {
		return err
	}
	headingLevel := a.cfg.Output.HeadingLevel
	if showHeadingLevel != 0 {
		headingLevel = showHeadingLevel
	}

	mod, err := st.GetModule(ctx, filepath.ToSlash(filepath.Clean(args[0])))
	if err != nil {
		return err
	}

	return writeOutput("", func(w io.Writer) error {
		return render.Render(w, []docmodel.Module{*mod}, render.Options{
			Format:       format,
			HeadingLevel: headingLevel,
		})
	})
}

func formatIndexHuman(w io.Writer, records []store.ModuleRecord, last *store.Run) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "Index is empty. Run 'zigdoc index' first.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODULE\tFUNCTIONS\tCONSTANTS\tSTRUCTS\tINDEXED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n",
			r.Path, r.Functions, r.Constants, r.Structs, r.IndexedAt.Local().Format(time.DateTime))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if last == nil {
		return nil
	}
	state := ""
	if last.Status != "" && last.Status != store.RunComplete {
		state = " (" + last.Status + ")"
	}
	at := last.FinishedAt
	if at.IsZero() {
		at = last.StartedAt
	}
	_, err := fmt.Fprintf(w, "\nLast run %s of %s at %s%s: %d indexed, %d skipped, %d failed, %d removed\n",
		last.ID, last.Root, at.Local().Format(time.DateTime), state,
		last.Indexed, last.Skipped, last.Failed, last.Removed)
	return err
}
