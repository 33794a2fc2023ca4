package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"zigdoc/internal/store"
)

var (
	searchKind   string
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search indexed symbols by name",
	Long: `Search the index for functions, constants, structs and fields whose name
contains the query, case-insensitively. Exact matches rank first, then prefix
matches. Run 'zigdoc index' first.

Examples:
  zigdoc search vec
  zigdoc search init --kind function
  zigdoc search x --kind field --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "Filter by kind (function, constant, struct, field)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", store.DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	results, err := store.NewStore(db).Search(ctx, args[0], searchKind, searchLimit)
	if err != nil {
		return err
	}

	switch searchFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "human":
		return formatSymbolsHuman(os.Stdout, results)
	default:
		return fmt.Errorf("unsupported format: %s", searchFormat)
	}
}

// formatSymbolsHuman prints one row per symbol: kind, qualified name, module and
// the first line of its doc.
func formatSymbolsHuman(w io.Writer, symbols []store.Symbol) error {
	if len(symbols) == 0 {
		_, err := fmt.Fprintln(w, "No matching symbols.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tMODULE\tDOC")
	for _, s := range symbols {
		name := s.Name
		if s.Parent != "" {
			name = s.Parent + "." + s.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Kind, name, s.ModulePath, firstLine(s.Doc))
	}
	return tw.Flush()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
