// Package render writes documentation modules in the supported output formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"zigdoc/internal/docmodel"
	zerrors "zigdoc/internal/errors"
	"zigdoc/internal/scipexport"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatSCIP     Format = "scip"
)

var formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatMarkdown, FormatHTML, FormatSCIP}

// Formats lists the supported formats.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// ParseFormat accepts a format name case-insensitively; "md" and "yml" are aliases.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	}
	for _, f := range formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", zerrors.Newf(zerrors.UnsupportedFormat, "unknown output format %q", s).
		WithDetails(map[string]any{"supported": formats})
}

// Options configures rendering.
type Options struct {
	Format Format

	// HeadingLevel is the Markdown heading level of each module title, 1 to 6.
	HeadingLevel int

	// Title is the HTML page title; defaults to the first module's name.
	Title string

	// Tool and ProjectRoot feed the SCIP metadata.
	Tool        scipexport.ToolInfo
	ProjectRoot string
}

// ContentType returns the MIME type for f.
func ContentType(f Format) string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Render writes modules to w in opts.Format.
func Render(w io.Writer, modules []docmodel.Module, opts Options) error {
	if modules == nil {
		modules = []docmodel.Module{}
	}

	switch opts.Format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(modules)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(modules); err != nil {
			return err
		}
		return enc.Close()

	case FormatTOML:
		doc := struct {
			Modules []docmodel.Module `toml:"modules"`
		}{modules}
		return toml.NewEncoder(w).SetIndentTables(true).Encode(doc)

	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(modules, opts.HeadingLevel))
		return err

	case FormatHTML:
		return HTML(w, modules, opts)

	case FormatSCIP:
		data, err := scipexport.Marshal(scipexport.Build(modules, opts.Tool, opts.ProjectRoot))
		if err != nil {
			return fmt.Errorf("encode scip: %w", err)
		}
		_, err = w.Write(data)
		return err

	default:
		return zerrors.Newf(zerrors.UnsupportedFormat, "unknown output format %q", opts.Format)
	}
}
