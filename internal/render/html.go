package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"zigdoc/internal/docmodel"
)

// markdown converts CommonMark with GFM tables. Raw HTML in doc comments is
// not passed through.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
pre { background: #f6f8fa; padding: .75rem; overflow-x: auto; }
code { font-family: ui-monospace, monospace; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: .25rem .5rem; text-align: left; }
</style>
</head>
<body>
<main>
{{.Body}}</main>
</body>
</html>
`))

// MarkdownToHTML converts a Markdown fragment to HTML.
func MarkdownToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// HTML renders modules as a standalone HTML page.
func HTML(w io.Writer, modules []docmodel.Module, opts Options) error {
	body, err := MarkdownToHTML(Markdown(modules, opts.HeadingLevel))
	if err != nil {
		return err
	}

	title := opts.Title
	if title == "" {
		title = "zigdoc"
		if len(modules) > 0 {
			title = modules[0].Name
		}
	}

	return page.Execute(w, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body)})
}
