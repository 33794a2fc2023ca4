package render

import (
	"strings"

	"zigdoc/internal/docmodel"
)

// Markdown renders modules as one Markdown document. Each module gets a heading
// at headingLevel (clamped to 1..6); its sections and entries sit one and two
// levels below. Empty sections are left out.
func Markdown(modules []docmodel.Module, headingLevel int) string {
	level := clampLevel(headingLevel)

	var b strings.Builder
	for i := range modules {
		if i > 0 {
			b.WriteString("\n")
		}
		writeModule(&b, &modules[i], level)
	}
	return b.String()
}

func writeModule(b *strings.Builder, mod *docmodel.Module, level int) {
	heading(b, level, mod.Name)
	paragraph(b, mod.Doc)

	if len(mod.Functions) > 0 {
		heading(b, level+1, "Functions")
		for _, fn := range mod.Functions {
			heading(b, level+2, code(fn.Name))
			b.WriteString("```zig\n")
			b.WriteString(fn.Signature)
			b.WriteString("\n```\n\n")
			paragraph(b, fn.Doc)
		}
	}

	if len(mod.Constants) > 0 {
		heading(b, level+1, "Constants")
		for _, c := range mod.Constants {
			heading(b, level+2, code(c.Name))
			paragraph(b, c.Doc)
		}
	}

	if len(mod.Structs) > 0 {
		heading(b, level+1, "Structs")
		for _, st := range mod.Structs {
			heading(b, level+2, code(st.Name))
			paragraph(b, st.Doc)
			if len(st.Fields) == 0 {
				continue
			}
			b.WriteString("| Field | Type | Description |\n")
			b.WriteString("|---|---|---|\n")
			for _, f := range st.Fields {
				b.WriteString("| ")
				b.WriteString(code(f.Name))
				b.WriteString(" | ")
				if f.Type != "" {
					b.WriteString(code(cell(f.Type)))
				}
				b.WriteString(" | ")
				b.WriteString(cell(f.Doc))
				b.WriteString(" |\n")
			}
			b.WriteString("\n")
		}
	}
}

func heading(b *strings.Builder, level int, text string) {
	b.WriteString(strings.Repeat("#", clampLevel(level)))
	b.WriteString(" ")
	b.WriteString(text)
	b.WriteString("\n\n")
}

func paragraph(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	b.WriteString(text)
	b.WriteString("\n\n")
}

// code wraps s in a code span, widening the fence when s contains backticks.
func code(s string) string {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

// cell flattens text for use inside a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	default:
		return level
	}
}
