package server

import (
	"bytes"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"zigdoc/internal/docmodel"
	zerrors "zigdoc/internal/errors"
	"zigdoc/internal/render"
	"zigdoc/internal/version"
)

// ModuleSummary is one entry of GET /api/modules.
type ModuleSummary struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Functions int    `json:"functions"`
	Constants int    `json:"constants"`
	Structs   int    `json:"structs"`
	Fields    int    `json:"fields"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := s.collector.Collect(r.Context(), s.root)
	if err != nil {
		WriteError(w, err)
		return
	}
	s.relativize(modules)

	summaries := make([]ModuleSummary, 0, len(modules))
	for _, m := range modules {
		fns, consts, structs, fields := m.Counts()
		summaries = append(summaries, ModuleSummary{
			Path:      m.Path,
			Name:      m.Name,
			Functions: fns,
			Constants: consts,
			Structs:   structs,
			Fields:    fields,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleGetModule renders one file. ?format= selects any render format; JSON by default.
func (s *Server) handleGetModule(w http.ResponseWriter, r *http.Request) {
	format := render.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := render.ParseFormat(q)
		if err != nil {
			WriteError(w, err)
			return
		}
		format = f
	}

	rel, abs, info, err := s.resolve(chi.URLParam(r, "*"))
	if err != nil {
		WriteError(w, err)
		return
	}
	if info.IsDir() {
		WriteError(w, zerrors.Newf(zerrors.InvalidOption, "%s is a directory", rel).
			WithDetails(map[string]string{"docs": "/docs/" + rel}))
		return
	}

	mod, err := s.collector.ExtractFile(r.Context(), abs)
	if err != nil {
		WriteError(w, err)
		return
	}
	mod.Path, mod.Name = rel, rel

	if format == render.FormatJSON {
		writeJSON(w, http.StatusOK, mod)
		return
	}
	s.render(w, []docmodel.Module{*mod}, render.Options{Format: format, Title: rel})
}

// handleDocs renders a file or directory as an HTML page. /docs serves the root.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	rel, abs, _, err := s.resolve(chi.URLParam(r, "*"))
	if err != nil {
		WriteError(w, err)
		return
	}

	modules, err := s.collector.Collect(r.Context(), abs)
	if err != nil {
		WriteError(w, err)
		return
	}
	s.relativize(modules)

	title := rel
	if title == "." {
		title = filepath.Base(s.root)
	}
	s.render(w, modules, render.Options{Format: render.FormatHTML, Title: title})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, zerrors.Newf(zerrors.InvalidOption, "invalid limit %q", v))
			return
		}
		limit = n
	}

	results, err := s.store.Search(r.Context(), q.Get("q"), q.Get("kind"), limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// render buffers the whole document so a failure can still produce an error status.
func (s *Server) render(w http.ResponseWriter, modules []docmodel.Module, opts render.Options) {
	opts.HeadingLevel = s.headingLevel

	var buf bytes.Buffer
	if err := render.Render(&buf, modules, opts); err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(opts.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// resolve maps a slash-separated request path onto the served root. Paths
// that climb out of the root are rejected.
func (s *Server) resolve(param string) (rel, abs string, info os.FileInfo, err error) {
	for _, seg := range strings.Split(param, "/") {
		if seg == ".." {
			return "", "", nil, zerrors.Newf(zerrors.InvalidOption, "path %q leaves the served root", param)
		}
	}

	rel = strings.TrimPrefix(path.Clean("/"+param), "/")
	if rel == "" {
		rel = "."
	}
	abs = filepath.Join(s.root, filepath.FromSlash(rel))

	info, err = os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil, zerrors.New(zerrors.FileNotFound, rel+" does not exist", err)
		}
		return "", "", nil, zerrors.New(zerrors.ReadFailed, "cannot stat "+rel, err)
	}
	return rel, abs, info, nil
}

// relativize rewrites module paths to be relative to the served root.
func (s *Server) relativize(modules []docmodel.Module) {
	for i := range modules {
		p, err := filepath.Rel(s.root, filepath.FromSlash(modules[i].Path))
		if err != nil {
			continue
		}
		p = filepath.ToSlash(p)
		modules[i].Path, modules[i].Name = p, p
	}
}
