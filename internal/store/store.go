package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"zigdoc/internal/docmodel"
	zerrors "zigdoc/internal/errors"
)

// Symbol kinds stored in the symbols table.
const (
	KindFunction = "function"
	KindConstant = "constant"
	KindStruct   = "struct"
	KindField    = "field"
)

// DefaultSearchLimit caps Search results when no limit is given.
const DefaultSearchLimit = 50

// ModuleRecord describes one indexed file.
type ModuleRecord struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Hash      string    `json:"hash"`
	IndexedAt time.Time `json:"indexedAt"`
	RunID     string    `json:"runId"`
	Functions int       `json:"functions"`
	Constants int       `json:"constants"`
	Structs   int       `json:"structs"`
}

// Symbol is one searchable documentation entry.
type Symbol struct {
	ModulePath string `json:"modulePath"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	// Parent is the enclosing struct for fields.
	Parent string `json:"parent,omitempty"`
	Doc    string `json:"doc"`
	// Detail is a function's signature or a field's type.
	Detail string `json:"detail,omitempty"`
}

// Run states. A run left RunRunning by a crashed process stays that way.
const (
	RunRunning  = "running"
	RunComplete = "complete"
	RunAborted  = "aborted"
)

// Run summarizes one Indexer.Index call.
type Run struct {
	ID string `json:"id"`
	// Root is the indexed directory, relative to the project root.
	Root       string    `json:"root"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Indexed    int       `json:"indexed"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Removed    int       `json:"removed"`
}

// Store provides the documentation queries on top of DB.
type Store struct {
	db *DB
}

// NewStore creates a new store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// SaveModule replaces the stored module and its symbols.
func (s *Store) SaveModule(ctx context.Context, mod *docmodel.Module, hash, runID string, at time.Time) error {
	blob, err := encodeModel(&mod.Model)
	if err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM modules WHERE path = ?`, mod.Path); err != nil {
			return fmt.Errorf("failed to delete module: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO modules (path, name, hash, indexed_at, run_id, model)
			VALUES (?, ?, ?, ?, ?, ?)
		`, mod.Path, mod.Name, hash, at.Unix(), runID, blob)
		if err != nil {
			return fmt.Errorf("failed to insert module: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO symbols (module_path, kind, name, parent, doc, detail, ordinal)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare symbol insert: %w", err)
		}
		defer stmt.Close()

		for i, sym := range symbolsOf(mod) {
			if _, err := stmt.ExecContext(ctx, mod.Path, sym.Kind, sym.Name, sym.Parent, sym.Doc, sym.Detail, i); err != nil {
				return fmt.Errorf("failed to insert symbol %s: %w", sym.Name, err)
			}
		}
		return nil
	})
}

// symbolsOf flattens a module's entries in declaration order.
func symbolsOf(mod *docmodel.Module) []Symbol {
	var out []Symbol
	for _, fn := range mod.Functions {
		out = append(out, Symbol{ModulePath: mod.Path, Kind: KindFunction, Name: fn.Name, Doc: fn.Doc, Detail: fn.Signature})
	}
	for _, c := range mod.Constants {
		out = append(out, Symbol{ModulePath: mod.Path, Kind: KindConstant, Name: c.Name, Doc: c.Doc})
	}
	for _, st := range mod.Structs {
		out = append(out, Symbol{ModulePath: mod.Path, Kind: KindStruct, Name: st.Name, Doc: st.Doc})
		for _, f := range st.Fields {
			out = append(out, Symbol{ModulePath: mod.Path, Kind: KindField, Name: f.Name, Parent: st.Name, Doc: f.Doc, Detail: f.Type})
		}
	}
	return out
}

// GetModule returns the stored module at path, or a FILE_NOT_FOUND error.
func (s *Store) GetModule(ctx context.Context, path string) (*docmodel.Module, error) {
	var (
		name string
		blob []byte
	)
	err := s.db.conn.QueryRowContext(ctx, `SELECT name, model FROM modules WHERE path = ?`, path).Scan(&name, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, zerrors.Newf(zerrors.FileNotFound, "module %q is not indexed", path)
	}
	if err != nil {
		return nil, zerrors.New(zerrors.StoreFailed, "failed to get module", err)
	}

	model, err := decodeModel(blob)
	if err != nil {
		return nil, zerrors.New(zerrors.StoreFailed, "corrupt module "+path, err)
	}
	return &docmodel.Module{Path: path, Name: name, Model: *model}, nil
}

// ModuleHash returns the stored content hash for path; ok is false when the
// module is not indexed.
func (s *Store) ModuleHash(ctx context.Context, path string) (hash string, ok bool, err error) {
	err = s.db.conn.QueryRowContext(ctx, `SELECT hash FROM modules WHERE path = ?`, path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get module hash: %w", err)
	}
	return hash, true, nil
}

// ListModules returns every indexed module ordered by path, with entry counts.
func (s *Store) ListModules(ctx context.Context) ([]ModuleRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT m.path, m.name, m.hash, m.indexed_at, m.run_id,
			COALESCE(SUM(s.kind = 'function'), 0),
			COALESCE(SUM(s.kind = 'constant'), 0),
			COALESCE(SUM(s.kind = 'struct'), 0)
		FROM modules m
		LEFT JOIN symbols s ON s.module_path = m.path
		GROUP BY m.path
		ORDER BY m.path
	`)
	if err != nil {
		return nil, zerrors.New(zerrors.StoreFailed, "failed to list modules", err)
	}
	defer rows.Close()

	records := []ModuleRecord{}
	for rows.Next() {
		var (
			rec       ModuleRecord
			indexedAt int64
		)
		if err := rows.Scan(&rec.Path, &rec.Name, &rec.Hash, &indexedAt, &rec.RunID,
			&rec.Functions, &rec.Constants, &rec.Structs); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		rec.IndexedAt = time.Unix(indexedAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ModulePaths returns the set of indexed paths.
func (s *Store) ModulePaths(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT path FROM modules`)
	if err != nil {
		return nil, fmt.Errorf("failed to list module paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths[p] = true
	}
	return paths, rows.Err()
}

// DeleteModule removes a module and, by cascade, its symbols.
func (s *Store) DeleteModule(ctx context.Context, path string) error {
	_, err := s.db.conn.ExecContext(ctx, `DELETE FROM modules WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to delete module: %w", err)
	}
	return nil
}

// Search finds symbols whose name contains query, case-insensitively. Exact
// matches come first, then prefix matches, then the rest, each by name and
// module path. kind restricts results when non-empty.
func (s *Store) Search(ctx context.Context, query, kind string, limit int) ([]Symbol, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, zerrors.Newf(zerrors.InvalidOption, "search query must not be empty")
	}
	switch kind {
	case "", KindFunction, KindConstant, KindStruct, KindField:
	default:
		return nil, zerrors.Newf(zerrors.InvalidOption, "unknown symbol kind %q", kind)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	pattern := "%" + escapeLike(query) + "%"
	prefix := escapeLike(query) + "%"

	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT module_path, kind, name, parent, doc, detail
		FROM symbols
		WHERE name LIKE ? ESCAPE '\' AND (? = '' OR kind = ?)
		ORDER BY
			CASE
				WHEN name = ? COLLATE NOCASE THEN 0
				WHEN name LIKE ? ESCAPE '\' THEN 1
				ELSE 2
			END,
			name COLLATE NOCASE, module_path, ordinal
		LIMIT ?
	`, pattern, kind, kind, query, prefix, limit)
	if err != nil {
		return nil, zerrors.New(zerrors.StoreFailed, "search failed", err)
	}
	defer rows.Close()

	results := []Symbol{}
	for rows.Next() {
		var sym Symbol
		if err := rows.Scan(&sym.ModulePath, &sym.Kind, &sym.Name, &sym.Parent, &sym.Doc, &sym.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		results = append(results, sym)
	}
	return results, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// StartRun records the beginning of an index run.
func (s *Store) StartRun(ctx context.Context, id, root string, at time.Time) error {
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at) VALUES (?, ?, ?)`, id, root, at.Unix())
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

// FinishRun stores the run's final counters and status. An empty status is
// stored as RunComplete.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	status := run.Status
	if status == "" {
		status = RunComplete
	}
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, status = ?, indexed = ?, skipped = ?, failed = ?, removed = ?
		WHERE id = ?
	`, run.FinishedAt.Unix(), status, run.Indexed, run.Skipped, run.Failed, run.Removed, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// LastRun returns the most recently started run, or nil when none exists.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	var (
		run               Run
		started, finished sql.NullInt64
	)
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, root, status, started_at, finished_at, indexed, skipped, failed, removed
		FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1
	`).Scan(&run.ID, &run.Root, &run.Status, &started, &finished, &run.Indexed, &run.Skipped, &run.Failed, &run.Removed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}
	run.StartedAt = time.Unix(started.Int64, 0)
	if finished.Valid {
		run.FinishedAt = time.Unix(finished.Int64, 0)
	}
	return &run, nil
}
