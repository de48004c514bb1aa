// Package taxstore persists the taxonomy lookup in a SQLite index so runs
// don't have to re-parse the full text dump.
package taxstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"simfilter/core/errs"
	"simfilter/core/seqio"
	"simfilter/core/taxonomy"
)

const schema = `
CREATE TABLE IF NOT EXISTS taxa (
	name   TEXT PRIMARY KEY,
	record TEXT NOT NULL
) WITHOUT ROWID`

// Store is a SQLite taxonomy index. Names are stored lowercased; the value
// is the "<taxid>||<lineage>" record.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the index at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of indexed species.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM taxa`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting taxa: %w", err)
	}
	return n, nil
}

// Import loads a sci_name<TAB>tax_id<TAB>lineage dump in one transaction and
// returns the number of rows read.
func (s *Store) Import(ctx context.Context, dumpPath string) (int, error) {
	rc, err := seqio.Open(dumpPath)
	if err != nil {
		return 0, fmt.Errorf("taxonomy dump: %w", err)
	}
	defer func() { _ = rc.Close() }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO taxa (name, record) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	err = taxonomy.ReadDump(ctx, rc, dumpPath, func(r taxonomy.DumpRow) error {
		if _, err := stmt.ExecContext(ctx, strings.ToLower(r.Name), r.Entry.Record()); err != nil {
			return fmt.Errorf("inserting %q: %w", r.Name, err)
		}
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return n, nil
}

// Load reads the whole index into memory.
func (s *Store) Load(ctx context.Context) (*taxonomy.Lookup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, record FROM taxa`)
	if err != nil {
		return nil, fmt.Errorf("querying taxa: %w", err)
	}
	defer rows.Close()

	m := make(map[string]taxonomy.Entry, 1<<16)
	for rows.Next() {
		var name, rec string
		if err := rows.Scan(&name, &rec); err != nil {
			return nil, fmt.Errorf("scanning taxa: %w", err)
		}
		m[name] = taxonomy.ParseRecord(rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating taxa: %w", err)
	}
	return taxonomy.New(m), nil
}

// IndexLoader loads a Lookup from an existing index file.
type IndexLoader struct {
	Path string
}

var _ taxonomy.Loader = IndexLoader{}

// Load implements taxonomy.Loader. A missing index is errs.ErrNotFound
// rather than an empty database.
func (l IndexLoader) Load(ctx context.Context) (*taxonomy.Lookup, error) {
	if _, err := os.Stat(l.Path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("taxonomy index %s: %w", l.Path, errs.ErrNotFound)
	}
	s, err := Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy index %s: %w", l.Path, err)
	}
	defer s.Close()
	return s.Load(ctx)
}

// NewLoader picks the loader for path by extension: .db and .sqlite are
// indexes, anything else is read as a text dump.
func NewLoader(path string) taxonomy.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return IndexLoader{Path: path}
	default:
		return taxonomy.DumpLoader{Path: path}
	}
}

// BuildResult reports what Build did.
type BuildResult struct {
	Read  int // dump rows imported
	Total int // species in the index afterwards
}

// Build creates or refreshes the index at indexPath from dumpPath.
func Build(ctx context.Context, dumpPath, indexPath string) (BuildResult, error) {
	s, err := Open(indexPath)
	if err != nil {
		return BuildResult{}, err
	}
	defer s.Close()

	var r BuildResult
	if r.Read, err = s.Import(ctx, dumpPath); err != nil {
		return BuildResult{}, err
	}
	if r.Total, err = s.Count(ctx); err != nil {
		return BuildResult{}, err
	}
	return r, nil
}
