// Package enzymedb stores user-defined restriction enzymes in DuckDB and
// merges them with the built-in catalog.
package enzymedb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/restriction"
)

// ErrNotFound is returned when a named enzyme is not stored.
var ErrNotFound = errors.New("enzyme not found")

// Store is a DuckDB-backed set of custom enzymes. Names are matched
// case-insensitively.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates the enzyme database at path. Use an empty string for
// an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create enzyme db directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// SetLogger sets the logger for import warnings.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path ("" for in-memory).
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS enzymes (
		name VARCHAR PRIMARY KEY,
		site VARCHAR NOT NULL,
		top_cut BIGINT NOT NULL,
		bottom_cut BIGINT NOT NULL
	)`)
	return err
}

// Put stores e, replacing any enzyme with the same name in any case.
// The delete and insert run as separate statements: DuckDB rejects a
// re-insert of a key deleted in the same transaction.
func (s *Store) Put(e restriction.Enzyme) error {
	if _, err := s.db.Exec(`DELETE FROM enzymes WHERE lower(name) = lower(?)`, e.Name); err != nil {
		return fmt.Errorf("replace enzyme %s: %w", e.Name, err)
	}
	if _, err := s.db.Exec(`INSERT INTO enzymes (name, site, top_cut, bottom_cut) VALUES (?, ?, ?, ?)`,
		e.Name, e.Site, int64(e.TopCut), int64(e.BottomCut)); err != nil {
		return fmt.Errorf("insert enzyme %s: %w", e.Name, err)
	}
	return nil
}

// PutAll batch-stores enzymes with the Appender API. Later duplicates of a
// name win.
func (s *Store) PutAll(enzymes []restriction.Enzyme) error {
	if len(enzymes) == 0 {
		return nil
	}

	byName := make(map[string]int, len(enzymes))
	var deduped []restriction.Enzyme
	for _, e := range enzymes {
		k := strings.ToLower(e.Name)
		if i, ok := byName[k]; ok {
			deduped[i] = e
			continue
		}
		byName[k] = len(deduped)
		deduped = append(deduped, e)
	}

	for _, e := range deduped {
		if _, err := s.db.Exec(`DELETE FROM enzymes WHERE lower(name) = lower(?)`, e.Name); err != nil {
			return fmt.Errorf("replace enzyme %s: %w", e.Name, err)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "enzymes")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, e := range deduped {
		if err := appender.AppendRow(e.Name, e.Site, int64(e.TopCut), int64(e.BottomCut)); err != nil {
			return fmt.Errorf("append enzyme %s: %w", e.Name, err)
		}
	}
	return appender.Flush()
}

// Delete removes the named enzyme.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM enzymes WHERE lower(name) = lower(?)`, name)
	if err != nil {
		return fmt.Errorf("delete enzyme %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete enzyme %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil
}

// Get returns the named enzyme.
func (s *Store) Get(name string) (restriction.Enzyme, error) {
	var e restriction.Enzyme
	var top, bottom int64
	err := s.db.QueryRow(`SELECT name, site, top_cut, bottom_cut FROM enzymes WHERE lower(name) = lower(?)`, name).
		Scan(&e.Name, &e.Site, &top, &bottom)
	if errors.Is(err, sql.ErrNoRows) {
		return restriction.Enzyme{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return restriction.Enzyme{}, fmt.Errorf("query enzyme %s: %w", name, err)
	}
	e.TopCut, e.BottomCut = int(top), int(bottom)
	return e, nil
}

// List returns every stored enzyme sorted by name.
func (s *Store) List() ([]restriction.Enzyme, error) {
	rows, err := s.db.Query(`SELECT name, site, top_cut, bottom_cut FROM enzymes ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("query enzymes: %w", err)
	}
	defer rows.Close()

	var out []restriction.Enzyme
	for rows.Next() {
		var e restriction.Enzyme
		var top, bottom int64
		if err := rows.Scan(&e.Name, &e.Site, &top, &bottom); err != nil {
			return nil, fmt.Errorf("scan enzyme: %w", err)
		}
		e.TopCut, e.BottomCut = int(top), int(bottom)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enzymes: %w", err)
	}
	return out, nil
}

// Count returns the number of stored enzymes.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM enzymes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count enzymes: %w", err)
	}
	return n, nil
}

// Catalog returns the built-in enzymes overlaid with the stored ones.
func (s *Store) Catalog() (*restriction.Catalog, error) {
	custom, err := s.List()
	if err != nil {
		return nil, err
	}
	return restriction.NewCatalog(restriction.Builtin(), custom), nil
}
