// Package sqlstore implements [userstore.Store] on database/sql.
//
// Records live in one table:
//
//	CREATE TABLE IF NOT EXISTS users (
//		name VARCHAR(255) PRIMARY KEY,
//		hash TEXT NOT NULL
//	)
//
// Create relies on INSERT ... ON CONFLICT DO NOTHING, which SQLite (3.24+) and
// PostgreSQL support.  The package registers no driver; import one (e.g.
// github.com/mattn/go-sqlite3) next to it.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hasbyte1/go-saltedhash/userstore"
)

// DefaultTable is the table used when Options.Table is empty.
const DefaultTable = "users"

// Placeholder selects the bind-parameter syntax of the driver.
type Placeholder int

const (
	// Question binds with "?" (SQLite, MySQL).
	Question Placeholder = iota
	// Dollar binds with "$1", "$2", ... (PostgreSQL).
	Dollar
)

// ErrInvalidTable is returned by [New] for table names that are not plain
// SQL identifiers.
var ErrInvalidTable = errors.New("sqlstore: invalid table name")

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures a [Store].
type Options struct {
	// Table is the table name.  Default: [DefaultTable].
	Table string

	// Placeholder is the bind-parameter syntax.  Default: [Question].
	Placeholder Placeholder
}

type queries struct {
	create, insert, update, get, remove, wipe, count string
}

// Store is a [userstore.Store] and [userstore.Counter] backed by a *sql.DB.
//
// # Thread safety
//
// Store holds no mutable state; concurrency is the database's concern.
type Store struct {
	db *sql.DB
	q  queries
}

var (
	_ userstore.Store   = (*Store)(nil)
	_ userstore.Counter = (*Store)(nil)
)

// New wraps db.  Call [Store.Init] before first use to create the table.
func New(db *sql.DB, opts Options) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: database connection is required")
	}
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if !identRE.MatchString(opts.Table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, opts.Table)
	}
	return &Store{db: db, q: buildQueries(opts.Table, opts.Placeholder)}, nil
}

func buildQueries(table string, p Placeholder) queries {
	bind := func(q string) string {
		if p != Dollar {
			return q
		}
		var b strings.Builder
		n := 0
		for _, r := range q {
			if r == '?' {
				n++
				fmt.Fprintf(&b, "$%d", n)
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	}
	return queries{
		create: "CREATE TABLE IF NOT EXISTS " + table + " (name VARCHAR(255) PRIMARY KEY, hash TEXT NOT NULL)",
		insert: bind("INSERT INTO " + table + " (name, hash) VALUES (?, ?) ON CONFLICT (name) DO NOTHING"),
		update: bind("UPDATE " + table + " SET hash = ? WHERE name = ?"),
		get:    bind("SELECT hash FROM " + table + " WHERE name = ?"),
		remove: bind("DELETE FROM " + table + " WHERE name = ?"),
		wipe:   "DELETE FROM " + table,
		count:  "SELECT COUNT(*) FROM " + table,
	}
}

// Init creates the table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.q.create); err != nil {
		return fmt.Errorf("sqlstore: failed to ensure table: %w", err)
	}
	return nil
}

// Create inserts a new user; false when the name is already taken.
func (s *Store) Create(ctx context.Context, name, hash string) (bool, error) {
	if err := userstore.CheckRecord(name, hash); err != nil {
		return false, err
	}
	return s.execAffected(ctx, "create", s.q.insert, name, hash)
}

// Modify replaces the hash of an existing user; false when absent.
func (s *Store) Modify(ctx context.Context, name, hash string) (bool, error) {
	if err := userstore.CheckRecord(name, hash); err != nil {
		return false, err
	}
	return s.execAffected(ctx, "modify", s.q.update, hash, name)
}

// GetHash returns the stored hash for name.
func (s *Store) GetHash(ctx context.Context, name string) (string, bool, error) {
	if err := userstore.CheckName(name); err != nil {
		return "", false, err
	}
	var hash string
	err := s.db.QueryRowContext(ctx, s.q.get, name).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("sqlstore: failed to get hash: %w", err)
	}
	return hash, true, nil
}

// Remove deletes the user; false when absent.
func (s *Store) Remove(ctx context.Context, name string) (bool, error) {
	if err := userstore.CheckName(name); err != nil {
		return false, err
	}
	return s.execAffected(ctx, "remove", s.q.remove, name)
}

// WipeEverything deletes every row of the table.
func (s *Store) WipeEverything(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.q.wipe); err != nil {
		return fmt.Errorf("sqlstore: failed to wipe users: %w", err)
	}
	return nil
}

// UserCount implements [userstore.Counter].
func (s *Store) UserCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.q.count).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlstore: failed to count users: %w", err)
	}
	return n, nil
}

func (s *Store) execAffected(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("sqlstore: failed to %s user: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlstore: failed to %s user: %w", op, err)
	}
	return n > 0, nil
}
