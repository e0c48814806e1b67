package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on lines(space, name, seq)
const currentSchemaVersion = 1

// SQLiteStore keeps table lines in a SQLite database.
// Uses WAL mode so a watcher can read while a writer appends.
type SQLiteStore struct {
	SpaceScope

	db   *sql.DB
	opts options
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite creates or opens a SQLite database at path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func OpenSQLite(path, space string, opts ...Option) (*SQLiteStore, error) {
	if err := validateName("space", space); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{
		SpaceScope: NewSpaceScope(space),
		db:         db,
		opts:       applyOptions(opts),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, table, line string) error {
	space := s.EffectiveSpace()
	if err := s.check(table); err != nil {
		return storageErr("append", space, table, err)
	}
	if err := validateLine(line); err != nil {
		return storageErr("append", space, table, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("append", space, table, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := ensureTable(ctx, tx, space, table); err != nil {
		return storageErr("append", space, table, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lines (space, name, line) VALUES (?, ?, ?)`,
		space, table, line,
	); err != nil {
		return storageErr("append", space, table, fmt.Errorf("insert line: %w", err))
	}
	return storageErr("append", space, table, tx.Commit())
}

func (s *SQLiteStore) ReadAll(ctx context.Context, table string) (string, error) {
	lines, err := s.queryLines(ctx, "read", table, nil)
	if err != nil {
		return "", err
	}
	return joinLines(lines), nil
}

// Select narrows candidates in SQL with instr, which every match mode
// implies, then applies the exact match in Go.
func (s *SQLiteStore) Select(ctx context.Context, table, whereID string) (string, error) {
	lines, err := s.queryLines(ctx, "select", table, &whereID)
	if err != nil {
		return "", err
	}
	var kept []string
	for _, l := range lines {
		if matchLine(l, whereID, s.opts.match) {
			kept = append(kept, l)
		}
	}
	return joinLines(kept), nil
}

// queryLines returns the table's lines in append order, optionally
// restricted to lines containing contains. The table is created if absent.
func (s *SQLiteStore) queryLines(ctx context.Context, op, table string, contains *string) ([]string, error) {
	space := s.EffectiveSpace()
	if err := s.check(table); err != nil {
		return nil, storageErr(op, space, table, err)
	}
	if err := ensureTable(ctx, s.db, space, table); err != nil {
		return nil, storageErr(op, space, table, err)
	}

	query := `SELECT line FROM lines WHERE space = ? AND name = ?`
	params := []any{space, table}
	if contains != nil {
		query += ` AND instr(line, ?) > 0`
		params = append(params, *contains)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, storageErr(op, space, table, fmt.Errorf("query lines: %w", err))
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, storageErr(op, space, table, fmt.Errorf("scan line: %w", err))
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, space, table, fmt.Errorf("iterate lines: %w", err))
	}
	return lines, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, table string) error {
	space := s.EffectiveSpace()
	if err := s.check(table); err != nil {
		return storageErr("clear", space, table, err)
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM info_tables WHERE space = ? AND name = ?`,
		space, table,
	).Scan(&exists)
	if err != nil {
		return storageErr("clear", space, table, fmt.Errorf("lookup table: %w", err))
	}
	if exists == 0 {
		s.opts.logger.Warn("clear on missing table",
			slog.String("space", space),
			slog.String("table", table))
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM lines WHERE space = ? AND name = ?`,
		space, table,
	)
	if err != nil {
		return storageErr("clear", space, table, fmt.Errorf("delete lines: %w", err))
	}
	return nil
}

func (s *SQLiteStore) check(table string) error {
	if err := validateName("space", s.EffectiveSpace()); err != nil {
		return err
	}
	return validateName("table", table)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ensureTable registers (space, table). Idempotent.
func ensureTable(ctx context.Context, db execer, space, table string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO info_tables (space, name) VALUES (?, ?)`,
		space, table,
	)
	if err != nil {
		return fmt.Errorf("create table entry: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the per-table read index.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lines_table
		ON lines(space, name, seq)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLiteStore) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
