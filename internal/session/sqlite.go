package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists session runs to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at       INTEGER NOT NULL,
			first_year       INTEGER NOT NULL,
			last_year        INTEGER NOT NULL,
			final_net_assets TEXT NOT NULL,
			document         BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:30], err)
		}
	}
	return nil
}

// SaveRun inserts rec and sets its ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, rec *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `INSERT INTO runs
		(created_at, first_year, last_year, final_net_assets, document)
		VALUES (?, ?, ?, ?, ?)`,
		rec.CreatedAt.UnixNano(), rec.FirstYear, rec.LastYear, rec.FinalNetAssets.String(), rec.Document)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	rec.ID = id
	return nil
}

// Latest returns the most recently saved run.
func (s *SQLiteStore) Latest(ctx context.Context) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, created_at, first_year, last_year, final_net_assets, document
		FROM runs ORDER BY id DESC LIMIT 1`)
	var (
		rec     RunRecord
		created int64
		net     string
	)
	if err := row.Scan(&rec.ID, &created, &rec.FirstYear, &rec.LastYear, &net, &rec.Document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	d, err := decimal.NewFromString(net)
	if err != nil {
		return nil, fmt.Errorf("run %d: bad net assets %q: %w", rec.ID, net, err)
	}
	rec.FinalNetAssets = d
	return &rec, nil
}

// List returns up to limit runs, newest first. A non-positive limit lists all.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at, first_year, last_year, final_net_assets
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec     RunRecord
			created int64
			net     string
		)
		if err := rows.Scan(&rec.ID, &created, &rec.FirstYear, &rec.LastYear, &net); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created).UTC()
		if rec.FinalNetAssets, err = decimal.NewFromString(net); err != nil {
			return nil, fmt.Errorf("run %d: bad net assets %q: %w", rec.ID, net, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
