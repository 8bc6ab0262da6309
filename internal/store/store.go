// Package store keeps a SQLite history of circuit runs.
//
// Every run records the tape it executed, the device and differentiation
// method, the bound parameters, the results and, when computed, the
// jacobian. Runs are listed in insertion order by a logical sequence number.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// ErrNotFound is returned by GetRun for unknown IDs.
var ErrNotFound = errors.New("run not found")

// Run is one recorded execution.
type Run struct {
	ID        string      `json:"id"`
	Seq       int64       `json:"seq"`
	TapeID    string      `json:"tape_id"`
	Device    string      `json:"device"`
	Method    string      `json:"method"`
	Interface string      `json:"interface"`
	Params    []float64   `json:"params"`
	Results   []float64   `json:"results"`
	Jacobian  [][]float64 `json:"jacobian,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Store is a run history database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set user_version: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// WriteRun inserts r and returns it with ID, Seq and CreatedAt filled in.
// An empty ID gets a fresh uuid v7; a zero CreatedAt gets the current time.
func (s *Store) WriteRun(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV7()).String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	params, err := json.Marshal(nonNil(r.Params))
	if err != nil {
		return Run{}, fmt.Errorf("write run: marshal params: %w", err)
	}
	results, err := json.Marshal(nonNil(r.Results))
	if err != nil {
		return Run{}, fmt.Errorf("write run: marshal results: %w", err)
	}
	var jac sql.NullString
	if r.Jacobian != nil {
		data, err := json.Marshal(r.Jacobian)
		if err != nil {
			return Run{}, fmt.Errorf("write run: marshal jacobian: %w", err)
		}
		jac = sql.NullString{String: string(data), Valid: true}
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO runs
		(id, seq, tape_id, device, method, interface, params, results, jacobian, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING seq
	`,
		r.ID,
		r.TapeID,
		r.Device,
		r.Method,
		r.Interface,
		string(params),
		string(results),
		jac,
		r.CreatedAt.Format(time.RFC3339Nano),
	).Scan(&r.Seq)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	return r, nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, tape_id, device, method, interface, params, results, jacobian, created_at
		FROM runs WHERE id = ?
	`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// ListRuns returns up to limit of the most recent runs, oldest first. A
// non-positive limit returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM (
			SELECT id, seq, tape_id, device, method, interface, params, results, jacobian, created_at
			FROM runs ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r               Run
		params, results string
		jac             sql.NullString
		created         string
	)
	err := sc.Scan(&r.ID, &r.Seq, &r.TapeID, &r.Device, &r.Method, &r.Interface, &params, &results, &jac, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return Run{}, fmt.Errorf("scan run %s: params: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(results), &r.Results); err != nil {
		return Run{}, fmt.Errorf("scan run %s: results: %w", r.ID, err)
	}
	if jac.Valid {
		if err := json.Unmarshal([]byte(jac.String), &r.Jacobian); err != nil {
			return Run{}, fmt.Errorf("scan run %s: jacobian: %w", r.ID, err)
		}
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Run{}, fmt.Errorf("scan run %s: created_at: %w", r.ID, err)
	}
	return r, nil
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
