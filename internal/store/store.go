package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("run not found")

// Run is the stored summary of one simulation.
type Run struct {
	ID          string
	Rule        int
	Width       int
	Steps       int
	Alpha       float64
	Boundary    string
	Policy      string
	Pattern     string
	Seed        int64
	Mean        float64
	Variance    float64
	Samples     int
	Sensitivity float64
	CreatedAt   time.Time
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Rule     *int
	Boundary string
	Policy   string
	Limit    int
}

// Store is a SQLite-backed run log. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

const insertRun = `
INSERT INTO runs (id, rule, width, steps, alpha, boundary, policy, pattern, seed,
                  mean, variance, samples, sensitivity, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, ex execer, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := ex.ExecContext(ctx, insertRun,
		r.ID, r.Rule, r.Width, r.Steps, r.Alpha, r.Boundary, r.Policy, r.Pattern, r.Seed,
		r.Mean, r.Variance, r.Samples, r.Sensitivity, r.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", r.ID, err)
	}
	return nil
}

// Save inserts r, assigning an id and timestamp when unset.
func (s *Store) Save(ctx context.Context, r *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insert(ctx, s.db, r)
}

// SaveAll inserts runs in a single transaction.
func (s *Store) SaveAll(ctx context.Context, runs []Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	for i := range runs {
		if err := insert(ctx, tx, &runs[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const selectRuns = `
SELECT id, rule, width, steps, alpha, boundary, policy, pattern, seed,
       mean, variance, samples, sensitivity, created_at
FROM runs`

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// List returns the runs matching f ordered by rule, alpha and creation time.
func (s *Store) List(ctx context.Context, f Filter) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if f.Rule != nil {
		where = append(where, "rule = ?")
		args = append(args, *f.Rule)
	}
	if f.Boundary != "" {
		where = append(where, "boundary = ?")
		args = append(args, f.Boundary)
	}
	if f.Policy != "" {
		where = append(where, "policy = ?")
		args = append(args, f.Policy)
	}
	query := selectRuns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rule, alpha, created_at, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r       Run
		created string
	)
	err := sc.Scan(&r.ID, &r.Rule, &r.Width, &r.Steps, &r.Alpha, &r.Boundary, &r.Policy, &r.Pattern,
		&r.Seed, &r.Mean, &r.Variance, &r.Samples, &r.Sensitivity, &created)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: bad created_at %q: %w", r.ID, created, err)
	}
	return r, nil
}
