// Package history persists per-strategy timings in a SQLite file so
// runs can be compared across invocations. Nothing is opened or
// written unless --history names a path.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/avezina/sumbench/internal/errors"
	"github.com/avezina/sumbench/internal/orchestration"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY,
	at          TEXT    NOT NULL,
	n           TEXT    NOT NULL,
	strategy    TEXT    NOT NULL,
	duration_ns INTEGER NOT NULL,
	digits      INTEGER NOT NULL,
	consistent  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_duration ON runs(duration_ns);
`

// Entry is one recorded strategy run. N travels as decimal text: the
// input domain covers all of uint64 and SQLite integers do not.
type Entry struct {
	ID         int64
	At         time.Time
	N          string
	Strategy   string
	Duration   time.Duration
	Digits     int
	Consistent bool
}

// Store wraps the SQLite database holding recorded runs.
type Store struct {
	db *sql.DB
}

// Open opens the history database at path, creating the file and the
// schema on first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.WrapError(err, "opening history database %s", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.WrapError(err, "creating history schema")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one run.
func (s *Store) Record(ctx context.Context, e Entry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (at, n, strategy, duration_ns, digits, consistent) VALUES (?, ?, ?, ?, ?, ?)`,
		at.UTC().Format(time.RFC3339Nano), e.N, e.Strategy,
		e.Duration.Nanoseconds(), e.Digits, boolToInt(e.Consistent))
	if err != nil {
		return apperrors.WrapError(err, "recording run for n=%s", e.N)
	}
	return nil
}

// RecordComparison stores every successful strategy of a comparison.
// Failed strategies have no duration worth keeping and are skipped.
func (s *Store) RecordComparison(ctx context.Context, cmp orchestration.Comparison) error {
	for _, e := range EntriesFromComparison(cmp, time.Now()) {
		if err := s.Record(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// EntriesFromComparison converts a comparison into history rows.
func EntriesFromComparison(cmp orchestration.Comparison, at time.Time) []Entry {
	entries := make([]Entry, 0, len(cmp.Results))
	for _, res := range cmp.Results {
		if res.Err != nil || res.Value == nil {
			continue
		}
		entries = append(entries, Entry{
			At:         at,
			N:          strconv.FormatUint(cmp.N, 10),
			Strategy:   res.Name,
			Duration:   res.Duration,
			Digits:     len(res.Value.Text(10)),
			Consistent: cmp.Consistent,
		})
	}
	return entries
}

// Fastest returns up to limit runs ordered by ascending duration. A
// non-empty inputs list restricts rows to those values of n.
func (s *Store) Fastest(ctx context.Context, limit int, inputs []uint64) ([]Entry, error) {
	if limit < 1 {
		return nil, nil
	}

	query := `SELECT id, at, n, strategy, duration_ns, digits, consistent FROM runs`
	args := make([]any, 0, len(inputs)+1)
	if len(inputs) > 0 {
		placeholders := make([]string, len(inputs))
		for i, n := range inputs {
			placeholders[i] = "?"
			args = append(args, strconv.FormatUint(n, 10))
		}
		query += fmt.Sprintf(" WHERE n IN (%s)", strings.Join(placeholders, ", "))
	}
	query += ` ORDER BY duration_ns ASC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.WrapError(err, "querying fastest runs")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			at         string
			durationNs int64
			consistent int
		)
		if err := rows.Scan(&e.ID, &at, &e.N, &e.Strategy, &durationNs, &e.Digits, &consistent); err != nil {
			return nil, apperrors.WrapError(err, "scanning history row")
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, at); parseErr == nil {
			e.At = parsed
		}
		e.Duration = time.Duration(durationNs)
		e.Consistent = consistent != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapError(err, "iterating history rows")
	}
	return entries, nil
}

// Count returns the number of recorded runs.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, apperrors.WrapError(err, "counting history rows")
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
