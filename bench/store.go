package bench

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	suite         TEXT NOT NULL,
	fingerprint   TEXT NOT NULL,
	recorded_at   TEXT NOT NULL,
	threads       INTEGER NOT NULL,
	weak          INTEGER NOT NULL,
	total         INTEGER NOT NULL,
	passed        INTEGER NOT NULL,
	mean_time_us  REAL NOT NULL,
	mean_nodes    REAL NOT NULL,
	nodes_per_sec REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_fingerprint ON runs (fingerprint, recorded_at);
`

// timeLayout has a fixed width so that recorded_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded benchmark run.
type Run struct {
	ID             int64
	Suite          string
	Fingerprint    string
	RecordedAt     time.Time
	Threads        int
	Weak           bool
	Total          int
	Passed         int
	MeanTimeMicros float64
	MeanNodes      float64
	NodesPerSecond float64
}

func (r Run) String() string {
	return fmt.Sprintf("#%d %s %s %d/%d passed, %.1f µs/case, %.0f nodes/case, %.0f nodes/s",
		r.ID, r.RecordedAt.Format(time.RFC3339), r.Suite, r.Passed, r.Total,
		r.MeanTimeMicros, r.MeanNodes, r.NodesPerSecond)
}

// Store keeps the history of benchmark runs in a sqlite file.
type Store struct {
	db *sql.DB
}

func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("opened-results-store")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves the summary of rep and returns the new run's id.
func (s *Store) Record(ctx context.Context, rep *Report, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (suite, fingerprint, recorded_at, threads, weak, total,
			passed, mean_time_us, mean_nodes, nodes_per_sec)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.Suite, rep.Fingerprint, at.UTC().Format(timeLayout), rep.Threads,
		rep.Weak, rep.Total, rep.Passed, rep.MeanTimeMicros, rep.MeanNodes,
		rep.NodesPerSecond)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Recent returns up to n runs of the suite with the given fingerprint,
// newest first.
func (s *Store) Recent(ctx context.Context, fingerprint string, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suite, fingerprint, recorded_at, threads, weak, total, passed,
			mean_time_us, mean_nodes, nodes_per_sec
		FROM runs WHERE fingerprint = ?
		ORDER BY recorded_at DESC, id DESC LIMIT ?`, fingerprint, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var at string
		if err := rows.Scan(&r.ID, &r.Suite, &r.Fingerprint, &at, &r.Threads, &r.Weak,
			&r.Total, &r.Passed, &r.MeanTimeMicros, &r.MeanNodes, &r.NodesPerSecond); err != nil {
			return nil, err
		}
		if r.RecordedAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
