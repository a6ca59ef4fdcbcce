// internal/adapter/storage/run_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"globalfreq/internal/domain/frequency"
)

const runsSchema = `
	CREATE TABLE IF NOT EXISTS frequency_runs (
		id         TEXT PRIMARY KEY,
		regions    TEXT[] NOT NULL,
		features   INTEGER NOT NULL,
		pivots     INTEGER NOT NULL,
		document   JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS frequency_runs_created_at_idx ON frequency_runs (created_at DESC);
`

// RunStore implements storage for combination runs
type RunStore struct {
	db *pgxpool.Pool
}

// NewRunStore creates a new run store
func NewRunStore(db *pgxpool.Pool) *RunStore {
	return &RunStore{
		db: db,
	}
}

// EnsureSchema creates the runs table if it does not exist
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, runsSchema); err != nil {
		return fmt.Errorf("error creating runs schema: %w", err)
	}
	return nil
}

// SaveRun saves a run to storage
func (s *RunStore) SaveRun(ctx context.Context, run frequency.Run) error {
	query := `
		INSERT INTO frequency_runs (
			id, regions, features, pivots, document, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (id) DO UPDATE
		SET
			regions = $2,
			features = $3,
			pivots = $4,
			document = $5
	`

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	documentJSON, err := json.Marshal(run.Document)
	if err != nil {
		return fmt.Errorf("error marshaling document: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		run.ID,
		run.Regions,
		run.Features,
		run.Pivots,
		documentJSON,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID
func (s *RunStore) GetRun(ctx context.Context, id string) (*frequency.Run, error) {
	query := `
		SELECT id, regions, features, pivots, document, created_at
		FROM frequency_runs
		WHERE id = $1
	`

	var run frequency.Run
	var documentJSON []byte

	err := s.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Regions,
		&run.Features,
		&run.Pivots,
		&documentJSON,
		&run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", frequency.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying run: %w", err)
	}

	if err := json.Unmarshal(documentJSON, &run.Document); err != nil {
		return nil, fmt.Errorf("error unmarshaling document: %w", err)
	}

	return &run, nil
}

// ListRuns returns the most recent runs, newest first, without documents
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]frequency.Run, error) {
	query := `
		SELECT id, regions, features, pivots, created_at
		FROM frequency_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	runs := []frequency.Run{}
	for rows.Next() {
		var run frequency.Run
		if err := rows.Scan(&run.ID, &run.Regions, &run.Features, &run.Pivots, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
