package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a ticker has no snapshot
var ErrNotFound = errors.New("snapshot not found")

// Repository stores score snapshots
// ⭐ SSOT: 점수 스냅샷 저장소는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new snapshot repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the snapshot table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Save inserts a snapshot and fills in its ID and creation time
func (r *Repository) Save(ctx context.Context, s *Snapshot) error {
	query := `
		INSERT INTO growthscore.score_snapshots (
			ticker, source, profile_id, profile_hash, total_score, rating, result, fundamentals
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		s.Ticker, s.Source, s.ProfileID, s.ProfileHash, s.TotalScore, s.Rating,
		[]byte(s.Result), []byte(s.Fundamentals),
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", s.Ticker, err)
	}
	return nil
}

const selectColumns = `
	SELECT id, ticker, source, profile_id, profile_hash, total_score, rating,
	       result, fundamentals, created_at
	FROM growthscore.score_snapshots
`

// Latest returns the most recent snapshot for a ticker
func (r *Repository) Latest(ctx context.Context, ticker string) (*Snapshot, error) {
	query := selectColumns + `
		WHERE ticker = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	s, err := scanSnapshot(r.pool.QueryRow(ctx, query, strings.ToUpper(ticker)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", ticker, err)
	}
	return s, nil
}

// History returns up to limit snapshots for a ticker, newest first
func (r *Repository) History(ctx context.Context, ticker string, limit int) ([]*Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	query := selectColumns + `
		WHERE ticker = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, strings.ToUpper(ticker), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", ticker, err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(row pgx.Row) (*Snapshot, error) {
	var s Snapshot
	var result, fundamentals []byte
	err := row.Scan(
		&s.ID, &s.Ticker, &s.Source, &s.ProfileID, &s.ProfileHash, &s.TotalScore, &s.Rating,
		&result, &fundamentals, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Result = result
	s.Fundamentals = fundamentals
	return &s, nil
}
