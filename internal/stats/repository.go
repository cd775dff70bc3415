// Package stats implements the statistics collector service: it records
// endpoint hits and answers aggregate view-count queries, optionally
// counting unique client addresses.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a-buianova/explore-with-me/internal/model"
)

// Hit is one recorded access to a URI.
type Hit struct {
	App       string         `json:"app" validate:"required"`
	URI       string         `json:"uri" validate:"required"`
	IP        string         `json:"ip" validate:"required"`
	Timestamp model.DateTime `json:"timestamp" validate:"required"`
}

// ViewStats is one aggregated result row.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Repository persists hits and runs the aggregate queries.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveHit inserts one hit row.
func (r *Repository) SaveHit(ctx context.Context, hit Hit) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO hits (app, uri, ip, created) VALUES ($1, $2, $3, $4)`,
		hit.App, hit.URI, hit.IP, hit.Timestamp.Time)
	if err != nil {
		return fmt.Errorf("insert hit: %w", err)
	}
	return nil
}

// GetStats aggregates hit counts per (app, uri) within [start, end],
// ordered by count descending. An empty uris set means all URIs; unique
// counts distinct client addresses instead of raw hits.
func (r *Repository) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	count := "COUNT(*)"
	if unique {
		count = "COUNT(DISTINCT ip)"
	}
	query := fmt.Sprintf(
		`SELECT app, uri, %s AS hits
		 FROM hits
		 WHERE created BETWEEN $1 AND $2
		   AND ($3 = 0 OR uri = ANY($4))
		 GROUP BY app, uri
		 ORDER BY hits DESC`,
		count)

	rows, err := r.db.Query(ctx, query, start, end, len(uris), uris)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var result []ViewStats
	for rows.Next() {
		var vs ViewStats
		if err := rows.Scan(&vs.App, &vs.URI, &vs.Hits); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		result = append(result, vs)
	}
	return result, rows.Err()
}
