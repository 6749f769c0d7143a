package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rei_analyzer/pkg/core/deal"
)

// DealRepo persists analyzed deals. The full deal state lives in a single
// JSONB blob; status and score are lifted into columns for cheap filtering.
//
// Schema assumption (managed by migrations, not this package):
//
//	CREATE TABLE IF NOT EXISTS deals (
//	  id TEXT PRIMARY KEY,
//	  market_name TEXT,
//	  status TEXT NOT NULL,
//	  overall_score DOUBLE PRECISION,
//	  deal_json JSONB NOT NULL,
//	  updated_at TIMESTAMPTZ NOT NULL
//	);
type DealRepo struct {
	pool *pgxpool.Pool
}

// NewDealRepo creates the repository on the given pool; pass GetPool() after
// InitDB for the shared one.
func NewDealRepo(pool *pgxpool.Pool) *DealRepo {
	return &DealRepo{pool: pool}
}

// Save upserts a deal keyed by its ID.
func (r *DealRepo) Save(ctx context.Context, d *deal.Deal) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if d == nil || d.ID == "" {
		return fmt.Errorf("cannot save a deal without an ID")
	}

	blob, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal deal %s: %w", d.ID, err)
	}

	marketName := ""
	if d.Property != nil {
		marketName = d.Property.MarketName
	}
	var score *float64
	if d.Analysis.Score != nil {
		score = &d.Analysis.Score.Overall
	}

	query := `
		INSERT INTO deals (id, market_name, status, overall_score, deal_json, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			market_name = EXCLUDED.market_name,
			status = EXCLUDED.status,
			overall_score = EXCLUDED.overall_score,
			deal_json = EXCLUDED.deal_json,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.pool.Exec(ctx, query, d.ID, marketName, string(d.Analysis.Status), score, blob, time.Now()); err != nil {
		return fmt.Errorf("failed to save deal %s: %w", d.ID, err)
	}
	return nil
}

// SaveBatch saves all deals, collecting per-deal errors instead of stopping.
func (r *DealRepo) SaveBatch(ctx context.Context, deals []*deal.Deal) []error {
	var errs []error
	for _, d := range deals {
		if err := r.Save(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Load retrieves one deal by ID.
func (r *DealRepo) Load(ctx context.Context, id string) (*deal.Deal, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var blob []byte
	err := r.pool.QueryRow(ctx, `SELECT deal_json FROM deals WHERE id = $1`, id).Scan(&blob)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no deal found with id %s", id)
		}
		return nil, fmt.Errorf("failed to load deal %s: %w", id, err)
	}

	var d deal.Deal
	if err := json.Unmarshal(blob, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deal %s: %w", id, err)
	}
	return &d, nil
}

// ListByStatus returns deals in the given status, best score first.
func (r *DealRepo) ListByStatus(ctx context.Context, status deal.Status, limit int) ([]*deal.Deal, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT deal_json FROM deals
		WHERE status = $1
		ORDER BY overall_score DESC NULLS LAST, updated_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var out []*deal.Deal
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan deal row: %w", err)
		}
		var d deal.Deal
		if err := json.Unmarshal(blob, &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deal row: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Delete removes a deal.
func (r *DealRepo) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no deal found with id %s", id)
	}
	return nil
}
