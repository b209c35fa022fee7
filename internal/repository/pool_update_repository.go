package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"riskpool-service/internal/models"
)

type PoolUpdateRepository struct {
	db *sqlx.DB
}

func NewPoolUpdateRepository(db *sqlx.DB) *PoolUpdateRepository {
	return &PoolUpdateRepository{db: db}
}

// Upsert writes the audit record for a pool, replacing any previous one.
// Only the most recent edit is kept, matching the in-memory log.
func (r *PoolUpdateRepository) Upsert(ctx context.Context, update *models.PoolUpdate) error {
	query := `
		INSERT INTO pool_update (pool_id, updated_risk_type, updated_premium_rate,
		                         updated_coverage_limit, updated_at, updater)
		VALUES (:pool_id, :updated_risk_type, :updated_premium_rate,
		        :updated_coverage_limit, :updated_at, :updater)
		ON CONFLICT (pool_id) DO UPDATE SET
			updated_risk_type = EXCLUDED.updated_risk_type,
			updated_premium_rate = EXCLUDED.updated_premium_rate,
			updated_coverage_limit = EXCLUDED.updated_coverage_limit,
			updated_at = EXCLUDED.updated_at,
			updater = EXCLUDED.updater
	`

	_, err := r.db.NamedExecContext(ctx, query, update)
	if err != nil {
		return fmt.Errorf("failed to upsert pool update: %w", err)
	}

	return nil
}

// GetByPoolID retrieves the latest audit record for a pool
func (r *PoolUpdateRepository) GetByPoolID(ctx context.Context, poolID uint64) (*models.PoolUpdate, error) {
	var update models.PoolUpdate
	query := `
		SELECT pool_id, updated_risk_type, updated_premium_rate, updated_coverage_limit,
		       updated_at, updater
		FROM pool_update
		WHERE pool_id = $1
	`

	err := r.db.GetContext(ctx, &update, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool update: %w", err)
	}

	return &update, nil
}

// GetAll retrieves every audit record
func (r *PoolUpdateRepository) GetAll(ctx context.Context) ([]models.PoolUpdate, error) {
	var updates []models.PoolUpdate
	query := `
		SELECT pool_id, updated_risk_type, updated_premium_rate, updated_coverage_limit,
		       updated_at, updater
		FROM pool_update
		ORDER BY pool_id
	`

	err := r.db.SelectContext(ctx, &updates, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool updates: %w", err)
	}

	return updates, nil
}
