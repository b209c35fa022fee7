package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"riskpool-service/internal/models"
)

type PoolRepository struct {
	db *sqlx.DB
}

func NewPoolRepository(db *sqlx.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

// Upsert writes a pool's current state. Replaying an already-applied
// operation is a no-op thanks to the conflict clause.
func (r *PoolRepository) Upsert(ctx context.Context, pool *models.Pool) error {
	query := `
		INSERT INTO pool (id, risk_type, region, premium_rate, coverage_limit,
		                  total_balance, active_members, is_open, updated_at, creator,
		                  interest_rate, grace_period_days, currency, min_contribution,
		                  max_claim_amount, max_members)
		VALUES (:id, :risk_type, :region, :premium_rate, :coverage_limit,
		        :total_balance, :active_members, :is_open, :updated_at, :creator,
		        :interest_rate, :grace_period_days, :currency, :min_contribution,
		        :max_claim_amount, :max_members)
		ON CONFLICT (id) DO UPDATE SET
			risk_type = EXCLUDED.risk_type,
			premium_rate = EXCLUDED.premium_rate,
			coverage_limit = EXCLUDED.coverage_limit,
			total_balance = EXCLUDED.total_balance,
			active_members = EXCLUDED.active_members,
			is_open = EXCLUDED.is_open,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.NamedExecContext(ctx, query, pool)
	if err != nil {
		return fmt.Errorf("failed to upsert pool: %w", err)
	}

	return nil
}

// GetByID retrieves a pool by its ID
func (r *PoolRepository) GetByID(ctx context.Context, id uint64) (*models.Pool, error) {
	var pool models.Pool
	query := `
		SELECT id, risk_type, region, premium_rate, coverage_limit, total_balance,
		       active_members, is_open, updated_at, creator, interest_rate,
		       grace_period_days, currency, min_contribution, max_claim_amount, max_members
		FROM pool
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &pool, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool by id: %w", err)
	}

	return &pool, nil
}

// GetAll retrieves every pool, ordered by id
func (r *PoolRepository) GetAll(ctx context.Context) ([]models.Pool, error) {
	var pools []models.Pool
	query := `
		SELECT id, risk_type, region, premium_rate, coverage_limit, total_balance,
		       active_members, is_open, updated_at, creator, interest_rate,
		       grace_period_days, currency, min_contribution, max_claim_amount, max_members
		FROM pool
		ORDER BY id
	`

	err := r.db.SelectContext(ctx, &pools, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pools: %w", err)
	}

	return pools, nil
}

// ExistsByRegion checks whether a pool already covers a region
func (r *PoolRepository) ExistsByRegion(ctx context.Context, region string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM pool WHERE region = $1)`

	err := r.db.GetContext(ctx, &exists, query, region)
	if err != nil {
		return false, fmt.Errorf("failed to check pool existence: %w", err)
	}

	return exists, nil
}
