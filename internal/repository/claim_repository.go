package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"riskpool-service/internal/models"
)

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Upsert writes a claim's current state (status and vote tallies change
// until the claim settles).
func (r *ClaimRepository) Upsert(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO pool_claim (pool_id, claimant_id, amount, submitted_at, status,
		                        votes_for, votes_against)
		VALUES (:pool_id, :claimant_id, :amount, :submitted_at, :status,
		        :votes_for, :votes_against)
		ON CONFLICT (pool_id, claimant_id) DO UPDATE SET
			status = EXCLUDED.status,
			votes_for = EXCLUDED.votes_for,
			votes_against = EXCLUDED.votes_against
	`

	_, err := r.db.NamedExecContext(ctx, query, claim)
	if err != nil {
		return fmt.Errorf("failed to upsert claim: %w", err)
	}

	return nil
}

// Get retrieves one claim record
func (r *ClaimRepository) Get(ctx context.Context, poolID uint64, claimantID string) (*models.Claim, error) {
	var claim models.Claim
	query := `
		SELECT pool_id, claimant_id, amount, submitted_at, status, votes_for, votes_against
		FROM pool_claim
		WHERE pool_id = $1 AND claimant_id = $2
	`

	err := r.db.GetContext(ctx, &claim, query, poolID, claimantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	return &claim, nil
}

// GetAll retrieves every claim record
func (r *ClaimRepository) GetAll(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	query := `
		SELECT pool_id, claimant_id, amount, submitted_at, status, votes_for, votes_against
		FROM pool_claim
		ORDER BY pool_id, submitted_at
	`

	err := r.db.SelectContext(ctx, &claims, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims: %w", err)
	}

	return claims, nil
}

// GetByStatus retrieves claims with the given status, oldest first
func (r *ClaimRepository) GetByStatus(ctx context.Context, status models.ClaimStatus) ([]models.Claim, error) {
	var claims []models.Claim
	query := `
		SELECT pool_id, claimant_id, amount, submitted_at, status, votes_for, votes_against
		FROM pool_claim
		WHERE status = $1
		ORDER BY submitted_at
	`

	err := r.db.SelectContext(ctx, &claims, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims by status: %w", err)
	}

	return claims, nil
}
