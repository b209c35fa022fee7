package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"riskpool-service/internal/models"
)

type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Upsert writes a membership record. Memberships are never deleted; the only
// field that ever changes after creation is has_claimed.
func (r *MembershipRepository) Upsert(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO pool_membership (pool_id, account_id, contributed_balance, joined_at, has_claimed)
		VALUES (:pool_id, :account_id, :contributed_balance, :joined_at, :has_claimed)
		ON CONFLICT (pool_id, account_id) DO UPDATE SET
			has_claimed = EXCLUDED.has_claimed
	`

	_, err := r.db.NamedExecContext(ctx, query, membership)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}

	return nil
}

// Get retrieves one membership record
func (r *MembershipRepository) Get(ctx context.Context, poolID uint64, accountID string) (*models.Membership, error) {
	var membership models.Membership
	query := `
		SELECT pool_id, account_id, contributed_balance, joined_at, has_claimed
		FROM pool_membership
		WHERE pool_id = $1 AND account_id = $2
	`

	err := r.db.GetContext(ctx, &membership, query, poolID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &membership, nil
}

// GetAll retrieves every membership record
func (r *MembershipRepository) GetAll(ctx context.Context) ([]models.Membership, error) {
	var memberships []models.Membership
	query := `
		SELECT pool_id, account_id, contributed_balance, joined_at, has_claimed
		FROM pool_membership
		ORDER BY pool_id, joined_at
	`

	err := r.db.SelectContext(ctx, &memberships, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}

	return memberships, nil
}

// GetByPoolID retrieves all members of one pool
func (r *MembershipRepository) GetByPoolID(ctx context.Context, poolID uint64) ([]models.Membership, error) {
	var memberships []models.Membership
	query := `
		SELECT pool_id, account_id, contributed_balance, joined_at, has_claimed
		FROM pool_membership
		WHERE pool_id = $1
		ORDER BY joined_at
	`

	err := r.db.SelectContext(ctx, &memberships, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships by pool id: %w", err)
	}

	return memberships, nil
}
