package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"riskpool-service/internal/models"
)

type AuthorityRepository struct {
	db *sqlx.DB
}

func NewAuthorityRepository(db *sqlx.DB) *AuthorityRepository {
	return &AuthorityRepository{db: db}
}

// Upsert writes the singleton authority/fee row.
func (r *AuthorityRepository) Upsert(ctx context.Context, cfg *models.AuthorityConfig) error {
	query := `
		INSERT INTO authority_config (id, authority_account, creation_fee)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			authority_account = EXCLUDED.authority_account,
			creation_fee = EXCLUDED.creation_fee
	`

	_, err := r.db.ExecContext(ctx, query, cfg.AuthorityAccount, cfg.CreationFee)
	if err != nil {
		return fmt.Errorf("failed to upsert authority config: %w", err)
	}

	return nil
}

// Get retrieves the singleton row. Returns (nil, nil) when the service has
// never persisted any configuration.
func (r *AuthorityRepository) Get(ctx context.Context) (*models.AuthorityConfig, error) {
	var cfg models.AuthorityConfig
	query := `SELECT authority_account, creation_fee FROM authority_config WHERE id = 1`

	err := r.db.GetContext(ctx, &cfg, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get authority config: %w", err)
	}

	return &cfg, nil
}
