package engine

import (
	"context"

	"github.com/google/uuid"

	"riskpool-service/internal/ledger"
	"riskpool-service/internal/models"
)

// CreatePool validates the parameters, charges the creation fee and stores a
// new open, empty pool. Returns the new pool id. The validation order is part
// of the contract: the first failing check determines the reported code.
func (e *Engine) CreatePool(ctx context.Context, caller string, req models.CreatePoolRequest) (uint64, error) {
	if e.nextPoolID >= e.maxPools {
		return 0, ErrMaxPoolsExceeded
	}
	if !models.IsValidRiskType(req.RiskType) {
		return 0, ErrInvalidRiskType
	}
	if req.Region == "" || len(req.Region) > maxRegionLen {
		return 0, ErrInvalidRegion
	}
	if req.PremiumRate == 0 || req.PremiumRate > 100 {
		return 0, ErrInvalidPremiumRate
	}
	if req.CoverageLimit == 0 {
		return 0, ErrInvalidCoverageLimit
	}
	if req.InterestRate > 20 {
		return 0, ErrInvalidInterestRate
	}
	if req.GracePeriodDays > 30 {
		return 0, ErrInvalidGracePeriod
	}
	if !models.IsValidCurrency(req.Currency) {
		return 0, ErrInvalidCurrency
	}
	if req.MinContribution == 0 {
		return 0, ErrInvalidMinContrib
	}
	if req.MaxClaimAmount == 0 {
		return 0, ErrInvalidMaxClaim
	}
	if req.MaxMembers == 0 || req.MaxMembers > 500 {
		return 0, ErrMaxMembersExceeded
	}
	if _, taken := e.poolsByRegion[req.Region]; taken {
		return 0, ErrRegionTaken
	}
	if e.authority == "" {
		return 0, ErrAuthorityNotSet
	}

	e.transfers.Request(ctx, ledger.TransferRequest{
		ID:     uuid.New(),
		Amount: e.creationFee,
		From:   caller,
		To:     e.authority,
		Memo:   "pool creation fee",
	})

	id := e.nextPoolID
	e.pools[id] = &models.Pool{
		ID:              id,
		RiskType:        req.RiskType,
		Region:          req.Region,
		PremiumRate:     req.PremiumRate,
		CoverageLimit:   req.CoverageLimit,
		TotalBalance:    0,
		ActiveMembers:   0,
		IsOpen:          true,
		UpdatedAt:       e.now(),
		Creator:         caller,
		InterestRate:    req.InterestRate,
		GracePeriodDays: req.GracePeriodDays,
		Currency:        req.Currency,
		MinContribution: req.MinContribution,
		MaxClaimAmount:  req.MaxClaimAmount,
		MaxMembers:      req.MaxMembers,
	}
	e.poolsByRegion[req.Region] = id
	e.nextPoolID++
	return id, nil
}

// UpdatePool overwrites a pool's risk parameters. Creator only. Writes the
// audit record for the pool, replacing any previous one.
func (e *Engine) UpdatePool(caller string, poolID uint64, req models.UpdatePoolRequest) error {
	pool, ok := e.pools[poolID]
	if !ok {
		return ErrPoolNotFound
	}
	if pool.Creator != caller {
		return ErrNotAuthorized
	}
	if !models.IsValidRiskType(req.RiskType) {
		return ErrInvalidRiskType
	}
	if req.PremiumRate == 0 || req.PremiumRate > 100 {
		return ErrInvalidPremiumRate
	}
	if req.CoverageLimit == 0 {
		return ErrInvalidCoverageLimit
	}

	now := e.now()
	pool.RiskType = req.RiskType
	pool.PremiumRate = req.PremiumRate
	pool.CoverageLimit = req.CoverageLimit
	pool.UpdatedAt = now
	e.poolUpdates[poolID] = &models.PoolUpdate{
		PoolID:               poolID,
		UpdatedRiskType:      req.RiskType,
		UpdatedPremiumRate:   req.PremiumRate,
		UpdatedCoverageLimit: req.CoverageLimit,
		UpdatedAt:            now,
		Updater:              caller,
	}
	return nil
}

// ClosePool marks a pool closed for new joins and claims. Creator only.
// Closing an already-closed pool re-succeeds with the same state; pending
// claims on a closed pool may still be processed.
func (e *Engine) ClosePool(caller string, poolID uint64) error {
	pool, ok := e.pools[poolID]
	if !ok {
		return ErrPoolNotFound
	}
	if pool.Creator != caller {
		return ErrNotAuthorized
	}
	pool.IsOpen = false
	return nil
}
