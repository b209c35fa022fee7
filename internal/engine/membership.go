package engine

import (
	"context"

	"github.com/google/uuid"

	"riskpool-service/internal/ledger"
	"riskpool-service/internal/models"
)

// JoinPool contributes funds to an open pool and records the membership.
// Membership is permanent: there is no leave or withdraw, and contributed
// balance only ever leaves the pool through an approved claim payout.
func (e *Engine) JoinPool(ctx context.Context, caller string, poolID uint64, contribution uint64) error {
	pool, ok := e.pools[poolID]
	if !ok {
		return ErrPoolNotFound
	}
	if !pool.IsOpen {
		return ErrPoolClosed
	}
	if contribution < pool.MinContribution {
		return ErrInvalidContribution
	}
	key := memberKey{poolID, caller}
	if _, joined := e.members[key]; joined {
		return ErrAlreadyMember
	}
	if pool.ActiveMembers >= pool.MaxMembers {
		return ErrMaxMembersExceeded
	}

	e.transfers.Request(ctx, ledger.TransferRequest{
		ID:     uuid.New(),
		Amount: contribution,
		From:   caller,
		To:     ledger.PoolCustody(poolID),
		Memo:   "pool contribution",
	})

	e.members[key] = &models.Membership{
		PoolID:             poolID,
		AccountID:          caller,
		ContributedBalance: contribution,
		JoinedAt:           e.now(),
		HasClaimed:         false,
	}
	pool.TotalBalance += contribution
	pool.ActiveMembers++
	return nil
}
