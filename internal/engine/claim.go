package engine

import (
	"context"

	"github.com/google/uuid"

	"riskpool-service/internal/ledger"
	"riskpool-service/internal/models"
)

// SubmitClaim opens a pending claim for the calling member. The member's
// hasClaimed flag is set immediately on submission, independent of the
// claim's eventual outcome, permanently barring a second claim on this pool.
func (e *Engine) SubmitClaim(ctx context.Context, caller string, poolID uint64, amount uint64, evidenceValue uint64) error {
	pool, ok := e.pools[poolID]
	if !ok {
		return ErrPoolNotFound
	}
	if !pool.IsOpen {
		return ErrPoolClosed
	}
	key := memberKey{poolID, caller}
	member, joined := e.members[key]
	if !joined {
		return ErrNotMember
	}
	if member.HasClaimed {
		return ErrAlreadyClaimed
	}
	if amount == 0 || amount > pool.MaxClaimAmount {
		return ErrInvalidClaimAmount
	}
	if evidenceValue == 0 {
		return ErrInvalidEvidence
	}

	e.claims[key] = &models.Claim{
		PoolID:       poolID,
		ClaimantID:   caller,
		Amount:       amount,
		SubmittedAt:  e.now(),
		Status:       models.ClaimPending,
		VotesFor:     0,
		VotesAgainst: 0,
	}
	member.HasClaimed = true
	return nil
}

// VoteOnClaim records one peer vote on a pending claim. Voters must be pool
// members and may not vote on their own claim. Repeated votes by the same
// member accumulate; de-duplication is not part of this protocol.
func (e *Engine) VoteOnClaim(caller string, poolID uint64, claimantID string, inFavor bool) error {
	pool, ok := e.pools[poolID]
	if !ok {
		return ErrPoolNotFound
	}
	if !pool.IsOpen {
		return ErrPoolClosed
	}
	if _, joined := e.members[memberKey{poolID, caller}]; !joined {
		return ErrNotMember
	}
	claim, found := e.claims[memberKey{poolID, claimantID}]
	if !found {
		return ErrClaimNotFound
	}
	if caller == claimantID {
		return ErrSelfVoteForbidden
	}
	if claim.Status != models.ClaimPending {
		return ErrVotingClosed
	}

	if inFavor {
		claim.VotesFor++
	} else {
		claim.VotesAgainst++
	}
	return nil
}

// ProcessClaim settles a pending claim. Creator only. The claim is approved
// when votesFor reaches floor(activeMembers/2) and the pool can fund the
// payout; a funded approval pays the claimant and debits the pool. Falling
// short of the threshold rejects the claim, which is a successful settlement,
// not an error. If the threshold is met but the pool balance is short, the
// claim stays PENDING and the call may be retried once balance recovers.
func (e *Engine) ProcessClaim(ctx context.Context, caller string, poolID uint64, claimantID string) (models.SettlementOutcome, error) {
	pool, ok := e.pools[poolID]
	if !ok {
		return "", ErrPoolNotFound
	}
	if pool.Creator != caller {
		return "", ErrNotAuthorized
	}
	claim, found := e.claims[memberKey{poolID, claimantID}]
	if !found {
		return "", ErrClaimNotFound
	}
	if claim.Status != models.ClaimPending {
		return "", ErrAlreadySettled
	}

	approvalThreshold := pool.ActiveMembers / 2
	if claim.VotesFor >= approvalThreshold {
		if pool.TotalBalance < claim.Amount {
			return "", ErrInsufficientPoolBalance
		}
		e.transfers.Request(ctx, ledger.TransferRequest{
			ID:     uuid.New(),
			Amount: claim.Amount,
			From:   ledger.PoolCustody(poolID),
			To:     claimantID,
			Memo:   "claim payout",
		})
		pool.TotalBalance -= claim.Amount
		claim.Status = models.ClaimApproved
		return models.SettlementApproved, nil
	}

	claim.Status = models.ClaimRejected
	return models.SettlementRejected, nil
}
