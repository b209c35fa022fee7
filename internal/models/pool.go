package models

// ============================================================================
// RISK POOL STATE
// ============================================================================

// Pool is one mutual risk-sharing fund for a region/risk-type combination.
// Pools are created once, mutated by joins, parameter updates, closure and
// claim settlement, and never deleted.
type Pool struct {
	ID              uint64   `json:"id" db:"id"`
	RiskType        RiskType `json:"risk_type" db:"risk_type"`
	Region          string   `json:"region" db:"region"`
	PremiumRate     uint64   `json:"premium_rate" db:"premium_rate"`
	CoverageLimit   uint64   `json:"coverage_limit" db:"coverage_limit"`
	TotalBalance    uint64   `json:"total_balance" db:"total_balance"`
	ActiveMembers   uint64   `json:"active_members" db:"active_members"`
	IsOpen          bool     `json:"is_open" db:"is_open"`
	UpdatedAt       int64    `json:"updated_at" db:"updated_at"`
	Creator         string   `json:"creator" db:"creator"`
	InterestRate    uint64   `json:"interest_rate" db:"interest_rate"`
	GracePeriodDays uint64   `json:"grace_period_days" db:"grace_period_days"`
	Currency        Currency `json:"currency" db:"currency"`
	MinContribution uint64   `json:"min_contribution" db:"min_contribution"`
	MaxClaimAmount  uint64   `json:"max_claim_amount" db:"max_claim_amount"`
	MaxMembers      uint64   `json:"max_members" db:"max_members"`
}

// Membership records one account's contribution to one pool. An account may
// join a given pool at most once; memberships are permanent.
type Membership struct {
	PoolID             uint64 `json:"pool_id" db:"pool_id"`
	AccountID          string `json:"account_id" db:"account_id"`
	ContributedBalance uint64 `json:"contributed_balance" db:"contributed_balance"`
	JoinedAt           int64  `json:"joined_at" db:"joined_at"`
	HasClaimed         bool   `json:"has_claimed" db:"has_claimed"`
}

// Claim is a member's payout request, settled by peer voting. At most one
// claim per (pool, account), ever, regardless of outcome.
type Claim struct {
	PoolID       uint64      `json:"pool_id" db:"pool_id"`
	ClaimantID   string      `json:"claimant_id" db:"claimant_id"`
	Amount       uint64      `json:"amount" db:"amount"`
	SubmittedAt  int64       `json:"submitted_at" db:"submitted_at"`
	Status       ClaimStatus `json:"status" db:"status"`
	VotesFor     uint64      `json:"votes_for" db:"votes_for"`
	VotesAgainst uint64      `json:"votes_against" db:"votes_against"`
}

// PoolUpdate is the audit record of the most recent administrative edit to a
// pool's risk parameters. Overwritten on every update; never consulted by the
// protocol itself.
type PoolUpdate struct {
	PoolID               uint64   `json:"pool_id" db:"pool_id"`
	UpdatedRiskType      RiskType `json:"updated_risk_type" db:"updated_risk_type"`
	UpdatedPremiumRate   uint64   `json:"updated_premium_rate" db:"updated_premium_rate"`
	UpdatedCoverageLimit uint64   `json:"updated_coverage_limit" db:"updated_coverage_limit"`
	UpdatedAt            int64    `json:"updated_at" db:"updated_at"`
	Updater              string   `json:"updater" db:"updater"`
}

// AuthorityConfig is the process-wide administrative singleton. The authority
// account transitions at most once from unset to set.
type AuthorityConfig struct {
	AuthorityAccount *string `json:"authority_account,omitempty" db:"authority_account"`
	CreationFee      uint64  `json:"creation_fee" db:"creation_fee"`
}
