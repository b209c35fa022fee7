package models

// ============================================================================
// REQUEST BODIES
// ============================================================================

type SetAuthorityRequest struct {
	AuthorityAccount string `json:"authority_account"`
}

type SetCreationFeeRequest struct {
	CreationFee uint64 `json:"creation_fee"`
}

type CreatePoolRequest struct {
	RiskType        RiskType `json:"risk_type"`
	Region          string   `json:"region"`
	PremiumRate     uint64   `json:"premium_rate"`
	CoverageLimit   uint64   `json:"coverage_limit"`
	InterestRate    uint64   `json:"interest_rate"`
	GracePeriodDays uint64   `json:"grace_period_days"`
	Currency        Currency `json:"currency"`
	MinContribution uint64   `json:"min_contribution"`
	MaxClaimAmount  uint64   `json:"max_claim_amount"`
	MaxMembers      uint64   `json:"max_members"`
}

type UpdatePoolRequest struct {
	RiskType      RiskType `json:"risk_type"`
	PremiumRate   uint64   `json:"premium_rate"`
	CoverageLimit uint64   `json:"coverage_limit"`
}

type JoinPoolRequest struct {
	Contribution uint64 `json:"contribution"`
}

type SubmitClaimRequest struct {
	Amount uint64 `json:"amount"`
	// EvidenceValue is the raw oracle reading backing the claim. Only
	// positivity is checked here; feed validation happens upstream.
	EvidenceValue uint64 `json:"evidence_value"`
}

type VoteOnClaimRequest struct {
	InFavor bool `json:"in_favor"`
}
