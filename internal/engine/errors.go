package engine

// Error is a discrete protocol error code. Every mutating operation either
// fully applies or returns exactly one of these with zero side effects.
// Validation is ordered and short-circuiting: the first violated precondition
// determines the code.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return e.Code
}

var (
	// Authority configuration
	ErrAuthorityAlreadySet = &Error{Code: "AUTHORITY_ALREADY_SET"}
	ErrReservedAccount     = &Error{Code: "RESERVED_ACCOUNT"}
	ErrAuthorityNotSet     = &Error{Code: "AUTHORITY_NOT_SET"}

	// Pool lifecycle
	ErrMaxPoolsExceeded     = &Error{Code: "MAX_POOLS_EXCEEDED"}
	ErrInvalidRiskType      = &Error{Code: "INVALID_RISK_TYPE"}
	ErrInvalidRegion        = &Error{Code: "INVALID_REGION"}
	ErrInvalidPremiumRate   = &Error{Code: "INVALID_PREMIUM_RATE"}
	ErrInvalidCoverageLimit = &Error{Code: "INVALID_COVERAGE_LIMIT"}
	ErrInvalidInterestRate  = &Error{Code: "INVALID_INTEREST_RATE"}
	ErrInvalidGracePeriod   = &Error{Code: "INVALID_GRACE_PERIOD"}
	ErrInvalidCurrency      = &Error{Code: "INVALID_CURRENCY"}
	ErrInvalidMinContrib    = &Error{Code: "INVALID_MIN_CONTRIB"}
	ErrInvalidMaxClaim      = &Error{Code: "INVALID_MAX_CLAIM"}
	ErrRegionTaken          = &Error{Code: "REGION_TAKEN"}
	ErrPoolNotFound         = &Error{Code: "POOL_NOT_FOUND"}
	ErrPoolClosed           = &Error{Code: "POOL_CLOSED"}
	ErrNotAuthorized        = &Error{Code: "NOT_AUTHORIZED"}

	// Membership
	ErrInvalidContribution = &Error{Code: "INVALID_CONTRIBUTION"}
	ErrAlreadyMember       = &Error{Code: "ALREADY_MEMBER"}
	ErrMaxMembersExceeded  = &Error{Code: "MAX_MEMBERS_EXCEEDED"}
	ErrNotMember           = &Error{Code: "NOT_MEMBER"}

	// Claims & governance
	ErrAlreadyClaimed          = &Error{Code: "ALREADY_CLAIMED"}
	ErrInvalidClaimAmount      = &Error{Code: "INVALID_CLAIM_AMOUNT"}
	ErrInvalidEvidence         = &Error{Code: "INVALID_EVIDENCE"}
	ErrClaimNotFound           = &Error{Code: "CLAIM_NOT_FOUND"}
	ErrSelfVoteForbidden       = &Error{Code: "SELF_VOTE_FORBIDDEN"}
	ErrVotingClosed            = &Error{Code: "VOTING_CLOSED"}
	ErrAlreadySettled          = &Error{Code: "ALREADY_SETTLED"}
	ErrInsufficientPoolBalance = &Error{Code: "INSUFFICIENT_POOL_BALANCE"}
)
