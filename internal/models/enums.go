package models

type RiskType string

const (
	RiskFlood   RiskType = "FLOOD"
	RiskDrought RiskType = "DROUGHT"
	RiskStorm   RiskType = "STORM"
)

type Currency string

const (
	CurrencyNative Currency = "NATIVE"
	CurrencyUSD    Currency = "USD"
	CurrencyBTC    Currency = "BTC"
)

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "PENDING"
	ClaimApproved ClaimStatus = "APPROVED"
	ClaimRejected ClaimStatus = "REJECTED"
)

// SettlementOutcome is the decision produced by processing a pending claim.
// A rejection is a successful settlement, not an error.
type SettlementOutcome string

const (
	SettlementApproved SettlementOutcome = "APPROVED"
	SettlementRejected SettlementOutcome = "REJECTED"
)

func IsValidRiskType(riskType RiskType) bool {
	switch riskType {
	case RiskFlood, RiskDrought, RiskStorm:
		return true
	default:
		return false
	}
}

func IsValidCurrency(currency Currency) bool {
	switch currency {
	case CurrencyNative, CurrencyUSD, CurrencyBTC:
		return true
	default:
		return false
	}
}
