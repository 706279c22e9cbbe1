package model

import "github.com/shopspring/decimal"

// EligibilityResult is the outcome of a loan eligibility evaluation.
// Eligible results always carry a positive MaxAmount; ineligible ones carry
// zero.
type EligibilityResult struct {
	Eligible          bool
	Reason            string
	SuggestedAction   string
	CreditScore       int
	MaxAmount         decimal.Decimal
	RecommendedAmount decimal.Decimal
	InterestRate      int // percent per period
	MaxTerm           int // days
}

// Ineligible builds a rejection with a zero limit.
func Ineligible(reason, suggestedAction string) EligibilityResult {
	return EligibilityResult{
		Eligible:        false,
		Reason:          reason,
		SuggestedAction: suggestedAction,
		MaxAmount:       decimal.Zero,
	}
}
