package service

import "github.com/shopspring/decimal"

// InterestRate returns the percentage charged per period for a score.
//
//	score >= 750 -> 8
//	score >= 700 -> 10
//	score >= 650 -> 12
//	score >= 600 -> 15
//	otherwise    -> 18
func InterestRate(score int) int {
	switch {
	case score >= 750:
		return 8
	case score >= 700:
		return 10
	case score >= 650:
		return 12
	case score >= 600:
		return 15
	default:
		return 18
	}
}

// MaxTerm returns the longest repayment term, in days, offered for a score.
func MaxTerm(score int) int {
	switch {
	case score >= 750:
		return 90
	case score >= 700:
		return 60
	case score >= 650:
		return 45
	case score >= 600:
		return 30
	default:
		return 14
	}
}

// scoreTierLimit is the eligibility evaluator's credit limit before the
// income cap.
func scoreTierLimit(score int) decimal.Decimal {
	var limit int64
	switch {
	case score >= 750:
		limit = 100_000
	case score >= 700:
		limit = 50_000
	case score >= 650:
		limit = 25_000
	case score >= 600:
		limit = 15_000
	case score >= 550:
		limit = 10_000
	case score >= 500:
		limit = 7_500
	default:
		limit = 5_000
	}
	return decimal.NewFromInt(limit)
}
