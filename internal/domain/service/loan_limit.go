package service

import (
	"github.com/bibbank/microlend/internal/domain/model"
)

// LoanLimitRule is the application-time ceiling. It reads the user's cached
// score and counters only and is intentionally independent of the
// eligibility evaluator's limit; call sites choose one or the other.
type LoanLimitRule struct{}

// NewLoanLimitRule returns a new rule.
func NewLoanLimitRule() *LoanLimitRule {
	return &LoanLimitRule{}
}

// Limit computes the ceiling: 5000 raised by the cached score
// (>600 10000, >700 25000, >750 50000, >800 100000), halved when the user
// already has an active loan, then increased by 20% for verified KYC.
// Each adjustment rounds down.
func (r *LoanLimitRule) Limit(u model.UserSnapshot) int {
	limit := 5_000
	switch {
	case u.CreditScore > 800:
		limit = 100_000
	case u.CreditScore > 750:
		limit = 50_000
	case u.CreditScore > 700:
		limit = 25_000
	case u.CreditScore > 600:
		limit = 10_000
	}

	if u.ActiveLoanCount > 0 {
		limit /= 2
	}
	if u.KYCStatus.IsVerified() {
		limit = limit * 6 / 5
	}
	return limit
}
