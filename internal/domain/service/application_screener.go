package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/model"
)

// Accepted application bounds.
var (
	MinApplicationAmount = decimal.NewFromInt(500)
	MaxApplicationAmount = decimal.NewFromInt(500_000)
)

const (
	MinApplicationTermDays = 7
	MaxApplicationTermDays = 365

	ReasonExceedsLimit = "amount exceeds loan limit"
)

// ErrInvalidApplication is returned for amounts or terms outside the
// accepted bounds.
var ErrInvalidApplication = errors.New("invalid loan application")

// ApplicationScreener runs the checks made when a borrower submits an
// application. It uses the loan limit rule, never the eligibility limit.
type ApplicationScreener struct {
	limits *LoanLimitRule
}

// NewApplicationScreener returns a screener backed by limits.
func NewApplicationScreener(limits *LoanLimitRule) *ApplicationScreener {
	return &ApplicationScreener{limits: limits}
}

// ValidateApplication checks amount and term bounds.
func ValidateApplication(amount decimal.Decimal, termDays int) error {
	if amount.LessThan(MinApplicationAmount) || amount.GreaterThan(MaxApplicationAmount) {
		return fmt.Errorf("%w: amount %s outside [%s, %s]",
			ErrInvalidApplication, amount, MinApplicationAmount, MaxApplicationAmount)
	}
	if termDays < MinApplicationTermDays || termDays > MaxApplicationTermDays {
		return fmt.Errorf("%w: term %d days outside [%d, %d]",
			ErrInvalidApplication, termDays, MinApplicationTermDays, MaxApplicationTermDays)
	}
	return nil
}

// Screen rejects unverified users, users with an open loan and amounts above
// the user's loan limit. amount and termDays must already have passed
// ValidateApplication.
func (s *ApplicationScreener) Screen(user model.UserSnapshot, hasOpenLoan bool, amount decimal.Decimal, termDays int) model.ApplicationScreening {
	limit := s.limits.Limit(user)
	result := model.ApplicationScreening{
		Amount:    amount,
		TermDays:  termDays,
		LoanLimit: limit,
	}

	switch {
	case !user.KYCStatus.IsVerified():
		result.Reason = ReasonKYCNotVerified
	case hasOpenLoan:
		result.Reason = ReasonActiveLoan
	case amount.GreaterThan(decimal.NewFromInt(int64(limit))):
		result.Reason = ReasonExceedsLimit
	default:
		result.Accepted = true
	}
	return result
}
