package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// UserSnapshot is the read-only view of a borrower that the scoring engine
// works from. It is owned by the user service; nothing here mutates it.
type UserSnapshot struct {
	ID            string
	KYCStatus     valueobject.KYCStatus
	MonthlyIncome decimal.NullDecimal

	MissedPayments  int
	ReferralCount   int
	ActiveLoanCount int
	TotalLoans      int
	DefaultedLoans  int

	// CreditScore is the last persisted score. Only the loan limit rule
	// reads it; every other evaluation recomputes from history.
	CreditScore int

	CreatedAt time.Time
	// UpdatedAt moves when the user service changes the profile. Score
	// writes only move ScoreRefreshedAt, which is zero until the first one.
	UpdatedAt        time.Time
	ScoreRefreshedAt time.Time
}

// HasIncome reports whether a usable, strictly positive monthly income is on
// record. A zero income counts as absent.
func (u UserSnapshot) HasIncome() bool {
	return u.MonthlyIncome.Valid && u.MonthlyIncome.Decimal.IsPositive()
}

// Income returns the monthly income, or zero when none is on record.
func (u UserSnapshot) Income() decimal.Decimal {
	if !u.MonthlyIncome.Valid {
		return decimal.Zero
	}
	return u.MonthlyIncome.Decimal
}

// AccountAgeDays is the fractional number of days between account creation
// and now.
func (u UserSnapshot) AccountAgeDays(now time.Time) float64 {
	return now.Sub(u.CreatedAt).Hours() / 24
}
