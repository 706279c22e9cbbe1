package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/model"
)

var (
	quickIncomeStep1 = decimal.NewFromInt(20_000)
	quickIncomeStep2 = decimal.NewFromInt(50_000)
)

// QuickScore is the lightweight score used where only the user record is at
// hand (for example right after KYC submission). It is deliberately a
// different rule from ScoreCalculator: it reads the user's lifetime counters
// instead of loan and payment history, and its two income steps stack.
func QuickScore(u model.UserSnapshot) int {
	score := DefaultCreditScore

	if u.TotalLoans > 0 {
		score += u.TotalLoans * 10
	}
	if u.KYCStatus.IsVerified() {
		score += 50
	}
	income := u.Income()
	if income.GreaterThan(quickIncomeStep1) {
		score += 30
	}
	if income.GreaterThan(quickIncomeStep2) {
		score += 50
	}
	if u.DefaultedLoans > 0 {
		score -= u.DefaultedLoans * 100
	}

	return ClampScore(score)
}
