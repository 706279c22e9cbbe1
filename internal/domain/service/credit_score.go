package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// Score bounds shared by every scoring rule.
const (
	MinCreditScore = 300
	MaxCreditScore = 850
	// DefaultCreditScore is both the starting point of the additive formula
	// and the value reported when a score cannot be computed.
	DefaultCreditScore = 500
)

// ScoreComponent is one named contribution to a credit score.
type ScoreComponent struct {
	Name   string
	Points int
}

// ScoreResult holds a clamped score and the contributions that produced it.
type ScoreResult struct {
	Score      int
	Raw        int // sum before clamping
	Components []ScoreComponent
}

var (
	incomeTier100k = decimal.NewFromInt(100_000)
	incomeTier50k  = decimal.NewFromInt(50_000)
	incomeTier20k  = decimal.NewFromInt(20_000)
	incomeTier10k  = decimal.NewFromInt(10_000)

	dtiExcellent = decimal.NewFromFloat(0.3)
	dtiGood      = decimal.NewFromFloat(0.5)
	dtiFair      = decimal.NewFromFloat(0.7)
)

// ScoreCalculator computes the full credit score from a user's history.
// It is stateless and safe for concurrent use.
//
// The formula is additive from a base of 500:
//
//	KYC verified                         +50
//	income tier                          +60 / +40 / +20 / +10
//	each completed loan                  +15
//	completed payments                   +2 each, at most +40
//	each defaulted loan                  -100
//	each missed payment                  -10
//	account age > 365 / 180 / 90 days    +30 / +20 / +10
//	referrals                            +5 each, at most +25
//	debt-to-income on active loans       +30 / +15 / +5 / -20
type ScoreCalculator struct{}

// NewScoreCalculator returns a new calculator.
func NewScoreCalculator() *ScoreCalculator {
	return &ScoreCalculator{}
}

// Calculate scores h as of now. The result is always within
// [MinCreditScore, MaxCreditScore].
func (c *ScoreCalculator) Calculate(h model.CreditHistory, now time.Time) ScoreResult {
	components := []ScoreComponent{
		{Name: "base", Points: DefaultCreditScore},
		{Name: "kyc", Points: kycPoints(h.User)},
		{Name: "income", Points: incomePoints(h.User)},
		{Name: "completed_loans", Points: 15 * h.CountLoans(valueobject.LoanStatusCompleted)},
		{Name: "payment_history", Points: min(2*h.CompletedPayments(), 40)},
		{Name: "defaults", Points: -100 * h.CountLoans(valueobject.LoanStatusDefaulted)},
		{Name: "missed_payments", Points: -10 * h.User.MissedPayments},
		{Name: "account_age", Points: accountAgePoints(h.User.AccountAgeDays(now))},
		{Name: "referrals", Points: min(5*h.User.ReferralCount, 25)},
		{Name: "debt_to_income", Points: debtToIncomePoints(h)},
	}

	raw := 0
	for _, comp := range components {
		raw += comp.Points
	}

	return ScoreResult{
		Score:      ClampScore(raw),
		Raw:        raw,
		Components: components,
	}
}

// ClampScore bounds a raw score to [MinCreditScore, MaxCreditScore].
func ClampScore(raw int) int {
	return max(MinCreditScore, min(raw, MaxCreditScore))
}

func kycPoints(u model.UserSnapshot) int {
	if u.KYCStatus.IsVerified() {
		return 50
	}
	return 0
}

func incomePoints(u model.UserSnapshot) int {
	if !u.HasIncome() {
		return 0
	}
	income := u.Income()
	switch {
	case income.GreaterThanOrEqual(incomeTier100k):
		return 60
	case income.GreaterThanOrEqual(incomeTier50k):
		return 40
	case income.GreaterThanOrEqual(incomeTier20k):
		return 20
	case income.GreaterThanOrEqual(incomeTier10k):
		return 10
	default:
		return 0
	}
}

func accountAgePoints(days float64) int {
	switch {
	case days > 365:
		return 30
	case days > 180:
		return 20
	case days > 90:
		return 10
	default:
		return 0
	}
}

// debtToIncomePoints only applies with an income on record and at least one
// loan in active status.
func debtToIncomePoints(h model.CreditHistory) int {
	if !h.User.HasIncome() {
		return 0
	}
	outstanding, active := h.ActiveOutstanding()
	if active == 0 {
		return 0
	}

	ratio := outstanding.Div(h.User.Income())
	switch {
	case ratio.LessThan(dtiExcellent):
		return 30
	case ratio.LessThan(dtiGood):
		return 15
	case ratio.LessThan(dtiFair):
		return 5
	default:
		return -20
	}
}
