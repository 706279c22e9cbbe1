package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/model"
)

// Rejection reasons and the follow-up suggested to the borrower.
const (
	ReasonScoreTooLow    = "credit score too low"
	ReasonKYCNotVerified = "KYC not verified"
	ReasonActiveLoan     = "active loan exists"
	ReasonIncomeTooLow   = "income too low"
	ReasonSystemError    = "system error"

	actionBuildHistory  = "complete KYC and build payment history"
	actionCompleteKYC   = "complete KYC verification"
	actionRepayCurrent  = "complete current loan repayment"
	actionUpdateIncome  = "update monthly income"
	minimumScoreToApply = 400
)

var (
	incomeCapRatio   = decimal.NewFromFloat(0.5)
	recommendedRatio = decimal.NewFromFloat(0.7)
)

// EligibilityEvaluator decides whether a user may take a new loan and on
// what terms.
type EligibilityEvaluator struct{}

// NewEligibilityEvaluator returns a new evaluator.
func NewEligibilityEvaluator() *EligibilityEvaluator {
	return &EligibilityEvaluator{}
}

// Evaluate applies the gates in order (score, KYC, open loan); the first
// failing gate decides. Eligible users get a limit from the score tier,
// capped at half their monthly income. Both amounts are rounded from the
// unrounded limit.
func (e *EligibilityEvaluator) Evaluate(score int, user model.UserSnapshot, hasOpenLoan bool) model.EligibilityResult {
	if score < minimumScoreToApply {
		return withScore(model.Ineligible(ReasonScoreTooLow, actionBuildHistory), score)
	}
	if !user.KYCStatus.IsVerified() {
		return withScore(model.Ineligible(ReasonKYCNotVerified, actionCompleteKYC), score)
	}
	if hasOpenLoan {
		return withScore(model.Ineligible(ReasonActiveLoan, actionRepayCurrent), score)
	}

	limit := scoreTierLimit(score)
	if user.HasIncome() {
		limit = decimal.Min(limit, user.Income().Mul(incomeCapRatio))
	}
	maxAmount := limit.Round(0)
	if !maxAmount.IsPositive() {
		return withScore(model.Ineligible(ReasonIncomeTooLow, actionUpdateIncome), score)
	}

	return model.EligibilityResult{
		Eligible:          true,
		CreditScore:       score,
		MaxAmount:         maxAmount,
		RecommendedAmount: limit.Mul(recommendedRatio).Round(0),
		InterestRate:      InterestRate(score),
		MaxTerm:           MaxTerm(score),
	}
}

func withScore(r model.EligibilityResult, score int) model.EligibilityResult {
	r.CreditScore = score
	return r
}
