package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/valueobject"
)

var (
	lowRiskMaxRatio  = decimal.NewFromFloat(0.5)
	highRiskMinRatio = decimal.NewFromFloat(0.8)
	hundred          = decimal.NewFromInt(100)
)

// RiskAssessor classifies a proposed amount against an eligibility result.
type RiskAssessor struct{}

// NewRiskAssessor returns a new assessor.
func NewRiskAssessor() *RiskAssessor {
	return &RiskAssessor{}
}

// Assess returns high risk for ineligible users. Otherwise, with
// ratio = amount / maxAmount:
//
//	low    score >= 700 and ratio <= 0.5
//	high   score <  550 or  ratio >  0.8
//	medium everything else
func (a *RiskAssessor) Assess(elig model.EligibilityResult, amount decimal.Decimal) model.RiskAssessment {
	if !elig.Eligible || !elig.MaxAmount.IsPositive() {
		return model.HighRisk()
	}

	score := elig.CreditScore
	ratio := amount.Div(elig.MaxAmount)

	level := valueobject.RiskLevelMedium
	switch {
	case score >= 700 && ratio.LessThanOrEqual(lowRiskMaxRatio):
		level = valueobject.RiskLevelLow
	case score < 550 || ratio.GreaterThan(highRiskMinRatio):
		level = valueobject.RiskLevelHigh
	}

	return model.RiskAssessment{
		RiskLevel: level,
		Score:     score,
		Factors: &model.RiskFactors{
			CreditScore:        score,
			AmountRatioPercent: ratio.Mul(hundred).Round(0).IntPart(),
			MaxAmount:          elig.MaxAmount,
		},
	}
}
