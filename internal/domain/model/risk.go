package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// RiskAssessment classifies a proposed loan amount for a user.
type RiskAssessment struct {
	RiskLevel valueobject.RiskLevel
	Score     int
	Factors   *RiskFactors
}

// RiskFactors records the inputs of a risk decision.
type RiskFactors struct {
	CreditScore        int
	AmountRatioPercent int64
	MaxAmount          decimal.Decimal
}

// HighRisk is the fail-safe assessment used for ineligible users and errors.
func HighRisk() RiskAssessment {
	return RiskAssessment{RiskLevel: valueobject.RiskLevelHigh, Score: 0}
}
