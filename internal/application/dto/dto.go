package dto

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// UserRequest identifies the borrower an evaluation is about.
type UserRequest struct {
	UserID string `json:"user_id"`
}

// AssessRiskRequest carries a proposed loan amount for a borrower.
type AssessRiskRequest struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// ScreenApplicationRequest carries a loan application to be screened.
type ScreenApplicationRequest struct {
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	TermDays int             `json:"term_days"`
}

// RefreshScoreRequest selects which rule recomputes the cached score.
type RefreshScoreRequest struct {
	UserID string `json:"user_id"`
	Mode   string `json:"mode"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScoreComponentResponse is one named contribution to a credit score.
type ScoreComponentResponse struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// CreditScoreResponse carries a computed credit score. Components is empty
// when the score is the fallback value.
type CreditScoreResponse struct {
	UserID      string                   `json:"user_id"`
	CreditScore int                      `json:"credit_score"`
	Components  []ScoreComponentResponse `json:"components,omitempty"`
}

// EligibilityResponse is the external representation of an eligibility
// decision.
type EligibilityResponse struct {
	UserID            string          `json:"user_id"`
	Eligible          bool            `json:"eligible"`
	Reason            string          `json:"reason,omitempty"`
	SuggestedAction   string          `json:"suggested_action,omitempty"`
	CreditScore       int             `json:"credit_score,omitempty"`
	MaxAmount         decimal.Decimal `json:"max_amount"`
	RecommendedAmount decimal.Decimal `json:"recommended_amount"`
	InterestRate      int             `json:"interest_rate,omitempty"`
	MaxTermDays       int             `json:"max_term_days,omitempty"`
}

// RiskFactorsResponse lists the inputs of a risk decision.
type RiskFactorsResponse struct {
	CreditScore        int             `json:"credit_score"`
	AmountRatioPercent int64           `json:"amount_ratio_percent"`
	MaxAmount          decimal.Decimal `json:"max_amount"`
}

// RiskResponse is the external representation of a risk assessment.
type RiskResponse struct {
	UserID    string               `json:"user_id"`
	RiskLevel string               `json:"risk_level"`
	Score     int                  `json:"score"`
	Factors   *RiskFactorsResponse `json:"factors,omitempty"`
}

// LoanLimitResponse carries the application-time loan ceiling.
type LoanLimitResponse struct {
	UserID      string `json:"user_id"`
	LoanLimit   int    `json:"loan_limit"`
	CreditScore int    `json:"credit_score"`
	KYCStatus   string `json:"kyc_status,omitempty"`
}

// ScreeningResponse is the outcome of screening a loan application.
type ScreeningResponse struct {
	UserID    string          `json:"user_id"`
	Accepted  bool            `json:"accepted"`
	Reason    string          `json:"reason,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	TermDays  int             `json:"term_days"`
	LoanLimit int             `json:"loan_limit"`
}

// RefreshScoreResponse reports a recomputed cached score.
type RefreshScoreResponse struct {
	UserID        string `json:"user_id"`
	Mode          string `json:"mode"`
	CreditScore   int    `json:"credit_score"`
	PreviousScore int    `json:"previous_score"`
}

// RateCardResponse lists the pricing terms offered at a score.
type RateCardResponse struct {
	CreditScore  int `json:"credit_score"`
	InterestRate int `json:"interest_rate"`
	MaxTermDays  int `json:"max_term_days"`
}
