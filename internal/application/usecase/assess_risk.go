package usecase

import (
	"context"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/service"
)

const opAssessRisk = "assess_risk"

// AssessRiskUseCase classifies a proposed loan amount for a borrower.
type AssessRiskUseCase struct {
	eligibility *GetLoanEligibilityUseCase
	assessor    *service.RiskAssessor
}

// NewAssessRiskUseCase wires dependencies.
func NewAssessRiskUseCase(
	eligibility *GetLoanEligibilityUseCase,
	assessor *service.RiskAssessor,
) *AssessRiskUseCase {
	return &AssessRiskUseCase{
		eligibility: eligibility,
		assessor:    assessor,
	}
}

// Execute runs an eligibility evaluation and grades the amount against it.
// Ineligible borrowers and lookup failures are high risk whatever the amount;
// amount validation belongs to the transports.
func (uc *AssessRiskUseCase) Execute(
	ctx context.Context,
	req dto.AssessRiskRequest,
) (dto.RiskResponse, error) {
	if err := requireUserID(req.UserID); err != nil {
		return dto.RiskResponse{}, err
	}

	ctx, span := startSpan(ctx, opAssessRisk, req.UserID)

	elig := uc.eligibility.evaluate(ctx, req.UserID)
	assessment := uc.assessor.Assess(elig, req.Amount)

	outcome := outcomeOK
	if elig.Reason == service.ReasonSystemError {
		outcome = outcomeError
	}
	finish(ctx, span, opAssessRisk, outcome, nil)

	return toRiskResponse(req.UserID, assessment), nil
}

func toRiskResponse(userID string, a model.RiskAssessment) dto.RiskResponse {
	resp := dto.RiskResponse{
		UserID:    userID,
		RiskLevel: a.RiskLevel.String(),
		Score:     a.Score,
	}
	if a.Factors != nil {
		resp.Factors = &dto.RiskFactorsResponse{
			CreditScore:        a.Factors.CreditScore,
			AmountRatioPercent: a.Factors.AmountRatioPercent,
			MaxAmount:          a.Factors.MaxAmount,
		}
	}
	return resp
}
