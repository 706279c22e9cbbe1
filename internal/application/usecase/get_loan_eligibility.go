package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/service"
)

const opEligibility = "get_loan_eligibility"

// GetLoanEligibilityUseCase decides whether a borrower may take a new loan.
type GetLoanEligibilityUseCase struct {
	history    port.HistoryReader
	calculator *service.ScoreCalculator
	evaluator  *service.EligibilityEvaluator
	opts       options
}

// NewGetLoanEligibilityUseCase wires dependencies.
func NewGetLoanEligibilityUseCase(
	history port.HistoryReader,
	calculator *service.ScoreCalculator,
	evaluator *service.EligibilityEvaluator,
	opts ...Option,
) *GetLoanEligibilityUseCase {
	return &GetLoanEligibilityUseCase{
		history:    history,
		calculator: calculator,
		evaluator:  evaluator,
		opts:       newOptions(opts),
	}
}

// Execute evaluates eligibility. Score and gates are computed from the same
// snapshot. Lookup failures produce an ineligible "system error" result.
func (uc *GetLoanEligibilityUseCase) Execute(
	ctx context.Context,
	req dto.UserRequest,
) (dto.EligibilityResponse, error) {
	if err := requireUserID(req.UserID); err != nil {
		return dto.EligibilityResponse{}, err
	}
	return toEligibilityResponse(req.UserID, uc.evaluate(ctx, req.UserID)), nil
}

func (uc *GetLoanEligibilityUseCase) evaluate(ctx context.Context, userID string) model.EligibilityResult {
	ctx, span := startSpan(ctx, opEligibility, userID)

	h, err := uc.history.LoadHistory(ctx, userID)
	if err != nil {
		err = fmt.Errorf("load history: %w", err)
		uc.opts.logger.ErrorContext(ctx, "eligibility check failed",
			"user_id", userID,
			"error", err,
		)
		finish(ctx, span, opEligibility, outcomeError, err)
		return model.Ineligible(service.ReasonSystemError, "")
	}

	score := uc.calculator.Calculate(h, uc.opts.now()).Score
	result := uc.evaluator.Evaluate(score, h.User, h.HasOpenLoan())

	outcome := outcomeOK
	if !result.Eligible {
		outcome = outcomeRejected
	}
	finish(ctx, span, opEligibility, outcome, nil)

	return result
}

func toEligibilityResponse(userID string, r model.EligibilityResult) dto.EligibilityResponse {
	return dto.EligibilityResponse{
		UserID:            userID,
		Eligible:          r.Eligible,
		Reason:            r.Reason,
		SuggestedAction:   r.SuggestedAction,
		CreditScore:       r.CreditScore,
		MaxAmount:         r.MaxAmount,
		RecommendedAmount: r.RecommendedAmount,
		InterestRate:      r.InterestRate,
		MaxTermDays:       r.MaxTerm,
	}
}
