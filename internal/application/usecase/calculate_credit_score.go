package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/service"
)

const opCalculateScore = "calculate_credit_score"

// CalculateCreditScoreUseCase computes a borrower's full credit score from a
// consistent history snapshot.
type CalculateCreditScoreUseCase struct {
	history    port.HistoryReader
	calculator *service.ScoreCalculator
	opts       options
}

// NewCalculateCreditScoreUseCase wires dependencies.
func NewCalculateCreditScoreUseCase(
	history port.HistoryReader,
	calculator *service.ScoreCalculator,
	opts ...Option,
) *CalculateCreditScoreUseCase {
	return &CalculateCreditScoreUseCase{
		history:    history,
		calculator: calculator,
		opts:       newOptions(opts),
	}
}

// Execute returns the score. A history that cannot be loaded, including an
// unknown user, yields the default score of 500 rather than an error.
func (uc *CalculateCreditScoreUseCase) Execute(
	ctx context.Context,
	req dto.UserRequest,
) (dto.CreditScoreResponse, error) {
	if err := requireUserID(req.UserID); err != nil {
		return dto.CreditScoreResponse{}, err
	}

	ctx, span := startSpan(ctx, opCalculateScore, req.UserID)

	h, err := uc.history.LoadHistory(ctx, req.UserID)
	if err != nil {
		err = fmt.Errorf("load history: %w", err)
		uc.opts.logger.WarnContext(ctx, "credit score fell back to default",
			"user_id", req.UserID,
			"error", err,
		)
		finish(ctx, span, opCalculateScore, outcomeFallback, err)
		return dto.CreditScoreResponse{UserID: req.UserID, CreditScore: service.DefaultCreditScore}, nil
	}

	result := uc.calculator.Calculate(h, uc.opts.now())
	finish(ctx, span, opCalculateScore, outcomeOK, nil)

	return toCreditScoreResponse(req.UserID, result), nil
}

func toCreditScoreResponse(userID string, r service.ScoreResult) dto.CreditScoreResponse {
	components := make([]dto.ScoreComponentResponse, 0, len(r.Components))
	for _, c := range r.Components {
		components = append(components, dto.ScoreComponentResponse{Name: c.Name, Points: c.Points})
	}
	return dto.CreditScoreResponse{
		UserID:      userID,
		CreditScore: r.Score,
		Components:  components,
	}
}
