package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/domain/event"
	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/service"
)

const opScreenApplication = "screen_loan_application"

// ScreenLoanApplicationUseCase runs the checks made when a borrower submits
// a loan application.
type ScreenLoanApplicationUseCase struct {
	users     port.UserRepository
	loans     port.LoanRepository
	publisher port.EventPublisher
	screener  *service.ApplicationScreener
	opts      options
}

// NewScreenLoanApplicationUseCase wires dependencies.
func NewScreenLoanApplicationUseCase(
	users port.UserRepository,
	loans port.LoanRepository,
	publisher port.EventPublisher,
	screener *service.ApplicationScreener,
	opts ...Option,
) *ScreenLoanApplicationUseCase {
	return &ScreenLoanApplicationUseCase{
		users:     users,
		loans:     loans,
		publisher: publisher,
		screener:  screener,
		opts:      newOptions(opts),
	}
}

// Execute screens the application and publishes the outcome. Out-of-bounds
// amounts and terms fail before any lookup. Unlike the evaluations, lookup
// failures are returned to the caller. A failed publish
// is logged only.
func (uc *ScreenLoanApplicationUseCase) Execute(
	ctx context.Context,
	req dto.ScreenApplicationRequest,
) (dto.ScreeningResponse, error) {
	if err := requireUserID(req.UserID); err != nil {
		return dto.ScreeningResponse{}, err
	}
	if err := service.ValidateApplication(req.Amount, req.TermDays); err != nil {
		return dto.ScreeningResponse{}, err
	}

	ctx, span := startSpan(ctx, opScreenApplication, req.UserID)

	result, err := uc.screen(ctx, req)
	if err != nil {
		finish(ctx, span, opScreenApplication, outcomeError, err)
		return dto.ScreeningResponse{}, err
	}

	evt := event.NewLoanApplicationScreened(
		req.UserID, result.Amount, result.TermDays,
		result.Accepted, result.Reason, result.LoanLimit, uc.opts.now(),
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.opts.logger.WarnContext(ctx, "publish screening event failed",
			"user_id", req.UserID,
			"event_type", evt.EventType(),
			"error", err,
		)
	}

	outcome := outcomeOK
	if !result.Accepted {
		outcome = outcomeRejected
	}
	finish(ctx, span, opScreenApplication, outcome, nil)

	return toScreeningResponse(req.UserID, result), nil
}

func (uc *ScreenLoanApplicationUseCase) screen(ctx context.Context, req dto.ScreenApplicationRequest) (model.ApplicationScreening, error) {
	user, err := uc.users.FindByID(ctx, req.UserID)
	if err != nil {
		return model.ApplicationScreening{}, fmt.Errorf("find user: %w", err)
	}

	open, err := uc.loans.CountOpen(ctx, req.UserID)
	if err != nil {
		return model.ApplicationScreening{}, fmt.Errorf("count open loans: %w", err)
	}

	return uc.screener.Screen(user, open > 0, req.Amount, req.TermDays), nil
}

func toScreeningResponse(userID string, s model.ApplicationScreening) dto.ScreeningResponse {
	return dto.ScreeningResponse{
		UserID:    userID,
		Accepted:  s.Accepted,
		Reason:    s.Reason,
		Amount:    s.Amount,
		TermDays:  s.TermDays,
		LoanLimit: s.LoanLimit,
	}
}
