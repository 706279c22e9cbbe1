package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/domain/event"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/service"
)

const opRefreshScore = "refresh_credit_score"

// RefreshCreditScoreUseCase recomputes and stores a user's cached credit
// score. Quick uses the lightweight rule on the user record alone; Full
// recomputes from the complete history. Callers pick one explicitly.
type RefreshCreditScoreUseCase struct {
	users      port.UserRepository
	history    port.HistoryReader
	publisher  port.EventPublisher
	calculator *service.ScoreCalculator
	opts       options
}

// NewRefreshCreditScoreUseCase wires dependencies.
func NewRefreshCreditScoreUseCase(
	users port.UserRepository,
	history port.HistoryReader,
	publisher port.EventPublisher,
	calculator *service.ScoreCalculator,
	opts ...Option,
) *RefreshCreditScoreUseCase {
	return &RefreshCreditScoreUseCase{
		users:      users,
		history:    history,
		publisher:  publisher,
		calculator: calculator,
		opts:       newOptions(opts),
	}
}

// Execute dispatches on req.Mode, which must be "quick" or "full".
func (uc *RefreshCreditScoreUseCase) Execute(
	ctx context.Context,
	req dto.RefreshScoreRequest,
) (dto.RefreshScoreResponse, error) {
	switch req.Mode {
	case event.RefreshModeQuick:
		return uc.Quick(ctx, req.UserID)
	case event.RefreshModeFull:
		return uc.Full(ctx, req.UserID)
	default:
		return dto.RefreshScoreResponse{}, fmt.Errorf("%w: unknown refresh mode %q", ErrInvalidRequest, req.Mode)
	}
}

// Quick stores the quick score. Run it after KYC submission.
func (uc *RefreshCreditScoreUseCase) Quick(ctx context.Context, userID string) (dto.RefreshScoreResponse, error) {
	if err := requireUserID(userID); err != nil {
		return dto.RefreshScoreResponse{}, err
	}

	ctx, span := startSpan(ctx, opRefreshScore, userID)

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		err = fmt.Errorf("find user: %w", err)
		finish(ctx, span, opRefreshScore, outcomeError, err)
		return dto.RefreshScoreResponse{}, err
	}

	resp, err := uc.store(ctx, userID, event.RefreshModeQuick, service.QuickScore(user), user.CreditScore)
	finish(ctx, span, opRefreshScore, outcomeFor(err), err)
	return resp, err
}

// Full stores the score computed from the complete history.
func (uc *RefreshCreditScoreUseCase) Full(ctx context.Context, userID string) (dto.RefreshScoreResponse, error) {
	if err := requireUserID(userID); err != nil {
		return dto.RefreshScoreResponse{}, err
	}

	ctx, span := startSpan(ctx, opRefreshScore, userID)

	h, err := uc.history.LoadHistory(ctx, userID)
	if err != nil {
		err = fmt.Errorf("load history: %w", err)
		finish(ctx, span, opRefreshScore, outcomeError, err)
		return dto.RefreshScoreResponse{}, err
	}

	score := uc.calculator.Calculate(h, uc.opts.now()).Score
	resp, err := uc.store(ctx, userID, event.RefreshModeFull, score, h.User.CreditScore)
	finish(ctx, span, opRefreshScore, outcomeFor(err), err)
	return resp, err
}

// RefreshUpdatedSince runs Full for every user changed since the given time
// and returns how many were refreshed. Failures for single users do not stop
// the run; they are joined into the returned error.
func (uc *RefreshCreditScoreUseCase) RefreshUpdatedSince(ctx context.Context, since time.Time) (int, error) {
	ids, err := uc.users.ListUpdatedSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("list updated users: %w", err)
	}

	var (
		refreshed int
		errs      []error
	)
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if _, err := uc.Full(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", id, err))
			continue
		}
		refreshed++
	}
	return refreshed, errors.Join(errs...)
}

func (uc *RefreshCreditScoreUseCase) store(ctx context.Context, userID, mode string, score, previous int) (dto.RefreshScoreResponse, error) {
	now := uc.opts.now()

	if err := uc.users.UpdateCreditScore(ctx, userID, score, now); err != nil {
		return dto.RefreshScoreResponse{}, fmt.Errorf("update credit score: %w", err)
	}

	evt := event.NewCreditScoreRefreshed(userID, mode, score, previous, now)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.opts.logger.WarnContext(ctx, "publish score event failed",
			"user_id", userID,
			"event_type", evt.EventType(),
			"error", err,
		)
	}

	return dto.RefreshScoreResponse{
		UserID:        userID,
		Mode:          mode,
		CreditScore:   score,
		PreviousScore: previous,
	}, nil
}

func outcomeFor(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}
