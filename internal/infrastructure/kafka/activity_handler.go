package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/domain/port"
	pkgkafka "github.com/bibbank/microlend/pkg/kafka"
)

// Lending activity kinds. KYC submission triggers a quick refresh; every
// other known kind changes history and triggers a full one.
const (
	ActivityKYCSubmitted     = "kyc_submitted"
	ActivityLoanDisbursed    = "loan_disbursed"
	ActivityLoanCompleted    = "loan_completed"
	ActivityLoanDefaulted    = "loan_defaulted"
	ActivityPaymentCompleted = "payment_completed"
	ActivityPaymentMissed    = "payment_missed"
)

// ScoreRefresher is implemented by usecase.RefreshCreditScoreUseCase.
type ScoreRefresher interface {
	Quick(ctx context.Context, userID string) (dto.RefreshScoreResponse, error)
	Full(ctx context.Context, userID string) (dto.RefreshScoreResponse, error)
}

// LendingActivity is the message published by the loan and payment services.
type LendingActivity struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
}

// ActivityHandler refreshes cached scores in reaction to lending activity.
type ActivityHandler struct {
	refresher ScoreRefresher
	logger    *slog.Logger
}

// NewActivityHandler creates a handler backed by refresher.
func NewActivityHandler(refresher ScoreRefresher, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{refresher: refresher, logger: logger}
}

// Handle matches pkg/kafka.Handler. Malformed messages, unknown kinds and
// unknown users are logged and acknowledged; store failures are returned and
// the consumer retries the message before fetching the next one.
func (h *ActivityHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var activity LendingActivity
	if err := json.Unmarshal(msg.Value, &activity); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed lending activity", "error", err)
		return nil
	}
	if strings.TrimSpace(activity.UserID) == "" {
		h.logger.WarnContext(ctx, "dropping lending activity without user", "kind", activity.Kind)
		return nil
	}

	var (
		resp dto.RefreshScoreResponse
		err  error
	)
	switch activity.Kind {
	case ActivityKYCSubmitted:
		resp, err = h.refresher.Quick(ctx, activity.UserID)
	case ActivityLoanDisbursed, ActivityLoanCompleted, ActivityLoanDefaulted,
		ActivityPaymentCompleted, ActivityPaymentMissed:
		resp, err = h.refresher.Full(ctx, activity.UserID)
	default:
		h.logger.DebugContext(ctx, "ignoring lending activity", "kind", activity.Kind, "user_id", activity.UserID)
		return nil
	}

	if errors.Is(err, port.ErrNotFound) {
		h.logger.WarnContext(ctx, "lending activity for unknown user", "user_id", activity.UserID, "kind", activity.Kind)
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh score for %s: %w", activity.Kind, err)
	}

	h.logger.InfoContext(ctx, "credit score refreshed",
		"user_id", resp.UserID,
		"mode", resp.Mode,
		"score", resp.CreditScore,
		"previous_score", resp.PreviousScore,
	)
	return nil
}
