package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/application/usecase"
	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/service"
	"github.com/bibbank/microlend/internal/domain/valueobject"
)

func newEligibility(h *mockHistoryReader, opts ...usecase.Option) *usecase.GetLoanEligibilityUseCase {
	opts = append([]usecase.Option{usecase.WithClock(clock)}, opts...)
	return usecase.NewGetLoanEligibilityUseCase(
		h,
		service.NewScoreCalculator(),
		service.NewEligibilityEvaluator(),
		opts...,
	)
}

func TestGetLoanEligibility_Execute(t *testing.T) {
	t.Run("eligible borrower gets tiered terms", func(t *testing.T) {
		history := historyReturning(verifiedHistory())
		uc := newEligibility(history)

		resp, err := uc.Execute(context.Background(), dto.UserRequest{UserID: "user-1"})

		require.NoError(t, err)
		assert.True(t, resp.Eligible)
		assert.Equal(t, 695, resp.CreditScore)
		assert.Equal(t, "25000", resp.MaxAmount.String())
		assert.Equal(t, "17500", resp.RecommendedAmount.String())
		assert.Equal(t, 12, resp.InterestRate)
		assert.Equal(t, 45, resp.MaxTermDays)
		assert.Equal(t, 1, history.calls, "score and gates must share one snapshot")
	})

	t.Run("open loan blocks regardless of score", func(t *testing.T) {
		h := verifiedHistory()
		h.Loans = append(h.Loans, model.LoanRecord{ID: "l4", Status: valueobject.LoanStatusDisbursed})
		uc := newEligibility(historyReturning(h))

		resp, err := uc.Execute(context.Background(), dto.UserRequest{UserID: "user-1"})

		require.NoError(t, err)
		assert.False(t, resp.Eligible)
		assert.Equal(t, service.ReasonActiveLoan, resp.Reason)
		assert.True(t, resp.MaxAmount.IsZero())
	})

	t.Run("unverified KYC", func(t *testing.T) {
		h := verifiedHistory()
		h.User.KYCStatus = valueobject.KYCStatusPending
		uc := newEligibility(historyReturning(h))

		resp, err := uc.Execute(context.Background(), dto.UserRequest{UserID: "user-1"})

		require.NoError(t, err)
		assert.False(t, resp.Eligible)
		assert.Equal(t, service.ReasonKYCNotVerified, resp.Reason)
		assert.Equal(t, "complete KYC verification", resp.SuggestedAction)
	})

	t.Run("missing user is a system error", func(t *testing.T) {
		logger, buf := bufferLogger()
		uc := newEligibility(&mockHistoryReader{}, usecase.WithLogger(logger))

		resp, err := uc.Execute(context.Background(), dto.UserRequest{UserID: "ghost"})

		require.NoError(t, err)
		assert.False(t, resp.Eligible)
		assert.Equal(t, service.ReasonSystemError, resp.Reason)
		assert.True(t, resp.MaxAmount.IsZero())
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
	})

	t.Run("store failure is a system error", func(t *testing.T) {
		logger, _ := bufferLogger()
		uc := newEligibility(failingHistory(errors.New("timeout")), usecase.WithLogger(logger))

		resp, err := uc.Execute(context.Background(), dto.UserRequest{UserID: "user-1"})

		require.NoError(t, err)
		assert.Equal(t, service.ReasonSystemError, resp.Reason)
	})

	t.Run("rejects empty user id", func(t *testing.T) {
		uc := newEligibility(&mockHistoryReader{})

		_, err := uc.Execute(context.Background(), dto.UserRequest{})

		assert.ErrorIs(t, err, usecase.ErrInvalidRequest)
	})
}
