package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/application/usecase"
	"github.com/bibbank/microlend/internal/domain/service"
	"github.com/bibbank/microlend/internal/domain/valueobject"
)

func newAssessRisk(h *mockHistoryReader) *usecase.AssessRiskUseCase {
	logger, _ := bufferLogger()
	return usecase.NewAssessRiskUseCase(newEligibility(h, usecase.WithLogger(logger)), service.NewRiskAssessor())
}

func TestAssessRisk_Execute(t *testing.T) {
	t.Run("grades amount against eligibility limit", func(t *testing.T) {
		uc := newAssessRisk(historyReturning(verifiedHistory()))

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			UserID: "user-1",
			Amount: decimal.NewFromInt(10_000),
		})

		require.NoError(t, err)
		assert.Equal(t, valueobject.RiskLevelMedium.String(), resp.RiskLevel)
		assert.Equal(t, 695, resp.Score)
		require.NotNil(t, resp.Factors)
		assert.Equal(t, int64(40), resp.Factors.AmountRatioPercent)
		assert.Equal(t, "25000", resp.Factors.MaxAmount.String())
	})

	t.Run("large share of limit is high risk", func(t *testing.T) {
		uc := newAssessRisk(historyReturning(verifiedHistory()))

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			UserID: "user-1",
			Amount: decimal.NewFromInt(21_000),
		})

		require.NoError(t, err)
		assert.Equal(t, "high", resp.RiskLevel)
	})

	t.Run("ineligible borrower is high risk with zero score", func(t *testing.T) {
		h := verifiedHistory()
		h.User.KYCStatus = valueobject.KYCStatusRejected
		uc := newAssessRisk(historyReturning(h))

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			UserID: "user-1",
			Amount: decimal.NewFromInt(1_000),
		})

		require.NoError(t, err)
		assert.Equal(t, "high", resp.RiskLevel)
		assert.Equal(t, 0, resp.Score)
		assert.Nil(t, resp.Factors)
	})

	t.Run("lookup failure is high risk", func(t *testing.T) {
		uc := newAssessRisk(failingHistory(errors.New("boom")))

		resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
			UserID: "user-1",
			Amount: decimal.NewFromInt(1_000),
		})

		require.NoError(t, err)
		assert.Equal(t, "high", resp.RiskLevel)
		assert.Equal(t, 0, resp.Score)
	})

	t.Run("ineligible borrower is high risk for any amount", func(t *testing.T) {
		h := verifiedHistory()
		h.User.KYCStatus = valueobject.KYCStatusPending
		history := historyReturning(h)
		uc := newAssessRisk(history)

		for _, amount := range []int64{0, -5} {
			resp, err := uc.Execute(context.Background(), dto.AssessRiskRequest{
				UserID: "user-1",
				Amount: decimal.NewFromInt(amount),
			})

			require.NoError(t, err, amount)
			assert.Equal(t, "high", resp.RiskLevel, amount)
			assert.Equal(t, 0, resp.Score, amount)
		}
		assert.Equal(t, 2, history.calls)
	})
}
