package kafka_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/infrastructure/kafka"
	pkgkafka "github.com/bibbank/microlend/pkg/kafka"
)

type mockRefresher struct {
	err   error
	quick []string
	full  []string
}

func (m *mockRefresher) Quick(_ context.Context, userID string) (dto.RefreshScoreResponse, error) {
	m.quick = append(m.quick, userID)
	return dto.RefreshScoreResponse{UserID: userID, Mode: "quick"}, m.err
}

func (m *mockRefresher) Full(_ context.Context, userID string) (dto.RefreshScoreResponse, error) {
	m.full = append(m.full, userID)
	return dto.RefreshScoreResponse{UserID: userID, Mode: "full"}, m.err
}

func activity(userID, kind string) pkgkafka.Message {
	return pkgkafka.Message{Value: []byte(fmt.Sprintf(`{"user_id":%q,"kind":%q}`, userID, kind))}
}

func TestActivityHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("kyc submission triggers quick refresh", func(t *testing.T) {
		refresher := &mockRefresher{}
		h := kafka.NewActivityHandler(refresher, discardLogger())

		require.NoError(t, h.Handle(ctx, activity("user-1", kafka.ActivityKYCSubmitted)))

		assert.Equal(t, []string{"user-1"}, refresher.quick)
		assert.Empty(t, refresher.full)
	})

	t.Run("history changes trigger full refresh", func(t *testing.T) {
		refresher := &mockRefresher{}
		h := kafka.NewActivityHandler(refresher, discardLogger())

		for _, kind := range []string{
			kafka.ActivityLoanDisbursed, kafka.ActivityLoanCompleted, kafka.ActivityLoanDefaulted,
			kafka.ActivityPaymentCompleted, kafka.ActivityPaymentMissed,
		} {
			require.NoError(t, h.Handle(ctx, activity("user-1", kind)))
		}

		assert.Len(t, refresher.full, 5)
		assert.Empty(t, refresher.quick)
	})

	t.Run("unknown kind is acknowledged", func(t *testing.T) {
		refresher := &mockRefresher{}
		h := kafka.NewActivityHandler(refresher, discardLogger())

		require.NoError(t, h.Handle(ctx, activity("user-1", "profile_viewed")))
		assert.Empty(t, refresher.full)
		assert.Empty(t, refresher.quick)
	})

	t.Run("malformed payload is acknowledged", func(t *testing.T) {
		h := kafka.NewActivityHandler(&mockRefresher{}, discardLogger())

		assert.NoError(t, h.Handle(ctx, pkgkafka.Message{Value: []byte("{not json")}))
		assert.NoError(t, h.Handle(ctx, activity("", kafka.ActivityLoanCompleted)))
	})

	t.Run("unknown user is acknowledged", func(t *testing.T) {
		refresher := &mockRefresher{err: fmt.Errorf("load history: %w", port.ErrNotFound)}
		h := kafka.NewActivityHandler(refresher, discardLogger())

		assert.NoError(t, h.Handle(ctx, activity("ghost", kafka.ActivityLoanCompleted)))
	})

	t.Run("store failure is returned", func(t *testing.T) {
		refresher := &mockRefresher{err: errors.New("db down")}
		h := kafka.NewActivityHandler(refresher, discardLogger())

		err := h.Handle(ctx, activity("user-1", kafka.ActivityPaymentMissed))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "payment_missed")
	})
}
