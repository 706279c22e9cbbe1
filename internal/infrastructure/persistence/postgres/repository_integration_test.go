//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/valueobject"
	"github.com/bibbank/microlend/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/microlend/pkg/testutil"
)

const migrationsDir = "../../../../migrations"

func seed(t *testing.T, pc *testutil.PostgresContainer) {
	t.Helper()
	ctx := context.Background()

	_, err := pc.Pool.Exec(ctx, `
		INSERT INTO users (id, kyc_status, monthly_income, referral_count, credit_score, created_at, updated_at)
		VALUES ($1, 'verified', 60000, 2, 610, $2, $3),
		       ($4, 'pending', NULL, 0, 500, $3, $3)
	`, testutil.TestUserVerified, testutil.DaysBefore(400), testutil.FixedNow, testutil.TestUserPending)
	require.NoError(t, err)

	_, err = pc.Pool.Exec(ctx, `
		INSERT INTO loans (id, user_id, status, amount, total_amount, total_paid) VALUES
			('loan-1', $1, 'completed', 10000, 11000, 11000),
			('loan-2', $1, 'active',    20000, 22000,  2000),
			('loan-3', $1, 'rejected',   5000,     0,     0)
	`, testutil.TestUserVerified)
	require.NoError(t, err)

	_, err = pc.Pool.Exec(ctx, `
		INSERT INTO payments (id, user_id, loan_id, status, amount) VALUES
			('pay-1', $1, 'loan-1', 'completed', 5500),
			('pay-2', $1, 'loan-1', 'completed', 5500),
			('pay-3', $1, 'loan-2', 'failed',    2000)
	`, testutil.TestUserVerified)
	require.NoError(t, err)
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	pc.RunMigrations(t, migrationsDir)
	seed(t, pc)

	t.Run("find user", func(t *testing.T) {
		user, err := postgres.NewUserRepo(pc.Pool).FindByID(ctx, testutil.TestUserVerified)
		require.NoError(t, err)

		assert.True(t, user.KYCStatus.IsVerified())
		assert.True(t, user.HasIncome())
		assert.Equal(t, "60000", user.Income().String())
		assert.Equal(t, 610, user.CreditScore)
	})

	t.Run("null income", func(t *testing.T) {
		user, err := postgres.NewUserRepo(pc.Pool).FindByID(ctx, testutil.TestUserPending)
		require.NoError(t, err)
		assert.False(t, user.HasIncome())
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := postgres.NewUserRepo(pc.Pool).FindByID(ctx, testutil.TestUserMissing)
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("list loans by status", func(t *testing.T) {
		repo := postgres.NewLoanRepo(pc.Pool)

		all, err := repo.ListByUser(ctx, testutil.TestUserVerified)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		active, err := repo.ListByUser(ctx, testutil.TestUserVerified, valueobject.LoanStatusActive)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "20000", active[0].Outstanding().String())

		open, err := repo.CountOpen(ctx, testutil.TestUserVerified)
		require.NoError(t, err)
		assert.Equal(t, 1, open)
	})

	t.Run("completed payments only", func(t *testing.T) {
		payments, err := postgres.NewPaymentRepo(pc.Pool).ListByUser(ctx, testutil.TestUserVerified, valueobject.PaymentStatusCompleted)
		require.NoError(t, err)
		assert.Len(t, payments, 2)
	})

	t.Run("history snapshot", func(t *testing.T) {
		h, err := postgres.NewHistoryReader(pc.Pool).LoadHistory(ctx, testutil.TestUserVerified)
		require.NoError(t, err)

		assert.Equal(t, testutil.TestUserVerified, h.User.ID)
		assert.Len(t, h.Loans, 3)
		assert.Equal(t, 2, h.CompletedPayments())
		assert.True(t, h.HasOpenLoan())
	})

	t.Run("history for missing user", func(t *testing.T) {
		_, err := postgres.NewHistoryReader(pc.Pool).LoadHistory(ctx, testutil.TestUserMissing)
		assert.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("update score and list updated", func(t *testing.T) {
		repo := postgres.NewUserRepo(pc.Pool)
		at := testutil.FixedNow.Add(time.Hour)

		require.NoError(t, repo.UpdateCreditScore(ctx, testutil.TestUserPending, 640, at))

		user, err := repo.FindByID(ctx, testutil.TestUserPending)
		require.NoError(t, err)
		assert.Equal(t, 640, user.CreditScore)
		assert.True(t, at.Equal(user.ScoreRefreshedAt))
		assert.True(t, testutil.FixedNow.Equal(user.UpdatedAt))

		ids, err := repo.ListUpdatedSince(ctx, testutil.FixedNow)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{testutil.TestUserVerified, testutil.TestUserPending}, ids)

		ids, err = repo.ListUpdatedSince(ctx, testutil.FixedNow.Add(30*time.Minute))
		require.NoError(t, err)
		assert.Empty(t, ids)

		err = repo.UpdateCreditScore(ctx, testutil.TestUserMissing, 700, at)
		assert.ErrorIs(t, err, port.ErrNotFound)
	})
}
