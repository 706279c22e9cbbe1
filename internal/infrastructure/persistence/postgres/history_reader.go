package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/valueobject"
	pgpkg "github.com/bibbank/microlend/pkg/postgres"
)

// HistoryReader implements port.HistoryReader. The user row, loans and
// completed payments are read inside one repeatable-read snapshot.
type HistoryReader struct {
	pool *pgxpool.Pool
}

// NewHistoryReader creates a reader over pool.
func NewHistoryReader(pool *pgxpool.Pool) *HistoryReader {
	return &HistoryReader{pool: pool}
}

// LoadHistory reads everything a score evaluation needs about userID.
func (r *HistoryReader) LoadHistory(ctx context.Context, userID string) (model.CreditHistory, error) {
	var h model.CreditHistory

	err := pgpkg.WithSnapshot(ctx, r.pool, func(q pgpkg.Querier) error {
		user, err := NewUserRepo(q).FindByID(ctx, userID)
		if err != nil {
			return err
		}

		loans, err := NewLoanRepo(q).ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		payments, err := NewPaymentRepo(q).ListByUser(ctx, userID, valueobject.PaymentStatusCompleted)
		if err != nil {
			return err
		}

		h = model.CreditHistory{User: user, Loans: loans, Payments: payments}
		return nil
	})
	if err != nil {
		return model.CreditHistory{}, fmt.Errorf("load history for %s: %w", userID, err)
	}
	return h, nil
}
