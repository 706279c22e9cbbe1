package postgres

import (
	"context"
	"fmt"

	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/valueobject"
	pgpkg "github.com/bibbank/microlend/pkg/postgres"
)

// PaymentRepo implements port.PaymentRepository.
type PaymentRepo struct {
	db pgpkg.Querier
}

// NewPaymentRepo creates a payment repository over a pool or a transaction.
func NewPaymentRepo(db pgpkg.Querier) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// ListByUser returns the user's payments in the given status.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID string, status valueobject.PaymentStatus) ([]model.PaymentRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, loan_id, status, amount, paid_at
		FROM payments
		WHERE user_id = $1 AND status = $2
		ORDER BY paid_at
	`, userID, status.String())
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.PaymentRecord
	for rows.Next() {
		var (
			p         model.PaymentRecord
			statusStr string
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.LoanID, &statusStr, &p.Amount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if p.Status, err = valueobject.NewPaymentStatus(statusStr); err != nil {
			return nil, fmt.Errorf("payment %s: %w", p.ID, err)
		}
		p.PaidAt = p.PaidAt.UTC()
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
