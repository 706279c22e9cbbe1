package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/valueobject"
	pgpkg "github.com/bibbank/microlend/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	db pgpkg.Querier
}

// NewLoanRepo creates a loan repository over a pool or a transaction.
func NewLoanRepo(db pgpkg.Querier) *LoanRepo {
	return &LoanRepo{db: db}
}

// ListByUser returns the user's loans, restricted to statuses when given.
func (r *LoanRepo) ListByUser(ctx context.Context, userID string, statuses ...valueobject.LoanStatus) ([]model.LoanRecord, error) {
	query := `
		SELECT id, user_id, status, amount, total_amount, total_paid
		FROM loans
		WHERE user_id = $1
	`
	args := []any{userID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, statusStrings(statuses))
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.LoanRecord
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// CountOpen counts loans in approved, disbursed or active status.
func (r *LoanRepo) CountOpen(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM loans WHERE user_id = $1 AND status = ANY($2)`,
		userID, statusStrings(valueobject.OpenLoanStatuses),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open loans: %w", err)
	}
	return n, nil
}

func scanLoanRow(rows pgx.Rows) (model.LoanRecord, error) {
	var (
		l         model.LoanRecord
		statusStr string
		total     decimal.Decimal
		paid      decimal.Decimal
	)

	if err := rows.Scan(&l.ID, &l.UserID, &statusStr, &l.Amount, &total, &paid); err != nil {
		return model.LoanRecord{}, fmt.Errorf("scan loan: %w", err)
	}

	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.LoanRecord{}, fmt.Errorf("loan %s: %w", l.ID, err)
	}
	l.Status = status
	l.TotalAmount = total
	l.TotalPaid = paid
	return l, nil
}

func statusStrings(statuses []valueobject.LoanStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
