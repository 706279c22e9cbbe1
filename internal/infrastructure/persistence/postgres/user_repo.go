package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/valueobject"
	pgpkg "github.com/bibbank/microlend/pkg/postgres"
)

// UserRepo implements port.UserRepository.
type UserRepo struct {
	db pgpkg.Querier
}

// NewUserRepo creates a user repository over a pool or a transaction.
func NewUserRepo(db pgpkg.Querier) *UserRepo {
	return &UserRepo{db: db}
}

const selectUser = `
	SELECT id, kyc_status, monthly_income,
	       missed_payments, referral_count, active_loan_count,
	       total_loans, defaulted_loans, credit_score,
	       created_at, updated_at, score_refreshed_at
	FROM users
`

// FindByID retrieves a user snapshot.
func (r *UserRepo) FindByID(ctx context.Context, id string) (model.UserSnapshot, error) {
	row := r.db.QueryRow(ctx, selectUser+` WHERE id = $1`, id)
	user, err := scanUserRow(row)
	if err != nil {
		return model.UserSnapshot{}, notFound(err, "user", id)
	}
	return user, nil
}

// UpdateCreditScore stores the cached score. updated_at is left alone so the
// write does not feed back into ListUpdatedSince.
func (r *UserRepo) UpdateCreditScore(ctx context.Context, id string, score int, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET credit_score = $2, score_refreshed_at = $3 WHERE id = $1`,
		id, score, at,
	)
	if err != nil {
		return fmt.Errorf("update credit score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, port.ErrNotFound)
	}
	return nil
}

// ListUpdatedSince returns the IDs of users changed at or after since.
func (r *UserRepo) ListUpdatedSince(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM users WHERE updated_at >= $1 ORDER BY updated_at`, since)
	if err != nil {
		return nil, fmt.Errorf("query updated users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanUserRow(s scannable) (model.UserSnapshot, error) {
	var (
		u         model.UserSnapshot
		kycStr    string
		income    decimal.NullDecimal
		createdAt time.Time
		updatedAt time.Time
		refreshed *time.Time
	)

	err := s.Scan(
		&u.ID, &kycStr, &income,
		&u.MissedPayments, &u.ReferralCount, &u.ActiveLoanCount,
		&u.TotalLoans, &u.DefaultedLoans, &u.CreditScore,
		&createdAt, &updatedAt, &refreshed,
	)
	if err != nil {
		return model.UserSnapshot{}, err
	}

	kyc, err := valueobject.NewKYCStatus(kycStr)
	if err != nil {
		return model.UserSnapshot{}, fmt.Errorf("user %s: %w", u.ID, err)
	}

	u.KYCStatus = kyc
	u.MonthlyIncome = income
	u.CreatedAt = createdAt.UTC()
	u.UpdatedAt = updatedAt.UTC()
	if refreshed != nil {
		u.ScoreRefreshedAt = refreshed.UTC()
	}
	return u, nil
}
