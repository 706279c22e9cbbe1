package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/valueobject"
)

var now = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return now.Add(-time.Duration(n) * 24 * time.Hour)
}

func income(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func loans(status valueobject.LoanStatus, n int) []model.LoanRecord {
	out := make([]model.LoanRecord, n)
	for i := range out {
		out[i] = model.LoanRecord{Status: status, TotalAmount: decimal.Zero, TotalPaid: decimal.Zero}
	}
	return out
}

func completedPayments(n int) []model.PaymentRecord {
	out := make([]model.PaymentRecord, n)
	for i := range out {
		out[i] = model.PaymentRecord{Status: valueobject.PaymentStatusCompleted}
	}
	return out
}

func TestScoreCalculator_NewUser(t *testing.T) {
	calc := NewScoreCalculator()

	h := model.CreditHistory{User: model.UserSnapshot{
		KYCStatus: valueobject.KYCStatusPending,
		CreatedAt: daysAgo(10),
	}}

	res := calc.Calculate(h, now)
	assert.Equal(t, 500, res.Score)
	assert.Equal(t, 500, res.Raw)
}

func TestScoreCalculator_EstablishedBorrower(t *testing.T) {
	calc := NewScoreCalculator()

	h := model.CreditHistory{
		User: model.UserSnapshot{
			KYCStatus:     valueobject.KYCStatusVerified,
			MonthlyIncome: income(60_000),
			CreatedAt:     daysAgo(400),
			ReferralCount: 2,
		},
		Loans:    loans(valueobject.LoanStatusCompleted, 3),
		Payments: completedPayments(12),
	}

	// 500 + 50 + 40 + 45 + 24 + 30 + 10
	res := calc.Calculate(h, now)
	assert.Equal(t, 699, res.Score)
}

func TestScoreCalculator_DefaultsAndMissedPayments(t *testing.T) {
	calc := NewScoreCalculator()

	h := model.CreditHistory{
		User: model.UserSnapshot{
			KYCStatus:      valueobject.KYCStatusVerified,
			MissedPayments: 3,
			CreatedAt:      daysAgo(30),
		},
		Loans: loans(valueobject.LoanStatusDefaulted, 1),
	}

	// 500 + 50 - 100 - 30
	assert.Equal(t, 420, calc.Calculate(h, now).Score)
}

func TestScoreCalculator_DebtToIncome(t *testing.T) {
	tests := []struct {
		name        string
		outstanding int64
		want        int
	}{
		{"below 0.3", 5_000, 30},
		{"at 0.3", 6_000, 15},
		{"below 0.5", 8_000, 15},
		{"below 0.7", 12_000, 5},
		{"at 0.7", 14_000, -20},
		{"above 0.7", 30_000, -20},
	}

	calc := NewScoreCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := model.CreditHistory{
				User: model.UserSnapshot{
					KYCStatus:     valueobject.KYCStatusPending,
					MonthlyIncome: income(20_000),
					CreatedAt:     daysAgo(1),
				},
				Loans: []model.LoanRecord{{
					Status:      valueobject.LoanStatusActive,
					TotalAmount: decimal.NewFromInt(tt.outstanding + 1_000),
					TotalPaid:   decimal.NewFromInt(1_000),
				}},
			}

			// base 500 + income tier 20 + dti
			assert.Equal(t, 520+tt.want, calc.Calculate(h, now).Score)
		})
	}
}

func TestScoreCalculator_DebtToIncomeNeedsIncomeAndActiveLoan(t *testing.T) {
	calc := NewScoreCalculator()
	activeLoan := model.LoanRecord{
		Status:      valueobject.LoanStatusActive,
		TotalAmount: decimal.NewFromInt(100_000),
		TotalPaid:   decimal.Zero,
	}

	t.Run("no income", func(t *testing.T) {
		h := model.CreditHistory{
			User:  model.UserSnapshot{CreatedAt: now},
			Loans: []model.LoanRecord{activeLoan},
		}
		assert.Equal(t, 500, calc.Calculate(h, now).Score)
	})

	t.Run("zero income counts as absent", func(t *testing.T) {
		h := model.CreditHistory{
			User:  model.UserSnapshot{MonthlyIncome: income(0), CreatedAt: now},
			Loans: []model.LoanRecord{activeLoan},
		}
		assert.Equal(t, 500, calc.Calculate(h, now).Score)
	})

	t.Run("only disbursed loans", func(t *testing.T) {
		disbursed := activeLoan
		disbursed.Status = valueobject.LoanStatusDisbursed
		h := model.CreditHistory{
			User:  model.UserSnapshot{MonthlyIncome: income(5_000), CreatedAt: now},
			Loans: []model.LoanRecord{disbursed},
		}
		assert.Equal(t, 500, calc.Calculate(h, now).Score)
	})
}

func TestScoreCalculator_IncomeTiers(t *testing.T) {
	tests := []struct {
		income int64
		want   int
	}{
		{9_999, 500},
		{10_000, 510},
		{20_000, 520},
		{50_000, 540},
		{99_999, 540},
		{100_000, 560},
		{1_000_000, 560},
	}

	calc := NewScoreCalculator()
	for _, tt := range tests {
		h := model.CreditHistory{User: model.UserSnapshot{MonthlyIncome: income(tt.income), CreatedAt: now}}
		assert.Equal(t, tt.want, calc.Calculate(h, now).Score, "income %d", tt.income)
	}
}

func TestScoreCalculator_AccountAge(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{90, 500},
		{91, 510},
		{180, 510},
		{181, 520},
		{365, 520},
		{366, 530},
	}

	calc := NewScoreCalculator()
	for _, tt := range tests {
		h := model.CreditHistory{User: model.UserSnapshot{CreatedAt: daysAgo(tt.days)}}
		assert.Equal(t, tt.want, calc.Calculate(h, now).Score, "%d days", tt.days)
	}
}

func TestScoreCalculator_Caps(t *testing.T) {
	calc := NewScoreCalculator()

	h := model.CreditHistory{
		User: model.UserSnapshot{
			ReferralCount: 100,
			CreatedAt:     now,
		},
		Payments: completedPayments(100),
	}

	// payments capped at 40, referrals at 25
	assert.Equal(t, 565, calc.Calculate(h, now).Score)
}

func TestScoreCalculator_IgnoresNonCompletedPayments(t *testing.T) {
	calc := NewScoreCalculator()

	h := model.CreditHistory{
		User: model.UserSnapshot{CreatedAt: now},
		Payments: []model.PaymentRecord{
			{Status: valueobject.PaymentStatusCompleted},
			{Status: valueobject.PaymentStatusFailed},
			{Status: valueobject.PaymentStatusPending},
		},
	}

	assert.Equal(t, 502, calc.Calculate(h, now).Score)
}

func TestScoreCalculator_Clamp(t *testing.T) {
	calc := NewScoreCalculator()

	t.Run("floor", func(t *testing.T) {
		h := model.CreditHistory{
			User:  model.UserSnapshot{CreatedAt: now},
			Loans: loans(valueobject.LoanStatusDefaulted, 50),
		}
		res := calc.Calculate(h, now)
		assert.Equal(t, MinCreditScore, res.Score)
		assert.Equal(t, 500-5000, res.Raw)
	})

	t.Run("ceiling", func(t *testing.T) {
		h := model.CreditHistory{
			User: model.UserSnapshot{
				KYCStatus:     valueobject.KYCStatusVerified,
				MonthlyIncome: income(200_000),
				ReferralCount: 10,
				CreatedAt:     daysAgo(1000),
			},
			Loans:    loans(valueobject.LoanStatusCompleted, 30),
			Payments: completedPayments(50),
		}
		assert.Equal(t, MaxCreditScore, calc.Calculate(h, now).Score)
	})
}

func TestScoreCalculator_IncomeMonotonic(t *testing.T) {
	calc := NewScoreCalculator()

	prev := 0
	for _, v := range []int64{0, 5_000, 10_000, 15_000, 20_000, 49_000, 50_000, 75_000, 100_000, 250_000} {
		h := model.CreditHistory{User: model.UserSnapshot{
			KYCStatus:     valueobject.KYCStatusVerified,
			MonthlyIncome: income(v),
			CreatedAt:     daysAgo(200),
		}}
		score := calc.Calculate(h, now).Score
		assert.GreaterOrEqual(t, score, prev, "income %d", v)
		prev = score
	}
}

func TestScoreCalculator_Idempotent(t *testing.T) {
	calc := NewScoreCalculator()
	h := model.CreditHistory{
		User: model.UserSnapshot{
			KYCStatus:     valueobject.KYCStatusVerified,
			MonthlyIncome: income(30_000),
			CreatedAt:     daysAgo(200),
		},
		Loans:    loans(valueobject.LoanStatusCompleted, 2),
		Payments: completedPayments(5),
	}

	first := calc.Calculate(h, now)
	second := calc.Calculate(h, now)
	assert.Equal(t, first, second)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 300, ClampScore(-100))
	assert.Equal(t, 300, ClampScore(300))
	assert.Equal(t, 640, ClampScore(640))
	assert.Equal(t, 850, ClampScore(850))
	assert.Equal(t, 850, ClampScore(1200))
}

func TestQuickScore(t *testing.T) {
	tests := []struct {
		name string
		user model.UserSnapshot
		want int
	}{
		{
			name: "fresh user",
			user: model.UserSnapshot{KYCStatus: valueobject.KYCStatusPending},
			want: 500,
		},
		{
			name: "verified with mid income",
			user: model.UserSnapshot{KYCStatus: valueobject.KYCStatusVerified, MonthlyIncome: income(30_000)},
			want: 580,
		},
		{
			name: "income steps stack",
			user: model.UserSnapshot{KYCStatus: valueobject.KYCStatusVerified, MonthlyIncome: income(60_000), TotalLoans: 4},
			want: 670,
		},
		{
			name: "income exactly at step is not above it",
			user: model.UserSnapshot{MonthlyIncome: income(20_000)},
			want: 500,
		},
		{
			name: "defaults pull down and clamp",
			user: model.UserSnapshot{TotalLoans: 5, DefaultedLoans: 5},
			want: 300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuickScore(tt.user))
		})
	}
}
