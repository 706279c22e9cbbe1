package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// PaymentRecord is one repayment made against a loan.
type PaymentRecord struct {
	ID     string
	UserID string
	LoanID string
	Status valueobject.PaymentStatus
	Amount decimal.Decimal
	PaidAt time.Time
}
