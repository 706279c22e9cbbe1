package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// LoanRecord is one entry of a borrower's loan history.
type LoanRecord struct {
	ID          string
	UserID      string
	Status      valueobject.LoanStatus
	Amount      decimal.Decimal
	TotalAmount decimal.Decimal // principal plus interest
	TotalPaid   decimal.Decimal
}

// Outstanding is the unpaid part of the total amount.
func (l LoanRecord) Outstanding() decimal.Decimal {
	return l.TotalAmount.Sub(l.TotalPaid)
}
