package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// CreditHistory bundles everything one evaluation reads about a user. The
// three parts must come from a single consistent read.
type CreditHistory struct {
	User     UserSnapshot
	Loans    []LoanRecord
	Payments []PaymentRecord
}

// CountLoans returns how many loans carry the given status.
func (h CreditHistory) CountLoans(status valueobject.LoanStatus) int {
	n := 0
	for _, l := range h.Loans {
		if l.Status.Equal(status) {
			n++
		}
	}
	return n
}

// CompletedPayments counts payments in completed status. Other statuses may
// be present when the loader did not filter.
func (h CreditHistory) CompletedPayments() int {
	n := 0
	for _, p := range h.Payments {
		if p.Status.Equal(valueobject.PaymentStatusCompleted) {
			n++
		}
	}
	return n
}

// HasOpenLoan reports whether any loan is approved, disbursed or active.
func (h CreditHistory) HasOpenLoan() bool {
	for _, l := range h.Loans {
		if l.Status.IsOpen() {
			return true
		}
	}
	return false
}

// ActiveOutstanding sums the unpaid balance of loans in active status and
// reports how many such loans there are.
func (h CreditHistory) ActiveOutstanding() (decimal.Decimal, int) {
	total := decimal.Zero
	n := 0
	for _, l := range h.Loans {
		if l.Status.Equal(valueobject.LoanStatusActive) {
			total = total.Add(l.Outstanding())
			n++
		}
	}
	return total, n
}
