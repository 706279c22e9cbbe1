package model

import "github.com/shopspring/decimal"

// ApplicationScreening is the application-time ceiling check outcome.
type ApplicationScreening struct {
	Accepted  bool
	Reason    string
	Amount    decimal.Decimal
	TermDays  int
	LoanLimit int
}
