package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan as recorded by the
// loan workflow.
type LoanStatus struct {
	value string
}

const (
	loanStatusPending   = "pending"
	loanStatusApproved  = "approved"
	loanStatusRejected  = "rejected"
	loanStatusDisbursed = "disbursed"
	loanStatusActive    = "active"
	loanStatusCompleted = "completed"
	loanStatusDefaulted = "defaulted"
)

var (
	LoanStatusPending   = LoanStatus{value: loanStatusPending}
	LoanStatusApproved  = LoanStatus{value: loanStatusApproved}
	LoanStatusRejected  = LoanStatus{value: loanStatusRejected}
	LoanStatusDisbursed = LoanStatus{value: loanStatusDisbursed}
	LoanStatusActive    = LoanStatus{value: loanStatusActive}
	LoanStatusCompleted = LoanStatus{value: loanStatusCompleted}
	LoanStatusDefaulted = LoanStatus{value: loanStatusDefaulted}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusPending:   LoanStatusPending,
	loanStatusApproved:  LoanStatusApproved,
	loanStatusRejected:  LoanStatusRejected,
	loanStatusDisbursed: LoanStatusDisbursed,
	loanStatusActive:    LoanStatusActive,
	loanStatusCompleted: LoanStatusCompleted,
	loanStatusDefaulted: LoanStatusDefaulted,
}

// OpenLoanStatuses are the statuses that block a new application: the loan
// has been granted and not yet settled.
var OpenLoanStatuses = []LoanStatus{LoanStatusApproved, LoanStatusDisbursed, LoanStatusActive}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// IsOpen reports whether the loan is approved, disbursed or active.
func (s LoanStatus) IsOpen() bool {
	switch s.value {
	case loanStatusApproved, loanStatusDisbursed, loanStatusActive:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// PaymentStatus – immutable value object
// ---------------------------------------------------------------------------

// PaymentStatus represents the settlement state of a repayment.
type PaymentStatus struct {
	value string
}

const (
	paymentStatusPending   = "pending"
	paymentStatusCompleted = "completed"
	paymentStatusFailed    = "failed"
	paymentStatusCancelled = "cancelled"
)

var (
	PaymentStatusPending   = PaymentStatus{value: paymentStatusPending}
	PaymentStatusCompleted = PaymentStatus{value: paymentStatusCompleted}
	PaymentStatusFailed    = PaymentStatus{value: paymentStatusFailed}
	PaymentStatusCancelled = PaymentStatus{value: paymentStatusCancelled}
)

var validPaymentStatuses = map[string]PaymentStatus{
	paymentStatusPending:   PaymentStatusPending,
	paymentStatusCompleted: PaymentStatusCompleted,
	paymentStatusFailed:    PaymentStatusFailed,
	paymentStatusCancelled: PaymentStatusCancelled,
}

// NewPaymentStatus creates a PaymentStatus from a raw string.
func NewPaymentStatus(s string) (PaymentStatus, error) {
	v, ok := validPaymentStatuses[s]
	if !ok {
		return PaymentStatus{}, fmt.Errorf("invalid payment status: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (s PaymentStatus) String() string { return s.value }

// IsZero returns true when not initialised.
func (s PaymentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses match.
func (s PaymentStatus) Equal(other PaymentStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidKYCStatus = errors.New("invalid KYC status")
	ErrInvalidRiskLevel = errors.New("invalid risk level")
)
