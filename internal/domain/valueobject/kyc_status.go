package valueobject

import "fmt"

// KYCStatus is the Know-Your-Customer verification state of a user.
type KYCStatus struct {
	value string
}

const (
	kycStatusPending  = "pending"
	kycStatusVerified = "verified"
	kycStatusRejected = "rejected"
)

var (
	KYCStatusPending  = KYCStatus{value: kycStatusPending}
	KYCStatusVerified = KYCStatus{value: kycStatusVerified}
	KYCStatusRejected = KYCStatus{value: kycStatusRejected}
)

// NewKYCStatus creates a KYCStatus from a raw string.
func NewKYCStatus(s string) (KYCStatus, error) {
	switch s {
	case kycStatusPending:
		return KYCStatusPending, nil
	case kycStatusVerified:
		return KYCStatusVerified, nil
	case kycStatusRejected:
		return KYCStatusRejected, nil
	default:
		return KYCStatus{}, fmt.Errorf("%w: %q", ErrInvalidKYCStatus, s)
	}
}

func (s KYCStatus) String() string             { return s.value }
func (s KYCStatus) IsZero() bool               { return s.value == "" }
func (s KYCStatus) Equal(other KYCStatus) bool { return s.value == other.value }
func (s KYCStatus) IsVerified() bool           { return s.value == kycStatusVerified }
