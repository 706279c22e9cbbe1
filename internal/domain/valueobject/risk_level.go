package valueobject

import (
	"encoding/json"
	"fmt"
)

// RiskLevel is the coarse default-risk classification of a proposed loan.
type RiskLevel struct {
	value string
}

const (
	riskLevelLow    = "low"
	riskLevelMedium = "medium"
	riskLevelHigh   = "high"
)

var (
	RiskLevelLow    = RiskLevel{value: riskLevelLow}
	RiskLevelMedium = RiskLevel{value: riskLevelMedium}
	RiskLevelHigh   = RiskLevel{value: riskLevelHigh}
)

// NewRiskLevel creates a RiskLevel from a raw string.
func NewRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case riskLevelLow:
		return RiskLevelLow, nil
	case riskLevelMedium:
		return RiskLevelMedium, nil
	case riskLevelHigh:
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("%w: %q", ErrInvalidRiskLevel, s)
	}
}

// String returns the string representation.
func (r RiskLevel) String() string { return r.value }

// Equal returns true when both levels match.
func (r RiskLevel) Equal(other RiskLevel) bool { return r.value == other.value }

// MarshalJSON renders the level as its bare string.
func (r RiskLevel) MarshalJSON() ([]byte, error) { return json.Marshal(r.value) }
