package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateUser = "User"

// Score refresh modes.
const (
	RefreshModeQuick = "quick"
	RefreshModeFull  = "full"
)

// ---------------------------------------------------------------------------
// Credit score events
// ---------------------------------------------------------------------------

// CreditScoreRefreshed is raised after a user's cached credit score has been
// recomputed and persisted.
type CreditScoreRefreshed struct {
	events.BaseEvent
	UserID        string `json:"user_id"`
	Mode          string `json:"mode"`
	Score         int    `json:"score"`
	PreviousScore int    `json:"previous_score"`
}

func NewCreditScoreRefreshed(userID, mode string, score, previous int, at time.Time) CreditScoreRefreshed {
	return CreditScoreRefreshed{
		BaseEvent:     events.NewBaseEvent("scoring.credit_score.refreshed", userID, aggregateUser, at),
		UserID:        userID,
		Mode:          mode,
		Score:         score,
		PreviousScore: previous,
	}
}

// ---------------------------------------------------------------------------
// Application screening events
// ---------------------------------------------------------------------------

// LoanApplicationScreened is raised for every application-time ceiling check.
type LoanApplicationScreened struct {
	events.BaseEvent
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	TermDays  int             `json:"term_days"`
	Accepted  bool            `json:"accepted"`
	Reason    string          `json:"reason,omitempty"`
	LoanLimit int             `json:"loan_limit"`
}

func NewLoanApplicationScreened(
	userID string, amount decimal.Decimal, termDays int,
	accepted bool, reason string, loanLimit int, at time.Time,
) LoanApplicationScreened {
	return LoanApplicationScreened{
		BaseEvent: events.NewBaseEvent("scoring.loan_application.screened", userID, aggregateUser, at),
		UserID:    userID,
		Amount:    amount,
		TermDays:  termDays,
		Accepted:  accepted,
		Reason:    reason,
		LoanLimit: loanLimit,
	}
}
