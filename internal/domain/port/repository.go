package port

import (
	"context"
	"errors"
	"time"

	"github.com/bibbank/microlend/internal/domain/event"
	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// ErrNotFound is returned (wrapped) by repositories when the referenced
// record does not exist.
var ErrNotFound = errors.New("not found")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// UserRepository reads borrower snapshots and stores the cached score.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (model.UserSnapshot, error)
	// UpdateCreditScore stores the cached score without marking the user as
	// updated.
	UpdateCreditScore(ctx context.Context, id string, score int, at time.Time) error
	// ListUpdatedSince returns users whose profile changed at or after since.
	// Loan and payment writes do not count; lending activity events cover them.
	ListUpdatedSince(ctx context.Context, since time.Time) ([]string, error)
}

// LoanRepository reads loan history. With no statuses ListByUser returns
// every loan. CountOpen counts approved, disbursed and active loans.
type LoanRepository interface {
	ListByUser(ctx context.Context, userID string, statuses ...valueobject.LoanStatus) ([]model.LoanRecord, error)
	CountOpen(ctx context.Context, userID string) (int, error)
}

// PaymentRepository reads repayment history.
type PaymentRepository interface {
	ListByUser(ctx context.Context, userID string, status valueobject.PaymentStatus) ([]model.PaymentRecord, error)
}

// HistoryReader loads a user, their loans and their completed payments as
// one consistent snapshot.
type HistoryReader interface {
	LoadHistory(ctx context.Context, userID string) (model.CreditHistory, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
