// Package memory holds map-backed implementations of the scoring ports for
// transport tests and local experiments.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bibbank/microlend/internal/domain/event"
	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// Store implements UserRepository, LoanRepository, PaymentRepository,
// HistoryReader and EventPublisher.
type Store struct {
	mu       sync.RWMutex
	users    map[string]model.UserSnapshot
	loans    map[string][]model.LoanRecord
	payments map[string][]model.PaymentRecord
	events   []event.DomainEvent
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]model.UserSnapshot),
		loans:    make(map[string][]model.LoanRecord),
		payments: make(map[string][]model.PaymentRecord),
	}
}

// PutUser inserts or replaces a user.
func (s *Store) PutUser(u model.UserSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// AddLoan appends a loan to its user's history.
func (s *Store) AddLoan(l model.LoanRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans[l.UserID] = append(s.loans[l.UserID], l)
}

// AddPayment appends a payment to its user's history.
func (s *Store) AddPayment(p model.PaymentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.UserID] = append(s.payments[p.UserID], p)
}

// Events returns everything published so far.
func (s *Store) Events() []event.DomainEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

func (s *Store) FindByID(_ context.Context, id string) (model.UserSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.UserSnapshot{}, fmt.Errorf("user %s: %w", id, port.ErrNotFound)
	}
	return u, nil
}

func (s *Store) UpdateCreditScore(_ context.Context, id string, score int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, port.ErrNotFound)
	}
	u.CreditScore = score
	u.ScoreRefreshedAt = at
	s.users[id] = u
	return nil
}

func (s *Store) ListUpdatedSince(_ context.Context, since time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, u := range s.users {
		if !u.UpdatedAt.Before(since) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Loans returns the user's loans, restricted to statuses when given.
func (s *Store) Loans(_ context.Context, userID string, statuses ...valueobject.LoanStatus) ([]model.LoanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterLoans(s.loans[userID], statuses), nil
}

func (s *Store) CountOpen(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(filterLoans(s.loans[userID], valueobject.OpenLoanStatuses)), nil
}

// Payments returns the user's payments in the given status.
func (s *Store) Payments(_ context.Context, userID string, status valueobject.PaymentStatus) ([]model.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.PaymentRecord
	for _, p := range s.payments[userID] {
		if p.Status.Equal(status) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) LoadHistory(_ context.Context, userID string) (model.CreditHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return model.CreditHistory{}, fmt.Errorf("user %s: %w", userID, port.ErrNotFound)
	}
	var payments []model.PaymentRecord
	for _, p := range s.payments[userID] {
		if p.Status.Equal(valueobject.PaymentStatusCompleted) {
			payments = append(payments, p)
		}
	}
	return model.CreditHistory{
		User:     u,
		Loans:    slices.Clone(s.loans[userID]),
		Payments: payments,
	}, nil
}

func (s *Store) Publish(_ context.Context, events ...event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

// LoanRepository adapts the store to port.LoanRepository.
func (s *Store) LoanRepository() port.LoanRepository { return loanRepo{s} }

// PaymentRepository adapts the store to port.PaymentRepository.
func (s *Store) PaymentRepository() port.PaymentRepository { return paymentRepo{s} }

type loanRepo struct{ s *Store }

func (r loanRepo) ListByUser(ctx context.Context, userID string, statuses ...valueobject.LoanStatus) ([]model.LoanRecord, error) {
	return r.s.Loans(ctx, userID, statuses...)
}

func (r loanRepo) CountOpen(ctx context.Context, userID string) (int, error) {
	return r.s.CountOpen(ctx, userID)
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) ListByUser(ctx context.Context, userID string, status valueobject.PaymentStatus) ([]model.PaymentRecord, error) {
	return r.s.Payments(ctx, userID, status)
}

func filterLoans(loans []model.LoanRecord, statuses []valueobject.LoanStatus) []model.LoanRecord {
	if len(statuses) == 0 {
		return slices.Clone(loans)
	}
	var out []model.LoanRecord
	for _, l := range loans {
		if slices.ContainsFunc(statuses, l.Status.Equal) {
			out = append(out, l)
		}
	}
	return out
}

var (
	_ port.UserRepository = (*Store)(nil)
	_ port.HistoryReader  = (*Store)(nil)
	_ port.EventPublisher = (*Store)(nil)
)
