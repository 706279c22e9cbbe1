package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/domain/event"
	"github.com/bibbank/microlend/internal/domain/model"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/valueobject"
)

// --- Mock implementations ---

type mockUserRepository struct {
	findByIDFunc         func(ctx context.Context, id string) (model.UserSnapshot, error)
	updateCreditFunc     func(ctx context.Context, id string, score int, at time.Time) error
	listUpdatedSinceFunc func(ctx context.Context, since time.Time) ([]string, error)

	mu      sync.Mutex
	updated map[string]int
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (model.UserSnapshot, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.UserSnapshot{}, fmt.Errorf("user %s: %w", id, port.ErrNotFound)
}

func (m *mockUserRepository) UpdateCreditScore(ctx context.Context, id string, score int, at time.Time) error {
	if m.updateCreditFunc != nil {
		return m.updateCreditFunc(ctx, id, score, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updated == nil {
		m.updated = make(map[string]int)
	}
	m.updated[id] = score
	return nil
}

func (m *mockUserRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]string, error) {
	if m.listUpdatedSinceFunc != nil {
		return m.listUpdatedSinceFunc(ctx, since)
	}
	return nil, nil
}

type mockLoanRepository struct {
	listByUserFunc func(ctx context.Context, userID string, statuses ...valueobject.LoanStatus) ([]model.LoanRecord, error)
	countOpenFunc  func(ctx context.Context, userID string) (int, error)
}

func (m *mockLoanRepository) ListByUser(ctx context.Context, userID string, statuses ...valueobject.LoanStatus) ([]model.LoanRecord, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, statuses...)
	}
	return nil, nil
}

func (m *mockLoanRepository) CountOpen(ctx context.Context, userID string) (int, error) {
	if m.countOpenFunc != nil {
		return m.countOpenFunc(ctx, userID)
	}
	return 0, nil
}

type mockHistoryReader struct {
	loadFunc func(ctx context.Context, userID string) (model.CreditHistory, error)
	calls    int
}

func (m *mockHistoryReader) LoadHistory(ctx context.Context, userID string) (model.CreditHistory, error) {
	m.calls++
	if m.loadFunc != nil {
		return m.loadFunc(ctx, userID)
	}
	return model.CreditHistory{}, fmt.Errorf("user %s: %w", userID, port.ErrNotFound)
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// --- Fixtures ---

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func verifiedHistory() model.CreditHistory {
	return model.CreditHistory{
		User: model.UserSnapshot{
			ID:            "user-1",
			KYCStatus:     valueobject.KYCStatusVerified,
			MonthlyIncome: decimal.NewNullDecimal(decimal.NewFromInt(60_000)),
			ReferralCount: 2,
			CreditScore:   610,
			CreatedAt:     fixedNow.AddDate(0, 0, -400),
		},
		Loans: []model.LoanRecord{
			{ID: "l1", Status: valueobject.LoanStatusCompleted},
			{ID: "l2", Status: valueobject.LoanStatusCompleted},
			{ID: "l3", Status: valueobject.LoanStatusCompleted},
		},
		Payments: completedPayments(10),
	}
}

func completedPayments(n int) []model.PaymentRecord {
	out := make([]model.PaymentRecord, n)
	for i := range out {
		out[i] = model.PaymentRecord{ID: fmt.Sprintf("p%d", i), Status: valueobject.PaymentStatusCompleted}
	}
	return out
}

func historyReturning(h model.CreditHistory) *mockHistoryReader {
	return &mockHistoryReader{
		loadFunc: func(_ context.Context, _ string) (model.CreditHistory, error) {
			return h, nil
		},
	}
}

func failingHistory(err error) *mockHistoryReader {
	return &mockHistoryReader{
		loadFunc: func(_ context.Context, _ string) (model.CreditHistory, error) {
			return model.CreditHistory{}, err
		},
	}
}
