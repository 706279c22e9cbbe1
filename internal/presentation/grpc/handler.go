package grpc

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/application/usecase"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/service"
	"github.com/bibbank/microlend/pkg/auth"
)

// ScoringHandler implements ScoringServiceServer over the scoring use cases.
type ScoringHandler struct {
	UnimplementedScoringServiceServer
	engine *usecase.Engine
}

// NewScoringHandler creates a new handler.
func NewScoringHandler(engine *usecase.Engine) *ScoringHandler {
	return &ScoringHandler{engine: engine}
}

// CalculateCreditScore returns the full credit score of a user.
func (h *ScoringHandler) CalculateCreditScore(ctx context.Context, req *UserRequest) (*dto.CreditScoreResponse, error) {
	if err := authorizeUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	resp, err := h.engine.CreditScore.Execute(ctx, dto.UserRequest{UserID: req.UserID})
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// GetLoanEligibility returns the eligibility decision for a user.
func (h *ScoringHandler) GetLoanEligibility(ctx context.Context, req *UserRequest) (*dto.EligibilityResponse, error) {
	if err := authorizeUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	resp, err := h.engine.Eligibility.Execute(ctx, dto.UserRequest{UserID: req.UserID})
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// AssessRisk grades a proposed amount for a user.
func (h *ScoringHandler) AssessRisk(ctx context.Context, req *AssessRiskRequest) (*dto.RiskResponse, error) {
	if err := authorizeUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	resp, err := h.engine.Risk.Execute(ctx, dto.AssessRiskRequest{UserID: req.UserID, Amount: amount})
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// GetLoanLimit returns the application-time ceiling for a user.
func (h *ScoringHandler) GetLoanLimit(ctx context.Context, req *UserRequest) (*dto.LoanLimitResponse, error) {
	if err := authorizeUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	resp, err := h.engine.LoanLimit.Execute(ctx, dto.UserRequest{UserID: req.UserID})
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// ScreenLoanApplication checks an application against the user's ceiling.
func (h *ScoringHandler) ScreenLoanApplication(ctx context.Context, req *ScreenLoanApplicationRequest) (*dto.ScreeningResponse, error) {
	if err := authorizeUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	resp, err := h.engine.Screening.Execute(ctx, dto.ScreenApplicationRequest{
		UserID:   req.UserID,
		Amount:   amount,
		TermDays: int(req.TermDays),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// RefreshCreditScore recomputes a user's cached score. Staff only.
func (h *ScoringHandler) RefreshCreditScore(ctx context.Context, req *RefreshCreditScoreRequest) (*dto.RefreshScoreResponse, error) {
	if err := authorizeStaff(ctx); err != nil {
		return nil, err
	}
	resp, err := h.engine.Refresh.Execute(ctx, dto.RefreshScoreRequest{UserID: req.UserID, Mode: req.Mode})
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func authorizeUser(ctx context.Context, userID string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}
	if !claims.CanAccessUser(userID) {
		return status.Error(codes.PermissionDenied, "not allowed to access this user")
	}
	return nil
}

func authorizeStaff(ctx context.Context) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}
	if !claims.IsStaff() {
		return status.Error(codes.PermissionDenied, "staff role required")
	}
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid amount %q", s)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, status.Error(codes.InvalidArgument, "amount must be positive")
	}
	return amount, nil
}

// toStatus maps use case errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest), errors.Is(err, service.ErrInvalidApplication):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
