package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/service"
)

const opLoanLimit = "get_loan_limit"

// GetUserLoanLimitUseCase returns the application-time loan ceiling.
type GetUserLoanLimitUseCase struct {
	users port.UserRepository
	rule  *service.LoanLimitRule
	opts  options
}

// NewGetUserLoanLimitUseCase wires dependencies.
func NewGetUserLoanLimitUseCase(
	users port.UserRepository,
	rule *service.LoanLimitRule,
	opts ...Option,
) *GetUserLoanLimitUseCase {
	return &GetUserLoanLimitUseCase{
		users: users,
		rule:  rule,
		opts:  newOptions(opts),
	}
}

// Execute computes the limit from the user's cached score. An unknown user
// or a failed lookup gives a limit of 0.
func (uc *GetUserLoanLimitUseCase) Execute(
	ctx context.Context,
	req dto.UserRequest,
) (dto.LoanLimitResponse, error) {
	if err := requireUserID(req.UserID); err != nil {
		return dto.LoanLimitResponse{}, err
	}

	ctx, span := startSpan(ctx, opLoanLimit, req.UserID)

	user, err := uc.users.FindByID(ctx, req.UserID)
	if err != nil {
		err = fmt.Errorf("find user: %w", err)
		if errors.Is(err, port.ErrNotFound) {
			uc.opts.logger.WarnContext(ctx, "loan limit for unknown user", "user_id", req.UserID)
			finish(ctx, span, opLoanLimit, outcomeRejected, nil)
		} else {
			uc.opts.logger.ErrorContext(ctx, "loan limit lookup failed",
				"user_id", req.UserID,
				"error", err,
			)
			finish(ctx, span, opLoanLimit, outcomeError, err)
		}
		return dto.LoanLimitResponse{UserID: req.UserID}, nil
	}

	limit := uc.rule.Limit(user)
	finish(ctx, span, opLoanLimit, outcomeOK, nil)

	return dto.LoanLimitResponse{
		UserID:      req.UserID,
		LoanLimit:   limit,
		CreditScore: user.CreditScore,
		KYCStatus:   user.KYCStatus.String(),
	}, nil
}
