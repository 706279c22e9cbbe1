package usecase

import (
	"github.com/bibbank/microlend/internal/domain/port"
	"github.com/bibbank/microlend/internal/domain/service"
)

// Engine groups the scoring use cases behind the transports.
type Engine struct {
	CreditScore *CalculateCreditScoreUseCase
	Eligibility *GetLoanEligibilityUseCase
	Risk        *AssessRiskUseCase
	LoanLimit   *GetUserLoanLimitUseCase
	Screening   *ScreenLoanApplicationUseCase
	Refresh     *RefreshCreditScoreUseCase
}

// NewEngine wires every use case over the given ports. The domain services
// are stateless and shared.
func NewEngine(
	users port.UserRepository,
	loans port.LoanRepository,
	history port.HistoryReader,
	publisher port.EventPublisher,
	opts ...Option,
) *Engine {
	calculator := service.NewScoreCalculator()
	limits := service.NewLoanLimitRule()
	eligibility := NewGetLoanEligibilityUseCase(history, calculator, service.NewEligibilityEvaluator(), opts...)

	return &Engine{
		CreditScore: NewCalculateCreditScoreUseCase(history, calculator, opts...),
		Eligibility: eligibility,
		Risk:        NewAssessRiskUseCase(eligibility, service.NewRiskAssessor()),
		LoanLimit:   NewGetUserLoanLimitUseCase(users, limits, opts...),
		Screening:   NewScreenLoanApplicationUseCase(users, loans, publisher, service.NewApplicationScreener(limits), opts...),
		Refresh:     NewRefreshCreditScoreUseCase(users, history, publisher, calculator, opts...),
	}
}
