package grpc

// proto.go defines the microlend.scoring.v1.ScoringService contract by hand:
// message types, the server interface and the service descriptor. Messages
// travel with the JSON codec; money amounts are decimal strings.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/microlend/internal/application/dto"
)

const serviceName = "microlend.scoring.v1.ScoringService"

// ---------------------------------------------------------------------------
// Request messages
// ---------------------------------------------------------------------------

type UserRequest struct {
	UserID string `json:"user_id"`
}

type AssessRiskRequest struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

type ScreenLoanApplicationRequest struct {
	UserID   string `json:"user_id"`
	Amount   string `json:"amount"`
	TermDays int32  `json:"term_days"`
}

type RefreshCreditScoreRequest struct {
	UserID string `json:"user_id"`
	Mode   string `json:"mode"`
}

// ---------------------------------------------------------------------------
// Server API
// ---------------------------------------------------------------------------

// ScoringServiceServer is the server API for ScoringService.
type ScoringServiceServer interface {
	CalculateCreditScore(context.Context, *UserRequest) (*dto.CreditScoreResponse, error)
	GetLoanEligibility(context.Context, *UserRequest) (*dto.EligibilityResponse, error)
	AssessRisk(context.Context, *AssessRiskRequest) (*dto.RiskResponse, error)
	GetLoanLimit(context.Context, *UserRequest) (*dto.LoanLimitResponse, error)
	ScreenLoanApplication(context.Context, *ScreenLoanApplicationRequest) (*dto.ScreeningResponse, error)
	RefreshCreditScore(context.Context, *RefreshCreditScoreRequest) (*dto.RefreshScoreResponse, error)
	mustEmbedUnimplementedScoringServiceServer()
}

// UnimplementedScoringServiceServer provides forward-compatible default implementations.
type UnimplementedScoringServiceServer struct{}

func (UnimplementedScoringServiceServer) CalculateCreditScore(context.Context, *UserRequest) (*dto.CreditScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CalculateCreditScore not implemented")
}
func (UnimplementedScoringServiceServer) GetLoanEligibility(context.Context, *UserRequest) (*dto.EligibilityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoanEligibility not implemented")
}
func (UnimplementedScoringServiceServer) AssessRisk(context.Context, *AssessRiskRequest) (*dto.RiskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessRisk not implemented")
}
func (UnimplementedScoringServiceServer) GetLoanLimit(context.Context, *UserRequest) (*dto.LoanLimitResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoanLimit not implemented")
}
func (UnimplementedScoringServiceServer) ScreenLoanApplication(context.Context, *ScreenLoanApplicationRequest) (*dto.ScreeningResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScreenLoanApplication not implemented")
}
func (UnimplementedScoringServiceServer) RefreshCreditScore(context.Context, *RefreshCreditScoreRequest) (*dto.RefreshScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RefreshCreditScore not implemented")
}
func (UnimplementedScoringServiceServer) mustEmbedUnimplementedScoringServiceServer() {}

// RegisterScoringServiceServer registers the ScoringServiceServer with the gRPC server.
func RegisterScoringServiceServer(s grpclib.ServiceRegistrar, srv ScoringServiceServer) {
	s.RegisterService(&scoringServiceDesc, srv)
}

var scoringServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ScoringServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{
			MethodName: "CalculateCreditScore",
			Handler:    unaryHandler("CalculateCreditScore", ScoringServiceServer.CalculateCreditScore),
		},
		{
			MethodName: "GetLoanEligibility",
			Handler:    unaryHandler("GetLoanEligibility", ScoringServiceServer.GetLoanEligibility),
		},
		{
			MethodName: "AssessRisk",
			Handler:    unaryHandler("AssessRisk", ScoringServiceServer.AssessRisk),
		},
		{
			MethodName: "GetLoanLimit",
			Handler:    unaryHandler("GetLoanLimit", ScoringServiceServer.GetLoanLimit),
		},
		{
			MethodName: "ScreenLoanApplication",
			Handler:    unaryHandler("ScreenLoanApplication", ScoringServiceServer.ScreenLoanApplication),
		},
		{
			MethodName: "RefreshCreditScore",
			Handler:    unaryHandler("RefreshCreditScore", ScoringServiceServer.RefreshCreditScore),
		},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "microlend/scoring/v1/scoring.proto",
}

// FullMethod returns the gRPC method path for a ScoringService method.
func FullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unaryHandler builds the descriptor handler for one unary method: decode
// the request, then call the implementation through the interceptor chain.
func unaryHandler[Req, Resp any](
	method string,
	call func(ScoringServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	fullMethod := FullMethod(method)

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
		}
		if interceptor == nil {
			return call(srv.(ScoringServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ScoringServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
