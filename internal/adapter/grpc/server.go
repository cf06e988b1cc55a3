package grpc

import (
	"context"
	"errors"
	"log"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xrexb2b/payflow-backend/internal/adapter/dto"
	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/counterparty"
	"github.com/xrexb2b/payflow-backend/internal/usecase/payment"
	"github.com/xrexb2b/payflow-backend/internal/usecase/progression"
	"github.com/xrexb2b/payflow-backend/internal/usecase/quote"
)

// SessionMetadataKey carries the browser session a receipt belongs to
const SessionMetadataKey = "x-session-id"

// DefaultSessionID is used when a request carries no session
const DefaultSessionID = "default"

// Server implements the PayflowService gRPC server
type Server struct {
	QuoteService        *quote.QuoteService
	CounterpartyService *counterparty.CounterpartyService
	PaymentService      *payment.PaymentService
	Machine             *progression.Machine
	Broadcaster         *progression.Broadcaster

	logger *log.Logger
}

var _ PayflowServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	quoteService *quote.QuoteService,
	counterpartyService *counterparty.CounterpartyService,
	paymentService *payment.PaymentService,
	machine *progression.Machine,
	broadcaster *progression.Broadcaster,
	logger *log.Logger,
) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		QuoteService:        quoteService,
		CounterpartyService: counterpartyService,
		PaymentService:      paymentService,
		Machine:             machine,
		Broadcaster:         broadcaster,
		logger:              logger,
	}
}

// sessionID reads the session from request metadata
func sessionID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return DefaultSessionID
	}
	values := md.Get(SessionMetadataKey)
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return DefaultSessionID
	}
	return strings.TrimSpace(values[0])
}

// respond encodes a response document; encoding failures are reported as Internal
func respond(v interface{}) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func stateStruct(state domain.PrototypeState) (*structpb.Struct, error) {
	return respond(dto.NewStateResponse(state))
}

// QuoteFees handles the QuoteFees RPC
func (s *Server) QuoteFees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.QuoteRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}

	input, err := in.ToInput()
	if err != nil {
		return nil, mapError(err)
	}

	summary, err := s.QuoteService.Quote(input)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(dto.NewQuoteResponse(summary))
}

// GetPrototypeState handles the GetPrototypeState RPC
func (s *Server) GetPrototypeState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return stateStruct(s.Machine.Get())
}

// SetPrototypeState handles the SetPrototypeState RPC
func (s *Server) SetPrototypeState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.SetStateRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}

	var opts []progression.SetOption
	if in.Force {
		opts = append(opts, progression.WithForce())
	}

	return stateStruct(s.Machine.SetRaw(ctx, in.RawState(), opts...))
}

// ChangePrototypeState handles the ChangePrototypeState RPC
func (s *Server) ChangePrototypeState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.ChangeStateRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}

	return stateStruct(s.Machine.Change(ctx, in.Delta))
}

// SubmitBankApplication handles the SubmitBankApplication RPC
func (s *Server) SubmitBankApplication(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return stateStruct(s.CounterpartyService.SubmitBankApplication(ctx))
}

// VerifyCounterparty handles the VerifyCounterparty RPC
func (s *Server) VerifyCounterparty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	state, err := s.CounterpartyService.VerifyCounterparty(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return stateStruct(state)
}

// SubmitPayment handles the SubmitPayment RPC
func (s *Server) SubmitPayment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.SubmitPaymentRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}

	input, err := in.ToInput()
	if err != nil {
		return nil, mapError(err)
	}

	receipt, err := s.PaymentService.Submit(ctx, sessionID(ctx), input)
	if err != nil {
		return nil, mapError(err)
	}

	return respond(dto.SubmitPaymentResponse{
		Receipt: dto.NewReceiptResponse(receipt),
		State:   dto.NewStateResponse(s.Machine.Get()),
	})
}

// ConfirmPaymentSent handles the ConfirmPaymentSent RPC
func (s *Server) ConfirmPaymentSent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	state, err := s.PaymentService.ConfirmSent(ctx, sessionID(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return stateStruct(state)
}

// GetReceipt handles the GetReceipt RPC
func (s *Server) GetReceipt(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	receipt, err := s.PaymentService.GetReceipt(ctx, sessionID(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return respond(dto.NewReceiptResponse(receipt))
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rows, err := s.PaymentService.ListTransactions(ctx, sessionID(ctx))
	if err != nil {
		return nil, mapError(err)
	}
	return respond(dto.NewTransactionsResponse(rows))
}

// WatchPrototypeState streams the current state followed by every change until the client goes away
func (s *Server) WatchPrototypeState(req *structpb.Struct, stream grpc.ServerStream) error {
	ctx := stream.Context()

	for change := range s.Broadcaster.Watch(ctx) {
		out, err := respond(dto.NewStateChangeResponse(change))
		if err != nil {
			return err
		}
		if err := stream.SendMsg(out); err != nil {
			s.logger.Printf("[GRPC] watch stream send failed: %v", err)
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	return nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var reviewErr *domain.ReviewError
	if errors.As(err, &reviewErr) {
		return reviewStatus(reviewErr)
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnsupportedCurrency):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrReceiptNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, domain.ErrTransitionNotAllowed):
		return status.Errorf(codes.FailedPrecondition, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}

// reviewStatus carries the scenario as a Struct detail so clients can render it
func reviewStatus(err *domain.ReviewError) error {
	st := status.New(codes.Aborted, err.Error())

	detail, convErr := toStruct(dto.NewReviewFailure(err.Scenario))
	if convErr != nil {
		return st.Err()
	}
	withDetails, detailErr := st.WithDetails(detail)
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}
