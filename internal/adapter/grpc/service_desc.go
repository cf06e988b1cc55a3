package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "payflow.v1.PayflowService"

// Method names of the service
const (
	MethodQuoteFees             = "QuoteFees"
	MethodGetPrototypeState     = "GetPrototypeState"
	MethodSetPrototypeState     = "SetPrototypeState"
	MethodChangePrototypeState  = "ChangePrototypeState"
	MethodSubmitBankApplication = "SubmitBankApplication"
	MethodVerifyCounterparty    = "VerifyCounterparty"
	MethodSubmitPayment         = "SubmitPayment"
	MethodConfirmPaymentSent    = "ConfirmPaymentSent"
	MethodGetReceipt            = "GetReceipt"
	MethodListTransactions      = "ListTransactions"
	MethodWatchPrototypeState   = "WatchPrototypeState"
)

// FullMethod returns "/payflow.v1.PayflowService/<method>"
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PayflowServiceServer is the server API. Requests and responses are
// google.protobuf.Struct documents with the same fields as the HTTP API.
type PayflowServiceServer interface {
	QuoteFees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPrototypeState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetPrototypeState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangePrototypeState(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitBankApplication(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VerifyCounterparty(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitPayment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConfirmPaymentSent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReceipt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchPrototypeState(*structpb.Struct, grpc.ServerStream) error
}

type unaryMethod func(PayflowServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PayflowServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(PayflowServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchPrototypeStateHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(PayflowServiceServer).WatchPrototypeState(in, stream)
}

// ServiceDesc describes PayflowService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PayflowServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodQuoteFees, PayflowServiceServer.QuoteFees),
		unaryHandler(MethodGetPrototypeState, PayflowServiceServer.GetPrototypeState),
		unaryHandler(MethodSetPrototypeState, PayflowServiceServer.SetPrototypeState),
		unaryHandler(MethodChangePrototypeState, PayflowServiceServer.ChangePrototypeState),
		unaryHandler(MethodSubmitBankApplication, PayflowServiceServer.SubmitBankApplication),
		unaryHandler(MethodVerifyCounterparty, PayflowServiceServer.VerifyCounterparty),
		unaryHandler(MethodSubmitPayment, PayflowServiceServer.SubmitPayment),
		unaryHandler(MethodConfirmPaymentSent, PayflowServiceServer.ConfirmPaymentSent),
		unaryHandler(MethodGetReceipt, PayflowServiceServer.GetReceipt),
		unaryHandler(MethodListTransactions, PayflowServiceServer.ListTransactions),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    MethodWatchPrototypeState,
			Handler:       watchPrototypeStateHandler,
			ServerStreams: true,
		},
	},
	Metadata: "payflow/v1/payflow.proto",
}

// RegisterPayflowServiceServer registers srv on s
func RegisterPayflowServiceServer(s grpc.ServiceRegistrar, srv PayflowServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
