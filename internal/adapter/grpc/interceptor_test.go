package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"
	interceptor := AuthInterceptor(validToken)

	tests := []struct {
		name           string
		ctx            context.Context
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Valid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Invalid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "wrong-token"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name:           "Missing Token",
			ctx:            context.Background(),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name: "Missing Authorization Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("other-header", "value"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{
				FullMethod: "/test.Service/Method",
			}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

// fakeServerStream carries only a context, which is all the auth check reads
type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context {
	return s.ctx
}

func TestStreamAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"
	interceptor := StreamAuthInterceptor(validToken)
	info := &grpc.StreamServerInfo{
		FullMethod:     "/payflow.v1.PayflowService/WatchPrototypeState",
		IsServerStream: true,
	}

	t.Run("Valid Token", func(t *testing.T) {
		handlerCalled := false
		stream := &fakeServerStream{ctx: metadata.NewIncomingContext(
			context.Background(),
			metadata.Pairs("authorization", validToken),
		)}

		err := interceptor(nil, stream, info, func(srv interface{}, ss grpc.ServerStream) error {
			handlerCalled = true
			return nil
		})

		require.NoError(t, err)
		assert.True(t, handlerCalled)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		handlerCalled := false
		stream := &fakeServerStream{ctx: metadata.NewIncomingContext(
			context.Background(),
			metadata.Pairs("authorization", "wrong-token"),
		)}

		err := interceptor(nil, stream, info, func(srv interface{}, ss grpc.ServerStream) error {
			handlerCalled = true
			return nil
		})

		assert.False(t, handlerCalled)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}
