package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xrexb2b/payflow-backend/internal/adapter/dto"
)

// Client calls PayflowService over an existing connection
type Client struct {
	cc        grpc.ClientConnInterface
	token     string
	sessionID string
}

// NewClient creates a client that authenticates every call with token
func NewClient(cc grpc.ClientConnInterface, token, sessionID string) *Client {
	return &Client{cc: cc, token: token, sessionID: sessionID}
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	pairs := []string{"authorization", c.token}
	if c.sessionID != "" {
		pairs = append(pairs, SessionMetadataKey, c.sessionID)
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

func (c *Client) invoke(ctx context.Context, method string, req, resp interface{}) error {
	in := &structpb.Struct{}
	if req != nil {
		var err error
		if in, err = toStruct(req); err != nil {
			return err
		}
	}

	out := &structpb.Struct{}
	if err := c.cc.Invoke(c.outgoing(ctx), FullMethod(method), in, out); err != nil {
		return err
	}

	if err := fromStruct(out, resp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// QuoteFees computes the amount and fees summary
func (c *Client) QuoteFees(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error) {
	var resp dto.QuoteResponse
	if err := c.invoke(ctx, MethodQuoteFees, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) state(ctx context.Context, method string, req interface{}) (*dto.StateResponse, error) {
	var resp dto.StateResponse
	if err := c.invoke(ctx, method, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPrototypeState returns the current prototype state
func (c *Client) GetPrototypeState(ctx context.Context) (*dto.StateResponse, error) {
	return c.state(ctx, MethodGetPrototypeState, nil)
}

// SetPrototypeState sets the prototype state from raw input
func (c *Client) SetPrototypeState(ctx context.Context, raw string, force bool) (*dto.StateResponse, error) {
	return c.state(ctx, MethodSetPrototypeState, dto.SetStateRequest{State: raw, Force: force})
}

// ChangePrototypeState moves the prototype state by delta
func (c *Client) ChangePrototypeState(ctx context.Context, delta int) (*dto.StateResponse, error) {
	return c.state(ctx, MethodChangePrototypeState, dto.ChangeStateRequest{Delta: delta})
}

// SubmitBankApplication moves a new counterparty to review
func (c *Client) SubmitBankApplication(ctx context.Context) (*dto.StateResponse, error) {
	return c.state(ctx, MethodSubmitBankApplication, nil)
}

// VerifyCounterparty approves a counterparty under review
func (c *Client) VerifyCounterparty(ctx context.Context) (*dto.StateResponse, error) {
	return c.state(ctx, MethodVerifyCounterparty, nil)
}

// SubmitPayment submits the send-payment form
func (c *Client) SubmitPayment(ctx context.Context, req dto.SubmitPaymentRequest) (*dto.SubmitPaymentResponse, error) {
	var resp dto.SubmitPaymentResponse
	if err := c.invoke(ctx, MethodSubmitPayment, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmPaymentSent marks the submitted payment as sent
func (c *Client) ConfirmPaymentSent(ctx context.Context) (*dto.StateResponse, error) {
	return c.state(ctx, MethodConfirmPaymentSent, nil)
}

// GetReceipt returns the receipt of the client's session
func (c *Client) GetReceipt(ctx context.Context) (*dto.ReceiptResponse, error) {
	var resp dto.ReceiptResponse
	if err := c.invoke(ctx, MethodGetReceipt, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTransactions returns the payments tab of the client's session
func (c *Client) ListTransactions(ctx context.Context) (*dto.TransactionsResponse, error) {
	var resp dto.TransactionsResponse
	if err := c.invoke(ctx, MethodListTransactions, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WatchPrototypeState calls fn with the current state and every change until ctx is done,
// the server ends the stream, or fn returns an error
func (c *Client) WatchPrototypeState(ctx context.Context, fn func(dto.StateResponse) error) error {
	stream, err := c.cc.NewStream(c.outgoing(ctx), &ServiceDesc.Streams[0], FullMethod(MethodWatchPrototypeState))
	if err != nil {
		return err
	}
	if err := stream.SendMsg(&structpb.Struct{}); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	for {
		out := &structpb.Struct{}
		if err := stream.RecvMsg(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var change dto.StateResponse
		if err := fromStruct(out, &change); err != nil {
			return fmt.Errorf("failed to decode state change: %w", err)
		}
		if err := fn(change); err != nil {
			return err
		}
	}
}

// ReviewFailure extracts the simulated review failure from a SubmitPayment error
func ReviewFailure(err error) (*dto.ReviewFailure, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return nil, false
	}
	for _, detail := range st.Details() {
		s, ok := detail.(*structpb.Struct)
		if !ok {
			continue
		}
		var failure dto.ReviewFailure
		if fromStruct(s, &failure) == nil && failure.Key != "" {
			return &failure, true
		}
	}
	return nil, false
}
