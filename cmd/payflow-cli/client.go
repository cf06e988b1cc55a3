package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcadapter "github.com/xrexb2b/payflow-backend/internal/adapter/grpc"
)

const callTimeout = 10 * time.Second

// withClient dials the server from the persistent flags and runs fn with a connected client
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client *grpcadapter.Client) error) error {
	addr, _ := cmd.Flags().GetString("addr")
	token, _ := cmd.Flags().GetString("token")
	session, _ := cmd.Flags().GetString("session")

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	return fn(cmd.Context(), grpcadapter.NewClient(conn, token, session))
}

// unaryContext bounds a single call
func unaryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, callTimeout)
}
