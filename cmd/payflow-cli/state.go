package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xrexb2b/payflow-backend/internal/adapter/dto"
	grpcadapter "github.com/xrexb2b/payflow-backend/internal/adapter/grpc"
)

func printState(w io.Writer, state *dto.StateResponse) {
	fmt.Fprintf(w, "%d %s (%s)\n", state.State, state.Label, state.Attribute)
}

// stateCall runs one unary state RPC and prints the resulting state
func stateCall(call func(ctx context.Context, client *grpcadapter.Client) (*dto.StateResponse, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, client *grpcadapter.Client) error {
			ctx, cancel := unaryContext(ctx)
			defer cancel()

			state, err := call(ctx, client)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), state)
			return nil
		})
	}
}

func stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and drive the prototype progression state",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current state",
		Args:  cobra.NoArgs,
		RunE: stateCall(func(ctx context.Context, client *grpcadapter.Client) (*dto.StateResponse, error) {
			return client.GetPrototypeState(ctx)
		}),
	})

	setCmd := &cobra.Command{
		Use:   "set [state]",
		Short: "Set the state (clamped to 1..5)",
		Args:  cobra.ExactArgs(1),
	}
	setCmd.Flags().BoolP("force", "f", false, "Persist and notify even when unchanged")
	setCmd.RunE = func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return stateCall(func(ctx context.Context, client *grpcadapter.Client) (*dto.StateResponse, error) {
			return client.SetPrototypeState(ctx, args[0], force)
		})(cmd, args)
	}
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Advance one state",
		Args:  cobra.NoArgs,
		RunE: stateCall(func(ctx context.Context, client *grpcadapter.Client) (*dto.StateResponse, error) {
			return client.ChangePrototypeState(ctx, 1)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Go back one state",
		Args:  cobra.NoArgs,
		RunE: stateCall(func(ctx context.Context, client *grpcadapter.Client) (*dto.StateResponse, error) {
			return client.ChangePrototypeState(ctx, -1)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print every state change until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *grpcadapter.Client) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				err := client.WatchPrototypeState(ctx, func(change dto.StateResponse) error {
					printState(cmd.OutOrStdout(), &change)
					return nil
				})
				if ctx.Err() != nil {
					return nil
				}
				return err
			})
		},
	})

	return cmd
}

func counterpartyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counterparty",
		Short: "Simulate counterparty onboarding",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Submit a bank application (state 1 -> 2)",
		Args:  cobra.NoArgs,
		RunE: stateCall(func(ctx context.Context, client *grpcadapter.Client) (*dto.StateResponse, error) {
			return client.SubmitBankApplication(ctx)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Approve the counterparty under review (state 2 -> 3)",
		Args:  cobra.NoArgs,
		RunE: stateCall(func(ctx context.Context, client *grpcadapter.Client) (*dto.StateResponse, error) {
			return client.VerifyCounterparty(ctx)
		}),
	})

	return cmd
}
