package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xrexb2b/payflow-backend/internal/adapter/dto"
	grpcadapter "github.com/xrexb2b/payflow-backend/internal/adapter/grpc"
)

func paymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Inspect and confirm the session payment",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "confirm",
		Short: "Mark the submitted payment as sent (state 4 -> 5)",
		Args:  cobra.NoArgs,
		RunE: stateCall(func(ctx context.Context, client *grpcadapter.Client) (*dto.StateResponse, error) {
			return client.ConfirmPaymentSent(ctx)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "receipt",
		Short: "Show the receipt captured for the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *grpcadapter.Client) error {
				ctx, cancel := unaryContext(ctx)
				defer cancel()

				receipt, err := client.GetReceipt(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Payment ID\t%s\n", receipt.PaymentID)
				fmt.Fprintf(w, "Status\t%s\n", receipt.Status)
				fmt.Fprintf(w, "Receiver\t%s\n", receipt.ReceiverName)
				fmt.Fprintf(w, "Amount payable\t%s\n", receipt.AmountPayableFormatted)
				fmt.Fprintf(w, "Fee rate\t%s\n", receipt.FeePercent)
				fmt.Fprintf(w, "Nature\t%s\n", receipt.Nature)
				fmt.Fprintf(w, "Purpose\t%s\n", receipt.Purpose)
				if receipt.DocNumberLabel != "" {
					fmt.Fprintf(w, "%s\t%s\n", receipt.DocNumberLabel, receipt.DocNumber)
				}
				fmt.Fprintf(w, "Date\t%s\n", receipt.DateTimeFormatted)
				return w.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "transactions",
		Short: "List the payments tab for the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client *grpcadapter.Client) error {
				ctx, cancel := unaryContext(ctx)
				defer cancel()

				resp, err := client.ListTransactions(ctx)
				if err != nil {
					return err
				}
				if len(resp.Transactions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No transactions")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TO\tAMOUNT\tPURPOSE\tREFERENCE\tDATE\tSTATUS")
				for _, row := range resp.Transactions {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", row.Title, row.Amount, row.Purpose, row.PurposeSub, row.DateTime, row.Status)
				}
				return w.Flush()
			})
		},
	})

	return cmd
}
