package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xrexb2b/payflow-backend/internal/adapter/dto"
	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/quote"
)

func quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [amount]",
		Short: "Compute fees for an amount locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("mode")
			currency, _ := cmd.Flags().GetString("currency")
			balance, _ := cmd.Flags().GetString("balance")
			asJSON, _ := cmd.Flags().GetBool("json")

			input, err := dto.QuoteRequest{
				Amount:        args[0],
				FeeMode:       mode,
				PayerCurrency: currency,
				Balance:       balance,
			}.ToInput()
			if err != nil {
				return err
			}

			summary, err := quote.NewQuoteService().Quote(input)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dto.NewQuoteResponse(summary))
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringP("mode", "m", "payer", "Who pays the fee (payer, receiver, split)")
	cmd.Flags().StringP("currency", "c", "USD", "Payer currency (USD, USDT)")
	cmd.Flags().StringP("balance", "b", "", "Payer balance to check against")
	cmd.Flags().BoolP("json", "j", false, "Output as JSON")

	return cmd
}

func printSummary(w io.Writer, s *domain.PaymentSummary) {
	payer := s.Request.PayerCurrency
	receiver := s.Request.ReceiverCurrency

	fmt.Fprintf(w, "Amount:          %s\n", domain.FormatAmount(s.Request.Amount, receiver))
	fmt.Fprintf(w, "Fee mode:        %s\n", s.Request.FeeMode)
	fmt.Fprintf(w, "Service fee:     %s (%s)\n", domain.FormatAmount(s.Fees.ActualServiceFee, receiver), domain.FeeRatePercent())
	if s.Fees.IsBelowMinimum {
		fmt.Fprintf(w, "                 minimum fee of %s applied\n", domain.FormatAmount(s.MinimumFeeDisplay, receiver))
	}
	fmt.Fprintf(w, "  Paid by you:   %s\n", domain.FormatAmount(s.Fees.PayerFee, payer))
	fmt.Fprintf(w, "  Paid by recv:  %s\n", domain.FormatAmount(s.Fees.ReceiverFee, receiver))
	if s.ConversionRate != "" {
		fmt.Fprintf(w, "Conversion:      %s\n", s.ConversionRate)
	}
	fmt.Fprintf(w, "You pay:         %s\n", domain.FormatAmount(s.YouPay, payer))
	fmt.Fprintf(w, "Receiver gets:   %s\n", domain.FormatAmount(s.ReceiverGets, receiver))

	for _, issue := range s.Issues {
		fmt.Fprintf(w, "! %s\n", issue.Message)
	}
}
