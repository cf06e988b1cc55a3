package quote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/feecalc"
)

// QuoteInput represents the input for a payment summary recalculation
type QuoteInput struct {
	Amount        decimal.Decimal
	FeeMode       domain.FeeMode
	PayerCurrency domain.Currency
	// Balance of the selected payer account; nil skips the balance check
	Balance *decimal.Decimal
}

// QuoteService derives the "Amount and fees" summary shown on the send-payment form
type QuoteService struct{}

// NewQuoteService creates a new QuoteService instance
func NewQuoteService() *QuoteService {
	return &QuoteService{}
}

// Quote computes fees and the derived summary values for a transfer.
// Logic:
//  1. Map the fee mode to its (payerRate, receiverRate) preset
//  2. Run the fee engine
//  3. YouPay = amount + payerFee, ReceiverGets = amount - receiverFee
//  4. Attach inline amount issues (required, per-transaction limits, balance)
//
// Amount issues do not fail the quote: the summary is still shown with the issue.
func (s *QuoteService) Quote(input QuoteInput) (*domain.PaymentSummary, error) {
	payerCurrency := domain.Currency(strings.ToUpper(string(input.PayerCurrency)))
	if payerCurrency == "" {
		payerCurrency = domain.CurrencyUSD
	}
	if !domain.IsSupportedPayerCurrency(payerCurrency) {
		return nil, domain.ErrUnsupportedCurrency
	}

	mode := input.FeeMode
	if mode == "" {
		mode = domain.FeeModePayer
	}

	amount := input.Amount
	payerRate, receiverRate := domain.RatesForMode(mode)
	fees := feecalc.CalculateFees(amount, payerRate, receiverRate)

	summary := &domain.PaymentSummary{
		Request: domain.TransferRequest{
			Amount:           amount,
			FeeMode:          mode,
			PayerCurrency:    payerCurrency,
			ReceiverCurrency: domain.ReferenceCurrency,
		},
		Fees:          fees,
		PayerRate:     payerRate,
		ReceiverRate:  receiverRate,
		Subtotal:      amount,
		AmountPayable: amount,
		YouPay:        amount.Add(fees.PayerFee),
		ReceiverGets:  amount.Sub(fees.ReceiverFee),
		ConversionFee: decimal.Zero,
	}

	if fees.IsBelowMinimum {
		summary.MinimumFeeDisplay = domain.MinServiceFee
	}

	// Conversion is 1:1 at a 0% conversion fee
	if payerCurrency != domain.ReferenceCurrency {
		summary.ConversionRate = fmt.Sprintf("1 %s = 1 %s", payerCurrency, domain.ReferenceCurrency)
		summary.ConversionFee = amount.Mul(domain.ConversionFeeRate)
	}

	summary.Issues = amountIssues(summary, input.Balance)

	return summary, nil
}

// amountIssues mirrors the inline errors of the amount field
func amountIssues(summary *domain.PaymentSummary, balance *decimal.Decimal) []domain.AmountIssue {
	amount := summary.Request.Amount
	issues := make([]domain.AmountIssue, 0)

	switch {
	case amount.LessThanOrEqual(decimal.Zero):
		issues = append(issues, domain.AmountIssue{
			Code:    domain.AmountIssueRequired,
			Message: "Amount is required",
		})
	case amount.LessThan(domain.MinTransactionAmount):
		issues = append(issues, domain.AmountIssue{
			Code:    domain.AmountIssueBelowMinimum,
			Message: fmt.Sprintf("Amount is below %s minimum per transaction", domain.MinTransactionAmount.StringFixed(0)),
		})
	case amount.GreaterThanOrEqual(domain.MaxTransactionAmount):
		issues = append(issues, domain.AmountIssue{
			Code:    domain.AmountIssueAboveMaximum,
			Message: fmt.Sprintf("Amount exceeds %s maximum per transaction", limitLabel(domain.MaxTransactionAmount)),
		})
	}

	if balance != nil && summary.YouPay.GreaterThan(*balance) {
		total := strings.TrimSuffix(domain.FormatAmount(summary.YouPay, summary.Request.PayerCurrency), " "+string(summary.Request.PayerCurrency))
		issues = append(issues, domain.AmountIssue{
			Code:    domain.AmountIssueInsufficientBalance,
			Message: fmt.Sprintf("Amount + fee (%s) exceeds balance", total),
		})
	}

	return issues
}

// limitLabel renders a limit without decimals, e.g. "1,000,000"
func limitLabel(limit decimal.Decimal) string {
	formatted := domain.FormatAmount(limit, "")
	return strings.TrimSuffix(strings.TrimSpace(formatted), ".00")
}
