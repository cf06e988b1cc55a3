package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is an ISO-like currency code
type Currency string

const (
	CurrencyUSD  Currency = "USD"
	CurrencyUSDT Currency = "USDT"

	// ReferenceCurrency is the only currency a receiver can be paid in
	ReferenceCurrency = CurrencyUSD
)

// IsSupportedPayerCurrency reports whether a payer account can be debited in this currency
func IsSupportedPayerCurrency(c Currency) bool {
	return c == CurrencyUSD || c == CurrencyUSDT
}

var (
	// MinTransactionAmount is the smallest amount accepted per transaction
	MinTransactionAmount = decimal.NewFromInt(50)

	// MaxTransactionAmount is the exclusive upper limit per transaction
	MaxTransactionAmount = decimal.NewFromInt(1000000)

	// ConversionFeeRate is charged when the payer currency differs from the reference currency
	ConversionFeeRate = decimal.Zero
)

// AmountIssueCode identifies a problem with the entered amount
type AmountIssueCode string

const (
	AmountIssueRequired            AmountIssueCode = "AMOUNT_REQUIRED"
	AmountIssueBelowMinimum        AmountIssueCode = "AMOUNT_BELOW_MINIMUM"
	AmountIssueAboveMaximum        AmountIssueCode = "AMOUNT_ABOVE_MAXIMUM"
	AmountIssueInsufficientBalance AmountIssueCode = "INSUFFICIENT_BALANCE"
)

// AmountIssue is an inline validation message attached to a payment summary
type AmountIssue struct {
	Code    AmountIssueCode
	Message string
}

// TransferRequest is the input of a summary recalculation
type TransferRequest struct {
	Amount           decimal.Decimal
	FeeMode          FeeMode
	PayerCurrency    Currency
	ReceiverCurrency Currency
}

// PaymentSummary is the "Amount and fees" panel derived from a TransferRequest
type PaymentSummary struct {
	Request           TransferRequest
	Fees              FeeBreakdown
	PayerRate         decimal.Decimal
	ReceiverRate      decimal.Decimal
	Subtotal          decimal.Decimal // amount before fees
	AmountPayable     decimal.Decimal // in receiver currency
	YouPay            decimal.Decimal // amount + payer fee, in payer currency
	ReceiverGets      decimal.Decimal // amount - receiver fee, in receiver currency
	ConversionRate    string          // e.g. "1 USDT = 1 USD", empty when no conversion applies
	ConversionFee     decimal.Decimal
	MinimumFeeDisplay decimal.Decimal // MinServiceFee when the floor applies, zero otherwise
	Issues            []AmountIssue
}

// HasIssues reports whether the summary carries any amount validation issue
func (s *PaymentSummary) HasIssues() bool {
	return len(s.Issues) > 0
}

// FeeRatePercent returns the total fee rate as a percentage label (e.g. "0.50%")
func FeeRatePercent() string {
	return TotalFeeRate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with two decimals and thousands separators, e.g. "50,000.00 USD".
// Cents come from the exact decimal; only the whole part goes through the locale printer.
func FormatAmount(value decimal.Decimal, currency Currency) string {
	rounded := value.Round(2)
	whole, cents, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	grouped := whole
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		grouped = amountPrinter.Sprint(number.Decimal(n))
	}

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%s %s", sign, grouped, cents, currency)
}
