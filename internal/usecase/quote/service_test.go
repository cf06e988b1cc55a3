package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrexb2b/payflow-backend/internal/domain"
)

func issueCodes(summary *domain.PaymentSummary) []domain.AmountIssueCode {
	codes := make([]domain.AmountIssueCode, 0, len(summary.Issues))
	for _, issue := range summary.Issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

func TestQuote_PayerPays(t *testing.T) {
	service := NewQuoteService()

	summary, err := service.Quote(QuoteInput{
		Amount:        decimal.NewFromInt(50000),
		FeeMode:       domain.FeeModePayer,
		PayerCurrency: domain.CurrencyUSD,
	})

	require.NoError(t, err)
	assert.True(t, summary.Fees.PayerFee.Equal(decimal.NewFromInt(250)))
	assert.True(t, summary.YouPay.Equal(decimal.NewFromInt(50250)))
	assert.True(t, summary.ReceiverGets.Equal(decimal.NewFromInt(50000)))
	assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(50000)))
	assert.True(t, summary.AmountPayable.Equal(decimal.NewFromInt(50000)))
	assert.True(t, summary.MinimumFeeDisplay.IsZero())
	assert.Equal(t, domain.ReferenceCurrency, summary.Request.ReceiverCurrency)
	assert.Empty(t, summary.ConversionRate)
	assert.False(t, summary.HasIssues())
}

func TestQuote_ReceiverPays(t *testing.T) {
	service := NewQuoteService()

	summary, err := service.Quote(QuoteInput{
		Amount:  decimal.NewFromInt(50000),
		FeeMode: domain.FeeModeReceiver,
	})

	require.NoError(t, err)
	assert.True(t, summary.YouPay.Equal(decimal.NewFromInt(50000)))
	assert.True(t, summary.ReceiverGets.Equal(decimal.NewFromInt(49750)))
	assert.Equal(t, domain.CurrencyUSD, summary.Request.PayerCurrency, "payer currency defaults to USD")
}

func TestQuote_SplitBelowFloor(t *testing.T) {
	service := NewQuoteService()

	summary, err := service.Quote(QuoteInput{
		Amount:  decimal.NewFromInt(1000),
		FeeMode: domain.FeeModeSplit,
	})

	require.NoError(t, err)
	assert.True(t, summary.Fees.IsBelowMinimum)
	assert.True(t, summary.MinimumFeeDisplay.Equal(domain.MinServiceFee))
	assert.True(t, summary.YouPay.Equal(decimal.RequireFromString("1012.5")))
	assert.True(t, summary.ReceiverGets.Equal(decimal.RequireFromString("987.5")))
}

func TestQuote_DefaultsToPayerMode(t *testing.T) {
	summary, err := NewQuoteService().Quote(QuoteInput{Amount: decimal.NewFromInt(10000)})

	require.NoError(t, err)
	assert.Equal(t, domain.FeeModePayer, summary.Request.FeeMode)
	assert.True(t, summary.PayerRate.Equal(domain.TotalFeeRate))
}

func TestQuote_USDTConversion(t *testing.T) {
	summary, err := NewQuoteService().Quote(QuoteInput{
		Amount:        decimal.NewFromInt(10000),
		PayerCurrency: "usdt",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyUSDT, summary.Request.PayerCurrency)
	assert.Equal(t, "1 USDT = 1 USD", summary.ConversionRate)
	assert.True(t, summary.ConversionFee.IsZero())
}

func TestQuote_UnsupportedCurrency(t *testing.T) {
	_, err := NewQuoteService().Quote(QuoteInput{
		Amount:        decimal.NewFromInt(10000),
		PayerCurrency: "EUR",
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedCurrency)
}

func TestQuote_AmountIssues(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   []domain.AmountIssueCode
	}{
		{name: "zero amount is required", amount: "0", want: []domain.AmountIssueCode{domain.AmountIssueRequired}},
		{name: "below per-transaction minimum", amount: "49.99", want: []domain.AmountIssueCode{domain.AmountIssueBelowMinimum}},
		{name: "minimum is allowed", amount: "50", want: []domain.AmountIssueCode{}},
		{name: "just under maximum", amount: "999999.99", want: []domain.AmountIssueCode{}},
		{name: "maximum is exclusive", amount: "1000000", want: []domain.AmountIssueCode{domain.AmountIssueAboveMaximum}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := NewQuoteService().Quote(QuoteInput{Amount: decimal.RequireFromString(tt.amount)})

			require.NoError(t, err)
			assert.Equal(t, tt.want, issueCodes(summary))
		})
	}
}

func TestQuote_IssueMessages(t *testing.T) {
	below, err := NewQuoteService().Quote(QuoteInput{Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "Amount is below 50 minimum per transaction", below.Issues[0].Message)

	above, err := NewQuoteService().Quote(QuoteInput{Amount: decimal.NewFromInt(2000000)})
	require.NoError(t, err)
	assert.Equal(t, "Amount exceeds 1,000,000 maximum per transaction", above.Issues[0].Message)
}

func TestQuote_InsufficientBalance(t *testing.T) {
	balance := decimal.NewFromInt(50100)

	summary, err := NewQuoteService().Quote(QuoteInput{
		Amount:  decimal.NewFromInt(50000),
		FeeMode: domain.FeeModePayer,
		Balance: &balance,
	})

	require.NoError(t, err)
	require.Len(t, summary.Issues, 1)
	assert.Equal(t, domain.AmountIssueInsufficientBalance, summary.Issues[0].Code)
	assert.Equal(t, "Amount + fee (50,250.00) exceeds balance", summary.Issues[0].Message)
}

func TestQuote_BalanceCoversReceiverPaidFee(t *testing.T) {
	balance := decimal.NewFromInt(50000)

	summary, err := NewQuoteService().Quote(QuoteInput{
		Amount:  decimal.NewFromInt(50000),
		FeeMode: domain.FeeModeReceiver,
		Balance: &balance,
	})

	require.NoError(t, err)
	assert.False(t, summary.HasIssues())
}
