package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/quote"
)

func TestQuoteRequest_ToInput(t *testing.T) {
	input, err := QuoteRequest{
		Amount:        "50,000.00",
		FeeMode:       "share",
		PayerCurrency: "USDT",
		Balance:       "120,000",
	}.ToInput()

	require.NoError(t, err)
	assert.True(t, input.Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, domain.FeeModeSplit, input.FeeMode)
	assert.Equal(t, domain.CurrencyUSDT, input.PayerCurrency)
	require.NotNil(t, input.Balance)
	assert.True(t, input.Balance.Equal(decimal.NewFromInt(120000)))
}

func TestQuoteRequest_ToInputInvalidValues(t *testing.T) {
	input, err := QuoteRequest{Amount: "abc"}.ToInput()
	require.NoError(t, err)
	assert.True(t, input.Amount.IsZero(), "unparsable amounts become zero")
	assert.Nil(t, input.Balance)

	_, err = QuoteRequest{Amount: "100", Balance: "lots"}.ToInput()
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestSetStateRequest_RawState(t *testing.T) {
	tests := []struct {
		state interface{}
		want  string
	}{
		{state: nil, want: ""},
		{state: "4", want: "4"},
		{state: float64(3), want: "3"},
		{state: 2.7, want: "2.7"},
		{state: true, want: "true"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SetStateRequest{State: tt.state}.RawState())
	}
}

func TestNewQuoteResponse(t *testing.T) {
	summary, err := quote.NewQuoteService().Quote(quote.QuoteInput{
		Amount:  decimal.NewFromInt(1000),
		FeeMode: domain.FeeModeSplit,
	})
	require.NoError(t, err)

	resp := NewQuoteResponse(summary)

	assert.Equal(t, "1000.00", resp.Amount)
	assert.Equal(t, "SPLIT", resp.FeeMode)
	assert.Equal(t, "0.50%", resp.FeeRate)
	assert.Equal(t, "5.00", resp.CalculatedServiceFee)
	assert.Equal(t, "25.00", resp.ActualServiceFee)
	assert.Equal(t, "12.50", resp.PayerFee)
	assert.Equal(t, "12.50", resp.ReceiverFee)
	assert.True(t, resp.IsBelowMinimum)
	assert.Equal(t, "25.00", resp.MinimumFee)
	assert.Equal(t, "1,012.50 USD", resp.YouPayFormatted)
	assert.Equal(t, "987.50 USD", resp.ReceiverGetsFormatted)
	assert.Empty(t, resp.Issues)
}

func TestSubmitPaymentRequest_ToInput(t *testing.T) {
	req := SubmitPaymentRequest{
		QuoteRequest: QuoteRequest{Amount: "2500", FeeMode: "receiver"},
		ReceiverName: "Acme Trading Ltd.",
		Nature:       "post_shipment",
		Purpose:      "others",
		PurposeOther: "Tooling deposit",
		Documents: DocumentsRequest{
			CommercialInvoiceNumber: "CI-7781",
			Uploaded:                []string{domain.DocCommercialInvoice},
			DeclaredMissing:         []string{domain.DocTransport, domain.DocPackingList},
		},
		ReviewScenario: "doc-post-ci",
	}

	input, err := req.ToInput()

	require.NoError(t, err)
	assert.True(t, input.Amount.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, domain.FeeModeReceiver, input.FeeMode)
	assert.Equal(t, domain.NaturePostShipment, input.Nature)
	assert.Equal(t, "CI-7781", input.Documents.CommercialInvoiceNumber)
	assert.Equal(t, []string{domain.DocTransport, domain.DocPackingList}, input.Documents.DeclaredMissing)
	assert.Equal(t, "doc-post-ci", input.ReviewScenario)
}

func TestNewReceiptResponse(t *testing.T) {
	resp := NewReceiptResponse(&domain.ReceiptData{
		AmountPayable:    decimal.NewFromInt(50000),
		ReceiverCurrency: domain.CurrencyUSD,
		FeeRate:          domain.TotalFeeRate,
		CreatedAt:        time.Date(2025, 11, 25, 15, 19, 9, 0, time.UTC),
	})

	assert.Equal(t, "50,000.00 USD", resp.AmountPayableFormatted)
	assert.Equal(t, "0.50%", resp.FeePercent)
	assert.Equal(t, "25/11/2025, 15:19:09", resp.DateTimeFormatted)
}

func TestNewTransactionsResponse_EmptyIsNotNil(t *testing.T) {
	resp := NewTransactionsResponse(nil)

	assert.NotNil(t, resp.Transactions)
	assert.Empty(t, resp.Transactions)
}
