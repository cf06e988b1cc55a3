package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FeeMode represents which party absorbs the service fee
type FeeMode string

const (
	FeeModePayer    FeeMode = "PAYER"
	FeeModeReceiver FeeMode = "RECEIVER"
	FeeModeSplit    FeeMode = "SPLIT"
)

var (
	// TotalFeeRate is the service fee rate charged on the transfer amount (0.5%)
	TotalFeeRate = decimal.RequireFromString("0.005")

	// MinServiceFee is the absolute floor applied when the proportional fee is too small
	MinServiceFee = decimal.NewFromInt(25)
)

// FeeBreakdown is the result of a fee calculation.
// Values are exact; rounding is a presentation concern.
type FeeBreakdown struct {
	CalculatedServiceFee decimal.Decimal // amount * TotalFeeRate, before the floor
	ActualServiceFee     decimal.Decimal // MinServiceFee when IsBelowMinimum, otherwise CalculatedServiceFee
	PayerFee             decimal.Decimal
	ReceiverFee          decimal.Decimal
	IsBelowMinimum       bool
}

// ParseFeeMode maps an enum name or a prototype radio value ("you", "receiver", "split")
// to a FeeMode. Unknown values fall back to FeeModePayer, the prototype's default selection.
func ParseFeeMode(raw string) FeeMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "receiver", "payee":
		return FeeModeReceiver
	case "split", "share", "shared":
		return FeeModeSplit
	default:
		return FeeModePayer
	}
}

// RatesForMode returns the (payerRate, receiverRate) preset for a fee mode.
// The two rates always sum to TotalFeeRate.
func RatesForMode(mode FeeMode) (decimal.Decimal, decimal.Decimal) {
	switch mode {
	case FeeModeReceiver:
		return decimal.Zero, TotalFeeRate
	case FeeModeSplit:
		half := TotalFeeRate.Div(decimal.NewFromInt(2))
		return half, half
	default:
		return TotalFeeRate, decimal.Zero
	}
}

// ParseAmount normalizes user input into an amount.
// Thousands separators are stripped; empty or unparsable input yields zero.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
