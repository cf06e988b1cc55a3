package feecalc

import (
	"github.com/shopspring/decimal"
	"github.com/xrexb2b/payflow-backend/internal/domain"
)

// CalculateFees computes the service fee for an amount and splits it between payer and receiver.
// payerRate and receiverRate are shares of domain.TotalFeeRate and normally sum to it.
// Logic:
//  1. calculated = amount * TotalFeeRate
//  2. isBelowMinimum = amount is zero, OR 0 < calculated < MinServiceFee
//  3. actual = MinServiceFee when below minimum, otherwise calculated
//  4. Both rates zero means the fee is waived: payer and receiver fees are zero even
//     when the floor applies
//  5. Otherwise each party pays actual * (rate / TotalFeeRate)
//
// Pure: no validation and no rounding. Callers normalize raw input with domain.ParseAmount.
func CalculateFees(amount, payerRate, receiverRate decimal.Decimal) domain.FeeBreakdown {
	// Step 1: Proportional fee
	calculated := amount.Mul(domain.TotalFeeRate)

	// Step 2: Floor check
	isBelowMinimum := amount.IsZero() ||
		(calculated.GreaterThan(decimal.Zero) && calculated.LessThan(domain.MinServiceFee))

	// Step 3: Apply the floor
	actual := calculated
	if isBelowMinimum {
		actual = domain.MinServiceFee
	}

	breakdown := domain.FeeBreakdown{
		CalculatedServiceFee: calculated,
		ActualServiceFee:     actual,
		PayerFee:             decimal.Zero,
		ReceiverFee:          decimal.Zero,
		IsBelowMinimum:       isBelowMinimum,
	}

	// Step 4: Explicit waiver, the floor is not charged to anyone
	if payerRate.IsZero() && receiverRate.IsZero() {
		return breakdown
	}

	// Step 5: Distribute proportionally to each party's share of the total rate
	breakdown.PayerFee = actual.Mul(payerRate).Div(domain.TotalFeeRate)
	breakdown.ReceiverFee = actual.Mul(receiverRate).Div(domain.TotalFeeRate)

	return breakdown
}

// CalculateForMode is CalculateFees with the rate preset of a fee mode
func CalculateForMode(amount decimal.Decimal, mode domain.FeeMode) domain.FeeBreakdown {
	payerRate, receiverRate := domain.RatesForMode(mode)
	return CalculateFees(amount, payerRate, receiverRate)
}
