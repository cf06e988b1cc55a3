package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptStatus is the payment status shown on the receipt and in the transactions list
type ReceiptStatus string

const (
	ReceiptStatusProcessing ReceiptStatus = "Processing"
	ReceiptStatusSent       ReceiptStatus = "Sent"
)

// ReceiptData is the session-scoped snapshot of a payment summary captured on submission.
// Later screens (review, transactions) read it back for display only.
type ReceiptData struct {
	PaymentID         string           `json:"paymentId"`
	ReceiverName      string           `json:"receiverName"`
	ReceiverBank      string           `json:"receiverBank"`
	AmountPayable     decimal.Decimal  `json:"amountPayable"`
	PayerCurrency     Currency         `json:"payerCurrency"`
	ReceiverCurrency  Currency         `json:"receiverCurrency"`
	FeeRate           decimal.Decimal  `json:"feeRate"`
	PayerFee          decimal.Decimal  `json:"payerFee"`
	ReceiverFee       decimal.Decimal  `json:"receiverFee"`
	ToBeDeducted      decimal.Decimal  `json:"toBeDeducted"`
	ReceiverGets      decimal.Decimal  `json:"receiverGets"`
	ServiceMinApplied bool             `json:"serviceMinApplied"`
	ServiceMinAmount  decimal.Decimal  `json:"serviceMinAmount"`
	Conversion        string           `json:"conversion"`
	Nature            string           `json:"nature"`
	Purpose           string           `json:"purpose"`
	DocNumberLabel    string           `json:"docNumLabel"`
	DocNumber         string           `json:"docNumber"`
	DocNotes          string           `json:"docNotes"`
	AttachedDocs      []string         `json:"attachedDocs"`
	DocsDetail        []DocumentDetail `json:"docsDetail"`
	CreatedAt         time.Time        `json:"dateTime"`
	Status            ReceiptStatus    `json:"status"`
}

// AmountPayableFormatted renders the payable amount in the receiver currency
func (r *ReceiptData) AmountPayableFormatted() string {
	return FormatAmount(r.AmountPayable, r.ReceiverCurrency)
}

// TransactionRow is one row of the payments tab in the transactions list
type TransactionRow struct {
	Title      string
	Amount     string
	Purpose    string
	PurposeSub string
	DateTime   string
	Status     ReceiptStatus
}

// Defaults used by the transactions list when no receipt was captured in the session
const (
	DefaultReceiverName = "Delta Electronics, Inc."
	DefaultAmount       = "50,000.00 USD"
	DefaultPurpose      = "Goods purchase"
	DefaultDocNumber    = "PI-001234"
	DefaultDateTime     = "25/11/2025, 15:19:09"

	// ReceiptDateTimeLayout matches the en-GB locale string used on receipts
	ReceiptDateTimeLayout = "02/01/2006, 15:04:05"
)
