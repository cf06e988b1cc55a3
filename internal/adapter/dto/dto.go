// Package dto holds the JSON shapes shared by the HTTP API and the gRPC service.
// gRPC carries the same documents as google.protobuf.Struct messages.
package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/payment"
	"github.com/xrexb2b/payflow-backend/internal/usecase/quote"
)

// QuoteRequest is the amount section of the send-payment form
type QuoteRequest struct {
	Amount        string `json:"amount"`
	FeeMode       string `json:"feeMode,omitempty"`
	PayerCurrency string `json:"payerCurrency,omitempty"`
	Balance       string `json:"balance,omitempty"`
}

// ToInput converts the request to a quote input.
// Unparsable amounts become zero and surface as AMOUNT_REQUIRED; an unparsable balance is an error.
func (r QuoteRequest) ToInput() (quote.QuoteInput, error) {
	input := quote.QuoteInput{
		Amount:        domain.ParseAmount(r.Amount),
		PayerCurrency: domain.Currency(r.PayerCurrency),
	}
	if r.FeeMode != "" {
		input.FeeMode = domain.ParseFeeMode(r.FeeMode)
	}

	if strings.TrimSpace(r.Balance) != "" {
		balance, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(r.Balance), ",", ""))
		if err != nil {
			return quote.QuoteInput{}, fmt.Errorf("%w: balance %q", domain.ErrInvalidAmount, r.Balance)
		}
		input.Balance = &balance
	}

	return input, nil
}

// AmountIssue is an inline amount validation message
type AmountIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QuoteResponse is the "Amount and fees" panel
type QuoteResponse struct {
	Amount                string        `json:"amount"`
	FeeMode               string        `json:"feeMode"`
	PayerCurrency         string        `json:"payerCurrency"`
	ReceiverCurrency      string        `json:"receiverCurrency"`
	FeeRate               string        `json:"feeRate"`
	PayerRate             string        `json:"payerRate"`
	ReceiverRate          string        `json:"receiverRate"`
	CalculatedServiceFee  string        `json:"calculatedServiceFee"`
	ActualServiceFee      string        `json:"actualServiceFee"`
	PayerFee              string        `json:"payerFee"`
	ReceiverFee           string        `json:"receiverFee"`
	IsBelowMinimum        bool          `json:"isBelowMinimum"`
	MinimumFee            string        `json:"minimumFee"`
	Subtotal              string        `json:"subtotal"`
	AmountPayable         string        `json:"amountPayable"`
	YouPay                string        `json:"youPay"`
	ReceiverGets          string        `json:"receiverGets"`
	YouPayFormatted       string        `json:"youPayFmt"`
	ReceiverGetsFormatted string        `json:"receiverGetsFmt"`
	ConversionRate        string        `json:"conversionRate,omitempty"`
	ConversionFee         string        `json:"conversionFee"`
	Issues                []AmountIssue `json:"issues"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NewQuoteResponse renders a payment summary
func NewQuoteResponse(s *domain.PaymentSummary) QuoteResponse {
	issues := make([]AmountIssue, 0, len(s.Issues))
	for _, issue := range s.Issues {
		issues = append(issues, AmountIssue{Code: string(issue.Code), Message: issue.Message})
	}

	return QuoteResponse{
		Amount:                money(s.Request.Amount),
		FeeMode:               string(s.Request.FeeMode),
		PayerCurrency:         string(s.Request.PayerCurrency),
		ReceiverCurrency:      string(s.Request.ReceiverCurrency),
		FeeRate:               domain.FeeRatePercent(),
		PayerRate:             s.PayerRate.String(),
		ReceiverRate:          s.ReceiverRate.String(),
		CalculatedServiceFee:  money(s.Fees.CalculatedServiceFee),
		ActualServiceFee:      money(s.Fees.ActualServiceFee),
		PayerFee:              money(s.Fees.PayerFee),
		ReceiverFee:           money(s.Fees.ReceiverFee),
		IsBelowMinimum:        s.Fees.IsBelowMinimum,
		MinimumFee:            money(s.MinimumFeeDisplay),
		Subtotal:              money(s.Subtotal),
		AmountPayable:         money(s.AmountPayable),
		YouPay:                money(s.YouPay),
		ReceiverGets:          money(s.ReceiverGets),
		YouPayFormatted:       domain.FormatAmount(s.YouPay, s.Request.PayerCurrency),
		ReceiverGetsFormatted: domain.FormatAmount(s.ReceiverGets, s.Request.ReceiverCurrency),
		ConversionRate:        s.ConversionRate,
		ConversionFee:         money(s.ConversionFee),
		Issues:                issues,
	}
}

// StateResponse describes the prototype state
type StateResponse struct {
	State     int        `json:"state"`
	Label     string     `json:"label"`
	Attribute string     `json:"attribute"`
	ChangedAt *time.Time `json:"changedAt,omitempty"`
}

// NewStateResponse renders a state
func NewStateResponse(state domain.PrototypeState) StateResponse {
	return StateResponse{
		State:     int(state),
		Label:     state.Label(),
		Attribute: state.Attribute(),
	}
}

// NewStateChangeResponse renders a broadcast state change
func NewStateChangeResponse(change domain.StateChange) StateResponse {
	changedAt := change.ChangedAt
	return StateResponse{
		State:     int(change.State),
		Label:     change.Label,
		Attribute: change.Attribute,
		ChangedAt: &changedAt,
	}
}

// SetStateRequest sets the state. State accepts a number or a string; anything without a
// leading integer resets to state 1.
type SetStateRequest struct {
	State interface{} `json:"state"`
	Force bool        `json:"force,omitempty"`
}

// RawState returns the state value as text
func (r SetStateRequest) RawState() string {
	switch v := r.State.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return fmt.Sprint(v)
	}
}

// ChangeStateRequest moves the state by Delta
type ChangeStateRequest struct {
	Delta int `json:"delta"`
}

// DocumentsRequest is the supporting documents section of the form
type DocumentsRequest struct {
	DocType                 string   `json:"docType,omitempty"`
	PreShipmentUploaded     bool     `json:"preShipmentUploaded,omitempty"`
	PreShipmentNumber       string   `json:"preShipmentNumber,omitempty"`
	CommercialInvoiceNumber string   `json:"commercialInvoiceNumber,omitempty"`
	Notes                   string   `json:"notes,omitempty"`
	Uploaded                []string `json:"uploaded,omitempty"`
	DeclaredMissing         []string `json:"declaredMissing,omitempty"`
}

// SubmitPaymentRequest is the full send-payment form
type SubmitPaymentRequest struct {
	QuoteRequest
	ReceiverName            string           `json:"receiverName,omitempty"`
	ReceiverBank            string           `json:"receiverBank,omitempty"`
	ConversionTermsAccepted bool             `json:"conversionTermsAccepted,omitempty"`
	Nature                  string           `json:"nature"`
	Purpose                 string           `json:"purpose"`
	PurposeOther            string           `json:"purposeOther,omitempty"`
	Documents               DocumentsRequest `json:"documents"`
	ReviewScenario          string           `json:"reviewScenario,omitempty"`
}

// ToInput converts the request to a payment submission
func (r SubmitPaymentRequest) ToInput() (payment.SubmitPaymentInput, error) {
	q, err := r.QuoteRequest.ToInput()
	if err != nil {
		return payment.SubmitPaymentInput{}, err
	}

	return payment.SubmitPaymentInput{
		Amount:                  q.Amount,
		FeeMode:                 q.FeeMode,
		PayerCurrency:           q.PayerCurrency,
		Balance:                 q.Balance,
		ReceiverName:            r.ReceiverName,
		ReceiverBank:            r.ReceiverBank,
		ConversionTermsAccepted: r.ConversionTermsAccepted,
		Nature:                  domain.Nature(r.Nature),
		Purpose:                 r.Purpose,
		PurposeOther:            r.PurposeOther,
		Documents: domain.SupportingDocuments{
			DocType:                 domain.PreShipmentDocType(r.Documents.DocType),
			PreShipmentUploaded:     r.Documents.PreShipmentUploaded,
			PreShipmentNumber:       r.Documents.PreShipmentNumber,
			CommercialInvoiceNumber: r.Documents.CommercialInvoiceNumber,
			Notes:                   r.Documents.Notes,
			Uploaded:                r.Documents.Uploaded,
			DeclaredMissing:         r.Documents.DeclaredMissing,
		},
		ReviewScenario: r.ReviewScenario,
	}, nil
}

// ReceiptResponse is the stored receipt plus its display strings
type ReceiptResponse struct {
	*domain.ReceiptData
	AmountPayableFormatted string `json:"amountPayableFmt"`
	FeePercent             string `json:"feePct"`
	DateTimeFormatted      string `json:"dateTimeFmt"`
}

// NewReceiptResponse renders a receipt
func NewReceiptResponse(r *domain.ReceiptData) ReceiptResponse {
	return ReceiptResponse{
		ReceiptData:            r,
		AmountPayableFormatted: r.AmountPayableFormatted(),
		FeePercent:             r.FeeRate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%",
		DateTimeFormatted:      r.CreatedAt.Format(domain.ReceiptDateTimeLayout),
	}
}

// SubmitPaymentResponse is returned after a successful submission
type SubmitPaymentResponse struct {
	Receipt ReceiptResponse `json:"receipt"`
	State   StateResponse   `json:"state"`
}

// TransactionRow is one row of the payments tab
type TransactionRow struct {
	Title      string `json:"title"`
	Amount     string `json:"amount"`
	Purpose    string `json:"purpose"`
	PurposeSub string `json:"purposeSub"`
	DateTime   string `json:"dateTime"`
	Status     string `json:"status"`
}

// TransactionsResponse lists the payments tab
type TransactionsResponse struct {
	Transactions []TransactionRow `json:"transactions"`
}

// NewTransactionsResponse renders transaction rows
func NewTransactionsResponse(rows []domain.TransactionRow) TransactionsResponse {
	out := make([]TransactionRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, TransactionRow{
			Title:      row.Title,
			Amount:     row.Amount,
			Purpose:    row.Purpose,
			PurposeSub: row.PurposeSub,
			DateTime:   row.DateTime,
			Status:     string(row.Status),
		})
	}
	return TransactionsResponse{Transactions: out}
}

// ReviewFailure describes a simulated review failure
type ReviewFailure struct {
	Key            string `json:"key"`
	Title          string `json:"title"`
	BadgeLabel     string `json:"badgeLabel"`
	Snackbar       string `json:"snackbar"`
	DisablePrimary bool   `json:"disablePrimary"`
	AlertMessage   string `json:"alertMessage,omitempty"`
}

// NewReviewFailure renders a review scenario
func NewReviewFailure(s domain.ReviewScenario) ReviewFailure {
	return ReviewFailure{
		Key:            s.Key,
		Title:          s.Title,
		BadgeLabel:     s.BadgeLabel,
		Snackbar:       s.Snackbar,
		DisablePrimary: s.DisablePrimary,
		AlertMessage:   s.AlertMessage,
	}
}

// ErrorResponse is the body of a failed HTTP request
type ErrorResponse struct {
	Error  string         `json:"error"`
	Fields []string       `json:"fields,omitempty"`
	Review *ReviewFailure `json:"review,omitempty"`
}
