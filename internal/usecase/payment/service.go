package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/progression"
	"github.com/xrexb2b/payflow-backend/internal/usecase/quote"
)

// SubmitPaymentInput represents the send-payment form as submitted from the review step
type SubmitPaymentInput struct {
	Amount        decimal.Decimal
	FeeMode       domain.FeeMode
	PayerCurrency domain.Currency
	Balance       *decimal.Decimal

	ReceiverName string
	ReceiverBank string

	// ConversionTermsAccepted must be set when the payer currency is not USD
	ConversionTermsAccepted bool

	Nature       domain.Nature
	Purpose      string
	PurposeOther string
	Documents    domain.SupportingDocuments

	// ReviewScenario forces a simulated review failure when set to a known scenario key
	ReviewScenario string
}

// PaymentService handles payment submission, confirmation and the read-only views built from the receipt
type PaymentService struct {
	ReceiptRepo  domain.ReceiptRepository
	Machine      *progression.Machine
	QuoteService *quote.QuoteService

	now func() time.Time
}

// NewPaymentService creates a new PaymentService instance
func NewPaymentService(
	receiptRepo domain.ReceiptRepository,
	machine *progression.Machine,
	quoteService *quote.QuoteService,
) *PaymentService {
	if quoteService == nil {
		quoteService = quote.NewQuoteService()
	}
	return &PaymentService{
		ReceiptRepo:  receiptRepo,
		Machine:      machine,
		QuoteService: quoteService,
		now:          time.Now,
	}
}

// Submit validates the payment form and captures the receipt for the session.
// Logic:
//  1. Recompute the summary (fees, you pay, receiver gets)
//  2. Validate amount issues, conversion terms, nature, purpose and supporting documents
//  3. If a review scenario is requested, fail with *domain.ReviewError; nothing is persisted
//  4. Build and save the receipt snapshot with status Processing
//  5. Advance the prototype to Payment submitted (state 4) unless it is already past it
func (s *PaymentService) Submit(ctx context.Context, sessionID string, input SubmitPaymentInput) (*domain.ReceiptData, error) {
	// 1. Recompute the summary
	summary, err := s.QuoteService.Quote(quote.QuoteInput{
		Amount:        input.Amount,
		FeeMode:       input.FeeMode,
		PayerCurrency: input.PayerCurrency,
		Balance:       input.Balance,
	})
	if err != nil {
		return nil, err
	}

	// 2. Validate the form
	var invalid []string
	if summary.HasIssues() {
		invalid = append(invalid, "amount")
	}
	if summary.Request.PayerCurrency != domain.ReferenceCurrency && !input.ConversionTermsAccepted {
		invalid = append(invalid, "conversionTerms")
	}

	purposeLabel, purposeFields := resolvePurpose(input.Purpose, input.PurposeOther)
	invalid = append(invalid, purposeFields...)

	docs, missing := domain.ResolveDocuments(input.Nature, input.Documents)
	invalid = append(invalid, missing...)

	var scenario *domain.ReviewScenario
	if key := strings.TrimSpace(input.ReviewScenario); key != "" {
		found, ok := domain.FindReviewScenario(key)
		if !ok {
			invalid = append(invalid, "reviewScenario")
		} else {
			scenario = &found
		}
	}

	if len(invalid) > 0 {
		return nil, &domain.ValidationError{Fields: invalid}
	}

	// 3. Simulated review failure
	if scenario != nil {
		return nil, &domain.ReviewError{Scenario: *scenario}
	}

	// 4. Build and save the receipt
	receipt := s.buildReceipt(summary, input, purposeLabel, docs)
	if err := s.ReceiptRepo.Save(ctx, sessionID, receipt); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	// 5. Advance the progression
	s.Machine.Update(ctx, func(current domain.PrototypeState) (int, bool) {
		return int(domain.StatePaymentSubmitted), current < domain.StatePaymentSubmitted
	})

	return receipt, nil
}

func resolvePurpose(purpose, other string) (string, []string) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return "", []string{"purpose"}
	}
	if purpose == domain.PurposeOthers {
		other = strings.TrimSpace(other)
		if other == "" {
			return "", []string{"purposeOther"}
		}
		return other, nil
	}
	return purpose, nil
}

func (s *PaymentService) buildReceipt(
	summary *domain.PaymentSummary,
	input SubmitPaymentInput,
	purposeLabel string,
	docs domain.ResolvedDocuments,
) *domain.ReceiptData {
	createdAt := s.now()

	receiverName := strings.TrimSpace(input.ReceiverName)
	if receiverName == "" {
		receiverName = domain.DefaultReceiverName
	}

	return &domain.ReceiptData{
		PaymentID:         newPaymentID(createdAt),
		ReceiverName:      receiverName,
		ReceiverBank:      strings.TrimSpace(input.ReceiverBank),
		AmountPayable:     summary.AmountPayable,
		PayerCurrency:     summary.Request.PayerCurrency,
		ReceiverCurrency:  summary.Request.ReceiverCurrency,
		FeeRate:           domain.TotalFeeRate,
		PayerFee:          summary.Fees.PayerFee,
		ReceiverFee:       summary.Fees.ReceiverFee,
		ToBeDeducted:      summary.YouPay,
		ReceiverGets:      summary.ReceiverGets,
		ServiceMinApplied: summary.Fees.IsBelowMinimum,
		ServiceMinAmount:  summary.Fees.ActualServiceFee,
		Conversion:        summary.ConversionRate,
		Nature:            input.Nature.Label(),
		Purpose:           purposeLabel,
		DocNumberLabel:    docs.NumberLabel,
		DocNumber:         strings.TrimSpace(docs.Number),
		DocNotes:          docs.Notes,
		AttachedDocs:      docs.Attached,
		DocsDetail:        docs.Details,
		CreatedAt:         createdAt,
		Status:            domain.ReceiptStatusProcessing,
	}
}

// newPaymentID returns an id shaped like PYT-20251118-f2d3fa4e
func newPaymentID(at time.Time) string {
	return fmt.Sprintf("PYT-%s-%s", at.Format("20060102"), uuid.NewString()[:8])
}

// ConfirmSent marks a submitted payment as sent.
// Logic:
//  1. Only allowed in Payment submitted (state 4)
//  2. Flip the session receipt to Sent when one exists
//  3. Move to Payment sent (state 5)
func (s *PaymentService) ConfirmSent(ctx context.Context, sessionID string) (domain.PrototypeState, error) {
	var confirmErr error
	state, ok := s.Machine.Update(ctx, func(current domain.PrototypeState) (int, bool) {
		if current != domain.StatePaymentSubmitted {
			confirmErr = domain.ErrTransitionNotAllowed
			return 0, false
		}
		if err := s.markSent(ctx, sessionID); err != nil {
			confirmErr = err
			return 0, false
		}
		return int(domain.StatePaymentSent), true
	})
	if !ok {
		return state, confirmErr
	}
	return state, nil
}

// markSent flips the session receipt to Sent when one exists
func (s *PaymentService) markSent(ctx context.Context, sessionID string) error {
	receipt, err := s.ReceiptRepo.Get(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrReceiptNotFound):
		// The state switcher can reach state 4 without a submission
		return nil
	case err != nil:
		return fmt.Errorf("failed to load receipt: %w", err)
	}

	receipt.Status = domain.ReceiptStatusSent
	if err := s.ReceiptRepo.Save(ctx, sessionID, receipt); err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	return nil
}

// GetReceipt returns the receipt captured for the session
func (s *PaymentService) GetReceipt(ctx context.Context, sessionID string) (*domain.ReceiptData, error) {
	return s.ReceiptRepo.Get(ctx, sessionID)
}

// ListTransactions returns the payments tab of the transactions list.
// Before a payment is submitted (state 3 and below) the list is empty.
// Afterwards it shows one row built from the session receipt, or from the demo defaults
// when the state was reached without a submission.
func (s *PaymentService) ListTransactions(ctx context.Context, sessionID string) ([]domain.TransactionRow, error) {
	state := s.Machine.Get()
	if state < domain.StatePaymentSubmitted {
		return []domain.TransactionRow{}, nil
	}

	row := domain.TransactionRow{
		Title:      domain.DefaultReceiverName,
		Amount:     domain.DefaultAmount,
		Purpose:    domain.DefaultPurpose,
		PurposeSub: domain.DefaultDocNumber,
		DateTime:   domain.DefaultDateTime,
		Status:     domain.ReceiptStatusProcessing,
	}
	if state >= domain.StatePaymentSent {
		row.Status = domain.ReceiptStatusSent
	}

	receipt, err := s.ReceiptRepo.Get(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrReceiptNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load receipt: %w", err)
	default:
		applyReceipt(&row, receipt)
	}

	return []domain.TransactionRow{row}, nil
}

func applyReceipt(row *domain.TransactionRow, receipt *domain.ReceiptData) {
	if receipt.ReceiverName != "" {
		row.Title = receipt.ReceiverName
	}
	if receipt.ReceiverCurrency != "" {
		row.Amount = receipt.AmountPayableFormatted()
	}
	if receipt.Nature != "" {
		row.Purpose = receipt.Nature
	}
	if receipt.DocNumber != "" {
		row.PurposeSub = receipt.DocNumber
	}
	if !receipt.CreatedAt.IsZero() {
		row.DateTime = receipt.CreatedAt.Format(domain.ReceiptDateTimeLayout)
	}
}
