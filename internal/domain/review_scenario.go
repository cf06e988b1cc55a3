package domain

// ReviewFailedSnackbar is shown whenever a simulated submission fails
const ReviewFailedSnackbar = "Payment failed: No charge applied"

// ReviewScenario is a simulated backend failure the review step can be forced into
type ReviewScenario struct {
	Key            string
	Title          string
	BadgeLabel     string
	Snackbar       string
	DisablePrimary bool
	AlertMessage   string
}

var reviewScenarios = []ReviewScenario{
	{Key: "create-unexpected", Title: "10001 Unexpected error (Connection timed out)", BadgeLabel: "Unexpected error"},
	{Key: "api-general", Title: "10015 API error (API timed out)", BadgeLabel: "General API error"},
	{
		Key:          "kyc-status",
		Title:        "202512 KYC status error",
		BadgeLabel:   "KYC blocked",
		AlertMessage: "Your KYC status is not approved. Please complete verification before using payments.",
	},
	{Key: "cp-bank-invalid", Title: "202512 Payout create failed (Receiver bank account is not valid)", BadgeLabel: "Bank invalid"},
	{Key: "cp-invalid", Title: "202512 Payout create failed (Counterparty is not valid)", BadgeLabel: "Counterparty invalid"},
	{Key: "doc-not-found", Title: "202512 Payout create failed (Document not found for documentUploadId: XXX)", BadgeLabel: "Document missing"},
	{Key: "doc-pre-required", Title: "202512 Payout create failed (pre-shipment requires file PROFORMA_INVOICE or PURCHASE_ORDER)", BadgeLabel: "Pre-shipment doc"},
	{Key: "doc-post-ci", Title: "202512 Payout create failed (post-shipment requires file COMMERCIAL_INVOICE)", BadgeLabel: "Commercial invoice"},
	{Key: "doc-post-transport", Title: "202512 Payout create failed (post-shipment requires file TRANSPORT_DOCUMENT)", BadgeLabel: "Transport document"},
	{Key: "doc-post-packing", Title: "202512 Payout create failed (post-shipment requires file PACKING_LIST)", BadgeLabel: "Packing list"},
	{Key: "order-preview-amount", Title: "202512 Payout create failed (preview amount is not correct)", BadgeLabel: "Preview amount"},
	{Key: "order-preview-fee", Title: "202512 Payout create failed (preview fee amount is not correct)", BadgeLabel: "Preview fee"},
	{Key: "order-payable-range", Title: "202512 Payout create failed (payable amount should between min/max limit)", BadgeLabel: "Out of range"},
	{Key: "order-fee-rate", Title: "202512 Payout create failed (fee rate is not correct)", BadgeLabel: "Fee rate mismatch"},
}

func init() {
	for i := range reviewScenarios {
		reviewScenarios[i].Snackbar = ReviewFailedSnackbar
		reviewScenarios[i].DisablePrimary = true
	}
}

// ReviewScenarios returns a copy of the scenario catalog in display order
func ReviewScenarios() []ReviewScenario {
	out := make([]ReviewScenario, len(reviewScenarios))
	copy(out, reviewScenarios)
	return out
}

// FindReviewScenario looks a scenario up by key
func FindReviewScenario(key string) (ReviewScenario, bool) {
	for _, s := range reviewScenarios {
		if s.Key == key {
			return s, true
		}
	}
	return ReviewScenario{}, false
}
