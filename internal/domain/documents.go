package domain

import "strings"

// Nature is the nature of a payment, which drives the supporting documents required
type Nature string

const (
	NaturePreShipment  Nature = "pre_shipment"
	NaturePostShipment Nature = "post_shipment"
)

// Label returns the display label of the nature
func (n Nature) Label() string {
	switch n {
	case NaturePreShipment:
		return "Pre-shipment"
	case NaturePostShipment:
		return "Post-shipment"
	default:
		return ""
	}
}

// PurposeOthers is the purpose value that requires a free-text description
const PurposeOthers = "others"

// PreShipmentDocType is the single document uploaded for a pre-shipment payment
type PreShipmentDocType string

const (
	DocTypeProformaInvoice    PreShipmentDocType = "PI"
	DocTypePurchaseOrder      PreShipmentDocType = "PO"
	DocTypeCommercialContract PreShipmentDocType = "CC"
)

type preShipmentDoc struct {
	title       string
	numberLabel string
}

var preShipmentDocs = map[PreShipmentDocType]preShipmentDoc{
	DocTypeProformaInvoice:    {title: "Proforma invoice (PI)", numberLabel: "Proforma invoice number"},
	DocTypePurchaseOrder:      {title: "Purchase order (PO)", numberLabel: "Purchase order number"},
	DocTypeCommercialContract: {title: "Commercial contract (CC)", numberLabel: "Commercial contract number"},
}

// Post-shipment documents, each either uploaded or declared missing
const (
	DocCommercialInvoice = "Commercial invoice (CI)"
	DocTransport         = "Transport document"
	DocPackingList       = "Packing list"

	CommercialInvoiceNumberLabel = "Commercial invoice number"
)

// PostShipmentDocuments lists the post-shipment documents in display order
func PostShipmentDocuments() []string {
	return []string{DocCommercialInvoice, DocTransport, DocPackingList}
}

// DocumentDetail describes one attached document on a receipt
type DocumentDetail struct {
	Title    string `json:"title"`
	Declared bool   `json:"declared"` // true when declared missing instead of uploaded
}

// SupportingDocuments is what the user provided in the documents section of the form
type SupportingDocuments struct {
	DocType                 PreShipmentDocType
	PreShipmentUploaded     bool
	PreShipmentNumber       string
	CommercialInvoiceNumber string
	Notes                   string
	Uploaded                []string // post-shipment titles uploaded
	DeclaredMissing         []string // post-shipment titles declared missing
}

// ResolvedDocuments is the receipt-facing description of the supporting documents
type ResolvedDocuments struct {
	NumberLabel string
	Number      string
	Notes       string
	Attached    []string
	Details     []DocumentDetail
}

// ResolveDocuments checks the documents against the nature's requirements.
// Missing requirements are returned as field names.
func ResolveDocuments(nature Nature, docs SupportingDocuments) (ResolvedDocuments, []string) {
	resolved := ResolvedDocuments{Notes: strings.TrimSpace(docs.Notes)}
	var missing []string

	switch nature {
	case NaturePreShipment:
		doc, ok := preShipmentDocs[docs.DocType]
		if !ok {
			return resolved, []string{"docType"}
		}
		if !docs.PreShipmentUploaded {
			missing = append(missing, "docUpload")
		}
		resolved.Attached = []string{doc.title}
		resolved.Details = []DocumentDetail{{Title: doc.title, Declared: false}}
		resolved.NumberLabel = doc.numberLabel
		resolved.Number = docs.PreShipmentNumber

	case NaturePostShipment:
		uploaded := toSet(docs.Uploaded)
		declared := toSet(docs.DeclaredMissing)
		for _, title := range PostShipmentDocuments() {
			switch {
			case uploaded[title]:
				resolved.Attached = append(resolved.Attached, title)
				resolved.Details = append(resolved.Details, DocumentDetail{Title: title})
			case declared[title]:
				resolved.Attached = append(resolved.Attached, title)
				resolved.Details = append(resolved.Details, DocumentDetail{Title: title, Declared: true})
			default:
				missing = append(missing, title)
			}
		}
		resolved.NumberLabel = CommercialInvoiceNumberLabel
		resolved.Number = docs.CommercialInvoiceNumber

	default:
		missing = append(missing, "nature")
	}

	return resolved, missing
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
