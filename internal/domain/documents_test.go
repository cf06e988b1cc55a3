package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDocuments_PreShipment(t *testing.T) {
	resolved, missing := ResolveDocuments(NaturePreShipment, SupportingDocuments{
		DocType:             DocTypePurchaseOrder,
		PreShipmentUploaded: true,
		PreShipmentNumber:   "PO-778",
		Notes:               "  partial shipment ",
	})

	assert.Empty(t, missing)
	assert.Equal(t, []string{"Purchase order (PO)"}, resolved.Attached)
	assert.Equal(t, []DocumentDetail{{Title: "Purchase order (PO)"}}, resolved.Details)
	assert.Equal(t, "Purchase order number", resolved.NumberLabel)
	assert.Equal(t, "PO-778", resolved.Number)
	assert.Equal(t, "partial shipment", resolved.Notes)
}

func TestResolveDocuments_PreShipmentMissingType(t *testing.T) {
	_, missing := ResolveDocuments(NaturePreShipment, SupportingDocuments{PreShipmentUploaded: true})
	assert.Equal(t, []string{"docType"}, missing)
}

func TestResolveDocuments_PreShipmentNotUploaded(t *testing.T) {
	_, missing := ResolveDocuments(NaturePreShipment, SupportingDocuments{DocType: DocTypeProformaInvoice})
	assert.Equal(t, []string{"docUpload"}, missing)
}

func TestResolveDocuments_PostShipment(t *testing.T) {
	resolved, missing := ResolveDocuments(NaturePostShipment, SupportingDocuments{
		CommercialInvoiceNumber: "CI-42",
		Uploaded:                []string{DocCommercialInvoice, DocPackingList},
		DeclaredMissing:         []string{DocTransport},
	})

	assert.Empty(t, missing)
	assert.Equal(t, []string{DocCommercialInvoice, DocTransport, DocPackingList}, resolved.Attached)
	assert.Equal(t, []DocumentDetail{
		{Title: DocCommercialInvoice},
		{Title: DocTransport, Declared: true},
		{Title: DocPackingList},
	}, resolved.Details)
	assert.Equal(t, CommercialInvoiceNumberLabel, resolved.NumberLabel)
	assert.Equal(t, "CI-42", resolved.Number)
}

func TestResolveDocuments_PostShipmentMissing(t *testing.T) {
	_, missing := ResolveDocuments(NaturePostShipment, SupportingDocuments{
		Uploaded: []string{DocCommercialInvoice},
	})
	assert.Equal(t, []string{DocTransport, DocPackingList}, missing)
}

func TestResolveDocuments_NoNature(t *testing.T) {
	_, missing := ResolveDocuments("", SupportingDocuments{})
	assert.Equal(t, []string{"nature"}, missing)
}
