package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoice(t *testing.T) {
	doc, err := New().GenerateInvoice(context.Background(), InvoiceData{
		BusinessName:  "Acme Ltd",
		InvoiceNumber: "INV-2025-000001",
		IssueDate:     "2025-01-01",
		Status:        "UNPAID",
		PaymentMethod: "OTHER",
		BillToName:    "Jane",
		Items: []InvoiceItem{
			{Name: "Consulting", Qty: "2", UnitPrice: "500.00", Amount: "1000.00"},
		},
		Subtotal: "1000.00",
		VatLabel: "VAT (7.5%)",
		Vat:      "75.00",
		Total:    "1075.00",
		Notes:    "Thanks",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerateInvoice_RequiresNumber(t *testing.T) {
	_, err := New().GenerateInvoice(context.Background(), InvoiceData{})
	assert.ErrorIs(t, err, ErrEmptyInvoice)
}
