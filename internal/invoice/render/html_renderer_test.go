package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPaidConfirmation(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderPaidConfirmation(PaidConfirmation{
		CustomerName: "Ada <Lovelace>",
		Number:       "INV-2025-000001",
		Total:        1075,
		Currency:     "NGN",
		PaidAt:       time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Invoice Paid Confirmation")
	assert.Contains(t, html, "Ada &lt;Lovelace&gt;")
	assert.Contains(t, html, "Invoice INV-2025-000001")
	assert.Contains(t, html, "1075.00 NGN")
	assert.Contains(t, html, "2025-02-01 09:30 UTC")
	assert.Contains(t, html, "Thank you for your prompt payment.")
	assert.Contains(t, html, "The Finance Team")
}

func TestRenderPaidConfirmation_AnonymousGreeting(t *testing.T) {
	html, err := NewRenderer().RenderPaidConfirmation(PaidConfirmation{Number: "X", Currency: "USD"})
	require.NoError(t, err)
	assert.Contains(t, html, "<p>Hello,</p>")
}

func TestPaidConfirmationSubject(t *testing.T) {
	assert.Equal(t, "Invoice INV-1 marked as PAID", NewRenderer().PaidConfirmationSubject("INV-1"))
}
