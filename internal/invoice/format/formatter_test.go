package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumber(t *testing.T) {
	issued := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		template string
		seq      int64
		want     string
	}{
		{template: DefaultInvoiceNumberTemplate, seq: 1, want: "INV-2025-000001"},
		{template: "INV-{YY}{MM}{DD}-{SEQ}", seq: 42, want: "INV-250307-42"},
		{template: "{YYYY}/{SEQ3}", seq: 1234, want: "2025/1234"},
	}
	for _, tc := range cases {
		got, err := FormatInvoiceNumber(tc.template, issued, tc.seq)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestFormatInvoiceNumber_Errors(t *testing.T) {
	issued := time.Now()

	_, err := FormatInvoiceNumber("", issued, 1)
	assert.ErrorIs(t, err, ErrEmptyTemplate)

	_, err = FormatInvoiceNumber(DefaultInvoiceNumberTemplate, issued, 0)
	assert.ErrorIs(t, err, ErrInvalidSequence)

	_, err = FormatInvoiceNumber("INV-{UNKNOWN}", issued, 1)
	assert.Error(t, err)
}

func TestTimeSequence(t *testing.T) {
	assert.Equal(t, int64(1), TimeSequence(time.UnixMilli(2_000_000)))
	assert.Equal(t, int64(123456), TimeSequence(time.UnixMilli(1_700_000_123_456)))
}

func TestNumberer_UsesDefaultTemplate(t *testing.T) {
	n := NewNumberer("")
	got, err := n.Next("owner", time.UnixMilli(1_735_689_600_001).UTC())
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-600001", got)
}
