package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultInvoiceNumberTemplate yields numbers like INV-2025-000001.
const DefaultInvoiceNumberTemplate = "INV-{YYYY}-{SEQ6}"

const sequenceModulus = 1_000_000

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

	ErrEmptyTemplate   = errors.New("invoice number template is empty")
	ErrInvalidSequence = errors.New("invalid invoice sequence")
)

// FormatInvoiceNumber expands template tokens for issuedAt (UTC) and seq.
// Supported tokens: {YYYY} {YY} {MM} {DD} {SEQ} {SEQn}.
func FormatInvoiceNumber(template string, issuedAt time.Time, seq int64) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", ErrEmptyTemplate
	}
	if seq <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidSequence, seq)
	}

	issuedAt = issuedAt.UTC()
	out := strings.NewReplacer(
		"{YYYY}", issuedAt.Format("2006"),
		"{YY}", issuedAt.Format("06"),
		"{MM}", issuedAt.Format("01"),
		"{DD}", issuedAt.Format("02"),
		"{SEQ}", strconv.FormatInt(seq, 10),
	).Replace(template)

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in invoice format: %s", out)
	}
	return out, nil
}

// TimeSequence derives a sequence from the last six digits of the unix
// millisecond clock. Zero maps to 1.
func TimeSequence(now time.Time) int64 {
	seq := now.UnixMilli() % sequenceModulus
	if seq <= 0 {
		return 1
	}
	return seq
}

// Numberer produces invoice numbers.
type Numberer interface {
	Next(ownerID string, issuedAt time.Time) (string, error)
}

type templateNumberer struct {
	template string
}

// NewNumberer returns a Numberer for template, falling back to the default.
func NewNumberer(template string) Numberer {
	if strings.TrimSpace(template) == "" {
		template = DefaultInvoiceNumberTemplate
	}
	return &templateNumberer{template: template}
}

func (n *templateNumberer) Next(_ string, issuedAt time.Time) (string, error) {
	return FormatInvoiceNumber(n.template, issuedAt, TimeSequence(issuedAt))
}
