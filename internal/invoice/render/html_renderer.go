package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const paidConfirmationTemplate = `<div style="font-family:Arial,Helvetica,sans-serif;line-height:1.6;color:#222;">
  <h2 style="color:#007bff;">Invoice Paid Confirmation</h2>
  <p>Hello{{if .CustomerName}} <strong>{{.CustomerName}}</strong>{{end}},</p>
  <p>We've received your payment for <strong>Invoice {{.Number}}</strong>.</p>
  <table style="border-collapse:collapse;margin-top:10px;">
    <tr>
      <td style="padding:6px 12px;">Amount Paid:</td>
      <td style="padding:6px 12px;"><strong>{{formatMoney .Total .Currency}}</strong></td>
    </tr>
    <tr>
      <td style="padding:6px 12px;">Paid At:</td>
      <td style="padding:6px 12px;">{{formatTime .PaidAt}}</td>
    </tr>
    <tr>
      <td style="padding:6px 12px;">Status:</td>
      <td style="padding:6px 12px;"><span style="color:green;font-weight:bold;">PAID</span></td>
    </tr>
  </table>
  <p>Thank you for your prompt payment.</p>
  <p style="margin-top:20px;font-size:13px;color:#666;">The Finance Team</p>
</div>
`

// PaidConfirmation is the view model of the payment confirmation email.
type PaidConfirmation struct {
	CustomerName string
	Number       string
	Total        float64
	Currency     string
	PaidAt       time.Time
}

type Renderer interface {
	RenderPaidConfirmation(input PaidConfirmation) (string, error)
	PaidConfirmationSubject(number string) string
}

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"formatMoney": formatMoney,
		"formatTime":  formatTime,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("paid_confirmation").Funcs(funcs).Parse(paidConfirmationTemplate)),
	}
}

func (r *HTMLRenderer) RenderPaidConfirmation(input PaidConfirmation) (string, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *HTMLRenderer) PaidConfirmationSubject(number string) string {
	return fmt.Sprintf("Invoice %s marked as PAID", number)
}

func formatMoney(amount float64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	return fmt.Sprintf("%s %s", decimal.NewFromFloat(amount).StringFixed(2), currency)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02 15:04 MST")
}
