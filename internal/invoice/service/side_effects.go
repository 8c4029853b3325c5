package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/invoicer/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	"github.com/smallbiznis/invoicer/internal/invoice/render"
	notificationdomain "github.com/smallbiznis/invoicer/internal/notification/domain"
	profiledomain "github.com/smallbiznis/invoicer/internal/profile/domain"
	"github.com/smallbiznis/invoicer/internal/providers/email"
	"github.com/smallbiznis/invoicer/internal/providers/pdf"
	"go.uber.org/zap"
)

const (
	pdfContentType = "application/pdf"
	dateLayout     = "2006-01-02"
)

// attachPDF renders the invoice, uploads it and records the file id on the
// invoice. invoice.PdfFileID is set on success.
func (s *Service) attachPDF(ctx context.Context, invoice *invoicedomain.Invoice, items []invoicedomain.InvoiceItem, customer *customerdomain.Customer) invoicedomain.Outcome {
	if s.pdf == nil || s.storage == nil {
		return invoicedomain.Skipped("pdf pipeline not configured")
	}

	profile, err := s.profileRepo.FindByOwner(ctx, invoice.OwnerID)
	if err != nil {
		return invoicedomain.Degraded("load profile", err)
	}

	content, err := s.pdf.GenerateInvoice(ctx, buildPDFData(profile, invoice, items, customer))
	if err != nil {
		return invoicedomain.Degraded("render pdf", err)
	}
	if len(content) == 0 {
		return invoicedomain.Skipped("pdf renderer disabled")
	}

	fileID, err := s.storage.Upload(ctx, pdfObjectName(invoice), pdfContentType, content)
	if err != nil {
		return invoicedomain.Degraded("upload pdf", err)
	}
	now := s.clock.Now().UTC()
	if err := s.repo.AttachPDF(ctx, s.db, invoice.OwnerID, invoice.ID, fileID, now); err != nil {
		return invoicedomain.Degraded("attach pdf", err)
	}

	invoice.PdfFileID = &fileID
	invoice.UpdatedAt = now
	return invoicedomain.OK()
}

func pdfObjectName(invoice *invoicedomain.Invoice) string {
	return fmt.Sprintf("%s-%s.pdf", slug.Make(invoice.Number), invoice.ID.String())
}

// notifyPaid sends the payment confirmation to the invoice's customer.
func (s *Service) notifyPaid(ctx context.Context, invoice *invoicedomain.Invoice) invoicedomain.Outcome {
	if s.notification == nil || s.directory == nil {
		return invoicedomain.Skipped("notifications not configured")
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, invoice.OwnerID, invoice.CustomerID)
	if err != nil {
		return invoicedomain.Degraded("load customer", err)
	}
	if !customer.HasEmail() {
		return invoicedomain.Skipped("customer has no email")
	}
	address := *customer.Email

	ident, err := s.directory.FindOrCreateByEmail(ctx, address, customer.Name)
	if err != nil {
		return invoicedomain.Degraded("resolve identity", err)
	}

	target, err := s.notification.EnsureTarget(ctx, ident.ID, notificationdomain.ProviderTypeEmail, address)
	if err != nil {
		return invoicedomain.Degraded("resolve target", err)
	}
	if target == nil {
		return invoicedomain.Skipped("target unresolved")
	}

	paidAt := invoice.UpdatedAt
	if invoice.PaidAt != nil {
		paidAt = *invoice.PaidAt
	}
	html, err := s.renderer.RenderPaidConfirmation(render.PaidConfirmation{
		CustomerName: customer.Name,
		Number:       invoice.Number,
		Total:        invoice.Total,
		Currency:     invoice.Currency,
		PaidAt:       paidAt,
	})
	if err != nil {
		return invoicedomain.Degraded("render email", err)
	}

	msg := email.Message{
		From:     s.senderFor(ctx, invoice.OwnerID),
		FromName: s.emailFromName,
		Subject:  s.renderer.PaidConfirmationSubject(invoice.Number),
		HTML:     html,
	}
	if invoice.PdfFileID != nil && s.storage != nil {
		content, err := s.storage.Download(ctx, *invoice.PdfFileID)
		if err != nil {
			s.log.Warn("sending confirmation without pdf",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err),
			)
		} else {
			msg.Attachments = []email.Attachment{{
				Filename:    pdfObjectName(invoice),
				ContentType: pdfContentType,
				Content:     content,
			}}
		}
	}

	_, err = s.notification.Dispatch(ctx, notificationdomain.DispatchRequest{
		OwnerID:   invoice.OwnerID,
		InvoiceID: invoice.ID,
		Target:    *target,
		Message:   msg,
	})
	if errors.Is(err, notificationdomain.ErrAlreadyDelivered) {
		return invoicedomain.Skipped("already delivered")
	}
	if err != nil {
		return invoicedomain.Degraded("dispatch email", err)
	}
	return invoicedomain.OK()
}

func (s *Service) senderFor(ctx context.Context, ownerID string) string {
	profile, err := s.profileRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.log.Warn("falling back to default sender", zap.String("owner_id", ownerID), zap.Error(err))
		return s.emailFrom
	}
	if profile != nil && profile.EmailFrom != nil && strings.TrimSpace(*profile.EmailFrom) != "" {
		return *profile.EmailFrom
	}
	return s.emailFrom
}

func buildPDFData(profile *profiledomain.Profile, invoice *invoicedomain.Invoice, items []invoicedomain.InvoiceItem, customer *customerdomain.Customer) pdf.InvoiceData {
	data := pdf.InvoiceData{
		InvoiceNumber: invoice.Number,
		IssueDate:     invoice.CreatedAt.Format(dateLayout),
		Status:        string(invoice.Status),
		PaymentMethod: string(invoice.PaymentMethod),
		Subtotal:      money(invoice.SubTotal, invoice.Currency),
		VatLabel:      fmt.Sprintf("VAT (%s%%)", decimal.NewFromFloat(invoice.VatRateApplied).String()),
		Vat:           money(invoice.VatAmount, invoice.Currency),
		Total:         money(invoice.Total, invoice.Currency),
		Notes:         invoice.Notes,
	}
	if profile != nil {
		data.BusinessName = profile.BusinessName
	}
	if invoice.DueDate != nil {
		data.DueDate = invoice.DueDate.Format(dateLayout)
	}
	if customer != nil {
		data.BillToName = customer.Name
		if customer.Email != nil {
			data.BillToEmail = *customer.Email
		}
	}

	data.Items = make([]pdf.InvoiceItem, 0, len(items))
	for _, item := range items {
		data.Items = append(data.Items, pdf.InvoiceItem{
			Name:      item.Name,
			Qty:       decimal.NewFromFloat(item.Quantity).String(),
			UnitPrice: money(item.UnitPrice, invoice.Currency),
			Amount:    money(item.Total, invoice.Currency),
		})
	}
	return data
}

func money(amount float64, currency string) string {
	return decimal.NewFromFloat(amount).StringFixed(2) + " " + currency
}
