package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/invoicer/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	taxservice "github.com/smallbiznis/invoicer/internal/tax/service"
	"github.com/smallbiznis/invoicer/pkg/log/ctxlogger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxNotesLength = 255

// Create issues an UNPAID invoice. The customer, invoice and items are written
// in one transaction after VAT has been resolved. PDF generation runs
// afterwards and never fails the call.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.InvoiceDetail, error) {
	ownerID, err := s.ownerIDFromContext(ctx)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvalidCurrency
	}
	if len(req.Items) == 0 {
		return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvalidItems
	}
	reason := req.TaxReason.OrDefault()
	if !reason.Valid() {
		return invoicedomain.InvoiceDetail{}, taxdomain.ErrInvalidTaxReason
	}
	method := req.PaymentMethod.OrDefault()
	if !method.Valid() {
		return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvalidPaymentMethod
	}
	notes := ""
	if req.Notes != nil {
		notes = strings.TrimSpace(*req.Notes)
		if utf8.RuneCountInString(notes) > maxNotesLength {
			return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvalidNotes
		}
	}

	now := s.clock.Now().UTC()
	invoiceID := s.genID.Generate()

	items, subTotal, err := buildItems(invoiceID, ownerID, req.Items, now)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}

	customer, isNew, err := s.resolveCustomer(ctx, ownerID, req, now)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}

	rate, err := s.taxResolver.Resolve(ctx, ownerID, reason)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}
	vat := taxservice.Compute(subTotal, rate)

	number, err := s.numberer.Next(ownerID, now)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		dueDate = &due
	}

	invoice := invoicedomain.Invoice{
		ID:             invoiceID,
		OwnerID:        ownerID,
		CustomerID:     customer.ID,
		Number:         number,
		SubTotal:       subTotal,
		VatRateApplied: vat.VatRateApplied,
		VatAmount:      vat.VatAmount,
		Total:          vat.Total,
		Currency:       currency,
		TaxReason:      reason,
		Status:         invoicedomain.InvoiceStatusUnpaid,
		Notes:          notes,
		DueDate:        dueDate,
		PaymentMethod:  method,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if isNew {
			if err := s.customerRepo.Insert(ctx, tx, customer); err != nil {
				return err
			}
		}
		return s.repo.Insert(ctx, tx, &invoice, items)
	})
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}

	s.metrics.RecordInvoiceCreated(ctx, string(reason), currency)
	s.httpMetrics.ObserveInvoiceAmount(currency, invoice.Total)
	s.log.Info("invoice created",
		zap.String("owner_id", ownerID),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.Float64("total", invoice.Total),
		zap.String("currency", currency),
	)

	outcome := s.attachPDF(ctx, &invoice, items, customer)
	s.recordOutcome(ctx, "invoice_pdf", invoice.ID, outcome)

	return invoicedomain.InvoiceDetail{Invoice: invoice, Items: items}, nil
}

func (s *Service) resolveCustomer(ctx context.Context, ownerID string, req invoicedomain.CreateInvoiceRequest, now time.Time) (*customerdomain.Customer, bool, error) {
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := parseID(req.CustomerID)
		if err != nil {
			return nil, false, err
		}
		customer, err := s.customerRepo.FindByID(ctx, s.db, ownerID, id)
		if err != nil {
			return nil, false, err
		}
		if customer == nil {
			return nil, false, invoicedomain.ErrNotFound
		}
		return customer, false, nil
	}

	if req.Customer == nil {
		return nil, false, invoicedomain.ErrCustomerRequired
	}
	customer, err := customerdomain.NewCustomer(s.genID.Generate(), ownerID, *req.Customer, now)
	if err != nil {
		return nil, false, err
	}
	return &customer, true, nil
}

// buildItems rounds each line to cents and sums the rounded lines, so the
// subtotal always equals the sum of the stored item totals. Positions start
// at 1 and follow request order.
func buildItems(invoiceID snowflake.ID, ownerID string, reqs []invoicedomain.CreateInvoiceItemRequest, now time.Time) ([]invoicedomain.InvoiceItem, float64, error) {
	items := make([]invoicedomain.InvoiceItem, 0, len(reqs))
	subTotal := decimal.Zero

	for i, req := range reqs {
		name := strings.TrimSpace(req.Name)
		if name == "" || req.Quantity <= 0 || req.UnitPrice < 0 {
			return nil, 0, invoicedomain.ErrInvalidItems
		}

		line := decimal.NewFromFloat(req.Quantity).Mul(decimal.NewFromFloat(req.UnitPrice)).Round(2)
		subTotal = subTotal.Add(line)

		items = append(items, invoicedomain.InvoiceItem{
			InvoiceID: invoiceID,
			Position:  i + 1,
			OwnerID:   ownerID,
			Name:      name,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
			Total:     line.InexactFloat64(),
			CreatedAt: now,
		})
	}

	return items, subTotal.InexactFloat64(), nil
}

func (s *Service) recordOutcome(ctx context.Context, task string, invoiceID snowflake.ID, outcome invoicedomain.Outcome) {
	_, log := ctxlogger.ForTask(ctx, s.log, task)
	s.metrics.RecordSideEffect(ctx, task, string(outcome.Status))

	fields := []zap.Field{
		zap.String("invoice_id", invoiceID.String()),
		zap.String("outcome", string(outcome.Status)),
	}
	switch outcome.Status {
	case invoicedomain.OutcomeDegraded:
		log.Warn("side effect degraded", append(fields, zap.String("reason", outcome.Reason))...)
	case invoicedomain.OutcomeSkipped:
		log.Debug("side effect skipped", append(fields, zap.String("reason", outcome.Reason))...)
	default:
		log.Info("side effect completed", fields...)
	}
}
