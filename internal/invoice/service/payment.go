package service

import (
	"context"
	"fmt"

	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	taxservice "github.com/smallbiznis/invoicer/internal/tax/service"
	"go.uber.org/zap"
)

const keyPaymentLock = "invoicer:lock:invoice:%s"

// MarkPaid moves an UNPAID invoice to PAID, recomputing VAT with the owner's
// current settings. Calling it on a PAID invoice returns the stored record
// with no side effects.
func (s *Service) MarkPaid(ctx context.Context, id string, req invoicedomain.MarkPaidRequest) (invoicedomain.Invoice, error) {
	ownerID, err := s.ownerIDFromContext(ctx)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	release := s.acquirePaymentLock(ctx, invoiceID.String())
	defer release()

	invoice, err := s.repo.FindByID(ctx, s.db, ownerID, invoiceID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice.IsPaid() {
		return *invoice, nil
	}

	rate, err := s.taxResolver.Resolve(ctx, ownerID, invoice.TaxReason)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	vat := taxservice.Compute(invoice.SubTotal, rate)

	now := s.clock.Now().UTC()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	applied, err := s.repo.UpdatePayment(ctx, s.db, ownerID, invoiceID, invoicedomain.PaymentUpdate{
		PaidAt:         paidAt,
		VatRateApplied: vat.VatRateApplied,
		VatAmount:      vat.VatAmount,
		Total:          vat.Total,
		UpdatedAt:      now,
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	updated, err := s.repo.FindByID(ctx, s.db, ownerID, invoiceID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if !applied {
		s.log.Info("invoice already paid by concurrent request",
			zap.String("owner_id", ownerID),
			zap.String("invoice_id", invoiceID.String()),
		)
		return *updated, nil
	}

	s.metrics.RecordInvoicePaid(ctx, updated.Currency)
	s.log.Info("invoice marked paid",
		zap.String("owner_id", ownerID),
		zap.String("invoice_id", invoiceID.String()),
		zap.Float64("vat_rate_applied", updated.VatRateApplied),
		zap.Float64("total", updated.Total),
	)

	outcome := s.notifyPaid(ctx, updated)
	s.recordOutcome(ctx, "invoice_paid_notification", updated.ID, outcome)

	return *updated, nil
}

// acquirePaymentLock never blocks the transition: when the lock is
// unavailable the guarded update still decides the winner.
func (s *Service) acquirePaymentLock(ctx context.Context, invoiceID string) func() {
	if s.locker == nil {
		return func() {}
	}

	key := fmt.Sprintf(keyPaymentLock, invoiceID)
	token, ok, err := s.locker.TryLock(ctx, key, paymentLockTTL)
	if err != nil {
		s.log.Warn("payment lock unavailable", zap.String("invoice_id", invoiceID), zap.Error(err))
		return func() {}
	}
	if !ok {
		s.log.Debug("payment lock held elsewhere", zap.String("invoice_id", invoiceID))
		return func() {}
	}

	return func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.log.Warn("failed to release payment lock", zap.String("invoice_id", invoiceID), zap.Error(err))
		}
	}
}
