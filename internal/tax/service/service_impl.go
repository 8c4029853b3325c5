package service

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	"go.uber.org/fx"
)

var hundred = decimal.NewFromInt(100)

type ResolverParams struct {
	fx.In

	Repository taxdomain.Repository
}

type resolver struct {
	repo taxdomain.Repository
}

func NewResolver(p ResolverParams) taxdomain.Resolver {
	return &resolver{repo: p.Repository}
}

// Resolve returns the effective rate for ownerID. Zero-rated reasons still
// require registered settings.
func (r *resolver) Resolve(ctx context.Context, ownerID string, reason taxdomain.TaxReason) (float64, error) {
	if ownerID == "" {
		return 0, taxdomain.ErrInvalidOwner
	}
	reason = reason.OrDefault()
	if !reason.Valid() {
		return 0, taxdomain.ErrInvalidTaxReason
	}

	setting, err := r.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if !setting.Usable() {
		return 0, taxdomain.ErrMissingVatSettings
	}

	if reason.ZeroRated() {
		return 0, nil
	}
	return setting.VatRate, nil
}

// Compute applies rate (percent) to subTotal.
// VAT and total are each rounded half away from zero to 2 places.
func Compute(subTotal, rate float64) taxdomain.Result {
	mustFinite("subTotal", subTotal)
	mustFinite("rate", rate)

	sub := decimal.NewFromFloat(subTotal)
	vat := sub.Mul(decimal.NewFromFloat(rate)).Div(hundred).Round(2)
	total := sub.Add(vat).Round(2)

	return taxdomain.Result{
		VatRateApplied: rate,
		VatAmount:      vat.InexactFloat64(),
		Total:          total.InexactFloat64(),
	}
}

// Round2 rounds half away from zero to 2 places.
func Round2(value float64) float64 {
	mustFinite("value", value)
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

func mustFinite(name string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("tax: %s must be finite, got %v", name, v))
	}
}
