package service

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	summarydomain "github.com/smallbiznis/invoicer/internal/summary/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

func paid(customer snowflake.ID, total, vat float64, paidAt time.Time) invoicedomain.Invoice {
	return invoicedomain.Invoice{
		CustomerID: customer,
		Total:      total,
		VatAmount:  vat,
		Currency:   "NGN",
		Status:     invoicedomain.InvoiceStatusPaid,
		PaidAt:     &paidAt,
		CreatedAt:  paidAt.AddDate(0, 0, -3),
	}
}

func unpaid(customer snowflake.ID, total float64, createdAt time.Time, due *time.Time) invoicedomain.Invoice {
	return invoicedomain.Invoice{
		CustomerID: customer,
		Total:      total,
		Currency:   "NGN",
		Status:     invoicedomain.InvoiceStatusUnpaid,
		DueDate:    due,
		CreatedAt:  createdAt,
	}
}

func TestAggregate_PaidAndOverdueScenario(t *testing.T) {
	due := at(2025, 6, 1)
	invoices := []invoicedomain.Invoice{
		paid(1, 100, 7, at(2025, 4, 2)),
		paid(2, 200, 14, at(2025, 5, 9)),
		paid(1, 50, 3.5, at(2025, 5, 20)),
		unpaid(3, 30, at(2025, 5, 25), &due),
	}

	got := Aggregate(invoices, summarydomain.Request{}, now, 5)

	assert.Equal(t, 350.0, got.Totals.TotalRevenue)
	assert.Equal(t, 24.5, got.Totals.TotalVAT)
	assert.Equal(t, 30.0, got.Totals.OutstandingAmount)
	assert.Equal(t, 0.0, got.Totals.PendingAmount)
	assert.Equal(t, 3, got.Totals.PaidCount)
	assert.Equal(t, 1, got.Totals.UnpaidCount)
	assert.Equal(t, 1, got.Totals.OutstandingCount)
	require.NotNil(t, got.Totals.LastPaidAt)
	assert.True(t, at(2025, 5, 20).Equal(*got.Totals.LastPaidAt))
	assert.Equal(t, "NGN", got.Totals.Currency)
	assert.Equal(t, summarydomain.GroupByMonth, got.GroupBy)

	require.Len(t, got.Trend, 2)
	assert.Equal(t, summarydomain.TrendPoint{Bucket: "2025-04", Revenue: 100, VAT: 7, Count: 1}, got.Trend[0])
	assert.Equal(t, summarydomain.TrendPoint{Bucket: "2025-05", Revenue: 250, VAT: 17.5, Count: 3}, got.Trend[1])

	var trendRevenue float64
	for _, p := range got.Trend {
		trendRevenue += p.Revenue
	}
	assert.Equal(t, got.Totals.TotalRevenue, trendRevenue)

	require.Len(t, got.TopCustomers, 3)
	assert.Equal(t, summarydomain.CustomerRank{CustomerID: 2, Total: 200, Invoices: 1}, got.TopCustomers[0])
	assert.Equal(t, summarydomain.CustomerRank{CustomerID: 1, Total: 150, Invoices: 2}, got.TopCustomers[1])
	assert.Equal(t, summarydomain.CustomerRank{CustomerID: 3, Total: 0, Invoices: 1}, got.TopCustomers[2])
}

func TestAggregate_PendingExcludesOverdueAndFutureDue(t *testing.T) {
	past := at(2025, 6, 1)
	future := at(2025, 7, 1)
	invoices := []invoicedomain.Invoice{
		unpaid(1, 40, at(2025, 5, 1), &past),
		unpaid(1, 60, at(2025, 5, 2), &future),
		unpaid(2, 25.5, at(2025, 6, 3), nil),
	}

	got := Aggregate(invoices, summarydomain.Request{GroupBy: summarydomain.GroupByDay}, now, 5)
	assert.Equal(t, 40.0, got.Totals.OutstandingAmount)
	assert.Equal(t, 85.5, got.Totals.PendingAmount)
	assert.Equal(t, 1, got.Totals.OutstandingCount)
	assert.Equal(t, 0.0, got.Totals.TotalRevenue)
	assert.Nil(t, got.Totals.LastPaidAt)

	require.Len(t, got.Trend, 3)
	assert.Equal(t, "2025-05-01", got.Trend[0].Bucket)
	assert.Equal(t, "2025-06-03", got.Trend[2].Bucket)
	assert.Equal(t, 0.0, got.Trend[0].Revenue)
}

func TestAggregate_PaidWithoutPaidAtUsesCreatedAt(t *testing.T) {
	inv := paid(1, 10, 0, at(2024, 12, 31))
	inv.PaidAt = nil
	inv.CreatedAt = at(2023, 1, 5)

	got := Aggregate([]invoicedomain.Invoice{inv}, summarydomain.Request{GroupBy: summarydomain.GroupByYear}, now, 5)
	require.Len(t, got.Trend, 1)
	assert.Equal(t, "2023", got.Trend[0].Bucket)
	assert.Nil(t, got.Totals.LastPaidAt)
}

func TestAggregate_TopCustomersStableAndCapped(t *testing.T) {
	var invoices []invoicedomain.Invoice
	for id := snowflake.ID(1); id <= 7; id++ {
		invoices = append(invoices, paid(id, 100, 0, at(2025, 5, 1)))
	}
	invoices = append(invoices, paid(7, 1, 0, at(2025, 5, 2)))

	got := Aggregate(invoices, summarydomain.Request{}, now, 5)
	require.Len(t, got.TopCustomers, 5)
	assert.Equal(t, snowflake.ID(7), got.TopCustomers[0].CustomerID)
	for i, want := range []snowflake.ID{1, 2, 3, 4} {
		assert.Equal(t, want, got.TopCustomers[i+1].CustomerID)
	}
}

func TestAggregate_Currency(t *testing.T) {
	ngn := paid(1, 10, 0, at(2025, 5, 1))
	usd := paid(2, 10, 0, at(2025, 5, 1))
	usd.Currency = "USD"

	assert.Equal(t, summarydomain.MixedCurrency, Aggregate(nil, summarydomain.Request{}, now, 5).Totals.Currency)
	assert.Equal(t, "EUR", Aggregate(nil, summarydomain.Request{Currency: "EUR"}, now, 5).Totals.Currency)
	assert.Equal(t, "NGN", Aggregate([]invoicedomain.Invoice{ngn}, summarydomain.Request{}, now, 5).Totals.Currency)
	assert.Equal(t, summarydomain.MixedCurrency, Aggregate([]invoicedomain.Invoice{ngn, usd}, summarydomain.Request{}, now, 5).Totals.Currency)
	assert.Equal(t, "USD", Aggregate([]invoicedomain.Invoice{usd}, summarydomain.Request{Currency: "USD"}, now, 5).Totals.Currency)
}

func TestAggregate_DecimalSums(t *testing.T) {
	invoices := []invoicedomain.Invoice{
		paid(1, 0.1, 0.01, at(2025, 5, 1)),
		paid(1, 0.2, 0.02, at(2025, 5, 1)),
	}
	got := Aggregate(invoices, summarydomain.Request{}, now, 5)
	assert.Equal(t, 0.3, got.Totals.TotalRevenue)
	assert.Equal(t, 0.03, got.Totals.TotalVAT)
}

func TestGroupByKey(t *testing.T) {
	ts := time.Date(2025, 1, 31, 23, 30, 0, 0, time.FixedZone("WAT", -3600))
	assert.Equal(t, "2025-02", summarydomain.GroupByMonth.Key(ts))
	assert.Equal(t, "2025-02-01", summarydomain.GroupByDay.Key(ts))
	assert.Equal(t, "2025", summarydomain.GroupByYear.Key(ts))
}
