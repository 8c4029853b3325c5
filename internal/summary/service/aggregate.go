package service

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	summarydomain "github.com/smallbiznis/invoicer/internal/summary/domain"
)

type bucket struct {
	revenue decimal.Decimal
	vat     decimal.Decimal
	count   int
}

type customerTotals struct {
	id       snowflake.ID
	total    decimal.Decimal
	invoices int
}

// Aggregate folds invoices into a summary. It is pure: now decides which
// unpaid invoices are overdue and topN caps the customer ranking.
func Aggregate(invoices []invoicedomain.Invoice, req summarydomain.Request, now time.Time, topN int) summarydomain.Result {
	groupBy := req.GroupBy
	if !groupBy.Valid() {
		groupBy = summarydomain.GroupByMonth
	}

	var (
		revenue, vat       = decimal.Zero, decimal.Zero
		unpaid, overdue    = decimal.Zero, decimal.Zero
		paidCount, unpaidN int
		overdueCount       int
		lastPaidAt         *time.Time
		buckets            = map[string]*bucket{}
		customers          = map[snowflake.ID]*customerTotals{}
		customerOrder      []snowflake.ID
		currencies         = map[string]struct{}{}
	)

	bucketFor := func(key string) *bucket {
		b, ok := buckets[key]
		if !ok {
			b = &bucket{revenue: decimal.Zero, vat: decimal.Zero}
			buckets[key] = b
		}
		return b
	}

	for _, inv := range invoices {
		currencies[inv.Currency] = struct{}{}
		total := decimal.NewFromFloat(inv.Total)

		c, ok := customers[inv.CustomerID]
		if !ok {
			c = &customerTotals{id: inv.CustomerID, total: decimal.Zero}
			customers[inv.CustomerID] = c
			customerOrder = append(customerOrder, inv.CustomerID)
		}
		c.invoices++

		if inv.Status == invoicedomain.InvoiceStatusPaid {
			paidCount++
			amountVat := decimal.NewFromFloat(inv.VatAmount)
			revenue = revenue.Add(total)
			vat = vat.Add(amountVat)
			c.total = c.total.Add(total)

			at := inv.CreatedAt
			if inv.PaidAt != nil {
				at = *inv.PaidAt
				if lastPaidAt == nil || at.After(*lastPaidAt) {
					paid := at.UTC()
					lastPaidAt = &paid
				}
			}
			b := bucketFor(groupBy.Key(at))
			b.revenue = b.revenue.Add(total)
			b.vat = b.vat.Add(amountVat)
			b.count++
			continue
		}

		unpaidN++
		unpaid = unpaid.Add(total)
		if inv.DueDate != nil && inv.DueDate.Before(now) {
			overdue = overdue.Add(total)
			overdueCount++
		}
		bucketFor(groupBy.Key(inv.CreatedAt)).count++
	}

	pending := unpaid.Sub(overdue)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	return summarydomain.Result{
		Totals: summarydomain.Totals{
			PaidCount:         paidCount,
			UnpaidCount:       unpaidN,
			OutstandingCount:  overdueCount,
			TotalRevenue:      round2(revenue),
			TotalVAT:          round2(vat),
			OutstandingAmount: round2(overdue),
			PendingAmount:     round2(pending),
			LastPaidAt:        lastPaidAt,
			Period:            summarydomain.Period{From: req.From, To: req.To},
			Currency:          resolveCurrency(req.Currency, currencies),
		},
		GroupBy:      groupBy,
		Trend:        buildTrend(buckets),
		TopCustomers: rankCustomers(customers, customerOrder, topN),
	}
}

func buildTrend(buckets map[string]*bucket) []summarydomain.TrendPoint {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	trend := make([]summarydomain.TrendPoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		trend = append(trend, summarydomain.TrendPoint{
			Bucket:  key,
			Revenue: round2(b.revenue),
			VAT:     round2(b.vat),
			Count:   b.count,
		})
	}
	return trend
}

// rankCustomers orders by paid total descending. Ties keep first-seen order.
func rankCustomers(customers map[snowflake.ID]*customerTotals, order []snowflake.ID, topN int) []summarydomain.CustomerRank {
	ranked := make([]*customerTotals, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, customers[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].total.GreaterThan(ranked[j].total)
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	out := make([]summarydomain.CustomerRank, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, summarydomain.CustomerRank{
			CustomerID: c.id,
			Total:      round2(c.total),
			Invoices:   c.invoices,
		})
	}
	return out
}

// resolveCurrency reports MIXED unless exactly one currency was seen.
func resolveCurrency(filter string, seen map[string]struct{}) string {
	if filter != "" {
		return filter
	}
	if len(seen) == 1 {
		for currency := range seen {
			return currency
		}
	}
	return summarydomain.MixedCurrency
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
