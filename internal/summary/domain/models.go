package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// MixedCurrency marks a result whose invoices span several currencies, or
// none when no currency filter was given.
const MixedCurrency = "MIXED"

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByMonth GroupBy = "month"
	GroupByYear  GroupBy = "year"
)

func (g GroupBy) Valid() bool {
	switch g {
	case GroupByDay, GroupByMonth, GroupByYear:
		return true
	default:
		return false
	}
}

// Key returns the UTC bucket key for t.
func (g GroupBy) Key(t time.Time) string {
	t = t.UTC()
	switch g {
	case GroupByYear:
		return t.Format("2006")
	case GroupByDay:
		return t.Format("2006-01-02")
	default:
		return t.Format("2006-01")
	}
}

type Request struct {
	From     *time.Time
	To       *time.Time
	GroupBy  GroupBy
	Currency string
}

type Period struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

type Totals struct {
	PaidCount         int        `json:"paid_count"`
	UnpaidCount       int        `json:"unpaid_count"`
	OutstandingCount  int        `json:"outstanding_count"`
	TotalRevenue      float64    `json:"total_revenue"`
	TotalVAT          float64    `json:"total_vat"`
	OutstandingAmount float64    `json:"outstanding_amount"`
	PendingAmount     float64    `json:"pending_amount"`
	LastPaidAt        *time.Time `json:"last_paid_at"`
	Period            Period     `json:"period"`
	Currency          string     `json:"currency"`
}

type TrendPoint struct {
	Bucket  string  `json:"bucket"`
	Revenue float64 `json:"revenue"`
	VAT     float64 `json:"vat"`
	Count   int     `json:"count"`
}

type CustomerRank struct {
	CustomerID snowflake.ID `json:"customer_id"`
	Total      float64      `json:"total"`
	Invoices   int          `json:"invoices"`
}

type Result struct {
	Totals       Totals         `json:"totals"`
	GroupBy      GroupBy        `json:"group_by"`
	Trend        []TrendPoint   `json:"trend"`
	TopCustomers []CustomerRank `json:"top_customers"`
}

type Service interface {
	Summarize(ctx context.Context, ownerID string, req Request) (Result, error)
}

var (
	ErrInvalidOwner    = errors.New("invalid_owner")
	ErrInvalidGroupBy  = errors.New("invalid_group_by")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidRange    = errors.New("invalid_range")
)
