package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/invoicer/internal/clock"
	"github.com/smallbiznis/invoicer/internal/config"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	invoicerepository "github.com/smallbiznis/invoicer/internal/invoice/repository"
	summarydomain "github.com/smallbiznis/invoicer/internal/summary/domain"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T, pageSize int) (summarydomain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoicedomain.Invoice{}))

	reporting := config.DefaultReportingConfig()
	reporting.PageSize = pageSize

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Clock:     clock.NewFakeClock(now),
		Repo:      invoicerepository.Provide(),
		Reporting: config.NewStaticReportingConfigHolder(reporting),
	})
	return svc, db
}

var testNode, _ = snowflake.NewNode(2)

func seed(t *testing.T, db *gorm.DB, ownerID string, n int, currency string, createdAt time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		paidAt := createdAt.Add(time.Hour)
		require.NoError(t, db.Create(&invoicedomain.Invoice{
			ID:            testNode.Generate(),
			OwnerID:       ownerID,
			CustomerID:    snowflake.ID(i%3 + 1),
			Number:        fmt.Sprintf("INV-%s-%s-%d-%d", ownerID, currency, createdAt.Unix(), i),
			SubTotal:      10,
			Total:         10,
			Currency:      currency,
			TaxReason:     taxdomain.TaxReasonDomestic,
			Status:        invoicedomain.InvoiceStatusPaid,
			PaidAt:        &paidAt,
			PaymentMethod: invoicedomain.PaymentMethodOther,
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		}).Error)
	}
}

func TestSummarize_ReadsEveryPage(t *testing.T) {
	svc, db := setupService(t, 3)
	seed(t, db, "owner-a", 7, "NGN", at(2025, 5, 1))
	seed(t, db, "owner-b", 2, "NGN", at(2025, 5, 1))

	got, err := svc.Summarize(context.Background(), "owner-a", summarydomain.Request{})
	require.NoError(t, err)
	assert.Equal(t, 7, got.Totals.PaidCount)
	assert.Equal(t, 70.0, got.Totals.TotalRevenue)
	assert.Equal(t, "NGN", got.Totals.Currency)
	assert.Len(t, got.TopCustomers, 3)
}

func TestSummarize_FiltersByRangeAndCurrency(t *testing.T) {
	svc, db := setupService(t, 100)
	seed(t, db, "owner-a", 2, "NGN", at(2025, 3, 1))
	seed(t, db, "owner-a", 3, "NGN", at(2025, 5, 1))
	seed(t, db, "owner-a", 4, "USD", at(2025, 5, 2))

	from := at(2025, 4, 1)
	got, err := svc.Summarize(context.Background(), "owner-a", summarydomain.Request{From: &from, Currency: "ngn"})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Totals.PaidCount)
	assert.Equal(t, "NGN", got.Totals.Currency)
	require.NotNil(t, got.Totals.Period.From)
	assert.Nil(t, got.Totals.Period.To)

	mixed, err := svc.Summarize(context.Background(), "owner-a", summarydomain.Request{From: &from})
	require.NoError(t, err)
	assert.Equal(t, summarydomain.MixedCurrency, mixed.Totals.Currency)
	assert.Equal(t, 7, mixed.Totals.PaidCount)
}

func TestSummarize_Validation(t *testing.T) {
	svc, _ := setupService(t, 100)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, "", summarydomain.Request{})
	assert.ErrorIs(t, err, summarydomain.ErrInvalidOwner)

	_, err = svc.Summarize(ctx, "owner-a", summarydomain.Request{GroupBy: "week"})
	assert.ErrorIs(t, err, summarydomain.ErrInvalidGroupBy)

	_, err = svc.Summarize(ctx, "owner-a", summarydomain.Request{Currency: "EURO"})
	assert.ErrorIs(t, err, summarydomain.ErrInvalidCurrency)

	from, to := at(2025, 5, 2), at(2025, 5, 1)
	_, err = svc.Summarize(ctx, "owner-a", summarydomain.Request{From: &from, To: &to})
	assert.ErrorIs(t, err, summarydomain.ErrInvalidRange)

	empty, err := svc.Summarize(ctx, "owner-a", summarydomain.Request{})
	require.NoError(t, err)
	assert.Equal(t, summarydomain.MixedCurrency, empty.Totals.Currency)
	assert.Empty(t, empty.Trend)
	assert.Equal(t, summarydomain.GroupByMonth, empty.GroupBy)
}
