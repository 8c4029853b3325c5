package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/invoicer/internal/clock"
	"github.com/smallbiznis/invoicer/internal/notification/domain"
	"github.com/smallbiznis/invoicer/internal/notification/repository"
	"github.com/smallbiznis/invoicer/internal/providers/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingEmail struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (r *recordingEmail) Send(ctx context.Context, msg email.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

var dispatchTime = time.Date(2025, 6, 2, 10, 15, 0, 0, time.UTC)

func setup(t *testing.T) (domain.Service, *recordingEmail, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Target{}, &domain.Delivery{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	sender := &recordingEmail{}
	svc := New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(dispatchTime),
		Repo:  repository.Provide(db),
		Email: sender,
	})
	return svc, sender, db
}

func TestEnsureTarget_CreatesThenFallsBackToExisting(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	first, err := svc.EnsureTarget(ctx, "ident-1", domain.ProviderTypeEmail, "jane@x.test")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.EnsureTarget(ctx, "ident-1", domain.ProviderTypeEmail, "jane@x.test")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureTarget_InvalidInput(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.EnsureTarget(context.Background(), "", domain.ProviderTypeEmail, "jane@x.test")
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)
}

func TestDispatch_SendsOncePerInvoiceAndTarget(t *testing.T) {
	svc, sender, db := setup(t)
	ctx := context.Background()

	target, err := svc.EnsureTarget(ctx, "ident-1", domain.ProviderTypeEmail, "jane@x.test")
	require.NoError(t, err)

	req := domain.DispatchRequest{
		OwnerID:   "owner-1",
		InvoiceID: 42,
		Target:    *target,
		Message:   email.Message{From: "billing@acme.test", Subject: "Invoice INV-1 marked as PAID", HTML: "<p>paid</p>"},
	}

	delivery, err := svc.Dispatch(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStatusSent, delivery.Status)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"jane@x.test"}, sender.sent[0].To)

	_, err = svc.Dispatch(ctx, req)
	assert.ErrorIs(t, err, domain.ErrAlreadyDelivered)
	assert.Len(t, sender.sent, 1)

	var stored domain.Delivery
	require.NoError(t, db.First(&stored, "id = ?", delivery.ID).Error)
	assert.Equal(t, domain.DeliveryStatusSent, stored.Status)
	assert.True(t, dispatchTime.Equal(stored.CreatedAt), stored.CreatedAt)
	assert.True(t, dispatchTime.Equal(target.CreatedAt), target.CreatedAt)
}

func TestDispatch_RecordsFailure(t *testing.T) {
	svc, sender, db := setup(t)
	sender.err = errors.New("smtp down")
	ctx := context.Background()

	target, err := svc.EnsureTarget(ctx, "ident-1", domain.ProviderTypeEmail, "jane@x.test")
	require.NoError(t, err)

	delivery, err := svc.Dispatch(ctx, domain.DispatchRequest{OwnerID: "owner-1", InvoiceID: 7, Target: *target})
	assert.ErrorContains(t, err, "smtp down")

	var stored domain.Delivery
	require.NoError(t, db.First(&stored, "id = ?", delivery.ID).Error)
	assert.Equal(t, domain.DeliveryStatusFailed, stored.Status)
	assert.Equal(t, "smtp down", stored.Metadata["error"])
}
