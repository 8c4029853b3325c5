package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/invoicer/internal/clock"
	"github.com/smallbiznis/invoicer/internal/ownercontext"
	"github.com/smallbiznis/invoicer/internal/profile/domain"
	"github.com/smallbiznis/invoicer/internal/profile/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var savedAt = time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)

func setupService(t *testing.T) domain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Profile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(savedAt),
		Repo:  repository.Provide(db),
	})
}

func TestUpsert_CreatesThenUpdatesSingleProfile(t *testing.T) {
	svc := setupService(t)
	ctx := ownercontext.WithOwnerID(context.Background(), "owner-1")

	first, err := svc.Upsert(ctx, domain.UpsertProfileRequest{
		BusinessName: "Acme Ltd",
		CountryCode:  "ng",
		Currency:     "ngn",
	})
	require.NoError(t, err)
	assert.Equal(t, "NG", first.CountryCode)
	assert.True(t, savedAt.Equal(first.UpdatedAt), first.UpdatedAt)
	assert.Equal(t, "NGN", first.Currency)
	assert.Nil(t, first.EmailFrom)

	from := "billing@acme.test"
	second, err := svc.Upsert(ctx, domain.UpsertProfileRequest{
		BusinessName: "Acme Holdings",
		CountryCode:  "GB",
		Currency:     "GBP",
		EmailFrom:    &from,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Acme Holdings", second.BusinessName)
	require.NotNil(t, second.EmailFrom)
	assert.Equal(t, from, *second.EmailFrom)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "GB", got.CountryCode)
}

func TestUpsert_Validation(t *testing.T) {
	svc := setupService(t)
	ctx := ownercontext.WithOwnerID(context.Background(), "owner-1")

	_, err := svc.Upsert(context.Background(), domain.UpsertProfileRequest{BusinessName: "x", CountryCode: "NG", Currency: "NGN"})
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)

	_, err = svc.Upsert(ctx, domain.UpsertProfileRequest{BusinessName: " ", CountryCode: "NG", Currency: "NGN"})
	assert.ErrorIs(t, err, domain.ErrInvalidBusinessName)

	_, err = svc.Upsert(ctx, domain.UpsertProfileRequest{BusinessName: "x", CountryCode: "NGA", Currency: "NGN"})
	assert.ErrorIs(t, err, domain.ErrInvalidCountryCode)

	_, err = svc.Upsert(ctx, domain.UpsertProfileRequest{BusinessName: "x", CountryCode: "NG", Currency: "NG"})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	bad := "not-an-email"
	_, err = svc.Upsert(ctx, domain.UpsertProfileRequest{BusinessName: "x", CountryCode: "NG", Currency: "NGN", EmailFrom: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidEmailFrom)
}

func TestGet_IsOwnerScoped(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Upsert(ownercontext.WithOwnerID(context.Background(), "owner-a"), domain.UpsertProfileRequest{
		BusinessName: "A", CountryCode: "NG", Currency: "NGN",
	})
	require.NoError(t, err)

	_, err = svc.Get(ownercontext.WithOwnerID(context.Background(), "owner-b"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
