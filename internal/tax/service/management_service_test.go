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
	profiledomain "github.com/smallbiznis/invoicer/internal/profile/domain"
	profilerepository "github.com/smallbiznis/invoicer/internal/profile/repository"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	taxrepository "github.com/smallbiznis/invoicer/internal/tax/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupManagement(t *testing.T) (taxdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&profiledomain.Profile{}, &taxdomain.VatSetting{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clock.NewFakeClock(time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)),
		Repository:  taxrepository.NewRepository(db),
		ProfileRepo: profilerepository.Provide(db),
	})
	return svc, db, node
}

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestManagementUpsert_RequiresProfile(t *testing.T) {
	svc, _, _ := setupManagement(t)
	ctx := ownercontext.WithOwnerID(context.Background(), "owner-1")

	_, err := svc.Upsert(ctx, taxdomain.UpsertVatSettingsRequest{IsVatRegistered: boolPtr(true), VatRate: floatPtr(7.5)})
	assert.ErrorIs(t, err, taxdomain.ErrProfileRequired)
}

func TestManagementUpsert_CopiesCountryAndUpdatesInPlace(t *testing.T) {
	svc, db, node := setupManagement(t)
	ctx := ownercontext.WithOwnerID(context.Background(), "owner-1")

	now := time.Now().UTC()
	require.NoError(t, db.Create(&profiledomain.Profile{
		ID: node.Generate(), OwnerID: "owner-1", BusinessName: "Acme", CountryCode: "NG", Currency: "NGN",
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	first, err := svc.Upsert(ctx, taxdomain.UpsertVatSettingsRequest{IsVatRegistered: boolPtr(true), VatRate: floatPtr(7.5)})
	require.NoError(t, err)
	assert.Equal(t, "NG", first.CountryCode)
	assert.True(t, first.IsVatRegistered)
	assert.Equal(t, 7.5, first.VatRate)

	second, err := svc.Upsert(ctx, taxdomain.UpsertVatSettingsRequest{IsVatRegistered: boolPtr(false), VatRate: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.IsVatRegistered)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestManagementUpsert_Validation(t *testing.T) {
	svc, _, _ := setupManagement(t)
	ctx := ownercontext.WithOwnerID(context.Background(), "owner-1")

	_, err := svc.Upsert(ctx, taxdomain.UpsertVatSettingsRequest{VatRate: floatPtr(1)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidRegistration)

	_, err = svc.Upsert(ctx, taxdomain.UpsertVatSettingsRequest{IsVatRegistered: boolPtr(true), VatRate: floatPtr(-2)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidVatRate)

	_, err = svc.Upsert(context.Background(), taxdomain.UpsertVatSettingsRequest{IsVatRegistered: boolPtr(true), VatRate: floatPtr(2)})
	assert.ErrorIs(t, err, taxdomain.ErrInvalidOwner)
}

func TestManagementGet_NotFound(t *testing.T) {
	svc, _, _ := setupManagement(t)
	_, err := svc.Get(ownercontext.WithOwnerID(context.Background(), "nobody"))
	assert.ErrorIs(t, err, taxdomain.ErrNotFound)
}
