package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/internal/clock"
	"github.com/smallbiznis/invoicer/internal/ownercontext"
	profiledomain "github.com/smallbiznis/invoicer/internal/profile/domain"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repository  taxdomain.Repository
	ProfileRepo profiledomain.Repository
}

type Service struct {
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        taxdomain.Repository
	profileRepo profiledomain.Repository
}

func NewService(p ServiceParam) taxdomain.Service {
	return &Service{
		log:         p.Log.Named("tax.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repository,
		profileRepo: p.ProfileRepo,
	}
}

func (s *Service) Upsert(ctx context.Context, req taxdomain.UpsertVatSettingsRequest) (taxdomain.VatSetting, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return taxdomain.VatSetting{}, taxdomain.ErrInvalidOwner
	}
	if req.IsVatRegistered == nil {
		return taxdomain.VatSetting{}, taxdomain.ErrInvalidRegistration
	}
	if req.VatRate == nil || !taxdomain.ValidRate(*req.VatRate) || *req.VatRate > 100 {
		return taxdomain.VatSetting{}, taxdomain.ErrInvalidVatRate
	}

	profile, err := s.profileRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return taxdomain.VatSetting{}, err
	}
	if profile == nil {
		return taxdomain.VatSetting{}, taxdomain.ErrProfileRequired
	}

	now := s.clock.Now().UTC()
	setting := taxdomain.VatSetting{
		ID:              s.genID.Generate(),
		OwnerID:         ownerID,
		CountryCode:     profile.CountryCode,
		IsVatRegistered: *req.IsVatRegistered,
		VatRate:         *req.VatRate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Upsert(ctx, &setting); err != nil {
		return taxdomain.VatSetting{}, err
	}

	stored, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return taxdomain.VatSetting{}, err
	}
	if stored == nil {
		return taxdomain.VatSetting{}, taxdomain.ErrNotFound
	}

	s.log.Info("vat settings upserted",
		zap.String("owner_id", ownerID),
		zap.Bool("is_vat_registered", stored.IsVatRegistered),
		zap.Float64("vat_rate", stored.VatRate),
	)
	return *stored, nil
}

func (s *Service) Get(ctx context.Context) (taxdomain.VatSetting, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return taxdomain.VatSetting{}, taxdomain.ErrInvalidOwner
	}

	setting, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return taxdomain.VatSetting{}, err
	}
	if setting == nil {
		return taxdomain.VatSetting{}, taxdomain.ErrNotFound
	}
	return *setting, nil
}
