package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/internal/clock"
	"github.com/smallbiznis/invoicer/internal/ownercontext"
	"github.com/smallbiznis/invoicer/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("profile.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertProfileRequest) (domain.Profile, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.Profile{}, domain.ErrInvalidOwner
	}

	name := strings.TrimSpace(req.BusinessName)
	if name == "" {
		return domain.Profile{}, domain.ErrInvalidBusinessName
	}
	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if len(country) != 2 {
		return domain.Profile{}, domain.ErrInvalidCountryCode
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return domain.Profile{}, domain.ErrInvalidCurrency
	}

	var emailFrom *string
	if req.EmailFrom != nil {
		value := strings.TrimSpace(*req.EmailFrom)
		if value != "" {
			if _, err := mail.ParseAddress(value); err != nil {
				return domain.Profile{}, domain.ErrInvalidEmailFrom
			}
			emailFrom = &value
		}
	}

	now := s.clock.Now().UTC()
	profile := domain.Profile{
		ID:           s.genID.Generate(),
		OwnerID:      ownerID,
		BusinessName: name,
		CountryCode:  country,
		Currency:     currency,
		EmailFrom:    emailFrom,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Upsert(ctx, &profile); err != nil {
		return domain.Profile{}, err
	}

	// The conflict path keeps the original row id, so read it back.
	stored, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return domain.Profile{}, err
	}
	if stored == nil {
		return domain.Profile{}, domain.ErrNotFound
	}

	s.log.Info("profile upserted", zap.String("owner_id", ownerID), zap.String("profile_id", stored.ID.String()))
	return *stored, nil
}

func (s *Service) Get(ctx context.Context) (domain.Profile, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return domain.Profile{}, domain.ErrInvalidOwner
	}

	profile, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile == nil {
		return domain.Profile{}, domain.ErrNotFound
	}
	return *profile, nil
}
