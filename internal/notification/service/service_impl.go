package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/internal/clock"
	"github.com/smallbiznis/invoicer/internal/notification/domain"
	"github.com/smallbiznis/invoicer/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Email email.Provider
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	email email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		email: p.Email,
	}
}

func (s *Service) EnsureTarget(ctx context.Context, identityID string, providerType domain.ProviderType, identifier string) (*domain.Target, error) {
	identityID = strings.TrimSpace(identityID)
	identifier = strings.TrimSpace(identifier)
	if identityID == "" || identifier == "" || providerType == "" {
		return nil, domain.ErrInvalidTarget
	}

	target := domain.Target{
		ID:           s.genID.Generate(),
		IdentityID:   identityID,
		ProviderType: providerType,
		Identifier:   identifier,
		CreatedAt:    s.clock.Now().UTC(),
	}
	createErr := s.repo.CreateTarget(ctx, &target)
	if createErr == nil {
		return &target, nil
	}

	targets, err := s.repo.ListTargets(ctx, identityID)
	if err != nil {
		return nil, errors.Join(createErr, err)
	}
	for i := range targets {
		if targets[i].ProviderType == providerType && strings.EqualFold(targets[i].Identifier, identifier) {
			return &targets[i], nil
		}
	}

	s.log.Warn("notification target unresolved",
		zap.String("identity_id", identityID),
		zap.String("provider_type", string(providerType)),
		zap.Error(createErr),
	)
	return nil, nil
}

// Dispatch sends req.Message once per (invoice, target). A repeated dispatch
// returns ErrAlreadyDelivered without sending.
func (s *Service) Dispatch(ctx context.Context, req domain.DispatchRequest) (domain.Delivery, error) {
	if req.Target.ID == 0 {
		return domain.Delivery{}, domain.ErrInvalidTarget
	}

	now := s.clock.Now().UTC()
	delivery := domain.Delivery{
		ID:        s.genID.Generate(),
		OwnerID:   req.OwnerID,
		InvoiceID: req.InvoiceID,
		TargetID:  req.Target.ID,
		Subject:   req.Message.Subject,
		Status:    domain.DeliveryStatusPending,
		Metadata: datatypes.JSONMap{
			"provider_type": string(req.Target.ProviderType),
			"attachments":   len(req.Message.Attachments),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateDelivery(ctx, &delivery); err != nil {
		return domain.Delivery{}, err
	}

	msg := req.Message
	msg.To = []string{req.Target.Identifier}
	sendErr := s.email.Send(ctx, msg)

	delivery.Status = domain.DeliveryStatusSent
	if sendErr != nil {
		delivery.Status = domain.DeliveryStatusFailed
		delivery.Metadata["error"] = sendErr.Error()
	}
	if err := s.repo.UpdateDeliveryStatus(ctx, delivery.ID, delivery.Status, delivery.Metadata, s.clock.Now().UTC()); err != nil {
		s.log.Warn("failed to record delivery status", zap.Error(err), zap.String("delivery_id", delivery.ID.String()))
	}

	return delivery, sendErr
}
