package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/invoicer/internal/clock"
	"github.com/smallbiznis/invoicer/internal/config"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	summarydomain "github.com/smallbiznis/invoicer/internal/summary/domain"
	"github.com/smallbiznis/invoicer/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Repo      invoicedomain.Repository
	Reporting *config.ReportingConfigHolder `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	repo      invoicedomain.Repository
	reporting *config.ReportingConfigHolder
}

func New(p Params) summarydomain.Service {
	svc := &Service{
		db:        p.DB,
		log:       p.Log.Named("summary.service"),
		clock:     p.Clock,
		repo:      p.Repo,
		reporting: p.Reporting,
	}
	if svc.clock == nil {
		svc.clock = clock.SystemClock{}
	}
	return svc
}

func (s *Service) Summarize(ctx context.Context, ownerID string, req summarydomain.Request) (summarydomain.Result, error) {
	if strings.TrimSpace(ownerID) == "" {
		return summarydomain.Result{}, summarydomain.ErrInvalidOwner
	}

	cfg := s.reporting.Get()
	if req.GroupBy == "" {
		req.GroupBy = summarydomain.GroupBy(cfg.DefaultGroupBy)
	}
	if !req.GroupBy.Valid() {
		return summarydomain.Result{}, summarydomain.ErrInvalidGroupBy
	}
	if req.Currency != "" {
		req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
		if len(req.Currency) != 3 {
			return summarydomain.Result{}, summarydomain.ErrInvalidCurrency
		}
	}
	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return summarydomain.Result{}, summarydomain.ErrInvalidRange
	}

	invoices, err := s.fetchAll(ctx, ownerID, req, cfg.PageSize)
	if err != nil {
		return summarydomain.Result{}, err
	}

	result := Aggregate(invoices, req, s.clock.Now().UTC(), cfg.TopCustomers)
	s.log.Debug("summary computed",
		zap.String("owner_id", ownerID),
		zap.Int("invoices", len(invoices)),
		zap.String("group_by", string(result.GroupBy)),
	)
	return result, nil
}

// fetchAll reads pages until a short one. The whole filtered history is held
// in memory.
func (s *Service) fetchAll(ctx context.Context, ownerID string, req summarydomain.Request, pageSize int) ([]invoicedomain.Invoice, error) {
	if pageSize <= 0 || pageSize > pagination.MaxLimit {
		pageSize = pagination.MaxLimit
	}

	filter := invoicedomain.ListFilter{
		CreatedFrom: req.From,
		CreatedTo:   req.To,
		Currency:    req.Currency,
	}

	var all []invoicedomain.Invoice
	for page := 1; ; page++ {
		batch, _, err := s.repo.List(ctx, s.db, ownerID, filter, pagination.Page{Page: page, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
}
