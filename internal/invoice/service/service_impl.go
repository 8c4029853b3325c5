package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicer/internal/clock"
	"github.com/smallbiznis/invoicer/internal/config"
	customerdomain "github.com/smallbiznis/invoicer/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	"github.com/smallbiznis/invoicer/internal/invoice/format"
	"github.com/smallbiznis/invoicer/internal/invoice/render"
	notificationdomain "github.com/smallbiznis/invoicer/internal/notification/domain"
	"github.com/smallbiznis/invoicer/internal/observability/metrics"
	"github.com/smallbiznis/invoicer/internal/ownercontext"
	profiledomain "github.com/smallbiznis/invoicer/internal/profile/domain"
	"github.com/smallbiznis/invoicer/internal/providers/identity"
	"github.com/smallbiznis/invoicer/internal/providers/pdf"
	"github.com/smallbiznis/invoicer/internal/providers/storage"
	"github.com/smallbiznis/invoicer/internal/ratelimit"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	"github.com/smallbiznis/invoicer/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const paymentLockTTL = 10 * time.Second

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Config config.Config

	Repo         invoicedomain.Repository
	CustomerRepo customerdomain.Repository
	ProfileRepo  profiledomain.Repository
	TaxResolver  taxdomain.Resolver
	Numberer     format.Numberer
	Renderer     render.Renderer

	PDF          pdf.Provider
	Storage      storage.Provider
	Directory    identity.Directory
	Notification notificationdomain.Service

	Metrics     *metrics.Metrics     `optional:"true"`
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
	Locker      *ratelimit.Locker    `optional:"true"`
}

// locker is satisfied by *ratelimit.Locker.
type locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	repo         invoicedomain.Repository
	customerRepo customerdomain.Repository
	profileRepo  profiledomain.Repository
	taxResolver  taxdomain.Resolver
	numberer     format.Numberer
	renderer     render.Renderer

	pdf          pdf.Provider
	storage      storage.Provider
	directory    identity.Directory
	notification notificationdomain.Service

	metrics     *metrics.Metrics
	httpMetrics *metrics.HTTPMetrics
	locker      locker

	emailFrom     string
	emailFromName string
}

func New(p Params) invoicedomain.Service {
	svc := &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: p.Clock,

		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		profileRepo:  p.ProfileRepo,
		taxResolver:  p.TaxResolver,
		numberer:     p.Numberer,
		renderer:     p.Renderer,

		pdf:          p.PDF,
		storage:      p.Storage,
		directory:    p.Directory,
		notification: p.Notification,

		metrics:     p.Metrics,
		httpMetrics: p.HTTPMetrics,

		emailFrom:     p.Config.Email.From,
		emailFromName: p.Config.Email.FromName,
	}
	if svc.clock == nil {
		svc.clock = clock.SystemClock{}
	}
	if svc.numberer == nil {
		svc.numberer = format.NewNumberer(p.Config.Invoice.NumberTemplate)
	}
	if p.Locker != nil {
		svc.locker = p.Locker
	}
	return svc
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	ownerID, err := s.ownerIDFromContext(ctx)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}
	if req.Status != nil && !req.Status.Valid() {
		return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidStatus
	}

	page := req.Page.Normalize()
	invoices, total, err := s.repo.List(ctx, s.db, ownerID, invoicedomain.ListFilter{Status: req.Status}, page)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}
	if invoices == nil {
		invoices = []invoicedomain.Invoice{}
	}

	return invoicedomain.ListInvoiceResponse{
		PageInfo: pagination.BuildPageInfo(page, total),
		Invoices: invoices,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.InvoiceDetail, error) {
	ownerID, err := s.ownerIDFromContext(ctx)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, ownerID, invoiceID)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}
	items, err := s.repo.ListItems(ctx, s.db, ownerID, invoiceID)
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}
	return invoicedomain.InvoiceDetail{Invoice: *invoice, Items: items}, nil
}

func (s *Service) ownerIDFromContext(ctx context.Context) (string, error) {
	ownerID, ok := ownercontext.OwnerIDFromContext(ctx)
	if !ok {
		return "", invoicedomain.ErrInvalidOwner
	}
	return ownerID, nil
}

func parseID(value string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, invoicedomain.ErrInvalidID
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, invoicedomain.ErrInvalidID
	}
	return snowflake.ID(id), nil
}
