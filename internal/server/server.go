package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicer/internal/config"
	"github.com/smallbiznis/invoicer/internal/customer"
	customerdomain "github.com/smallbiznis/invoicer/internal/customer/domain"
	"github.com/smallbiznis/invoicer/internal/invoice"
	invoicedomain "github.com/smallbiznis/invoicer/internal/invoice/domain"
	"github.com/smallbiznis/invoicer/internal/notification"
	"github.com/smallbiznis/invoicer/internal/observability"
	obsmiddleware "github.com/smallbiznis/invoicer/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/invoicer/internal/observability/metrics"
	obstracing "github.com/smallbiznis/invoicer/internal/observability/tracing"
	"github.com/smallbiznis/invoicer/internal/profile"
	profiledomain "github.com/smallbiznis/invoicer/internal/profile/domain"
	"github.com/smallbiznis/invoicer/internal/providers/identity"
	"github.com/smallbiznis/invoicer/internal/ratelimit"
	"github.com/smallbiznis/invoicer/internal/summary"
	summarydomain "github.com/smallbiznis/invoicer/internal/summary/domain"
	"github.com/smallbiznis/invoicer/internal/tax"
	taxdomain "github.com/smallbiznis/invoicer/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	profile.Module,
	tax.Module,
	customer.Module,
	notification.Module,
	invoice.Module,
	summary.Module,
	ratelimit.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, corsOrigin string) *gin.Engine {
	registerJSONTagNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS(corsOrigin))
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics, cfg.CORSOrigin)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	log         *zap.Logger
	redis       redis.UniversalClient
	verifier    identity.Verifier
	invoiceSvc  invoicedomain.Service
	customerSvc customerdomain.Service
	profileSvc  profiledomain.Service
	taxSvc      taxdomain.Service
	summarySvc  summarydomain.Service
	limiter     *ratelimit.OwnerLimiter
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	Log         *zap.Logger
	Redis       redis.UniversalClient `optional:"true"`
	Verifier    identity.Verifier
	InvoiceSvc  invoicedomain.Service
	CustomerSvc customerdomain.Service
	ProfileSvc  profiledomain.Service
	TaxSvc      taxdomain.Service
	SummarySvc  summarydomain.Service
	Limiter     *ratelimit.OwnerLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		log:         p.Log.Named("http.server"),
		redis:       p.Redis,
		verifier:    p.Verifier,
		invoiceSvc:  p.InvoiceSvc,
		customerSvc: p.CustomerSvc,
		profileSvc:  p.ProfileSvc,
		taxSvc:      p.TaxSvc,
		summarySvc:  p.SummarySvc,
		limiter:     p.Limiter,
	}
}

// RegisterRoutes mounts the health probe and the owner-scoped API.
func (s *Server) RegisterRoutes() {
	s.engine.GET("/health", s.Health)

	api := s.engine.Group("")
	api.Use(s.AuthRequired())

	write := s.writeLimit()

	api.POST("/invoices", write, s.CreateInvoice)
	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id/paid", write, s.MarkInvoicePaid)

	api.GET("/profile", s.GetProfile)
	api.POST("/profile", write, s.UpsertProfile)
	api.GET("/profile/vat", s.GetVatSettings)
	api.POST("/profile/vat", write, s.UpsertVatSettings)

	api.POST("/customers", write, s.CreateCustomer)
	api.GET("/customers", s.ListCustomers)
	api.GET("/customers/:id", s.GetCustomerByID)

	api.GET("/summary", s.GetSummary)
}

func (s *Server) writeLimit() gin.HandlerFunc {
	if s.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return s.limiter.Middleware()
}

// Health reports liveness and whether the database answers. Redis is
// optional; its failure only degrades the status.
func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	status := "ok"

	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			s.log.Warn("health check database ping failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		checks["database"] = "ok"
	}

	if s.redis != nil {
		if err := ratelimit.Ping(ctx, s.redis); err != nil {
			checks["redis"] = "unavailable"
			status = "degraded"
		} else {
			checks["redis"] = "ok"
		}
	}

	respondOK(c, gin.H{"status": status, "checks": checks})
}
