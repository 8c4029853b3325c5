package invoice

import (
	"github.com/smallbiznis/invoicer/internal/config"
	"github.com/smallbiznis/invoicer/internal/invoice/format"
	"github.com/smallbiznis/invoicer/internal/invoice/render"
	"github.com/smallbiznis/invoicer/internal/invoice/repository"
	"github.com/smallbiznis/invoicer/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(cfg config.Config) format.Numberer {
		return format.NewNumberer(cfg.Invoice.NumberTemplate)
	}),
	fx.Provide(render.NewRenderer),
	fx.Provide(service.New),
)
