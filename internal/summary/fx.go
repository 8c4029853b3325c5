package summary

import (
	"github.com/smallbiznis/invoicer/internal/summary/service"
	"go.uber.org/fx"
)

var Module = fx.Module("summary.service",
	fx.Provide(service.New),
)
