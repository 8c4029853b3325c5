package providers

import (
	"github.com/smallbiznis/invoicer/internal/providers/closer"
	"github.com/smallbiznis/invoicer/internal/providers/email"
	"github.com/smallbiznis/invoicer/internal/providers/identity"
	"github.com/smallbiznis/invoicer/internal/providers/pdf"
	"github.com/smallbiznis/invoicer/internal/providers/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	fx.Provide(closer.NewClosers),
	email.Module,
	identity.Module,
	pdf.Module,
	storage.Module,
)
