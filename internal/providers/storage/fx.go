package storage

import (
	"context"

	"github.com/smallbiznis/invoicer/internal/config"
	"github.com/smallbiznis/invoicer/internal/providers/closer"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var Module = fx.Module("providers.storage",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, closers *closer.Closers, log *zap.Logger) (Provider, error) {
	log = log.Named("providers.storage")

	if cfg.Storage.Driver != "gcs" {
		log.Info("using in-memory object storage", zap.String("driver", cfg.Storage.Driver))
		return NewMemory(), nil
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	provider, err := NewGCS(context.Background(), cfg.Storage.Bucket, opts...)
	if err != nil {
		return nil, err
	}
	closers.Register("gcs", provider.Close)
	return provider, nil
}
