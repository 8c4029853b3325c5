package identity

import (
	"context"
	"errors"

	"github.com/smallbiznis/invoicer/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var Module = fx.Module("providers.identity",
	fx.Provide(NewFromConfig),
)

type Result struct {
	fx.Out

	Verifier  Verifier
	Directory Directory
}

func NewFromConfig(cfg config.Config, log *zap.Logger) (Result, error) {
	log = log.Named("providers.identity")

	if cfg.Firebase.ProjectID == "" {
		if cfg.IsProduction() {
			return Result{}, errors.New("FIREBASE_PROJECT_ID is required in production")
		}
		log.Warn("firebase not configured, bearer tokens are trusted as owner ids")
		local := NewLocal()
		return Result{Verifier: local, Directory: local}, nil
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	provider, err := NewFirebase(context.Background(), cfg.Firebase.ProjectID, opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Verifier: provider, Directory: provider}, nil
}
