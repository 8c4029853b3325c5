package email

import (
	"github.com/smallbiznis/invoicer/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Provider {
	log = log.Named("providers.email")

	switch cfg.Email.Driver {
	case "sendgrid":
		if cfg.Email.SendGridAPIKey == "" {
			log.Warn("sendgrid driver selected without api key, falling back to noop")
			return &NoOpProvider{}
		}
		return NewSendGrid(cfg.Email.SendGridAPIKey)
	case "smtp":
		return NewSMTP(SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
		})
	default:
		log.Info("email delivery disabled", zap.String("driver", cfg.Email.Driver))
		return &NoOpProvider{}
	}
}
