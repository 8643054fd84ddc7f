package bootstrap

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/alexmurray/portfolio-backend/internal/config"
	"github.com/alexmurray/portfolio-backend/internal/notify"
	"github.com/alexmurray/portfolio-backend/pkg/logging"
)

// BuildEmailSender selects the notification email transport from config.
//
// Provider "sendgrid" and "ses" force that backend; "auto" picks SendGrid
// when an API key is present, then SES when a from address is configured,
// and finally the logging stub so notification attempts remain observable
// in environments without credentials.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	provider := cfg.EmailProvider
	if provider == "" {
		provider = "auto"
	}

	if provider == "sendgrid" || (provider == "auto" && cfg.SendGridAPIKey != "") {
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender != nil {
			logger.Info("email sender configured", "provider", "sendgrid", "from", cfg.SendGridFromEmail)
			return sender
		}
		logger.Warn("sendgrid selected but not configured, falling back to stub")
		return notify.NewStubEmailSender(logger)
	}

	if provider == "ses" || (provider == "auto" && cfg.SESFromEmail != "") {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("unable to load AWS config, falling back to stub", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.NotifyName,
		}, logger)
		if sender != nil {
			logger.Info("email sender configured", "provider", "ses", "from", cfg.SESFromEmail, "region", cfg.AWSRegion)
			return sender
		}
		logger.Warn("ses selected but not configured, falling back to stub")
		return notify.NewStubEmailSender(logger)
	}

	logger.Info("email sender configured", "provider", "stub")
	return notify.NewStubEmailSender(logger)
}
