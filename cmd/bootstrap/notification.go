package bootstrap

import (
	"context"
	"log/slog"

	"storefront-checkout/internal/infra/dispatch"
	"storefront-checkout/internal/infra/mailer"
	"storefront-checkout/internal/pkg/config"
	"storefront-checkout/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotificationModule = fx.Module("notification",
	fx.Provide(
		NewMailSender,
		fx.Annotate(
			NewDispatcher,
			fx.As(new(shared.Notifier)),
		),
	),
)

func NewMailSender(cfg config.Config, logger *slog.Logger) dispatch.Sender {
	if !cfg.Mail.HasCredentials() {
		logger.Warn("mail credentials missing; notifications will be logged as failed")
	}
	return mailer.NewSMTPSender(cfg.Mail, logger)
}

// Workers outlive individual requests; Stop drains the queue within the
// shutdown deadline.
func NewDispatcher(lc fx.Lifecycle, sender dispatch.Sender, cfg config.Config, logger *slog.Logger) *dispatch.Dispatcher {
	d := dispatch.NewDispatcher(sender, logger, cfg.Checkout)
	workerCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start(workerCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			defer cancel()
			return d.Stop(ctx)
		},
	})
	return d
}
