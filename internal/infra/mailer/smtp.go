package mailer

import (
	"context"
	"log/slog"

	"storefront-checkout/internal/pkg/config"
	"storefront-checkout/internal/pkg/errs"

	"github.com/wneessen/go-mail"
)

var (
	ErrMissingCredentials = errs.New("smtp credentials are not configured")
	ErrInvalidRecipient   = errs.New("invalid recipient address")
)

type SMTPSender struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

func NewSMTPSender(cfg config.MailConfig, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if !s.cfg.HasCredentials() {
		return ErrMissingCredentials
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.Username); err != nil {
		return errs.Wrap(err, "invalid sender address")
	}
	if err := msg.To(to); err != nil {
		return errs.Mark(errs.Wrap(err, to), ErrInvalidRecipient)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return errs.Wrap(err, "failed to create smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return errs.Wrapf(err, "failed to send mail to %s", to)
	}

	s.logger.Debug("mail sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}

// Port 465 speaks implicit TLS; other ports must upgrade with STARTTLS.
func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}
	return opts
}
