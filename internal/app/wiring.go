package app

import (
	"log/slog"
	"strings"

	"github.com/appboilerplate/taskmanager/internal/mail"
	"github.com/appboilerplate/taskmanager/internal/observability"
	"github.com/appboilerplate/taskmanager/internal/platform/redisconn"
	"github.com/appboilerplate/taskmanager/jobs"
)

// MailGlobals returns the product values shared by every email template.
func (c *Config) MailGlobals() mail.Globals {
	return mail.Globals{
		ProductName:    c.AppName,
		LoginURL:       strings.TrimRight(c.AppURL, "/") + "/users/login",
		SupportEmail:   c.SupportEmail,
		SenderName:     c.SenderName,
		CompanyName:    c.CompanyName,
		CompanyAddress: c.CompanyAddress,
	}
}

// SMTP returns the outgoing mail server settings.
func (c *Config) SMTP() mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:       c.SMTPHost,
		Port:       c.SMTPPort,
		Username:   c.SMTPUsername,
		Password:   c.SMTPPassword,
		From:       c.SMTPFrom,
		FromName:   c.AppName,
		RequireTLS: c.SMTPRequireTLS,
	}
}

// NewEmailWorker builds the asynq worker that delivers queued emails over
// SMTP. Both the standalone worker and the embedded API worker use it.
func NewEmailWorker(cfg *Config, logger *slog.Logger, metrics *observability.Metrics) (*jobs.Worker, error) {
	sendEmail := jobs.NewSendEmailJob(mail.NewSMTPSender(cfg.SMTP()), logger, metrics.Jobs())
	return jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisconn.AsynqOpt(cfg.RedisAddr),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: sendEmail.Handle},
		},
	})
}
