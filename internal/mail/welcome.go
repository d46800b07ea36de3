package mail

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/appboilerplate/taskmanager/internal/i18n"
	"github.com/appboilerplate/taskmanager/jobs"
)

// Enqueuer pushes send-email tasks onto the job queue.
type Enqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
}

// WelcomeMailer renders the welcome email and hands it to the job queue.
type WelcomeMailer struct {
	renderer *Renderer
	queue    Enqueuer
	strings  i18n.Localizer
	globals  Globals
}

// NewWelcomeMailer constructs a WelcomeMailer.
func NewWelcomeMailer(renderer *Renderer, queue Enqueuer, bundle *i18n.Bundle, globals Globals) *WelcomeMailer {
	return &WelcomeMailer{
		renderer: renderer,
		queue:    queue,
		strings:  bundle.Domain("user"),
		globals:  globals,
	}
}

// SendWelcome enqueues the welcome email. The subject follows the locale in ctx.
func (m *WelcomeMailer) SendWelcome(ctx context.Context, name, email string) error {
	body, err := m.renderer.Render("welcome", Welcome{Name: name, Email: email, Globals: m.globals})
	if err != nil {
		return err
	}
	subject := m.strings.T(ctx, "welcomeEmailSubject", i18n.Vars{"product": m.globals.ProductName, "name": name})
	if _, err := m.queue.EnqueueSendEmail(ctx, jobs.SendEmailPayload{To: email, Subject: subject, Body: body}); err != nil {
		return fmt.Errorf("mail: enqueue welcome: %w", err)
	}
	return nil
}
