package ports

import (
	"context"

	"github.com/ms19/journal-system/internal/core/domain"
)

// Notifier delivers mail fire-and-forget. Failures are logged by the
// implementation and never reach the caller.
type Notifier interface {
	Send(ctx context.Context, mail domain.Mail)
}

// MailSender performs the actual delivery behind a Notifier.
type MailSender interface {
	Send(ctx context.Context, mail domain.Mail) error
}

type WeatherProvider interface {
	Current(ctx context.Context, city string) (*domain.WeatherSnapshot, error)
}

type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// IdentityProvider is an OAuth2 authorization-code login source.
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}
