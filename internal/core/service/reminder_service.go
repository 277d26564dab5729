package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ms19/journal-system/internal/core/domain"
	"github.com/ms19/journal-system/internal/core/ports"
)

// ReminderService mails a periodic journaling reminder to every user with an email.
type ReminderService struct {
	users    ports.UserRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewReminderService(users ports.UserRepository, notifier ports.Notifier, logger zerolog.Logger) *ReminderService {
	return &ReminderService{users: users, notifier: notifier, logger: logger}
}

// SendWeeklyReminders queues one mail per user that has an email address and
// returns how many were queued.
func (s *ReminderService) SendWeeklyReminders(ctx context.Context) (int, error) {
	users, err := s.users.List(ctx, ports.UserFilter{HasEmail: true})
	if err != nil {
		return 0, fmt.Errorf("list reminder recipients: %w", err)
	}

	for _, u := range users {
		s.notifier.Send(ctx, reminderMail(u))
	}

	s.logger.Info().Int("recipients", len(users)).Msg("weekly reminders queued")
	return len(users), nil
}

func reminderMail(u *domain.User) domain.Mail {
	body := fmt.Sprintf("Hi %s, you have %d journal entries so far. Take a minute to write about your week.",
		u.Username, len(u.EntryIDs))
	if len(u.EntryIDs) == 0 {
		body = fmt.Sprintf("Hi %s, your journal is still empty. Why not start today?", u.Username)
	}
	return domain.Mail{To: u.Email, Subject: "Your weekly journal reminder", Body: body}
}
