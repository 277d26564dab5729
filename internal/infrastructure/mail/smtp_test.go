package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ms19/journal-system/internal/core/domain"
)

func TestSMTPSender_MessageHeaders(t *testing.T) {
	s := NewSMTPSender(Config{Host: "localhost", Port: 2525, From: "journal@example.com"})

	msg := s.message(domain.Mail{To: "alice@example.com", Subject: "Hello", Body: "Body text"})

	if got := msg.GetHeader("From"); len(got) != 1 || got[0] != "journal@example.com" {
		t.Fatalf("From: %v", got)
	}
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "alice@example.com" {
		t.Fatalf("To: %v", got)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	if !strings.Contains(buf.String(), "Body text") {
		t.Fatalf("body missing from rendered message:\n%s", buf.String())
	}
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	s := NewSMTPSender(Config{Host: "localhost", Port: 2525})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Send(ctx, domain.Mail{To: "a@example.com"}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
