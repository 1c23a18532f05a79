package mail

import (
	"strings"
	"testing"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
)

func TestVerificationMessage(t *testing.T) {
	msg, err := VerificationMessage("alice@example.com", "123456")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if msg.To != "alice@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if msg.Subject != verificationSubject {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, ">123456</strong>") {
		t.Fatalf("expected code in body, got %s", msg.HTML)
	}
}

func TestNewSender(t *testing.T) {
	sender, err := NewSender(config.MailConfig{Driver: "log"})
	if err != nil {
		t.Fatalf("log driver: %v", err)
	}
	if _, ok := sender.(LogSender); !ok {
		t.Fatalf("expected LogSender, got %T", sender)
	}

	if _, err := NewSender(config.MailConfig{Driver: "pigeon"}); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}
	if _, err := NewSender(config.MailConfig{Driver: "smtp", Host: "smtp.example.com"}); err == nil {
		t.Fatalf("expected missing from address to fail")
	}

	smtp, err := NewSender(config.MailConfig{
		Driver:   "smtp",
		Host:     "smtp.example.com",
		Port:     587,
		Username: "relay",
		Password: "secret",
		From:     "noreply@example.com",
	})
	if err != nil {
		t.Fatalf("smtp driver: %v", err)
	}
	if _, ok := smtp.(*SMTPSender); !ok {
		t.Fatalf("expected *SMTPSender, got %T", smtp)
	}
}
