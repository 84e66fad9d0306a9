package email

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewSMTPSender_Validation(t *testing.T) {
	if _, err := NewSMTPSender("", 587, "", "", "from@example.com", "", false); err == nil {
		t.Fatalf("expected error without host")
	}
	if _, err := NewSMTPSender("smtp.example.com", 587, "", "", "", "", false); err == nil {
		t.Fatalf("expected error without from and username")
	}

	s, err := NewSMTPSender("smtp.example.com", 0, "user@example.com", "pw", "", "HMS", false)
	if err != nil {
		t.Fatalf("expected sender, got %v", err)
	}
	if s.port != 587 {
		t.Fatalf("expected default port 587, got %d", s.port)
	}
	if s.from != "user@example.com" {
		t.Fatalf("expected from to fall back to username, got %s", s.from)
	}
}

func TestBuildMessage(t *testing.T) {
	expiresAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := buildMessage("noreply@example.com", "HMS", "user@example.com", "Your HMS Authentication Code", "042817", expiresAt)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	out := string(msg)

	for _, want := range []string{
		"From: HMS <noreply@example.com>",
		"To: user@example.com",
		"Subject: Your HMS Authentication Code",
		"multipart/alternative",
		"Your authentication code is: 042817",
		"2026-01-02T03:04:05Z",
		"text/html",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected message to contain %q", want)
		}
	}
}

func TestSMTPSender_RequiresRecipient(t *testing.T) {
	s, err := NewSMTPSender("smtp.example.com", 587, "", "", "from@example.com", "", false)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := s.SendOTP(context.Background(), " ", "123456", time.Now()); err == nil {
		t.Fatalf("expected error for empty recipient")
	}
}

func TestDisabledSender(t *testing.T) {
	err := NewDisabledSender("smtp not configured").SendOTP(context.Background(), "a@x.com", "123456", time.Now())
	if err == nil || err.Error() != "smtp not configured" {
		t.Fatalf("expected configured reason, got %v", err)
	}
	if err := NewDisabledSender("").SendOTP(context.Background(), "a@x.com", "123456", time.Now()); err == nil {
		t.Fatalf("expected error from disabled sender")
	}
}
