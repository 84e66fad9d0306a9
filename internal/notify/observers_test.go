package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	to        string
	code      string
	expiresAt time.Time
	calls     int
	err       error
}

func (f *fakeSender) SendOTP(_ context.Context, to, code string, expiresAt time.Time) error {
	f.calls++
	f.to = to
	f.code = code
	f.expiresAt = expiresAt
	return f.err
}

func TestAuditLogger_LogsEventAndRedactsOTP(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := NewAuditLogger(zap.New(core))

	err := a.Update(context.Background(), NewEvent(KindOTPGenerated, "a@x.com", map[string]any{
		KeyOTP:  "123456",
		KeyType: "login",
	}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["event"] != "OTP_GENERATED" || ctx["subject_id"] != "a@x.com" {
		t.Fatalf("unexpected log fields: %+v", ctx)
	}
	details, ok := ctx["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", ctx["details"])
	}
	if details[KeyOTP] != redacted {
		t.Fatalf("expected otp redacted, got %v", details[KeyOTP])
	}
	if details[KeyType] != "login" {
		t.Fatalf("expected type login, got %v", details[KeyType])
	}
}

func TestAuditLogger_NoPayload(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := NewAuditLogger(zap.New(core))

	if err := a.Update(context.Background(), NewEvent(KindLoginSuccess, "a@x.com", nil)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["details"]; got != "no additional details" {
		t.Fatalf("unexpected details: %v", got)
	}
}

func TestEmailDispatcher_SendsOnlyOTPGenerated(t *testing.T) {
	sender := &fakeSender{}
	d := NewEmailDispatcher(nil, sender)

	if err := d.Update(context.Background(), NewEvent(KindLoginSuccess, "a@x.com", nil)); err != nil {
		t.Fatalf("expected other kinds ignored, got %v", err)
	}
	if sender.calls != 0 {
		t.Fatalf("expected no send, got %d", sender.calls)
	}

	exp := time.Now().Add(10 * time.Minute)
	err := d.Update(context.Background(), NewEvent(KindOTPGenerated, "a@x.com", map[string]any{
		KeyOTP:       "654321",
		KeyExpiresAt: exp,
	}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if sender.calls != 1 || sender.to != "a@x.com" || sender.code != "654321" {
		t.Fatalf("unexpected send: %+v", sender)
	}
	if !sender.expiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, sender.expiresAt)
	}
	if !d.DeliveryCritical() {
		t.Fatalf("expected dispatcher to be delivery-critical")
	}
}

func TestEmailDispatcher_Failures(t *testing.T) {
	ev := NewEvent(KindOTPGenerated, "a@x.com", map[string]any{KeyOTP: "654321"})

	if err := NewEmailDispatcher(nil, nil).Update(context.Background(), ev); !errors.Is(err, ErrDeliveryUnavailable) {
		t.Fatalf("expected mailer unavailable, got %v", err)
	}

	err := NewEmailDispatcher(nil, &fakeSender{err: errors.New("connection refused")}).Update(context.Background(), ev)
	if !errors.Is(err, ErrDelivery) || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped delivery error, got %v", err)
	}
}

func TestEmailDispatcher_EventWithoutOTPFails(t *testing.T) {
	sender := &fakeSender{}
	d := NewEmailDispatcher(nil, sender)

	err := d.Update(context.Background(), NewEvent(KindOTPGenerated, "a@x.com", map[string]any{KeyType: "login"}))
	if !errors.Is(err, ErrDelivery) {
		t.Fatalf("expected delivery error, got %v", err)
	}
	if sender.calls != 0 {
		t.Fatalf("expected no send, got %d", sender.calls)
	}

	s := NewSubject("auth", nil)
	s.Attach(d)
	res := s.Notify(context.Background(), NewEvent(KindOTPGenerated, "a@x.com", nil))
	if !errors.Is(res.CriticalErr(), ErrDelivery) {
		t.Fatalf("expected critical failure reported, got %+v", res)
	}
}

func TestAppointmentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewAppointmentLogger(zap.New(core))

	if err := l.Update(context.Background(), NewEvent(KindAppointmentCreated, "appt-1", map[string]any{"doctor_email": "d@x.com"})); err != nil {
		t.Fatalf("created: %v", err)
	}
	err := l.Update(context.Background(), NewEvent(KindAppointmentStatusChanged, "appt-1", map[string]any{
		KeyOldStatus: "pending",
		KeyNewStatus: "completed",
	}))
	if err != nil {
		t.Fatalf("status changed: %v", err)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Message != "new appointment created" || entries[1].Message != "appointment status changed" {
		t.Fatalf("unexpected messages: %q, %q", entries[0].Message, entries[1].Message)
	}
	fields := entries[1].ContextMap()
	if fields["old_status"] != "pending" || fields["new_status"] != "completed" {
		t.Fatalf("unexpected status fields: %+v", fields)
	}
}
