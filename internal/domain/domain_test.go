package domain

import (
	"testing"
	"time"
)

func TestPriorityForStatus(t *testing.T) {
	cases := map[string]string{
		AppointmentUrgent:    PriorityHigh,
		AppointmentScheduled: PriorityNormal,
		AppointmentPending:   "",
		"something-else":     "",
	}
	for status, want := range cases {
		if got := PriorityForStatus(status); got != want {
			t.Fatalf("status %q: expected %q, got %q", status, want, got)
		}
	}
}

func TestMaskCardNumber(t *testing.T) {
	if got := MaskCardNumber("4111111111111111"); got != "************1111" {
		t.Fatalf("unexpected mask: %s", got)
	}
	if got := MaskCardNumber(""); got != "" {
		t.Fatalf("expected empty mask, got %s", got)
	}
}

func TestUserHasOTPAndPublic(t *testing.T) {
	exp := time.Now().Add(time.Minute)
	u := User{Email: "a@x.com", Name: "A", Role: RolePatient, PasswordHash: "hash", OTP: "123456"}
	if u.HasOTP() {
		t.Fatalf("expected no otp without expiry")
	}
	u.OTPExpiry = &exp
	if !u.HasOTP() {
		t.Fatalf("expected otp present")
	}
	pub := u.Public()
	if pub.Email != "a@x.com" || pub.Name != "A" || pub.Role != RolePatient {
		t.Fatalf("unexpected public profile: %+v", pub)
	}
}
