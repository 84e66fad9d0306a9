package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hms-api/internal/email"
)

var (
	ErrDeliveryUnavailable = errors.New("mailer not initialized")
	ErrDelivery            = errors.New("failed to send otp")
)

// EmailDispatcher envia el OTP de los eventos OTP_GENERATED. Es critico: sus
// errores vuelven a la operacion que emitio el evento.
type EmailDispatcher struct {
	logger *zap.Logger
	sender email.Sender
}

func NewEmailDispatcher(logger *zap.Logger, sender email.Sender) *EmailDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailDispatcher{logger: logger, sender: sender}
}

func (d *EmailDispatcher) Name() string {
	return "email_dispatcher"
}

func (d *EmailDispatcher) DeliveryCritical() bool {
	return true
}

func (d *EmailDispatcher) Update(ctx context.Context, ev Event) error {
	if ev.Kind != KindOTPGenerated {
		return nil
	}
	code := ev.String(KeyOTP)
	if code == "" {
		return fmt.Errorf("%w: event without otp", ErrDelivery)
	}
	if d.sender == nil {
		return ErrDeliveryUnavailable
	}

	var expiresAt time.Time
	if v, ok := ev.Payload[KeyExpiresAt].(time.Time); ok {
		expiresAt = v
	}

	d.logger.Info("sending otp email", zap.String("email", ev.SubjectID), zap.String("type", ev.String(KeyType)))
	if err := d.sender.SendOTP(ctx, ev.SubjectID, code, expiresAt); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	d.logger.Info("otp email sent", zap.String("email", ev.SubjectID))
	return nil
}
