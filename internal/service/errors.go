package service

import (
	"errors"
	"fmt"
)

// Validacion y busqueda.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("email already registered")
	ErrNotFound   = errors.New("not found")
)

// Auth.
var (
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("please verify email first")
	ErrAlreadyVerified    = fmt.Errorf("%w: email already verified", ErrValidation)
)

// OTP.
var (
	ErrOTPInvalid       = errors.New("invalid otp")
	ErrOTPNotRequested  = fmt.Errorf("%w: no otp requested (%w)", ErrValidation, ErrOTPInvalid)
	ErrOTPExpired       = errors.New("otp expired")
	ErrEmailSendFailure = errors.New("email delivery failed")
)

// Agenda y cobros.
var (
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment not found", ErrNotFound)
	ErrSlotTaken           = errors.New("this time slot is already booked")
	ErrNoChange            = errors.New("no changes made to appointment")
	ErrInvalidPayment      = errors.New("invalid payment reference")
	ErrPaymentMismatch     = errors.New("payment reference does not match patient")
	ErrPaymentDeclined     = errors.New("payment processing failed")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsAuthError agrupa los errores de credenciales que se responden con 401.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrEmailNotVerified)
}
