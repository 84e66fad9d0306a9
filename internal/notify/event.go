// Package notify conecta las transiciones de auth y de citas con sus efectos
// (logs, emails) mediante sujetos y observadores sincronicos.
package notify

import "time"

// Kind identifica un evento del ciclo de vida.
type Kind string

const (
	// Auth.
	KindOTPGenerated       Kind = "OTP_GENERATED"
	KindOTPFailed          Kind = "OTP_FAILED"
	KindLoginSuccess       Kind = "LOGIN_SUCCESS"
	KindVerificationFailed Kind = "VERIFICATION_FAILED"

	// Citas.
	KindAppointmentCreated       Kind = "APPOINTMENT_CREATED"
	KindAppointmentStatusChanged Kind = "APPOINTMENT_STATUS_CHANGED"
)

// Claves de payload compartidas por emisores y observadores.
const (
	KeyOTP       = "otp"
	KeyType      = "type"
	KeyExpiresAt = "expires_at"
	KeyError     = "error"
	KeyReason    = "reason"
	KeyOldStatus = "old_status"
	KeyNewStatus = "new_status"
)

// Event describe algo que le ocurrio a un sujeto (email de usuario o id de
// cita). No se persiste.
type Event struct {
	Kind       Kind
	SubjectID  string
	Payload    map[string]any
	OccurredAt time.Time
}

func NewEvent(kind Kind, subjectID string, payload map[string]any) Event {
	return Event{
		Kind:       kind,
		SubjectID:  subjectID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// String devuelve el valor string de key, o "" si falta.
func (e Event) String(key string) string {
	if e.Payload == nil {
		return ""
	}
	v, _ := e.Payload[key].(string)
	return v
}
