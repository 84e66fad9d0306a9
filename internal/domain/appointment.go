package domain

import "time"

const (
	AppointmentPending   = "pending"
	AppointmentScheduled = "Scheduled"
	AppointmentUrgent    = "urgent"
	AppointmentVisited   = "visited"
	AppointmentCancelled = "Cancelled"
	AppointmentCompleted = "completed"

	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

type Appointment struct {
	ID           string    `json:"id" bson:"_id"`
	PatientEmail string    `json:"patient_email" bson:"patient_email"`
	PatientName  string    `json:"patient_name" bson:"patient_name"`
	DoctorEmail  string    `json:"doctor_email" bson:"doctor_email"`
	DoctorName   string    `json:"doctor_name" bson:"doctor_name"`
	Date         string    `json:"date" bson:"date"`
	Time         string    `json:"time" bson:"time"`
	Status       string    `json:"status" bson:"status"`
	Priority     string    `json:"priority,omitempty" bson:"priority,omitempty"`
	PaymentID    string    `json:"payment_id" bson:"payment_id"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// PriorityForStatus deriva la prioridad inicial de una cita a partir de su estado.
func PriorityForStatus(status string) string {
	switch status {
	case AppointmentUrgent:
		return PriorityHigh
	case AppointmentScheduled:
		return PriorityNormal
	default:
		return ""
	}
}
