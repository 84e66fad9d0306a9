package domain

import "time"

const PaymentStatusPaid = "paid"

type Billing struct {
	TransactionID string    `json:"transaction_id" bson:"transaction_id"`
	PatientEmail  string    `json:"patient_email" bson:"patient_email"`
	PatientName   string    `json:"patient_name" bson:"patient_name"`
	DoctorEmail   string    `json:"doctor_email" bson:"doctor_email"`
	DoctorName    string    `json:"doctor_name" bson:"doctor_name"`
	Amount        float64   `json:"amount" bson:"amount"`
	CardNumber    string    `json:"card_number" bson:"card_number"`
	CardHolder    string    `json:"card_holder" bson:"card_holder"`
	ExpiryDate    string    `json:"expiry_date" bson:"expiry_date"`
	ScheduleDate  string    `json:"schedule_date" bson:"schedule_date"`
	ScheduleTime  string    `json:"schedule_time" bson:"schedule_time"`
	PaymentDate   string    `json:"payment_date" bson:"payment_date"`
	PaymentTime   string    `json:"payment_time" bson:"payment_time"`
	PaymentStatus string    `json:"payment_status" bson:"payment_status"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// MaskCardNumber deja visibles solo los ultimos 4 digitos.
func MaskCardNumber(number string) string {
	if number == "" {
		return ""
	}
	last := number
	if len(number) > 4 {
		last = number[len(number)-4:]
	}
	return "************" + last
}
