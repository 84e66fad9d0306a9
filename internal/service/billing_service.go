package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hms-api/internal/domain"
	"hms-api/internal/payment"
	"hms-api/internal/repository"
)

// BillingService cobra consultas a traves del procesador de pagos.
type BillingService struct {
	logger    *zap.Logger
	billing   repository.BillingRepository
	processor *payment.Processor
	now       func() time.Time
}

func NewBillingService(logger *zap.Logger, billing repository.BillingRepository, processor *payment.Processor) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{
		logger:    logger,
		billing:   billing,
		processor: processor,
		now:       time.Now,
	}
}

type ProcessPaymentInput struct {
	PatientEmail string  `json:"patient_email"`
	PatientName  string  `json:"patient_name"`
	DoctorEmail  string  `json:"doctor_email"`
	DoctorName   string  `json:"doctor_name"`
	Amount       float64 `json:"amount"`
	CardNumber   string  `json:"card_number"`
	CardHolder   string  `json:"card_holder"`
	ExpiryDate   string  `json:"expiry_date"`
	ScheduleDate string  `json:"schedule_date"`
	ScheduleTime string  `json:"schedule_time"`
}

func (in ProcessPaymentInput) missing() []string {
	var out []string
	for _, f := range []struct{ name, value string }{
		{"patient_email", in.PatientEmail},
		{"patient_name", in.PatientName},
		{"doctor_email", in.DoctorEmail},
		{"doctor_name", in.DoctorName},
		{"card_number", in.CardNumber},
		{"card_holder", in.CardHolder},
		{"expiry_date", in.ExpiryDate},
		{"schedule_date", in.ScheduleDate},
		{"schedule_time", in.ScheduleTime},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	if in.Amount == 0 {
		out = append(out, "amount")
	}
	return out
}

// Process cobra el pago y guarda el registro con la tarjeta enmascarada.
func (s *BillingService) Process(ctx context.Context, in ProcessPaymentInput) (domain.Billing, error) {
	if missing := in.missing(); len(missing) > 0 {
		return domain.Billing{}, validationf("missing required fields: %s", strings.Join(missing, ", "))
	}

	cardNumber := strings.ReplaceAll(in.CardNumber, " ", "")
	res := s.processor.Process(ctx, payment.Payment{
		Amount:     in.Amount,
		CardNumber: cardNumber,
		CardHolder: in.CardHolder,
		ExpiryDate: in.ExpiryDate,
	})
	if !res.Success {
		s.logger.Info("payment declined", zap.String("patient_email", in.PatientEmail), zap.String("reason", res.Error))
		return domain.Billing{}, fmt.Errorf("%w: %s", ErrPaymentDeclined, res.Error)
	}

	record := domain.Billing{
		TransactionID: res.TransactionID,
		PatientEmail:  normalizeEmail(in.PatientEmail),
		PatientName:   strings.TrimSpace(in.PatientName),
		DoctorEmail:   normalizeEmail(in.DoctorEmail),
		DoctorName:    strings.TrimSpace(in.DoctorName),
		Amount:        res.Amount,
		CardNumber:    domain.MaskCardNumber(cardNumber),
		CardHolder:    strings.TrimSpace(in.CardHolder),
		ExpiryDate:    in.ExpiryDate,
		ScheduleDate:  in.ScheduleDate,
		ScheduleTime:  in.ScheduleTime,
		PaymentDate:   res.PaymentDate,
		PaymentTime:   res.PaymentClock(),
		PaymentStatus: domain.PaymentStatusPaid,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.billing.Create(ctx, record); err != nil {
		return domain.Billing{}, fmt.Errorf("store billing: %w", err)
	}
	s.logger.Info("payment processed",
		zap.String("transaction_id", record.TransactionID),
		zap.String("patient_email", record.PatientEmail),
		zap.Float64("amount", record.Amount),
	)
	return record, nil
}

func (s *BillingService) List(ctx context.Context) ([]domain.Billing, error) {
	out, err := s.billing.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Billing{}
	}
	return out, nil
}

// History lista los pagos de un paciente.
func (s *BillingService) History(ctx context.Context, patientEmail string) ([]domain.Billing, error) {
	patientEmail = normalizeEmail(patientEmail)
	if patientEmail == "" {
		return nil, validationf("patient email is required")
	}
	out, err := s.billing.ListByPatient(ctx, patientEmail)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Billing{}
	}
	return out, nil
}
