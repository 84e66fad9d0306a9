package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hms-api/internal/domain"
	"hms-api/internal/notify"
	"hms-api/internal/repository"
)

// knownStatuses son los estados que la clinica usa hoy; se aceptan otros.
var knownStatuses = map[string]struct{}{
	domain.AppointmentPending:   {},
	domain.AppointmentScheduled: {},
	domain.AppointmentUrgent:    {},
	domain.AppointmentVisited:   {},
	domain.AppointmentCancelled: {},
	domain.AppointmentCompleted: {},
}

// AppointmentService agenda citas y publica sus cambios de estado.
type AppointmentService struct {
	logger       *zap.Logger
	appointments repository.AppointmentRepository
	billing      repository.BillingRepository
	events       EventNotifier
	now          func() time.Time
}

func NewAppointmentService(logger *zap.Logger, appointments repository.AppointmentRepository, billing repository.BillingRepository, events EventNotifier) *AppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{
		logger:       logger,
		appointments: appointments,
		billing:      billing,
		events:       events,
		now:          time.Now,
	}
}

type CreateAppointmentInput struct {
	PatientEmail string `json:"patient_email"`
	PatientName  string `json:"patient_name"`
	DoctorEmail  string `json:"doctor_email"`
	DoctorName   string `json:"doctor_name"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	PaymentID    string `json:"payment_id"`
}

func (in CreateAppointmentInput) missing() []string {
	var out []string
	for _, f := range []struct{ name, value string }{
		{"patient_email", in.PatientEmail},
		{"patient_name", in.PatientName},
		{"doctor_email", in.DoctorEmail},
		{"doctor_name", in.DoctorName},
		{"date", in.Date},
		{"time", in.Time},
		{"status", in.Status},
		{"payment_id", in.PaymentID},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

func (s *AppointmentService) List(ctx context.Context) ([]domain.Appointment, error) {
	out, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Appointment{}
	}
	return out, nil
}

// Create valida el pago asociado y que el horario del doctor este libre.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput) (domain.Appointment, error) {
	if missing := in.missing(); len(missing) > 0 {
		return domain.Appointment{}, validationf("missing required fields: %s", strings.Join(missing, ", "))
	}
	status := strings.TrimSpace(in.Status)
	s.noteStatus(status)
	patientEmail := normalizeEmail(in.PatientEmail)
	doctorEmail := normalizeEmail(in.DoctorEmail)

	bill, err := s.billing.GetByTransactionID(ctx, strings.TrimSpace(in.PaymentID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Appointment{}, ErrInvalidPayment
		}
		return domain.Appointment{}, fmt.Errorf("lookup payment: %w", err)
	}
	if normalizeEmail(bill.PatientEmail) != patientEmail {
		return domain.Appointment{}, ErrPaymentMismatch
	}

	if _, err := s.appointments.FindActiveSlot(ctx, doctorEmail, in.Date, in.Time); err == nil {
		return domain.Appointment{}, ErrSlotTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Appointment{}, fmt.Errorf("check slot: %w", err)
	}

	now := s.now().UTC()
	appt := domain.Appointment{
		ID:           uuid.NewString(),
		PatientEmail: patientEmail,
		PatientName:  strings.TrimSpace(in.PatientName),
		DoctorEmail:  doctorEmail,
		DoctorName:   strings.TrimSpace(in.DoctorName),
		Date:         in.Date,
		Time:         in.Time,
		Status:       status,
		Priority:     domain.PriorityForStatus(status),
		PaymentID:    bill.TransactionID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Appointment{}, ErrSlotTaken
		}
		return domain.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}

	s.emit(ctx, notify.KindAppointmentCreated, appt.ID, map[string]any{
		"patient_email": appt.PatientEmail,
		"doctor_email":  appt.DoctorEmail,
		"date":          appt.Date,
		"time":          appt.Time,
		"status":        appt.Status,
		"priority":      appt.Priority,
	})
	return appt, nil
}

// UpdateStatus cambia el estado de una cita y emite el cambio.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, status string) (domain.Appointment, error) {
	id = strings.TrimSpace(id)
	status = strings.TrimSpace(status)
	if id == "" || status == "" {
		return domain.Appointment{}, validationf("id and status are required")
	}
	s.noteStatus(status)
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Appointment{}, ErrAppointmentNotFound
		}
		return domain.Appointment{}, fmt.Errorf("lookup appointment: %w", err)
	}
	if appt.Status == status {
		return domain.Appointment{}, ErrNoChange
	}

	now := s.now().UTC()
	if err := s.appointments.UpdateStatus(ctx, id, status, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return domain.Appointment{}, ErrAppointmentNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return domain.Appointment{}, ErrSlotTaken
		}
		return domain.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	old := appt.Status
	appt.Status = status
	appt.UpdatedAt = now

	s.emit(ctx, notify.KindAppointmentStatusChanged, id, map[string]any{
		notify.KeyOldStatus: old,
		notify.KeyNewStatus: status,
	})
	return appt, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if err := s.appointments.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return nil
}

// DoctorRecords devuelve las citas ya atendidas por el doctor.
func (s *AppointmentService) DoctorRecords(ctx context.Context, doctorEmail string) ([]domain.Appointment, error) {
	doctorEmail = normalizeEmail(doctorEmail)
	if doctorEmail == "" {
		return nil, validationf("doctor email is required")
	}
	out, err := s.appointments.ListByDoctorAndStatus(ctx, doctorEmail, []string{
		domain.AppointmentVisited,
		domain.AppointmentCompleted,
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Appointment{}
	}
	return out, nil
}

func (s *AppointmentService) emit(ctx context.Context, kind notify.Kind, id string, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Notify(ctx, notify.NewEvent(kind, id, payload))
}

func (s *AppointmentService) noteStatus(status string) {
	if _, ok := knownStatuses[status]; !ok {
		s.logger.Info("appointment status outside known set", zap.String("status", status))
	}
}
