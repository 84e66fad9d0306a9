package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hms-api/internal/domain"
	"hms-api/internal/repository"
)

type PrescriptionService struct {
	logger        *zap.Logger
	prescriptions repository.PrescriptionRepository
	appointments  repository.AppointmentRepository
	now           func() time.Time
}

func NewPrescriptionService(logger *zap.Logger, prescriptions repository.PrescriptionRepository, appointments repository.AppointmentRepository) *PrescriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrescriptionService{
		logger:        logger,
		prescriptions: prescriptions,
		appointments:  appointments,
		now:           time.Now,
	}
}

type CreatePrescriptionInput struct {
	BloodPressure string            `json:"blood_pressure"`
	HeartRate     string            `json:"heart_rate"`
	Temperature   string            `json:"temperature"`
	Symptoms      string            `json:"symptoms"`
	Disease       string            `json:"disease"`
	Medicines     []domain.Medicine `json:"medicines"`
	Tests         []domain.LabTest  `json:"tests"`
	TestsTotal    float64           `json:"tests_total"`
	DoctorEmail   string            `json:"doctor_email"`
	PatientEmail  string            `json:"patient_email"`
	PatientName   string            `json:"patient_name"`
}

// Create guarda la receta y marca como visitadas las citas del paciente con ese doctor.
func (s *PrescriptionService) Create(ctx context.Context, in CreatePrescriptionInput) (domain.Prescription, error) {
	doctorEmail := normalizeEmail(in.DoctorEmail)
	patientEmail := normalizeEmail(in.PatientEmail)
	if doctorEmail == "" || patientEmail == "" {
		return domain.Prescription{}, validationf("doctor_email and patient_email are required")
	}

	medicines := in.Medicines
	if medicines == nil {
		medicines = []domain.Medicine{}
	}
	tests := in.Tests
	if tests == nil {
		tests = []domain.LabTest{}
	}
	total := in.TestsTotal
	if total == 0 {
		for _, t := range tests {
			total += t.Price
		}
	}

	now := s.now().UTC()
	p := domain.Prescription{
		ID:            uuid.NewString(),
		BloodPressure: in.BloodPressure,
		HeartRate:     in.HeartRate,
		Temperature:   in.Temperature,
		Symptoms:      in.Symptoms,
		Disease:       in.Disease,
		Medicines:     medicines,
		Tests:         tests,
		TestsTotal:    total,
		DoctorEmail:   doctorEmail,
		PatientEmail:  patientEmail,
		PatientName:   strings.TrimSpace(in.PatientName),
		CreatedAt:     now,
	}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return domain.Prescription{}, fmt.Errorf("create prescription: %w", err)
	}

	visited, err := s.appointments.MarkVisited(ctx, patientEmail, doctorEmail, now)
	if err != nil {
		// La receta ya quedo guardada.
		s.logger.Warn("mark appointments visited failed",
			zap.String("patient_email", patientEmail),
			zap.String("doctor_email", doctorEmail),
			zap.Error(err),
		)
	} else {
		s.logger.Info("prescription created",
			zap.String("id", p.ID),
			zap.String("doctor_email", doctorEmail),
			zap.Int64("appointments_visited", visited),
		)
	}
	return p, nil
}

func (s *PrescriptionService) List(ctx context.Context, filter repository.PrescriptionFilter) ([]domain.Prescription, error) {
	filter.PatientEmail = normalizeEmail(filter.PatientEmail)
	filter.DoctorEmail = normalizeEmail(filter.DoctorEmail)
	out, err := s.prescriptions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Prescription{}
	}
	return out, nil
}
