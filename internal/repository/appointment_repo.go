package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hms-api/internal/domain"
)

// AppointmentRepository define el contrato de persistencia para citas.
type AppointmentRepository interface {
	Create(ctx context.Context, appt domain.Appointment) error
	GetByID(ctx context.Context, id string) (domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	// FindActiveSlot busca una cita no cancelada en el mismo horario del doctor.
	FindActiveSlot(ctx context.Context, doctorEmail, date, slot string) (domain.Appointment, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	// MarkVisited marca como visitadas las citas del paciente con el doctor. Las
	// canceladas no se tocan.
	MarkVisited(ctx context.Context, patientEmail, doctorEmail string, updatedAt time.Time) (int64, error)
	ListByDoctorAndStatus(ctx context.Context, doctorEmail string, statuses []string) ([]domain.Appointment, error)
}

// PgAppointmentRepository implementa AppointmentRepository usando pgxpool.
type PgAppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAppointmentRepository(pool *pgxpool.Pool) *PgAppointmentRepository {
	return &PgAppointmentRepository{pool: pool}
}

const appointmentColumns = `id, patient_email, patient_name, doctor_email, doctor_name, date, time, status, priority, payment_id, created_at, updated_at`

func (r *PgAppointmentRepository) Create(ctx context.Context, appt domain.Appointment) error {
	const query = `
		INSERT INTO appointments (id, patient_email, patient_name, doctor_email, doctor_name, date, time, status, priority, payment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		appt.ID,
		appt.PatientEmail,
		appt.PatientName,
		appt.DoctorEmail,
		appt.DoctorName,
		appt.Date,
		appt.Time,
		appt.Status,
		appt.Priority,
		appt.PaymentID,
		appt.CreatedAt,
		appt.UpdatedAt,
	)
	return pgErr(err)
}

func (r *PgAppointmentRepository) GetByID(ctx context.Context, id string) (domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Appointment{}, pgErr(err)
	}
	return a, nil
}

func (r *PgAppointmentRepository) List(ctx context.Context) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ORDER BY date, time`
	return r.query(ctx, query)
}

func (r *PgAppointmentRepository) FindActiveSlot(ctx context.Context, doctorEmail, date, slot string) (domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE doctor_email = $1 AND date = $2 AND time = $3 AND status <> $4
		LIMIT 1`
	a, err := scanAppointment(r.pool.QueryRow(ctx, query, doctorEmail, date, slot, domain.AppointmentCancelled))
	if err != nil {
		return domain.Appointment{}, pgErr(err)
	}
	return a, nil
}

func (r *PgAppointmentRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	const query = `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status, updatedAt)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgAppointmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgAppointmentRepository) MarkVisited(ctx context.Context, patientEmail, doctorEmail string, updatedAt time.Time) (int64, error) {
	const query = `
		UPDATE appointments SET status = $3, updated_at = $4
		WHERE patient_email = $1 AND doctor_email = $2 AND status NOT IN ($3, $5)
	`
	tag, err := r.pool.Exec(ctx, query, patientEmail, doctorEmail, domain.AppointmentVisited, updatedAt, domain.AppointmentCancelled)
	if err != nil {
		return 0, pgErr(err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgAppointmentRepository) ListByDoctorAndStatus(ctx context.Context, doctorEmail string, statuses []string) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE doctor_email = $1 AND status = ANY($2)
		ORDER BY date, time`
	return r.query(ctx, query, doctorEmail, statuses)
}

func (r *PgAppointmentRepository) query(ctx context.Context, query string, args ...any) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID,
		&a.PatientEmail,
		&a.PatientName,
		&a.DoctorEmail,
		&a.DoctorName,
		&a.Date,
		&a.Time,
		&a.Status,
		&a.Priority,
		&a.PaymentID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
