package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hms-api/internal/domain"
)

// PrescriptionFilter restringe el listado; campos vacios no filtran.
type PrescriptionFilter struct {
	PatientEmail string
	DoctorEmail  string
}

// PrescriptionRepository define el contrato de persistencia para recetas.
type PrescriptionRepository interface {
	Create(ctx context.Context, p domain.Prescription) error
	List(ctx context.Context, filter PrescriptionFilter) ([]domain.Prescription, error)
}

// PgPrescriptionRepository implementa PrescriptionRepository usando pgxpool.
type PgPrescriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPgPrescriptionRepository(pool *pgxpool.Pool) *PgPrescriptionRepository {
	return &PgPrescriptionRepository{pool: pool}
}

const prescriptionColumns = `id, blood_pressure, heart_rate, temperature, symptoms, disease, medicines, tests, tests_total, doctor_email, patient_email, patient_name, created_at`

func (r *PgPrescriptionRepository) Create(ctx context.Context, p domain.Prescription) error {
	const query = `
		INSERT INTO prescriptions (` + prescriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.BloodPressure,
		p.HeartRate,
		p.Temperature,
		p.Symptoms,
		p.Disease,
		p.Medicines,
		p.Tests,
		p.TestsTotal,
		p.DoctorEmail,
		p.PatientEmail,
		p.PatientName,
		p.CreatedAt,
	)
	return pgErr(err)
}

func (r *PgPrescriptionRepository) List(ctx context.Context, filter PrescriptionFilter) ([]domain.Prescription, error) {
	var (
		conds []string
		args  []any
	)
	if filter.PatientEmail != "" {
		args = append(args, filter.PatientEmail)
		conds = append(conds, "patient_email = $"+strconv.Itoa(len(args)))
	}
	if filter.DoctorEmail != "" {
		args = append(args, filter.DoctorEmail)
		conds = append(conds, "doctor_email = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPrescription(row pgx.Row) (domain.Prescription, error) {
	var p domain.Prescription
	err := row.Scan(
		&p.ID,
		&p.BloodPressure,
		&p.HeartRate,
		&p.Temperature,
		&p.Symptoms,
		&p.Disease,
		&p.Medicines,
		&p.Tests,
		&p.TestsTotal,
		&p.DoctorEmail,
		&p.PatientEmail,
		&p.PatientName,
		&p.CreatedAt,
	)
	return p, err
}
