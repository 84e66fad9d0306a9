package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hms-api/internal/domain"
)

// BillingRepository define el contrato de persistencia para pagos.
type BillingRepository interface {
	Create(ctx context.Context, b domain.Billing) error
	GetByTransactionID(ctx context.Context, transactionID string) (domain.Billing, error)
	List(ctx context.Context) ([]domain.Billing, error)
	ListByPatient(ctx context.Context, patientEmail string) ([]domain.Billing, error)
	// TotalEarnings suma los montos con payment_date en [from, to]; vacio = sin limite.
	TotalEarnings(ctx context.Context, from, to string) (float64, error)
}

// PgBillingRepository implementa BillingRepository usando pgxpool.
type PgBillingRepository struct {
	pool *pgxpool.Pool
}

func NewPgBillingRepository(pool *pgxpool.Pool) *PgBillingRepository {
	return &PgBillingRepository{pool: pool}
}

const billingColumns = `transaction_id, patient_email, patient_name, doctor_email, doctor_name, amount, card_number, card_holder, expiry_date, schedule_date, schedule_time, payment_date, payment_time, payment_status, created_at`

func (r *PgBillingRepository) Create(ctx context.Context, b domain.Billing) error {
	const query = `
		INSERT INTO billing (` + billingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.pool.Exec(ctx, query,
		b.TransactionID,
		b.PatientEmail,
		b.PatientName,
		b.DoctorEmail,
		b.DoctorName,
		b.Amount,
		b.CardNumber,
		b.CardHolder,
		b.ExpiryDate,
		b.ScheduleDate,
		b.ScheduleTime,
		b.PaymentDate,
		b.PaymentTime,
		b.PaymentStatus,
		b.CreatedAt,
	)
	return pgErr(err)
}

func (r *PgBillingRepository) GetByTransactionID(ctx context.Context, transactionID string) (domain.Billing, error) {
	query := `SELECT ` + billingColumns + ` FROM billing WHERE transaction_id = $1`
	b, err := scanBilling(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		return domain.Billing{}, pgErr(err)
	}
	return b, nil
}

func (r *PgBillingRepository) List(ctx context.Context) ([]domain.Billing, error) {
	return r.query(ctx, `SELECT `+billingColumns+` FROM billing ORDER BY created_at`)
}

func (r *PgBillingRepository) ListByPatient(ctx context.Context, patientEmail string) ([]domain.Billing, error) {
	return r.query(ctx, `SELECT `+billingColumns+` FROM billing WHERE patient_email = $1 ORDER BY created_at`, patientEmail)
}

func (r *PgBillingRepository) TotalEarnings(ctx context.Context, from, to string) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0) FROM billing
		WHERE ($1 = '' OR payment_date >= $1) AND ($2 = '' OR payment_date <= $2)
	`
	var total float64
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PgBillingRepository) query(ctx context.Context, query string, args ...any) ([]domain.Billing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Billing
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBilling(row pgx.Row) (domain.Billing, error) {
	var b domain.Billing
	err := row.Scan(
		&b.TransactionID,
		&b.PatientEmail,
		&b.PatientName,
		&b.DoctorEmail,
		&b.DoctorName,
		&b.Amount,
		&b.CardNumber,
		&b.CardHolder,
		&b.ExpiryDate,
		&b.ScheduleDate,
		&b.ScheduleTime,
		&b.PaymentDate,
		&b.PaymentTime,
		&b.PaymentStatus,
		&b.CreatedAt,
	)
	return b, err
}
