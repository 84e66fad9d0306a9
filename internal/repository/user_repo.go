package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hms-api/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios. Las
// actualizaciones se filtran por email y son atomicas por documento.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateOTP(ctx context.Context, email, code string, expiresAt time.Time) error
	ClearOTP(ctx context.Context, email string) error
	MarkVerified(ctx context.Context, email string) error
	Update(ctx context.Context, email string, upd UserUpdate) error
	Delete(ctx context.Context, email string) error
}

// UserUpdate lista los campos editables; nil significa sin cambio.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	Role         *string
}

func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.PasswordHash == nil && u.Role == nil
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, email, name, password_hash, role, is_verified, otp, otp_expiry, created_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, name, password_hash, role, is_verified, otp, otp_expiry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		nullableString(user.OTP),
		user.OTPExpiry,
		user.CreatedAt,
	)
	return pgErr(err)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return domain.User{}, pgErr(err)
	}
	return u, nil
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) UpdateOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	const query = `UPDATE users SET otp = $2, otp_expiry = $3 WHERE email = $1`
	return r.execOne(ctx, query, email, code, expiresAt)
}

func (r *PgUserRepository) ClearOTP(ctx context.Context, email string) error {
	const query = `UPDATE users SET otp = NULL, otp_expiry = NULL WHERE email = $1`
	return r.execOne(ctx, query, email)
}

func (r *PgUserRepository) MarkVerified(ctx context.Context, email string) error {
	const query = `UPDATE users SET is_verified = TRUE, otp = NULL, otp_expiry = NULL WHERE email = $1`
	return r.execOne(ctx, query, email)
}

func (r *PgUserRepository) Update(ctx context.Context, email string, upd UserUpdate) error {
	sets := make([]string, 0, 3)
	args := []any{email}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("email", upd.Email)
	add("password_hash", upd.PasswordHash)
	add("role", upd.Role)
	if len(sets) == 0 {
		return nil
	}
	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE email = $1`
	return r.execOne(ctx, query, args...)
}

func (r *PgUserRepository) Delete(ctx context.Context, email string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE email = $1`, email)
}

func (r *PgUserRepository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u   domain.User
		otp *string
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.IsVerified,
		&otp,
		&u.OTPExpiry,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if otp != nil {
		u.OTP = *otp
	}
	return u, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
