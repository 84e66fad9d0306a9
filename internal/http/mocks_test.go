package http

import (
	"context"
	"sync"
	"time"

	"hms-api/internal/domain"
	"hms-api/internal/repository"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) UpdateOTP(_ context.Context, email, code string, expiresAt time.Time) error {
	return m.mutate(email, func(u *domain.User) {
		u.OTP = code
		u.OTPExpiry = &expiresAt
	})
}

func (m *mockUserRepo) ClearOTP(_ context.Context, email string) error {
	return m.mutate(email, func(u *domain.User) {
		u.OTP = ""
		u.OTPExpiry = nil
	})
}

func (m *mockUserRepo) MarkVerified(_ context.Context, email string) error {
	return m.mutate(email, func(u *domain.User) {
		u.IsVerified = true
		u.OTP = ""
		u.OTPExpiry = nil
	})
}

func (m *mockUserRepo) Update(_ context.Context, email string, upd repository.UserUpdate) error {
	return m.mutate(email, func(u *domain.User) {
		if upd.Role != nil {
			u.Role = *upd.Role
		}
		if upd.PasswordHash != nil {
			u.PasswordHash = *upd.PasswordHash
		}
	})
}

func (m *mockUserRepo) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, email)
	return nil
}

func (m *mockUserRepo) mutate(email string, fn func(*domain.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&user)
	m.users[email] = user
	return nil
}

type mockAppointmentRepo struct {
	items []domain.Appointment
}

func (m *mockAppointmentRepo) Create(_ context.Context, appt domain.Appointment) error {
	m.items = append(m.items, appt)
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id string) (domain.Appointment, error) {
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Appointment{}, repository.ErrNotFound
}

func (m *mockAppointmentRepo) List(_ context.Context) ([]domain.Appointment, error) {
	return m.items, nil
}

func (m *mockAppointmentRepo) FindActiveSlot(_ context.Context, doctorEmail, date, slot string) (domain.Appointment, error) {
	for _, a := range m.items {
		if a.DoctorEmail == doctorEmail && a.Date == date && a.Time == slot && a.Status != domain.AppointmentCancelled {
			return a, nil
		}
	}
	return domain.Appointment{}, repository.ErrNotFound
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			m.items[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockAppointmentRepo) Delete(_ context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockAppointmentRepo) MarkVisited(_ context.Context, patientEmail, doctorEmail string, updatedAt time.Time) (int64, error) {
	var n int64
	for i := range m.items {
		a := m.items[i]
		if a.PatientEmail == patientEmail && a.DoctorEmail == doctorEmail &&
			a.Status != domain.AppointmentVisited && a.Status != domain.AppointmentCancelled {
			m.items[i].Status = domain.AppointmentVisited
			m.items[i].UpdatedAt = updatedAt
			n++
		}
	}
	return n, nil
}

func (m *mockAppointmentRepo) ListByDoctorAndStatus(_ context.Context, doctorEmail string, statuses []string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, a := range m.items {
		if a.DoctorEmail != doctorEmail {
			continue
		}
		for _, s := range statuses {
			if a.Status == s {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

type mockBillingRepo struct {
	items []domain.Billing
}

func (m *mockBillingRepo) Create(_ context.Context, b domain.Billing) error {
	m.items = append(m.items, b)
	return nil
}

func (m *mockBillingRepo) GetByTransactionID(_ context.Context, id string) (domain.Billing, error) {
	for _, b := range m.items {
		if b.TransactionID == id {
			return b, nil
		}
	}
	return domain.Billing{}, repository.ErrNotFound
}

func (m *mockBillingRepo) List(_ context.Context) ([]domain.Billing, error) {
	return m.items, nil
}

func (m *mockBillingRepo) ListByPatient(_ context.Context, patientEmail string) ([]domain.Billing, error) {
	var out []domain.Billing
	for _, b := range m.items {
		if b.PatientEmail == patientEmail {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBillingRepo) TotalEarnings(_ context.Context, from, to string) (float64, error) {
	var total float64
	for _, b := range m.items {
		if (from == "" || b.PaymentDate >= from) && (to == "" || b.PaymentDate <= to) {
			total += b.Amount
		}
	}
	return total, nil
}

type mockPrescriptionRepo struct {
	items []domain.Prescription
}

func (m *mockPrescriptionRepo) Create(_ context.Context, p domain.Prescription) error {
	m.items = append(m.items, p)
	return nil
}

func (m *mockPrescriptionRepo) List(_ context.Context, filter repository.PrescriptionFilter) ([]domain.Prescription, error) {
	var out []domain.Prescription
	for _, p := range m.items {
		if (filter.PatientEmail == "" || p.PatientEmail == filter.PatientEmail) &&
			(filter.DoctorEmail == "" || p.DoctorEmail == filter.DoctorEmail) {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockEmailSender struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (m *mockEmailSender) SendOTP(_ context.Context, toEmail string, code string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.codes == nil {
		m.codes = make(map[string]string)
	}
	m.codes[toEmail] = code
	return nil
}

func (m *mockEmailSender) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}
