package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"hms-api/internal/domain"
	"hms-api/internal/notify"
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
	var out []domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
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
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Email != nil && *upd.Email != email {
		if _, taken := m.users[*upd.Email]; taken {
			return repository.ErrDuplicate
		}
		delete(m.users, email)
		user.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		user.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	m.users[user.Email] = user
	return nil
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
	items map[string]domain.Appointment
	order []string
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{items: make(map[string]domain.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, appt domain.Appointment) error {
	m.items[appt.ID] = appt
	m.order = append(m.order, appt.ID)
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id string) (domain.Appointment, error) {
	appt, ok := m.items[id]
	if !ok {
		return domain.Appointment{}, repository.ErrNotFound
	}
	return appt, nil
}

func (m *mockAppointmentRepo) List(_ context.Context) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, id := range m.order {
		if appt, ok := m.items[id]; ok {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) FindActiveSlot(_ context.Context, doctorEmail, date, slot string) (domain.Appointment, error) {
	for _, appt := range m.items {
		if appt.DoctorEmail == doctorEmail && appt.Date == date && appt.Time == slot && appt.Status != domain.AppointmentCancelled {
			return appt, nil
		}
	}
	return domain.Appointment{}, repository.ErrNotFound
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	appt, ok := m.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	appt.Status = status
	appt.UpdatedAt = updatedAt
	m.items[id] = appt
	return nil
}

func (m *mockAppointmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockAppointmentRepo) MarkVisited(_ context.Context, patientEmail, doctorEmail string, updatedAt time.Time) (int64, error) {
	var n int64
	for id, appt := range m.items {
		if appt.PatientEmail != patientEmail || appt.DoctorEmail != doctorEmail {
			continue
		}
		if appt.Status != domain.AppointmentVisited && appt.Status != domain.AppointmentCancelled {
			appt.Status = domain.AppointmentVisited
			appt.UpdatedAt = updatedAt
			m.items[id] = appt
			n++
		}
	}
	return n, nil
}

func (m *mockAppointmentRepo) ListByDoctorAndStatus(_ context.Context, doctorEmail string, statuses []string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, id := range m.order {
		appt, ok := m.items[id]
		if !ok || appt.DoctorEmail != doctorEmail {
			continue
		}
		for _, s := range statuses {
			if appt.Status == s {
				out = append(out, appt)
				break
			}
		}
	}
	return out, nil
}

type mockBillingRepo struct {
	items []domain.Billing
	err   error
}

func (m *mockBillingRepo) Create(_ context.Context, b domain.Billing) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, b)
	return nil
}

func (m *mockBillingRepo) GetByTransactionID(_ context.Context, transactionID string) (domain.Billing, error) {
	for _, b := range m.items {
		if b.TransactionID == transactionID {
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
		if filter.PatientEmail != "" && p.PatientEmail != filter.PatientEmail {
			continue
		}
		if filter.DoctorEmail != "" && p.DoctorEmail != filter.DoctorEmail {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// recordingObserver guarda cada evento recibido.
type recordingObserver struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingObserver) Name() string { return "recorder" }

func (r *recordingObserver) Update(_ context.Context, ev notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingObserver) kinds() []notify.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Kind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recordingObserver) last(kind notify.Kind) (notify.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return notify.Event{}, false
}

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func newCaptureSender() *captureSender {
	return &captureSender{codes: make(map[string]string)}
}

func (c *captureSender) SendOTP(_ context.Context, to, code string, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.codes[to] = code
	return nil
}

func (c *captureSender) code(to string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[to]
}
