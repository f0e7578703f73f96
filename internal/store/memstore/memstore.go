// Package memstore is an in-process store.Store. It backs the handler tests
// and lets the server run without MySQL.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
)

// Store keeps every table in maps guarded by one mutex, so multi-row
// operations such as finalizing an appointment are atomic.
type Store struct {
	mu sync.RWMutex

	users        map[uint]models.User
	doctors      map[uint]models.Doctor
	appointments map[uint]models.Appointment
	history      map[uint]models.HistoryRecord
	payments     map[uint]models.Payment
	hospitals    map[uint]models.Hospital
	attempts     []models.LoginAttempt

	seq map[string]uint
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:        make(map[uint]models.User),
		doctors:      make(map[uint]models.Doctor),
		appointments: make(map[uint]models.Appointment),
		history:      make(map[uint]models.HistoryRecord),
		payments:     make(map[uint]models.Payment),
		hospitals:    make(map[uint]models.Hospital),
		seq:          make(map[string]uint),
	}
}

// next returns the next auto-increment id for table. Callers hold mu.
func (s *Store) next(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// AddDoctor seeds a medicos row. Doctors have no write endpoint.
func (s *Store) AddDoctor(d models.Doctor) models.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == 0 {
		d.ID = s.next("medicos")
	} else if d.ID > s.seq["medicos"] {
		s.seq["medicos"] = d.ID
	}
	s.doctors[d.ID] = d
	return d
}

// LoginAttempts returns a copy of the login audit trail.
func (s *Store) LoginAttempts() []models.LoginAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LoginAttempt(nil), s.attempts...)
}

// HistoryRecords returns every historial_medico row ordered by id.
func (s *Store) HistoryRecords() []models.HistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryRecord, 0, len(s.history))
	for _, h := range s.history {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RawPayment returns the pagos row exactly as stored.
func (s *Store) RawPayment(id uint) (models.Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	return p, ok
}

// Users

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return store.ErrConflict
		}
	}
	u.ID = s.next("usuarios")
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) RecordLoginAttempt(_ context.Context, userID *uint, success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = append(s.attempts, models.LoginAttempt{
		ID:      s.next("login_attempts"),
		UserID:  userID,
		Success: success,
	})
	return nil
}

func (s *Store) FindDoctor(_ context.Context, email string, id uint) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.doctors[id]
	if !ok || !strings.EqualFold(d.Email, email) {
		return nil, store.ErrNotFound
	}
	return &d, nil
}
