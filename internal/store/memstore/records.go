package memstore

import (
	"context"
	"sort"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
)

func (s *Store) ListPatientHistory(_ context.Context, patientID uint) ([]models.HistoryDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryDetail, 0)
	for _, h := range s.history {
		if h.PatientID != patientID {
			continue
		}
		a, okA := s.appointments[h.AppointmentID]
		d, okD := s.doctors[h.DoctorID]
		u, okU := s.users[h.PatientID]
		if !okA || !okD || !okU {
			continue
		}
		if h.PatientAge == nil {
			h.PatientAge = u.Age
		}
		if h.PatientBloodType == nil {
			h.PatientBloodType = u.BloodType
		}
		out = append(out, models.HistoryDetail{
			HistoryRecord:   h,
			AppointmentDate: a.Date,
			AppointmentTime: a.Time,
			DoctorName:      d.FirstName,
			Specialty:       d.Specialty,
			PatientName:     u.FirstName,
			PaternalSurname: u.PaternalSurname,
			MaternalSurname: u.MaternalSurname,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate > out[j].AppointmentDate
		}
		if out[i].AppointmentTime != out[j].AppointmentTime {
			return out[i].AppointmentTime > out[j].AppointmentTime
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateHistoryRecord(_ context.Context, id uint, notes models.ClinicalNotes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.history[id]
	if !ok {
		return store.ErrNotFound
	}
	notes = notes.Normalize()
	h.Diagnosis = notes.Diagnosis
	h.Treatment = notes.Treatment
	h.Observations = notes.Observations
	s.history[id] = h
	return nil
}

func (s *Store) DeleteHistoryRecord(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.history[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.history, id)
	return nil
}

func (s *Store) CreatePayment(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.next("pagos")
	s.payments[p.ID] = *p
	return nil
}

func (s *Store) ListPayments(context.Context) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetPayment(_ context.Context, id uint) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) UpdatePayment(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.payments[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	cur.CardNumber = p.CardNumber
	cur.HolderName = p.HolderName
	cur.Expiration = p.Expiration
	cur.SecurityCode = p.SecurityCode
	cur.Amount = p.Amount
	s.payments[p.ID] = cur
	return nil
}

func (s *Store) DeletePayment(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.payments, id)
	return nil
}

func (s *Store) CreateHospital(_ context.Context, h *models.Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h.ID = s.next("hospital")
	s.hospitals[h.ID] = *h
	return nil
}

func (s *Store) ListHospitals(context.Context) ([]models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Hospital, 0, len(s.hospitals))
	for _, h := range s.hospitals {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetHospital(_ context.Context, id uint) (*models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.hospitals[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &h, nil
}

func (s *Store) UpdateHospital(_ context.Context, h *models.Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hospitals[h.ID]; !ok {
		return store.ErrNotFound
	}
	s.hospitals[h.ID] = *h
	return nil
}

func (s *Store) DeleteHospital(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hospitals[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.hospitals, id)
	return nil
}
