package memstore

import (
	"context"
	"sort"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
)

func (s *Store) CreateAppointment(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.next("citas")
	s.appointments[a.ID] = *a
	return nil
}

// detail emulates the LEFT JOIN against medicos. Callers hold mu.
func (s *Store) detail(a models.Appointment) models.AppointmentDetail {
	d := models.AppointmentDetail{Appointment: a}
	if doc, ok := s.doctors[a.DoctorID]; ok {
		d.DoctorName = strPtr(doc.FirstName)
		d.Specialty = strPtr(doc.Specialty)
		d.Hospital = strPtr(doc.Hospital)
		d.DoctorPhone = strPtr(doc.Phone)
		d.DoctorEmail = strPtr(doc.Email)
	}
	return d
}

func (s *Store) GetAppointment(_ context.Context, id uint) (*models.AppointmentDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	d := s.detail(a)
	return &d, nil
}

func (s *Store) ListPatientAppointments(_ context.Context, patientID uint) ([]models.AppointmentDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AppointmentDetail, 0)
	for _, a := range s.appointments {
		if a.PatientID == patientID {
			out = append(out, s.detail(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return !scheduledBefore(out[i].Appointment, out[j].Appointment)
	})
	return out, nil
}

func (s *Store) ListDoctorAppointments(_ context.Context, doctorID uint) ([]models.DoctorAppointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DoctorAppointment, 0)
	for _, a := range s.appointments {
		if a.DoctorID != doctorID {
			continue
		}
		// Inner join: appointments of unknown patients are skipped.
		u, ok := s.users[a.PatientID]
		if !ok {
			continue
		}
		da := models.DoctorAppointment{
			Appointment:     a,
			FirstName:       u.FirstName,
			PaternalSurname: u.PaternalSurname,
			MaternalSurname: u.MaternalSurname,
			Age:             u.Age,
			BloodType:       u.BloodType,
			Gender:          u.Gender,
		}
		da.FillFormatted()
		out = append(out, da)
	}
	sort.Slice(out, func(i, j int) bool {
		return scheduledBefore(out[i].Appointment, out[j].Appointment)
	})
	return out, nil
}

func (s *Store) UpdateAppointment(_ context.Context, id uint, changes models.AppointmentChanges, policy models.AppointmentPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return store.ErrNotFound
	}
	if err := a.Status.CheckEditable(policy); err != nil {
		return err
	}
	changes.Apply(&a)
	s.appointments[id] = a
	return nil
}

func (s *Store) DeleteAppointment(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.appointments, id)
	return nil
}

func (s *Store) SetAppointmentStatus(_ context.Context, id uint, to models.AppointmentStatus, policy models.AppointmentPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return store.ErrNotFound
	}
	next, err := a.Status.Transition(to, policy)
	if err != nil {
		return err
	}
	a.Status = next
	s.appointments[id] = a
	return nil
}

func (s *Store) FinalizeAppointment(_ context.Context, id uint, notes models.ClinicalNotes, policy models.AppointmentPolicy) (*models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u, ok := s.users[a.PatientID]
	if !ok {
		return nil, store.ErrNotFound
	}
	next, err := a.Status.Transition(models.StatusFinalized, policy)
	if err != nil {
		return nil, err
	}

	a.Status = next
	s.appointments[id] = a

	rec := models.NewHistoryRecord(a, notes, u.Age, u.BloodType)
	rec.ID = s.next("historial_medico")
	s.history[rec.ID] = rec
	return &rec, nil
}

func scheduledBefore(a, b models.Appointment) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.ID < b.ID
}

func strPtr(s string) *string { return &s }
