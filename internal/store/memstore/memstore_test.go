package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
)

func TestCreateUserConcurrentSameEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreateUser(ctx, &models.User{Email: "ana@example.com"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		switch {
		case err == nil:
			created++
		case !errors.Is(err, store.ErrConflict):
			t.Errorf("unexpected error %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one account, got %d", created)
	}
}

func TestFinalizeTwiceWritesTwoRecords(t *testing.T) {
	s := New()
	ctx := context.Background()

	age := 41
	u := models.User{Email: "p@example.com", Age: &age}
	if err := s.CreateUser(ctx, &u); err != nil {
		t.Fatal(err)
	}
	d := s.AddDoctor(models.Doctor{Email: "d@example.com"})
	a := models.Appointment{DoctorID: d.ID, PatientID: u.ID, Date: "2024-05-01", Time: "10:00"}
	if err := s.CreateAppointment(ctx, &a); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := s.FinalizeAppointment(ctx, a.ID, models.ClinicalNotes{}, models.PolicyPermissive); err != nil {
			t.Fatalf("finalize %d: %v", i, err)
		}
	}
	recs := s.HistoryRecords()
	if len(recs) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(recs))
	}
	if recs[0].PatientAge == nil || *recs[0].PatientAge != 41 {
		t.Errorf("expected age snapshot, got %v", recs[0].PatientAge)
	}

	if _, err := s.FinalizeAppointment(ctx, a.ID, models.ClinicalNotes{}, models.PolicyStrict); !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition under strict policy, got %v", err)
	}
	if got := len(s.HistoryRecords()); got != 2 {
		t.Errorf("rejected finalize must not write history, got %d records", got)
	}
}

func TestHistorySameAppointmentNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := models.User{Email: "p@example.com"}
	if err := s.CreateUser(ctx, &u); err != nil {
		t.Fatal(err)
	}
	d := s.AddDoctor(models.Doctor{Email: "d@example.com"})
	a := models.Appointment{DoctorID: d.ID, PatientID: u.ID, Date: "2024-05-01", Time: "10:00"}
	if err := s.CreateAppointment(ctx, &a); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, err := s.FinalizeAppointment(ctx, a.ID, models.ClinicalNotes{}, models.PolicyPermissive); err != nil {
			t.Fatal(err)
		}
	}

	// Repeat to cover different map iteration orders.
	for round := 0; round < 20; round++ {
		list, err := s.ListPatientHistory(ctx, u.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 5 {
			t.Fatalf("expected 5 records, got %d", len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i-1].ID < list[i].ID {
				t.Fatalf("records for one appointment must be newest first, got %d before %d", list[i-1].ID, list[i].ID)
			}
		}
	}
}

func TestListOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := models.User{Email: "p@example.com"}
	_ = s.CreateUser(ctx, &u)
	d := s.AddDoctor(models.Doctor{ID: 7, Email: "d@example.com"})

	for _, slot := range []struct{ date, hour string }{
		{"2024-05-02", "09:00"},
		{"2024-05-01", "11:00"},
		{"2024-05-01", "08:30"},
	} {
		a := models.Appointment{DoctorID: d.ID, PatientID: u.ID, Date: models.Date(slot.date), Time: models.ClockTime(slot.hour)}
		_ = s.CreateAppointment(ctx, &a)
	}

	agenda, _ := s.ListDoctorAppointments(ctx, 7)
	if len(agenda) != 3 || agenda[0].Time != "08:30" || agenda[2].Date != "2024-05-02" {
		t.Errorf("doctor agenda must be ascending, got %+v", agenda)
	}

	mine, _ := s.ListPatientAppointments(ctx, u.ID)
	if len(mine) != 3 || mine[0].Date != "2024-05-02" || mine[2].Time != "08:30" {
		t.Errorf("patient list must be descending, got %+v", mine)
	}
	if mine[0].DoctorName == nil {
		t.Error("expected doctor columns from the join")
	}
}

func TestMissingRows(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.DeleteAppointment(ctx, 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetAppointmentStatus(ctx, 1, models.StatusCancelled, models.PolicyPermissive); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.FindDoctor(ctx, "x@example.com", 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
