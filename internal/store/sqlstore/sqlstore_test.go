package sqlstore

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
)

// openTestStore connects to MYSQL_TEST_DSN and recreates the schema.
// The DSN must include parseTime=true&clientFoundRows=true.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger:         newGormLogger(zerolog.Nop()),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	schema, err := os.ReadFile("testdata/schema.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	for _, stmt := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema: %v", err)
		}
	}

	s := New(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, s *Store) (models.User, models.Doctor) {
	t.Helper()
	ctx := context.Background()

	age := 30
	blood := "O+"
	u := models.User{FirstName: "Ana", PaternalSurname: "López", MaternalSurname: "Ruiz", Email: "ana@example.com", Password: "x", Age: &age, BloodType: &blood}
	if err := s.CreateUser(ctx, &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	d := models.Doctor{ID: 7, FirstName: "Luis", LastName: "Pérez", Specialty: "Cardiología", Hospital: "Central", Phone: "555", Email: "luis@example.com"}
	if err := s.db.Create(&d).Error; err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return u, d
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := openTestStore(t)
	u, _ := seed(t, s)

	dup := models.User{FirstName: "Otra", Email: u.Email, Password: "x"}
	if err := s.CreateUser(context.Background(), &dup); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateUserConcurrentSameEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreateUser(ctx, &models.User{FirstName: "Ana", Email: "carrera@example.com", Password: "x"})
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
			t.Errorf("concurrent duplicate must be a conflict, got %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one account, got %d", created)
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u, d := seed(t, s)

	a := models.Appointment{DoctorID: d.ID, PatientID: u.ID, PatientName: "Ana", Description: "Dolor", Date: "2024-05-01", Time: "10:00"}
	if err := s.CreateAppointment(ctx, &a); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusPending || got.DoctorName == nil || *got.DoctorName != "Luis" {
		t.Errorf("unexpected detail %+v", got)
	}
	if got.Time != "10:00" {
		t.Errorf("expected hora 10:00, got %q", got.Time)
	}

	if err := s.SetAppointmentStatus(ctx, a.ID, models.StatusConfirmed, models.PolicyPermissive); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	// Re-applying the same estado must still find the row.
	if err := s.SetAppointmentStatus(ctx, a.ID, models.StatusConfirmed, models.PolicyPermissive); err != nil {
		t.Fatalf("confirm twice: %v", err)
	}

	diag := "Gripe"
	rec, err := s.FinalizeAppointment(ctx, a.ID, models.ClinicalNotes{Diagnosis: &diag}, models.PolicyPermissive)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if rec.PatientAge == nil || *rec.PatientAge != 30 {
		t.Errorf("expected age snapshot 30, got %v", rec.PatientAge)
	}

	history, err := s.ListPatientHistory(ctx, u.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].DoctorName != "Luis" || history[0].AppointmentDate != "2024-05-01" {
		t.Errorf("unexpected history %+v", history)
	}

	_, err = s.FinalizeAppointment(ctx, a.ID, models.ClinicalNotes{}, models.PolicyStrict)
	if !errors.Is(err, models.ErrInvalidTransition) {
		t.Errorf("strict policy must reject a second finalize, got %v", err)
	}

	agenda, err := s.ListDoctorAppointments(ctx, d.ID)
	if err != nil {
		t.Fatalf("agenda: %v", err)
	}
	if len(agenda) != 1 || agenda[0].FormattedDate != "01/05/2024" || agenda[0].Status != models.StatusFinalized {
		t.Errorf("unexpected agenda %+v", agenda)
	}
}

func TestFinalizeMissingAppointmentWritesNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	u, _ := seed(t, s)

	if _, err := s.FinalizeAppointment(ctx, 999, models.ClinicalNotes{}, models.PolicyPermissive); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	history, err := s.ListPatientHistory(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("expected no history, got %d", len(history))
	}
}

func TestMutationsOnMissingRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	checks := map[string]error{
		"delete cita":      s.DeleteAppointment(ctx, 42),
		"update cita":      s.UpdateAppointment(ctx, 42, models.AppointmentChanges{Date: "2024-01-01", Time: "09:00"}, models.PolicyPermissive),
		"cancel cita":      s.SetAppointmentStatus(ctx, 42, models.StatusCancelled, models.PolicyPermissive),
		"update historial": s.UpdateHistoryRecord(ctx, 42, models.ClinicalNotes{}),
		"delete pago":      s.DeletePayment(ctx, 42),
		"update hospital":  s.UpdateHospital(ctx, &models.Hospital{ID: 42}),
	}
	for name, err := range checks {
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestPaymentsAndHospitals(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	h := models.Hospital{Name: "Central", Address: "Calle 1", State: "Jalisco", Municipality: "Guadalajara", BranchNumber: 1, Phone: "555", RepresentativeName: "Eva", RFC: "ABC123", Amount: 0}
	if err := s.CreateHospital(ctx, &h); err != nil {
		t.Fatalf("create hospital: %v", err)
	}
	p := models.Payment{CardNumber: "4111111111111111", HolderName: "Ana", Expiration: "12/29", SecurityCode: "123", Amount: 500, PaidAt: models.Now(), HospitalID: h.ID}
	if err := s.CreatePayment(ctx, &p); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	p.Amount = 750
	if err := s.UpdatePayment(ctx, &p); err != nil {
		t.Fatalf("update payment: %v", err)
	}
	got, err := s.GetPayment(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 750 || got.HospitalID != h.ID {
		t.Errorf("unexpected payment %+v", got)
	}

	if err := s.DeleteHospital(ctx, h.ID); err != nil {
		t.Fatalf("delete hospital: %v", err)
	}
	if _, err := s.GetHospital(ctx, h.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
