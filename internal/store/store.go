// Package store declares the persistence contracts the HTTP handlers depend on.
//
// Implementations live in sqlstore (MySQL through gorm) and memstore
// (in-process, used by tests and local runs without a database).
package store

import (
	"context"
	"errors"

	"citas-medicas-server/internal/models"
)

var (
	// ErrNotFound means no row matched (or no row was affected by) the statement.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict means a unique field is already taken.
	ErrConflict = errors.New("store: conflict")
)

// UserStore persists patient accounts and their login audit trail.
type UserStore interface {
	// CreateUser inserts u and sets u.ID. It returns ErrConflict when the
	// correo already exists, including when two registrations race.
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// RecordLoginAttempt appends one login_attempts row. userID is nil when
	// the correo matched no account.
	RecordLoginAttempt(ctx context.Context, userID *uint, success bool) error
}

// DoctorStore reads the medicos table.
type DoctorStore interface {
	FindDoctor(ctx context.Context, email string, id uint) (*models.Doctor, error)
}

// AppointmentStore persists citas and drives their lifecycle.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	GetAppointment(ctx context.Context, id uint) (*models.AppointmentDetail, error)
	// ListPatientAppointments orders by fecha DESC, hora DESC.
	ListPatientAppointments(ctx context.Context, patientID uint) ([]models.AppointmentDetail, error)
	// ListDoctorAppointments orders by fecha ASC, hora ASC.
	ListDoctorAppointments(ctx context.Context, doctorID uint) ([]models.DoctorAppointment, error)
	UpdateAppointment(ctx context.Context, id uint, changes models.AppointmentChanges, policy models.AppointmentPolicy) error
	DeleteAppointment(ctx context.Context, id uint) error
	SetAppointmentStatus(ctx context.Context, id uint, to models.AppointmentStatus, policy models.AppointmentPolicy) error
	// FinalizeAppointment marks the cita finalizada and inserts its history
	// record in one transaction. Either both writes happen or neither does.
	FinalizeAppointment(ctx context.Context, id uint, notes models.ClinicalNotes, policy models.AppointmentPolicy) (*models.HistoryRecord, error)
}

// HistoryStore reads and edits historial_medico.
type HistoryStore interface {
	ListPatientHistory(ctx context.Context, patientID uint) ([]models.HistoryDetail, error)
	UpdateHistoryRecord(ctx context.Context, id uint, notes models.ClinicalNotes) error
	DeleteHistoryRecord(ctx context.Context, id uint) error
}

// PaymentStore persists pagos.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context) ([]models.Payment, error)
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	// UpdatePayment rewrites the card fields and monto of p.ID.
	UpdatePayment(ctx context.Context, p *models.Payment) error
	DeletePayment(ctx context.Context, id uint) error
}

// HospitalStore persists hospital rows.
type HospitalStore interface {
	CreateHospital(ctx context.Context, h *models.Hospital) error
	ListHospitals(ctx context.Context) ([]models.Hospital, error)
	GetHospital(ctx context.Context, id uint) (*models.Hospital, error)
	UpdateHospital(ctx context.Context, h *models.Hospital) error
	DeleteHospital(ctx context.Context, id uint) error
}

// Store is everything the server needs from persistence.
type Store interface {
	UserStore
	DoctorStore
	AppointmentStore
	HistoryStore
	PaymentStore
	HospitalStore
	Ping(ctx context.Context) error
	Close() error
}
