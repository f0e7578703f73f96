package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// AppointmentStatus represents the estado of a cita.
//
// A freshly booked appointment has no estado (NULL in the database); that
// value is StatusPending.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = ""
	StatusConfirmed AppointmentStatus = "confirmada"
	StatusCancelled AppointmentStatus = "cancelada"
	StatusFinalized AppointmentStatus = "finalizada"
)

// ErrInvalidTransition is returned when the active policy forbids a change.
var ErrInvalidTransition = errors.New("invalid appointment status transition")

// IsTerminal reports whether no further change is expected from this status.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusFinalized
}

func (s AppointmentStatus) String() string {
	if s == StatusPending {
		return "pendiente"
	}
	return string(s)
}

// Scan implements sql.Scanner. NULL maps to StatusPending.
func (s *AppointmentStatus) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = StatusPending
	case []byte:
		*s = AppointmentStatus(strings.TrimSpace(string(v)))
	case string:
		*s = AppointmentStatus(strings.TrimSpace(v))
	default:
		return fmt.Errorf("cannot scan %T into AppointmentStatus", src)
	}
	return nil
}

// Value implements driver.Valuer. StatusPending is stored as NULL.
func (s AppointmentStatus) Value() (driver.Value, error) {
	if s == StatusPending {
		return nil, nil
	}
	return string(s), nil
}

// MarshalJSON renders a pending appointment as "estado": null.
func (s AppointmentStatus) MarshalJSON() ([]byte, error) {
	if s == StatusPending {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// AppointmentPolicy decides which estado changes are accepted.
type AppointmentPolicy string

const (
	// PolicyPermissive accepts every change from every status.
	PolicyPermissive AppointmentPolicy = "permissive"
	// PolicyStrict treats cancelada and finalizada as terminal.
	PolicyStrict AppointmentPolicy = "strict"
)

// ParseAppointmentPolicy parses a policy name.
func ParseAppointmentPolicy(s string) (AppointmentPolicy, error) {
	switch p := AppointmentPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPermissive, PolicyStrict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown appointment policy %q", s)
	}
}

var strictTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusFinalized},
	StatusConfirmed: {StatusConfirmed, StatusCancelled, StatusFinalized},
	StatusCancelled: {},
	StatusFinalized: {},
}

// Transition returns the status that results from moving s to `to` under p.
func (s AppointmentStatus) Transition(to AppointmentStatus, p AppointmentPolicy) (AppointmentStatus, error) {
	if to == StatusPending {
		return s, fmt.Errorf("%w: cannot return to %s", ErrInvalidTransition, StatusPending)
	}
	if p != PolicyStrict {
		return to, nil
	}

	allowed, known := strictTransitions[s]
	if !known {
		// Unrecognised values written by other clients behave like pending.
		allowed = strictTransitions[StatusPending]
	}
	for _, next := range allowed {
		if next == to {
			return to, nil
		}
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, to)
}

// CheckEditable reports whether fecha/hora/descripcion may still be rewritten.
func (s AppointmentStatus) CheckEditable(p AppointmentPolicy) error {
	if p == PolicyStrict && s.IsTerminal() {
		return fmt.Errorf("%w: %s appointment cannot be edited", ErrInvalidTransition, s)
	}
	return nil
}

// Appointment represents a row of the citas table.
type Appointment struct {
	ID          uint              `gorm:"column:idcita;primaryKey;autoIncrement" json:"idcita"`
	DoctorID    uint              `gorm:"column:IdMedico" json:"IdMedico"`
	PatientID   uint              `gorm:"column:idPaciente" json:"idPaciente"`
	PatientName string            `gorm:"column:nombrePaciente" json:"nombrePaciente"`
	Description string            `gorm:"column:descripcion" json:"descripcion"`
	Date        Date              `gorm:"column:fecha;type:date" json:"fecha"`
	Time        ClockTime         `gorm:"column:hora;type:time" json:"hora"`
	Status      AppointmentStatus `gorm:"column:estado" json:"estado"`
}

// TableName implements the gorm tabler interface.
func (Appointment) TableName() string { return "citas" }

// AppointmentChanges are the fields a patient may rewrite on an existing cita.
type AppointmentChanges struct {
	Date        Date
	Time        ClockTime
	PatientName string
	Description string
}

// Apply copies the changes onto a.
func (c AppointmentChanges) Apply(a *Appointment) {
	a.Date = c.Date
	a.Time = c.Time
	a.PatientName = c.PatientName
	a.Description = c.Description
}

// AppointmentDetail is a cita enriched with its doctor, as returned to patients.
// The doctor columns come from a LEFT JOIN and may be absent.
type AppointmentDetail struct {
	Appointment
	DoctorName  *string `gorm:"column:nombreMedico" json:"nombreMedico"`
	Specialty   *string `gorm:"column:especialidad" json:"especialidad"`
	Hospital    *string `gorm:"column:hospital" json:"hospital"`
	DoctorPhone *string `gorm:"column:telefonoMedico" json:"telefonoMedico"`
	DoctorEmail *string `gorm:"column:correoMedico" json:"correoMedico"`
}

// DoctorAppointment is a cita on a doctor's agenda, enriched with its patient.
type DoctorAppointment struct {
	Appointment
	FirstName       string  `gorm:"column:nombre" json:"nombre"`
	PaternalSurname string  `gorm:"column:apePaterno" json:"apePaterno"`
	MaternalSurname string  `gorm:"column:apeMaterno" json:"apeMaterno"`
	Age             *int    `gorm:"column:edad" json:"edad"`
	BloodType       *string `gorm:"column:tipoSangre" json:"tipoSangre"`
	Gender          *string `gorm:"column:genero" json:"genero"`
	FormattedDate   string  `gorm:"-" json:"fechaFormateada"`
	FormattedTime   string  `gorm:"-" json:"horaFormateada"`
}

// FillFormatted sets the dd/mm/yyyy and HH:MM presentation fields.
func (d *DoctorAppointment) FillFormatted() {
	if d.Date != "" {
		d.FormattedDate = d.Date.Time().Format("02/01/2006")
	}
	d.FormattedTime = string(d.Time)
}
