package models

// HistoryRecord is a historial_medico row, written once an appointment is finalized.
//
// PatientAge and PatientBloodType are snapshots of the patient at that moment.
type HistoryRecord struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PatientID        uint      `gorm:"column:id_paciente" json:"id_paciente"`
	DoctorID         uint      `gorm:"column:id_medico" json:"id_medico"`
	AppointmentID    uint      `gorm:"column:id_cita" json:"id_cita"`
	RecordedAt       Timestamp `gorm:"column:fecha" json:"fecha"`
	Diagnosis        *string   `gorm:"column:diagnostico" json:"diagnostico"`
	Treatment        *string   `gorm:"column:tratamiento" json:"tratamiento"`
	Observations     *string   `gorm:"column:observaciones" json:"observaciones"`
	PatientAge       *int      `gorm:"column:edad_paciente" json:"edad_paciente"`
	PatientBloodType *string   `gorm:"column:tipo_sangre_paciente" json:"tipo_sangre_paciente"`
}

// TableName implements the gorm tabler interface.
func (HistoryRecord) TableName() string { return "historial_medico" }

// ClinicalNotes are the doctor-supplied parts of a history record.
type ClinicalNotes struct {
	Diagnosis    *string `json:"diagnostico"`
	Treatment    *string `json:"tratamiento"`
	Observations *string `json:"observaciones"`
}

// Normalize turns empty strings into nil so they are stored as NULL.
func (n ClinicalNotes) Normalize() ClinicalNotes {
	return ClinicalNotes{
		Diagnosis:    nilIfEmpty(n.Diagnosis),
		Treatment:    nilIfEmpty(n.Treatment),
		Observations: nilIfEmpty(n.Observations),
	}
}

// NewHistoryRecord builds the record for a finalized appointment.
func NewHistoryRecord(a Appointment, notes ClinicalNotes, age *int, bloodType *string) HistoryRecord {
	notes = notes.Normalize()
	return HistoryRecord{
		PatientID:        a.PatientID,
		DoctorID:         a.DoctorID,
		AppointmentID:    a.ID,
		RecordedAt:       Now(),
		Diagnosis:        notes.Diagnosis,
		Treatment:        notes.Treatment,
		Observations:     notes.Observations,
		PatientAge:       age,
		PatientBloodType: nilIfEmpty(bloodType),
	}
}

// HistoryDetail is a history record joined with its appointment, doctor and patient.
// Age and blood type fall back to the patient's current values when no snapshot exists.
type HistoryDetail struct {
	HistoryRecord
	AppointmentDate Date      `gorm:"column:fecha_cita" json:"fecha_cita"`
	AppointmentTime ClockTime `gorm:"column:hora_cita" json:"hora_cita"`
	DoctorName      string    `gorm:"column:nombreMedico" json:"nombreMedico"`
	Specialty       string    `gorm:"column:especialidad" json:"especialidad"`
	PatientName     string    `gorm:"column:nombrePaciente" json:"nombrePaciente"`
	PaternalSurname string    `gorm:"column:apePaterno" json:"apePaterno"`
	MaternalSurname string    `gorm:"column:apeMaterno" json:"apeMaterno"`
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
