package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"citas-medicas-server/internal/models"
)

const appointmentDetailColumns = `c.*, m.nombre AS nombreMedico, m.especialidad, m.hospital,
	m.telefono AS telefonoMedico, m.correo AS correoMedico`

const doctorAgendaColumns = `c.*, u.nombre, u.apePaterno, u.apeMaterno, u.edad, u.tipoSangre, u.genero`

// lockedAppointment is a cita read with FOR UPDATE together with the
// patient fields a history snapshot needs.
type lockedAppointment struct {
	models.Appointment
	Age       *int    `gorm:"column:edad"`
	BloodType *string `gorm:"column:tipoSangre"`
}

func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return classify(err, "insert cita")
	}
	return nil
}

func (s *Store) GetAppointment(ctx context.Context, id uint) (*models.AppointmentDetail, error) {
	var d models.AppointmentDetail
	err := s.db.WithContext(ctx).
		Table("citas AS c").
		Select(appointmentDetailColumns).
		Joins("LEFT JOIN medicos m ON c.IdMedico = m.id").
		Where("c.idcita = ?", id).
		Take(&d).Error
	if err != nil {
		return nil, notFound(err, "get cita")
	}
	return &d, nil
}

func (s *Store) ListPatientAppointments(ctx context.Context, patientID uint) ([]models.AppointmentDetail, error) {
	list := make([]models.AppointmentDetail, 0)
	err := s.db.WithContext(ctx).
		Table("citas AS c").
		Select(appointmentDetailColumns).
		Joins("LEFT JOIN medicos m ON c.IdMedico = m.id").
		Where("c.idPaciente = ?", patientID).
		Order("c.fecha DESC, c.hora DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list citas paciente: %w", err)
	}
	return list, nil
}

func (s *Store) ListDoctorAppointments(ctx context.Context, doctorID uint) ([]models.DoctorAppointment, error) {
	list := make([]models.DoctorAppointment, 0)
	err := s.db.WithContext(ctx).
		Table("citas AS c").
		Select(doctorAgendaColumns).
		Joins("JOIN usuarios u ON c.idPaciente = u.id").
		Where("c.IdMedico = ?", doctorID).
		Order("c.fecha ASC, c.hora ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list citas medico: %w", err)
	}
	for i := range list {
		list[i].FillFormatted()
	}
	return list, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, id uint, changes models.AppointmentChanges, policy models.AppointmentPolicy) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockAppointment(tx, id)
		if err != nil {
			return err
		}
		if err := current.Status.CheckEditable(policy); err != nil {
			return err
		}

		res := tx.Model(&models.Appointment{}).Where("idcita = ?", id).Updates(map[string]any{
			"fecha":          changes.Date,
			"hora":           changes.Time,
			"nombrePaciente": changes.PatientName,
			"descripcion":    changes.Description,
		})
		return affected(res, "update cita")
	})
}

func (s *Store) DeleteAppointment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("idcita = ?", id).Delete(&models.Appointment{})
	return affected(res, "delete cita")
}

func (s *Store) SetAppointmentStatus(ctx context.Context, id uint, to models.AppointmentStatus, policy models.AppointmentPolicy) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockAppointment(tx, id)
		if err != nil {
			return err
		}
		next, err := current.Status.Transition(to, policy)
		if err != nil {
			return err
		}
		res := tx.Model(&models.Appointment{}).Where("idcita = ?", id).Update("estado", next)
		return affected(res, "update estado")
	})
}

func (s *Store) FinalizeAppointment(ctx context.Context, id uint, notes models.ClinicalNotes, policy models.AppointmentPolicy) (*models.HistoryRecord, error) {
	var record models.HistoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row lockedAppointment
		err := tx.Clauses(forUpdate()).
			Table("citas AS c").
			Select("c.*, u.edad, u.tipoSangre").
			Joins("JOIN usuarios u ON c.idPaciente = u.id").
			Where("c.idcita = ?", id).
			Take(&row).Error
		if err != nil {
			return notFound(err, "lock cita")
		}

		next, err := row.Status.Transition(models.StatusFinalized, policy)
		if err != nil {
			return err
		}
		res := tx.Model(&models.Appointment{}).Where("idcita = ?", id).Update("estado", next)
		if err := affected(res, "finalize cita"); err != nil {
			return err
		}

		record = models.NewHistoryRecord(row.Appointment, notes, row.Age, row.BloodType)
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("insert historial: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func lockAppointment(tx *gorm.DB, id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := tx.Clauses(forUpdate()).Where("idcita = ?", id).Take(&a).Error; err != nil {
		return nil, notFound(err, "lock cita")
	}
	return &a, nil
}
