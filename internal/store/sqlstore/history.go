package sqlstore

import (
	"context"
	"fmt"

	"citas-medicas-server/internal/models"
)

const historyDetailColumns = `hm.id, hm.id_paciente, hm.id_medico, hm.id_cita, hm.fecha,
	hm.diagnostico, hm.tratamiento, hm.observaciones,
	COALESCE(hm.edad_paciente, u.edad) AS edad_paciente,
	COALESCE(hm.tipo_sangre_paciente, u.tipoSangre) AS tipo_sangre_paciente,
	c.fecha AS fecha_cita, c.hora AS hora_cita,
	m.nombre AS nombreMedico, m.especialidad,
	u.nombre AS nombrePaciente, u.apePaterno, u.apeMaterno`

func (s *Store) ListPatientHistory(ctx context.Context, patientID uint) ([]models.HistoryDetail, error) {
	list := make([]models.HistoryDetail, 0)
	err := s.db.WithContext(ctx).
		Table("historial_medico AS hm").
		Select(historyDetailColumns).
		Joins("JOIN citas c ON hm.id_cita = c.idcita").
		Joins("JOIN medicos m ON hm.id_medico = m.id").
		Joins("JOIN usuarios u ON hm.id_paciente = u.id").
		Where("hm.id_paciente = ?", patientID).
		Order("c.fecha DESC, c.hora DESC, hm.id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list historial: %w", err)
	}
	return list, nil
}

func (s *Store) UpdateHistoryRecord(ctx context.Context, id uint, notes models.ClinicalNotes) error {
	notes = notes.Normalize()
	res := s.db.WithContext(ctx).Model(&models.HistoryRecord{}).Where("id = ?", id).Updates(map[string]any{
		"diagnostico":   notes.Diagnosis,
		"tratamiento":   notes.Treatment,
		"observaciones": notes.Observations,
	})
	return affected(res, "update historial")
}

func (s *Store) DeleteHistoryRecord(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.HistoryRecord{})
	return affected(res, "delete historial")
}
