package handlers

import (
	"github.com/gin-gonic/gin"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
	"citas-medicas-server/internal/utils"
)

const (
	msgHistoryEmpty         = "No se encontró historial médico para este paciente"
	msgRecordNotFoundUpdate = "No se encontró el registro para actualizar"
	msgRecordNotFoundDelete = "No se encontró el registro para eliminar"
	msgRecordUpdated        = "Registro actualizado correctamente"
	msgRecordDeleted        = "Registro eliminado correctamente"
)

// MedicalRecordHandler handles historial_medico requests.
type MedicalRecordHandler struct {
	Store store.HistoryStore
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(s store.HistoryStore) *MedicalRecordHandler {
	return &MedicalRecordHandler{Store: s}
}

// GetMedicalRecordsForPatient returns a patient's history, most recent
// appointment first. An empty history is a 404.
func (h *MedicalRecordHandler) GetMedicalRecordsForPatient(c *gin.Context) {
	patientID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	records, err := h.Store.ListPatientHistory(c.Request.Context(), patientID)
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	if len(records) == 0 {
		utils.NotFound(c, msgHistoryEmpty)
		return
	}
	utils.Success(c, records)
}

// UpdateMedicalRecord rewrites the clinical notes of one record.
func (h *MedicalRecordHandler) UpdateMedicalRecord(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	var notes models.ClinicalNotes
	if err := utils.BindJSON(c, &notes, msgInvalidBody); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	if err := h.Store.UpdateHistoryRecord(c.Request.Context(), id, notes); err != nil {
		utils.HandleError(c, err, msgRecordNotFoundUpdate)
		return
	}
	utils.Message(c, msgRecordUpdated)
}

// DeleteMedicalRecord removes one record.
func (h *MedicalRecordHandler) DeleteMedicalRecord(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	if err := h.Store.DeleteHistoryRecord(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err, msgRecordNotFoundDelete)
		return
	}
	utils.Message(c, msgRecordDeleted)
}
