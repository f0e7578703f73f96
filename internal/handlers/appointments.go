package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
	"citas-medicas-server/internal/utils"
)

const (
	msgAppointmentNotFound  = "Cita no encontrada"
	msgAppointmentCreated   = "Cita registrada exitosamente"
	msgAppointmentUpdated   = "Cita actualizada exitosamente"
	msgAppointmentDeleted   = "Cita cancelada exitosamente"
	msgAppointmentConfirmed = "Cita confirmada exitosamente"
	msgAppointmentCancelled = "Cita cancelada exitosamente"
	msgAppointmentFinalized = "Cita finalizada y historial médico registrado"
	msgInvalidSchedule      = "Formato de fecha u hora inválido"
)

// AppointmentHandler handles the citas endpoints and their lifecycle.
type AppointmentHandler struct {
	Store  store.AppointmentStore
	Policy models.AppointmentPolicy
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(s store.AppointmentStore, policy models.AppointmentPolicy) *AppointmentHandler {
	return &AppointmentHandler{Store: s, Policy: policy}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	DoctorID    flexID `json:"IdMedico" binding:"required"`
	PatientID   flexID `json:"idPaciente" binding:"required"`
	PatientName string `json:"nombrePaciente" binding:"required"`
	Description string `json:"descripcion" binding:"required"`
	Date        string `json:"fecha" binding:"required"`
	Time        string `json:"hora" binding:"required"`
}

// UpdateAppointmentRequest represents the fields a patient may rewrite.
type UpdateAppointmentRequest struct {
	Date        string `json:"fecha" binding:"required"`
	Time        string `json:"hora" binding:"required"`
	PatientName string `json:"nombrePaciente" binding:"required"`
	Description string `json:"descripcion" binding:"required"`
}

// CreatedResponse acknowledges a created row.
type CreatedResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

func parseSchedule(date, clock string) (models.Date, models.ClockTime, error) {
	d, err := models.ParseDate(date)
	if err != nil {
		return "", "", utils.ValidationError(msgInvalidSchedule)
	}
	t, err := models.ParseClockTime(clock)
	if err != nil {
		return "", "", utils.ValidationError(msgInvalidSchedule)
	}
	return d, t, nil
}

// CreateAppointment books a new appointment. It starts without estado.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := utils.BindJSON(c, &req, msgRequiredFields); err != nil {
		utils.HandleError(c, err, "")
		return
	}
	date, clock, err := parseSchedule(req.Date, req.Time)
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	appointment := models.Appointment{
		DoctorID:    uint(req.DoctorID),
		PatientID:   uint(req.PatientID),
		PatientName: req.PatientName,
		Description: req.Description,
		Date:        date,
		Time:        clock,
		Status:      models.StatusPending,
	}
	if err := h.Store.CreateAppointment(c.Request.Context(), &appointment); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	utils.Created(c, CreatedResponse{Message: msgAppointmentCreated, ID: appointment.ID})
}

// GetPatientAppointments lists a patient's appointments, newest first.
func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
	patientID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	list, err := h.Store.ListPatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	utils.Success(c, list)
}

// GetAppointmentByID returns one appointment with its doctor.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	appointment, err := h.Store.GetAppointment(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err, msgAppointmentNotFound)
		return
	}
	utils.Success(c, appointment)
}

// GetDoctorAppointments returns a doctor's agenda, earliest first.
func (h *AppointmentHandler) GetDoctorAppointments(c *gin.Context) {
	doctorID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	list, err := h.Store.ListDoctorAppointments(c.Request.Context(), doctorID)
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	utils.Success(c, list)
}

// TestAppointmentsResponse is the body of the diagnostic listing.
type TestAppointmentsResponse struct {
	Message   string                     `json:"message"`
	PatientID string                     `json:"idPaciente"`
	Count     int                        `json:"citasCount"`
	Items     []models.AppointmentDetail `json:"citas"`
}

// TestPatientAppointments is a diagnostic view of a patient's appointments.
func (h *AppointmentHandler) TestPatientAppointments(c *gin.Context) {
	patientID, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	list, err := h.Store.ListPatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	utils.Success(c, TestAppointmentsResponse{
		Message:   "Consulta de prueba",
		PatientID: c.Param("id"),
		Count:     len(list),
		Items:     list,
	})
}

// UpdateAppointment rewrites fecha, hora, nombrePaciente and descripcion.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	var req UpdateAppointmentRequest
	if err := utils.BindJSON(c, &req, msgRequiredFields); err != nil {
		utils.HandleError(c, err, "")
		return
	}
	date, clock, err := parseSchedule(req.Date, req.Time)
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	changes := models.AppointmentChanges{
		Date:        date,
		Time:        clock,
		PatientName: req.PatientName,
		Description: req.Description,
	}
	if err := h.Store.UpdateAppointment(c.Request.Context(), id, changes, h.Policy); err != nil {
		utils.HandleError(c, err, msgAppointmentNotFound)
		return
	}
	utils.Message(c, msgAppointmentUpdated)
}

// DeleteAppointment removes the appointment regardless of its estado.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	if err := h.Store.DeleteAppointment(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err, msgAppointmentNotFound)
		return
	}
	utils.Message(c, msgAppointmentDeleted)
}

// ConfirmAppointment sets estado to confirmada.
func (h *AppointmentHandler) ConfirmAppointment(c *gin.Context) {
	h.setStatus(c, models.StatusConfirmed, msgAppointmentConfirmed)
}

// CancelAppointment sets estado to cancelada.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	h.setStatus(c, models.StatusCancelled, msgAppointmentCancelled)
}

func (h *AppointmentHandler) setStatus(c *gin.Context, to models.AppointmentStatus, message string) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	if err := h.Store.SetAppointmentStatus(c.Request.Context(), id, to, h.Policy); err != nil {
		utils.HandleError(c, err, msgAppointmentNotFound)
		return
	}
	zerolog.Ctx(c.Request.Context()).Info().Uint("idcita", id).Str("estado", to.String()).Msg("appointment status changed")
	utils.Message(c, message)
}

// FinalizeAppointment closes the appointment and records its clinical notes.
func (h *AppointmentHandler) FinalizeAppointment(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	var notes models.ClinicalNotes
	if err := bindOptionalJSON(c, &notes); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	record, err := h.Store.FinalizeAppointment(c.Request.Context(), id, notes, h.Policy)
	if err != nil {
		utils.HandleError(c, err, msgAppointmentNotFound)
		return
	}
	zerolog.Ctx(c.Request.Context()).Info().
		Uint("idcita", id).
		Uint("historial_id", record.ID).
		Msg("appointment finalized")
	utils.Message(c, msgAppointmentFinalized)
}
