package handlers

import (
	"github.com/gin-gonic/gin"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
	"citas-medicas-server/internal/utils"
)

const (
	msgHospitalIncomplete       = "Datos del hospital incompletos"
	msgHospitalUpdateIncomplete = "Datos incompletos para actualizar el hospital"
	msgHospitalNotFound         = "Hospital no encontrado"
	msgHospitalsEmpty           = "No se encontraron hospitales"
	msgHospitalCreated          = "Hospital registrado exitosamente"
	msgHospitalUpdated          = "Hospital actualizado exitosamente"
	msgHospitalDeleted          = "Hospital eliminado exitosamente"
)

// HospitalHandler handles hospital CRUD.
type HospitalHandler struct {
	Store store.HospitalStore
}

// NewHospitalHandler creates a new HospitalHandler.
func NewHospitalHandler(s store.HospitalStore) *HospitalHandler {
	return &HospitalHandler{Store: s}
}

// HospitalRequest represents a full hospital row. monto may be 0 but must be present.
type HospitalRequest struct {
	Name               string   `json:"nombreHospital" binding:"required"`
	Address            string   `json:"direccion" binding:"required"`
	State              string   `json:"estado" binding:"required"`
	Municipality       string   `json:"municipio" binding:"required"`
	BranchNumber       int      `json:"numSucursal" binding:"required"`
	Phone              string   `json:"telefono" binding:"required"`
	RepresentativeName string   `json:"nomRepresHospital" binding:"required"`
	RFC                string   `json:"rfcHospital" binding:"required"`
	Amount             *float64 `json:"monto" binding:"required"`
}

func (r HospitalRequest) toModel(id uint) models.Hospital {
	return models.Hospital{
		ID:                 id,
		Name:               r.Name,
		Address:            r.Address,
		State:              r.State,
		Municipality:       r.Municipality,
		BranchNumber:       r.BranchNumber,
		Phone:              r.Phone,
		RepresentativeName: r.RepresentativeName,
		RFC:                r.RFC,
		Amount:             *r.Amount,
	}
}

// HospitalCreatedResponse acknowledges a new hospital.
type HospitalCreatedResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"idHospital"`
}

// CreateHospital registers a hospital.
func (h *HospitalHandler) CreateHospital(c *gin.Context) {
	var req HospitalRequest
	if err := utils.BindJSON(c, &req, msgHospitalIncomplete); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	hospital := req.toModel(0)
	if err := h.Store.CreateHospital(c.Request.Context(), &hospital); err != nil {
		utils.HandleError(c, err, "")
		return
	}
	utils.Created(c, HospitalCreatedResponse{Message: msgHospitalCreated, ID: hospital.ID})
}

// GetHospitals lists every hospital. An empty table is a 404.
func (h *HospitalHandler) GetHospitals(c *gin.Context) {
	hospitals, err := h.Store.ListHospitals(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	if len(hospitals) == 0 {
		utils.NotFound(c, msgHospitalsEmpty)
		return
	}
	utils.Success(c, hospitals)
}

// GetHospitalByID returns one hospital.
func (h *HospitalHandler) GetHospitalByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	hospital, err := h.Store.GetHospital(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err, msgHospitalNotFound)
		return
	}
	utils.Success(c, hospital)
}

// UpdateHospital rewrites every column of one hospital.
func (h *HospitalHandler) UpdateHospital(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	var req HospitalRequest
	if err := utils.BindJSON(c, &req, msgHospitalUpdateIncomplete); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	hospital := req.toModel(id)
	if err := h.Store.UpdateHospital(c.Request.Context(), &hospital); err != nil {
		utils.HandleError(c, err, msgHospitalNotFound)
		return
	}
	utils.Message(c, msgHospitalUpdated)
}

// DeleteHospital removes one hospital.
func (h *HospitalHandler) DeleteHospital(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	if err := h.Store.DeleteHospital(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err, msgHospitalNotFound)
		return
	}
	utils.Message(c, msgHospitalDeleted)
}
