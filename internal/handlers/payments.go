package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"citas-medicas-server/internal/cardvault"
	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
	"citas-medicas-server/internal/utils"
)

const (
	msgPaymentIncomplete = "Datos de pago incompletos"
	msgPaymentNotFound   = "Pago no encontrado"
	msgPaymentsEmpty     = "No se encontraron pagos"
	msgPaymentCreated    = "Pago registrado exitosamente"
	msgPaymentUpdated    = "Pago actualizado exitosamente"
	msgPaymentDeleted    = "Pago eliminado exitosamente"
)

// PaymentHandler handles pagos. Card number and security code go through
// the vault before storage; responses mask the number and omit the code.
type PaymentHandler struct {
	Store store.PaymentStore
	Vault *cardvault.Vault
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(s store.PaymentStore, vault *cardvault.Vault) *PaymentHandler {
	return &PaymentHandler{Store: s, Vault: vault}
}

// PaymentRequest holds the card fields shared by create and update.
type PaymentRequest struct {
	CardNumber   string  `json:"numeroTarjeta" binding:"required"`
	HolderName   string  `json:"nombreTitular" binding:"required"`
	Expiration   string  `json:"fechaExpiracion" binding:"required"`
	SecurityCode string  `json:"codigoSeguridad" binding:"required"`
	Amount       float64 `json:"monto" binding:"required,gt=0"`
}

// CreatePaymentRequest also names the hospital being paid.
type CreatePaymentRequest struct {
	PaymentRequest
	HospitalID flexID `json:"idHospital" binding:"required"`
}

// PaymentCreatedResponse acknowledges a new payment.
type PaymentCreatedResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"idPago"`
}

func (h *PaymentHandler) seal(p *models.Payment, req PaymentRequest) error {
	number, err := h.Vault.Seal(req.CardNumber)
	if err != nil {
		return fmt.Errorf("seal card number: %w", err)
	}
	code, err := h.Vault.Seal(req.SecurityCode)
	if err != nil {
		return fmt.Errorf("seal security code: %w", err)
	}
	p.CardNumber = number
	p.HolderName = req.HolderName
	p.Expiration = req.Expiration
	p.SecurityCode = code
	p.Amount = req.Amount
	return nil
}

func (h *PaymentHandler) view(p models.Payment) (models.PaymentView, error) {
	number, err := h.Vault.Open(p.CardNumber)
	if err != nil {
		return models.PaymentView{}, fmt.Errorf("open pago %d: %w", p.ID, err)
	}
	return p.View(number), nil
}

// CreatePayment records a payment. fechaPago is set by the server.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := utils.BindJSON(c, &req, msgPaymentIncomplete); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	payment := models.Payment{PaidAt: models.Now(), HospitalID: uint(req.HospitalID)}
	if err := h.seal(&payment, req.PaymentRequest); err != nil {
		utils.HandleError(c, err, "")
		return
	}
	if err := h.Store.CreatePayment(c.Request.Context(), &payment); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	utils.Created(c, PaymentCreatedResponse{Message: msgPaymentCreated, ID: payment.ID})
}

// GetPayments lists every payment. An empty table is a 404.
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	payments, err := h.Store.ListPayments(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	if len(payments) == 0 {
		utils.NotFound(c, msgPaymentsEmpty)
		return
	}

	out := make([]models.PaymentView, 0, len(payments))
	for _, p := range payments {
		v, err := h.view(p)
		if err != nil {
			utils.HandleError(c, err, "")
			return
		}
		out = append(out, v)
	}
	utils.Success(c, out)
}

// GetPaymentByID returns one payment.
func (h *PaymentHandler) GetPaymentByID(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	payment, err := h.Store.GetPayment(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err, msgPaymentNotFound)
		return
	}
	v, err := h.view(*payment)
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	utils.Success(c, v)
}

// UpdatePayment rewrites the card fields and monto.
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}
	var req PaymentRequest
	if err := utils.BindJSON(c, &req, msgPaymentIncomplete); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	payment := models.Payment{ID: id}
	if err := h.seal(&payment, req); err != nil {
		utils.HandleError(c, err, "")
		return
	}
	if err := h.Store.UpdatePayment(c.Request.Context(), &payment); err != nil {
		utils.HandleError(c, err, msgPaymentNotFound)
		return
	}
	utils.Message(c, msgPaymentUpdated)
}

// DeletePayment removes one payment.
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		utils.HandleError(c, err, "")
		return
	}

	if err := h.Store.DeletePayment(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err, msgPaymentNotFound)
		return
	}
	utils.Message(c, msgPaymentDeleted)
}
