package models

import "strings"

// Payment represents a row of the pagos table.
//
// CardNumber and SecurityCode hold whatever the payment handler chose to
// persist: sealed ciphertext when a payment key is configured, the raw value
// otherwise. They are never serialized directly; use View.
type Payment struct {
	ID           uint      `gorm:"column:idPago;primaryKey;autoIncrement" json:"-"`
	CardNumber   string    `gorm:"column:numeroTarjeta" json:"-"`
	HolderName   string    `gorm:"column:nombreTitular" json:"-"`
	Expiration   string    `gorm:"column:fechaExpiracion" json:"-"`
	SecurityCode string    `gorm:"column:codigoSeguridad" json:"-"`
	Amount       float64   `gorm:"column:monto" json:"-"`
	PaidAt       Timestamp `gorm:"column:fechaPago" json:"-"`
	HospitalID   uint      `gorm:"column:idHospital" json:"-"`
}

// TableName implements the gorm tabler interface.
func (Payment) TableName() string { return "pagos" }

// PaymentView is the client-facing payment. The security code is never returned.
type PaymentView struct {
	ID         uint      `json:"idPago"`
	CardNumber string    `json:"numeroTarjeta"`
	HolderName string    `json:"nombreTitular"`
	Expiration string    `json:"fechaExpiracion"`
	Amount     float64   `json:"monto"`
	PaidAt     Timestamp `json:"fechaPago"`
	HospitalID uint      `json:"idHospital"`
}

// View returns p for clients, with the (already opened) card number masked.
func (p Payment) View(cardNumber string) PaymentView {
	return PaymentView{
		ID:         p.ID,
		CardNumber: MaskCardNumber(cardNumber),
		HolderName: p.HolderName,
		Expiration: p.Expiration,
		Amount:     p.Amount,
		PaidAt:     p.PaidAt,
		HospitalID: p.HospitalID,
	}
}

// MaskCardNumber keeps only the last four digits of a card number.
func MaskCardNumber(n string) string {
	n = strings.ReplaceAll(strings.TrimSpace(n), " ", "")
	if len(n) <= 4 {
		return strings.Repeat("*", len(n))
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}

// Hospital represents a row of the hospital table.
type Hospital struct {
	ID                 uint    `gorm:"column:idHospital;primaryKey;autoIncrement" json:"idHospital"`
	Name               string  `gorm:"column:nombreHospital" json:"nombreHospital"`
	Address            string  `gorm:"column:direccion" json:"direccion"`
	State              string  `gorm:"column:estado" json:"estado"`
	Municipality       string  `gorm:"column:municipio" json:"municipio"`
	BranchNumber       int     `gorm:"column:numSucursal" json:"numSucursal"`
	Phone              string  `gorm:"column:telefono" json:"telefono"`
	RepresentativeName string  `gorm:"column:nomRepresHospital" json:"nomRepresHospital"`
	RFC                string  `gorm:"column:rfcHospital" json:"rfcHospital"`
	Amount             float64 `gorm:"column:monto" json:"monto"`
}

// TableName implements the gorm tabler interface.
func (Hospital) TableName() string { return "hospital" }
