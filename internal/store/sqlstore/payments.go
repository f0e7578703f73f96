package sqlstore

import (
	"context"
	"fmt"

	"citas-medicas-server/internal/models"
)

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return classify(err, "insert pago")
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	list := make([]models.Payment, 0)
	if err := s.db.WithContext(ctx).Order("idPago").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list pagos: %w", err)
	}
	return list, nil
}

func (s *Store) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.WithContext(ctx).Where("idPago = ?", id).Take(&p).Error; err != nil {
		return nil, notFound(err, "get pago")
	}
	return &p, nil
}

func (s *Store) UpdatePayment(ctx context.Context, p *models.Payment) error {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).Where("idPago = ?", p.ID).Updates(map[string]any{
		"numeroTarjeta":   p.CardNumber,
		"nombreTitular":   p.HolderName,
		"fechaExpiracion": p.Expiration,
		"codigoSeguridad": p.SecurityCode,
		"monto":           p.Amount,
	})
	return affected(res, "update pago")
}

func (s *Store) DeletePayment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("idPago = ?", id).Delete(&models.Payment{})
	return affected(res, "delete pago")
}

func (s *Store) CreateHospital(ctx context.Context, h *models.Hospital) error {
	if err := s.db.WithContext(ctx).Create(h).Error; err != nil {
		return classify(err, "insert hospital")
	}
	return nil
}

func (s *Store) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	list := make([]models.Hospital, 0)
	if err := s.db.WithContext(ctx).Order("idHospital").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list hospitales: %w", err)
	}
	return list, nil
}

func (s *Store) GetHospital(ctx context.Context, id uint) (*models.Hospital, error) {
	var h models.Hospital
	if err := s.db.WithContext(ctx).Where("idHospital = ?", id).Take(&h).Error; err != nil {
		return nil, notFound(err, "get hospital")
	}
	return &h, nil
}

func (s *Store) UpdateHospital(ctx context.Context, h *models.Hospital) error {
	res := s.db.WithContext(ctx).Model(&models.Hospital{}).Where("idHospital = ?", h.ID).Updates(map[string]any{
		"nombreHospital":    h.Name,
		"direccion":         h.Address,
		"estado":            h.State,
		"municipio":         h.Municipality,
		"numSucursal":       h.BranchNumber,
		"telefono":          h.Phone,
		"nomRepresHospital": h.RepresentativeName,
		"rfcHospital":       h.RFC,
		"monto":             h.Amount,
	})
	return affected(res, "update hospital")
}

func (s *Store) DeleteHospital(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("idHospital = ?", id).Delete(&models.Hospital{})
	return affected(res, "delete hospital")
}
