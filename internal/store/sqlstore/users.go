package sqlstore

import (
	"context"
	"fmt"

	"citas-medicas-server/internal/models"
)

// CreateUser inserts u without a prior locking read. The unique index on
// correo reports a duplicate as 1062, which classify turns into ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return classify(err, "insert usuario")
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, notFound(err, "get usuario")
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	return users, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("correo = ?", email).Take(&u).Error; err != nil {
		return nil, notFound(err, "find usuario")
	}
	return &u, nil
}

func (s *Store) RecordLoginAttempt(ctx context.Context, userID *uint, success bool) error {
	attempt := models.LoginAttempt{UserID: userID, Success: success}
	if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return fmt.Errorf("insert login_attempt: %w", err)
	}
	return nil
}

func (s *Store) FindDoctor(ctx context.Context, email string, id uint) (*models.Doctor, error) {
	var d models.Doctor
	if err := s.db.WithContext(ctx).Where("correo = ? AND id = ?", email, id).Take(&d).Error; err != nil {
		return nil, notFound(err, "find medico")
	}
	return &d, nil
}
