package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User represents a patient account in the usuarios table.
type User struct {
	ID              uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FirstName       string  `gorm:"column:nombre" json:"nombre"`
	PaternalSurname string  `gorm:"column:apePaterno" json:"apePaterno"`
	MaternalSurname string  `gorm:"column:apeMaterno" json:"apeMaterno"`
	Email           string  `gorm:"column:correo;uniqueIndex" json:"correo"`
	Password        string  `gorm:"column:contrase" json:"-"` // Never send password in JSON
	Age             *int    `gorm:"column:edad" json:"edad"`
	BloodType       *string `gorm:"column:tipoSangre" json:"tipoSangre"`
	Gender          *string `gorm:"column:genero" json:"genero"`
}

// TableName implements the gorm tabler interface.
func (User) TableName() string { return "usuarios" }

// UserSanitized is the public view of a user returned by the usuarios endpoints.
type UserSanitized struct {
	ID              uint   `json:"id"`
	FirstName       string `json:"nombre"`
	PaternalSurname string `json:"apePaterno"`
	MaternalSurname string `json:"apeMaterno"`
	Email           string `json:"correo"`
}

// UserProfile echoes the registration data back to the client.
type UserProfile struct {
	FirstName       string  `json:"nombre"`
	PaternalSurname string  `json:"apePaterno"`
	MaternalSurname string  `json:"apeMaterno"`
	Email           string  `json:"correo"`
	Age             *int    `json:"edad,omitempty"`
	BloodType       *string `json:"tipoSangre,omitempty"`
	Gender          *string `json:"genero,omitempty"`
}

// SetPassword hashes a password with the given bcrypt cost and sets it on the user
func (u *User) SetPassword(password string, cost int) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:              u.ID,
		FirstName:       u.FirstName,
		PaternalSurname: u.PaternalSurname,
		MaternalSurname: u.MaternalSurname,
		Email:           u.Email,
	}
}

// Profile returns the registration echo for u.
func (u *User) Profile() UserProfile {
	return UserProfile{
		FirstName:       u.FirstName,
		PaternalSurname: u.PaternalSurname,
		MaternalSurname: u.MaternalSurname,
		Email:           u.Email,
		Age:             u.Age,
		BloodType:       u.BloodType,
		Gender:          u.Gender,
	}
}

// Doctor represents a row of the medicos table. Doctors are managed outside this service.
type Doctor struct {
	ID        uint   `gorm:"column:id;primaryKey" json:"id"`
	FirstName string `gorm:"column:nombre" json:"nombre"`
	LastName  string `gorm:"column:apellido" json:"apellido"`
	Specialty string `gorm:"column:especialidad" json:"especialidad"`
	Hospital  string `gorm:"column:hospital" json:"hospital"`
	Phone     string `gorm:"column:telefono" json:"telefono"`
	Email     string `gorm:"column:correo" json:"correo"`
}

// TableName implements the gorm tabler interface.
func (Doctor) TableName() string { return "medicos" }

// LoginAttempt is an audit row written for every patient login.
type LoginAttempt struct {
	ID      uint  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID  *uint `gorm:"column:usuario_id" json:"usuario_id"`
	Success bool  `gorm:"column:exitoso" json:"exitoso"`
}

// TableName implements the gorm tabler interface.
func (LoginAttempt) TableName() string { return "login_attempts" }
