package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
	"citas-medicas-server/internal/utils"
)

const (
	msgRequiredFields = "Todos los campos son requeridos"
	msgInvalidEmail   = "Formato de correo electrónico inválido"
	msgEmailTaken     = "El correo electrónico ya está registrado"
	msgUserRegistered = "Usuario registrado exitosamente"
)

// AuthHandler handles registration and the two login flows.
type AuthHandler struct {
	Users      store.UserStore
	Doctors    store.DoctorStore
	BcryptCost int
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users store.UserStore, doctors store.DoctorStore, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Doctors: doctors, BcryptCost: bcryptCost}
}

// RegisterRequest represents the request body for patient registration.
type RegisterRequest struct {
	FirstName       string      `json:"nombre" binding:"required"`
	PaternalSurname string      `json:"apePaterno" binding:"required"`
	MaternalSurname string      `json:"apeMaterno" binding:"required"`
	Email           string      `json:"correo" binding:"required"`
	Password        string      `json:"contrase" binding:"required"`
	Age             optionalInt `json:"edad"`
	BloodType       *string     `json:"tipoSangre"`
	Gender          *string     `json:"genero"`
}

// RegisterResponse is returned with 201.
type RegisterResponse struct {
	Message string             `json:"message"`
	ID      uint               `json:"id"`
	User    models.UserProfile `json:"usuario"`
}

// Register handles patient registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := utils.BindJSON(c, &req, msgRequiredFields); err != nil {
		utils.HandleError(c, err, "")
		return
	}
	if !utils.ValidEmail(req.Email) {
		utils.BadRequest(c, msgInvalidEmail)
		return
	}

	user := models.User{
		FirstName:       req.FirstName,
		PaternalSurname: req.PaternalSurname,
		MaternalSurname: req.MaternalSurname,
		Email:           req.Email,
		Age:             req.Age.Ptr(),
		BloodType:       req.BloodType,
		Gender:          req.Gender,
	}
	if err := user.SetPassword(req.Password, h.BcryptCost); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	if err := h.Users.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			err = utils.ConflictError(msgEmailTaken, err)
		}
		utils.HandleError(c, err, "")
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().Uint("user_id", user.ID).Msg("user registered")
	utils.Created(c, RegisterResponse{
		Message: msgUserRegistered,
		ID:      user.ID,
		User:    user.Profile(),
	})
}

// LoginRequest represents the request body for patient login.
type LoginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"contrase"`
}

// LoginResponse never says why authentication failed.
type LoginResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	UserID          string `json:"userId,omitempty"`
	UserName        string `json:"userName,omitempty"`
}

// Login checks a patient's credentials. Every call appends one login attempt.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, msgInvalidBody)
		return
	}
	ctx := c.Request.Context()

	user, err := h.Users.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.HandleError(c, err, "")
		return
	}

	var (
		userID *uint
		ok     bool
	)
	if user != nil {
		userID = &user.ID
		ok = user.CheckPassword(req.Password)
	}
	if err := h.Users.RecordLoginAttempt(ctx, userID, ok); err != nil {
		utils.HandleError(c, err, "")
		return
	}

	if !ok {
		utils.Success(c, LoginResponse{IsAuthenticated: false})
		return
	}
	utils.Success(c, LoginResponse{
		IsAuthenticated: true,
		UserID:          strconv.FormatUint(uint64(user.ID), 10),
		UserName:        user.FirstName,
	})
}

// DoctorLoginRequest represents the request body for doctor login.
type DoctorLoginRequest struct {
	Email string `json:"correo"`
	ID    flexID `json:"id"`
}

// DoctorLoginResponse carries the doctor's identity on success.
type DoctorLoginResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	DoctorID        uint   `json:"medicoId,omitempty"`
	FirstName       string `json:"medicoNombre,omitempty"`
	LastName        string `json:"medicoApellido,omitempty"`
	Specialty       string `json:"especialidad,omitempty"`
	Hospital        string `json:"hospital,omitempty"`
}

// DoctorLogin matches correo and id against medicos. There is no secret
// involved; it identifies a doctor, it does not authenticate one.
func (h *AuthHandler) DoctorLogin(c *gin.Context) {
	var req DoctorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, msgInvalidBody)
		return
	}
	if req.Email == "" || req.ID == 0 {
		utils.Success(c, DoctorLoginResponse{IsAuthenticated: false})
		return
	}

	doctor, err := h.Doctors.FindDoctor(c.Request.Context(), req.Email, uint(req.ID))
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Success(c, DoctorLoginResponse{IsAuthenticated: false})
		return
	case err != nil:
		utils.HandleError(c, err, "")
		return
	}

	utils.Success(c, DoctorLoginResponse{
		IsAuthenticated: true,
		DoctorID:        doctor.ID,
		FirstName:       doctor.FirstName,
		LastName:        doctor.LastName,
		Specialty:       doctor.Specialty,
		Hospital:        doctor.Hospital,
	})
}
