package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
)

// InternalErrorMessage is the only text a client sees for a 500.
const InternalErrorMessage = "Error interno del servidor"

const (
	msgConflict          = "El recurso ya existe"
	msgInvalidTransition = "La cita no admite este cambio de estado"
)

// AppError carries an HTTP status and a client-safe message.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// ValidationError is a 400.
func ValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

// NotFoundError is a 404.
func NotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

// ConflictError is a 409.
func ConflictError(message string, err error) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message, Err: err}
}

// Translate maps err onto the response taxonomy. notFound is the message
// used when the store matched no row.
func Translate(err error, notFound string) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, store.ErrNotFound):
		return NotFoundError(notFound)
	case errors.Is(err, store.ErrConflict):
		return ConflictError(msgConflict, err)
	case errors.Is(err, models.ErrInvalidTransition):
		return ConflictError(msgInvalidTransition, err)
	default:
		return &AppError{Status: http.StatusInternalServerError, Message: InternalErrorMessage, Err: err}
	}
}

// HandleError writes the response for err. Causes of 500s are logged and
// never sent to the client.
func HandleError(c *gin.Context, err error, notFound string) {
	appErr := Translate(err, notFound)
	_ = c.Error(err)

	log := zerolog.Ctx(c.Request.Context())
	if appErr.Status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		InternalServerError(c)
		return
	}

	log.Debug().Err(err).Int("status", appErr.Status).Msg("request rejected")
	Error(c, appErr.Status, appErr.Message)
}
