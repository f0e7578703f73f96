package utils

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// FormatValidationError lists the failing fields as field:tag pairs.
func FormatValidationError(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field()+":"+e.Tag())
		}
		return strings.Join(fields, ", ")
	}
	return err.Error()
}

// BindJSON binds and validates the request body. On failure it returns a 400
// AppError carrying message; validator details only go to the log.
func BindJSON(c *gin.Context, obj interface{}, message string) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		zerolog.Ctx(c.Request.Context()).Debug().
			Str("detail", FormatValidationError(err)).
			Msg("invalid request body")
		return &AppError{Status: http.StatusBadRequest, Message: message, Err: err}
	}
	return nil
}

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, ValidationError("Identificador inválido")
	}
	return uint(id), nil
}
