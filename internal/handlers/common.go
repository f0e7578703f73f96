// Package handlers implements the HTTP endpoints. Every handler validates its
// input, calls an injected store and reports failures through utils.HandleError.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"citas-medicas-server/internal/utils"
)

const msgInvalidBody = "Cuerpo de la solicitud inválido"

// flexID accepts an id sent either as a JSON number or as a numeric string,
// as browser forms tend to do.
type flexID uint

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*f = flexID(n)
	return nil
}

// optionalInt is an optional non-negative number that may also arrive as a
// numeric string. Absent, null and "" all leave it unset.
type optionalInt struct {
	val *int
}

func (o *optionalInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		o.val = nil
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid number %q", s)
	}
	o.val = &n
	return nil
}

// Ptr returns the value, or nil when unset.
func (o optionalInt) Ptr() *int { return o.val }

// bindOptionalJSON binds a body that may be absent altogether.
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return utils.ValidationError(msgInvalidBody)
	}
	return nil
}
