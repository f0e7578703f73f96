package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"citas-medicas-server/internal/models"
	"citas-medicas-server/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestValidEmail(t *testing.T) {
	tests := map[string]bool{
		"ana@example.com":  true,
		"a.b@c.mx":         true,
		"ana@example":      false,
		"anaexample.com":   false,
		"ana @example.com": false,
		"":                 false,
	}
	for in, want := range tests {
		if got := ValidEmail(in); got != want {
			t.Errorf("ValidEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", fmt.Errorf("wrapped: %w", store.ErrNotFound), http.StatusNotFound, "Cita no encontrada"},
		{"conflict", store.ErrConflict, http.StatusConflict, msgConflict},
		{"transition", models.ErrInvalidTransition, http.StatusConflict, msgInvalidTransition},
		{"validation", ValidationError("Todos los campos son requeridos"), http.StatusBadRequest, "Todos los campos son requeridos"},
		{"internal", errors.New("dial tcp: refused"), http.StatusInternalServerError, InternalErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err, "Cita no encontrada")
			if got.Status != tt.status || got.Message != tt.msg {
				t.Errorf("got %d %q, want %d %q", got.Status, got.Message, tt.status, tt.msg)
			}
		})
	}
}

func TestHandleErrorHidesInternalCause(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/api/pagos", nil)
	c.Request = req.WithContext(logger.WithContext(req.Context()))

	HandleError(c, errors.New("Error 1045: Access denied for user 'root'"), "Pago no encontrado")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != InternalErrorMessage {
		t.Errorf("unexpected body %q", body.Error)
	}
	if !strings.Contains(logs.String(), "Access denied") {
		t.Errorf("cause must be logged, got %s", logs.String())
	}
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Name string `json:"nombre" binding:"required"`
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	err := BindJSON(c, &p, "Todos los campos son requeridos")
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Status != http.StatusBadRequest || appErr.Message != "Todos los campos son requeridos" {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(FormatValidationError(appErr.Err), "Name:required") {
		t.Errorf("expected field detail, got %q", FormatValidationError(appErr.Err))
	}
}

func TestParseID(t *testing.T) {
	for _, tt := range []struct {
		raw string
		ok  bool
	}{{"12", true}, {"0", false}, {"abc", false}, {"-3", false}} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: tt.raw}}
		_, err := ParseID(c, "id")
		if (err == nil) != tt.ok {
			t.Errorf("ParseID(%q): err=%v", tt.raw, err)
		}
	}
}
