package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"citas-medicas-server/internal/models"
)

func TestFlexIDUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    flexID
		wantErr bool
	}{
		{`7`, 7, false},
		{`"12"`, 12, false},
		{`null`, 0, false},
		{`""`, 0, false},
		{`"abc"`, 0, true},
		{`-3`, 0, true},
		{`1.5`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got struct {
				ID flexID `json:"id"`
			}
			err := json.Unmarshal([]byte(`{"id":`+tt.in+`}`), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got.ID)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got.ID)
			}
		})
	}
}

func TestOptionalIntUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{`{"edad":34}`, intPtr(34), false},
		{`{"edad":"34"}`, intPtr(34), false},
		{`{"edad":""}`, nil, false},
		{`{"edad":null}`, nil, false},
		{`{}`, nil, false},
		{`{"edad":"treinta"}`, nil, true},
		{`{"edad":-1}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got struct {
				Age optionalInt `json:"edad"`
			}
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch {
			case tt.want == nil && got.Age.Ptr() != nil:
				t.Errorf("expected unset, got %d", *got.Age.Ptr())
			case tt.want != nil && (got.Age.Ptr() == nil || *got.Age.Ptr() != *tt.want):
				t.Errorf("expected %d, got %v", *tt.want, got.Age.Ptr())
			}
		})
	}
}

func intPtr(n int) *int { return &n }

func TestBindOptionalJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    string
	}{
		{"absent body", "", false, ""},
		{"notes", `{"diagnostico":"Gripe"}`, false, "Gripe"},
		{"malformed", `{"diagnostico":`, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var notes models.ClinicalNotes
			err := bindOptionalJSON(c, &notes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if tt.want != "" && (notes.Diagnosis == nil || *notes.Diagnosis != tt.want) {
				t.Errorf("expected diagnostico %q, got %v", tt.want, notes.Diagnosis)
			}
		})
	}
}
