package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTransitionPermissive(t *testing.T) {
	from := []AppointmentStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusFinalized}
	to := []AppointmentStatus{StatusConfirmed, StatusCancelled, StatusFinalized}

	for _, f := range from {
		for _, next := range to {
			got, err := f.Transition(next, PolicyPermissive)
			if err != nil {
				t.Errorf("%s -> %s: unexpected error %v", f, next, err)
			}
			if got != next {
				t.Errorf("%s -> %s: got %s", f, next, got)
			}
		}
	}
}

func TestTransitionStrict(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusFinalized, true},
		{StatusConfirmed, StatusConfirmed, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusFinalized, true},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusFinalized, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusFinalized, StatusConfirmed, false},
		{StatusFinalized, StatusCancelled, false},
		{StatusFinalized, StatusFinalized, false},
		{AppointmentStatus("en_espera"), StatusConfirmed, true},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			got, err := tt.from.Transition(tt.to, PolicyStrict)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.to {
					t.Errorf("expected %s, got %s", tt.to, got)
				}
				return
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if got != tt.from {
				t.Errorf("status must not change on rejection, got %s", got)
			}
		})
	}
}

func TestTransitionBackToPendingRejected(t *testing.T) {
	for _, p := range []AppointmentPolicy{PolicyPermissive, PolicyStrict} {
		if _, err := StatusConfirmed.Transition(StatusPending, p); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s: expected ErrInvalidTransition, got %v", p, err)
		}
	}
}

func TestCheckEditable(t *testing.T) {
	if err := StatusFinalized.CheckEditable(PolicyPermissive); err != nil {
		t.Errorf("permissive policy must allow edits: %v", err)
	}
	if err := StatusConfirmed.CheckEditable(PolicyStrict); err != nil {
		t.Errorf("confirmed appointment must be editable: %v", err)
	}
	for _, s := range []AppointmentStatus{StatusCancelled, StatusFinalized} {
		if err := s.CheckEditable(PolicyStrict); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s: expected ErrInvalidTransition, got %v", s, err)
		}
	}
}

func TestParseAppointmentPolicy(t *testing.T) {
	if p, err := ParseAppointmentPolicy(" Strict "); err != nil || p != PolicyStrict {
		t.Errorf("expected strict, got %q, %v", p, err)
	}
	if _, err := ParseAppointmentPolicy("whatever"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestStatusScanAndJSON(t *testing.T) {
	var s AppointmentStatus
	if err := s.Scan(nil); err != nil || s != StatusPending {
		t.Fatalf("NULL should scan to pending, got %q, %v", s, err)
	}
	if err := s.Scan([]byte("confirmada")); err != nil || s != StatusConfirmed {
		t.Fatalf("expected confirmada, got %q, %v", s, err)
	}

	v, _ := StatusPending.Value()
	if v != nil {
		t.Errorf("pending must be stored as NULL, got %v", v)
	}

	b, _ := json.Marshal(Appointment{ID: 1})
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if estado, ok := out["estado"]; !ok || estado != nil {
		t.Errorf("expected estado null, got %v", out["estado"])
	}
}

func TestDateAndClockTime(t *testing.T) {
	if _, err := ParseDate("01/05/2024"); err == nil {
		t.Error("expected error for non ISO date")
	}
	d, err := ParseDate("2024-05-01")
	if err != nil || d != "2024-05-01" {
		t.Fatalf("unexpected %q, %v", d, err)
	}

	var scanned Date
	if err := scanned.Scan([]byte("2024-05-01 00:00:00")); err != nil || scanned != d {
		t.Errorf("expected %q from DATETIME text, got %q, %v", d, scanned, err)
	}

	ct, err := ParseClockTime("10:00:00")
	if err != nil || ct != "10:00" {
		t.Fatalf("expected 10:00, got %q, %v", ct, err)
	}
	if _, err := ParseClockTime("25:00"); err == nil {
		t.Error("expected error for invalid hour")
	}

	da := DoctorAppointment{Appointment: Appointment{Date: d, Time: ct}}
	da.FillFormatted()
	if da.FormattedDate != "01/05/2024" || da.FormattedTime != "10:00" {
		t.Errorf("unexpected formatted values %q %q", da.FormattedDate, da.FormattedTime)
	}
}

func TestMaskCardNumber(t *testing.T) {
	tests := map[string]string{
		"4111 1111 1111 1234": "************1234",
		"1234":                "****",
		"":                    "",
	}
	for in, want := range tests {
		if got := MaskCardNumber(in); got != want {
			t.Errorf("MaskCardNumber(%q) = %q, want %q", in, got, want)
		}
	}
}
