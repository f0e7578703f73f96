package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	timestampLayout = "2006-01-02 15:04:05"
)

// Date is a calendar day stored in a MySQL DATE column and exchanged as YYYY-MM-DD.
type Date string

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("fecha must be YYYY-MM-DD: %w", err)
	}
	return Date(t.Format(DateLayout)), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = Date(v.Format(DateLayout))
	case []byte:
		return d.scanText(string(v))
	case string:
		return d.scanText(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	return nil
}

func (d *Date) scanText(s string) error {
	// DATETIME text arrives as "YYYY-MM-DD hh:mm:ss"
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// ClockTime is a wall-clock time stored in a MySQL TIME column and exchanged as HH:MM.
type ClockTime string

// ParseClockTime accepts HH:MM or HH:MM:SS and normalises to HH:MM.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime(t.Format(ClockLayout)), nil
		}
	}
	return "", fmt.Errorf("hora must be HH:MM, got %q", s)
}

// Scan implements sql.Scanner.
func (ct *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ct = ""
		return nil
	case time.Time:
		*ct = ClockTime(v.Format(ClockLayout))
		return nil
	case []byte:
		return ct.scanText(string(v))
	case string:
		return ct.scanText(v)
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
}

func (ct *ClockTime) scanText(s string) error {
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*ct = parsed
	return nil
}

// Value implements driver.Valuer.
func (ct ClockTime) Value() (driver.Value, error) {
	if ct == "" {
		return nil, nil
	}
	return string(ct) + ":00", nil
}

// Timestamp is a DATETIME that tolerates both parsed and text driver values.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to whole seconds, the DATETIME precision.
func Now() Timestamp {
	return Timestamp{Time: time.Now().Truncate(time.Second)}
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.Time = time.Time{}
		return nil
	case time.Time:
		ts.Time = v
		return nil
	case []byte:
		return ts.scanText(string(v))
	case string:
		return ts.scanText(v)
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

func (ts *Timestamp) scanText(s string) error {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// Value implements driver.Valuer.
func (ts Timestamp) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return ts.Time.Format(timestampLayout), nil
}

// MarshalJSON renders a zero timestamp as null.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339))
}
