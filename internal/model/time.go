package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the wire format for every date field in the API:
// yyyy-MM-dd HH:mm:ss, always UTC.
const TimeLayout = "2006-01-02 15:04:05"

// DateTime wraps time.Time with the API wire format. The zero value
// marshals as JSON null, which is how optional timestamps (publishedOn)
// are represented.
type DateTime struct {
	time.Time
}

// Now returns the current time truncated to second precision, matching
// what the wire format can carry.
func Now() DateTime {
	return DateTime{time.Now().UTC().Truncate(time.Second)}
}

// At wraps an existing time.Time.
func At(t time.Time) DateTime {
	return DateTime{t.UTC().Truncate(time.Second)}
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.UTC().Format(TimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fmt.Errorf("parse time %q: %w", s, err)
	}
	d.Time = t.UTC()
	return nil
}

// ParseDateTime parses a query-string timestamp in the API wire format.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return DateTime{t.UTC()}, nil
}
