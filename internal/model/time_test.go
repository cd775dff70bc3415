package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateTimeMarshalJSON(t *testing.T) {
	d := At(time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-08-29 18:30:00"` {
		t.Fatalf("got %s", b)
	}
}

func TestDateTimeZeroMarshalsNull(t *testing.T) {
	b, err := json.Marshal(DateTime{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("got %s, want null", b)
	}
}

func TestDateTimeUnmarshalJSON(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`"2026-08-29 18:30:00"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC)
	if !d.Time.Equal(want) {
		t.Fatalf("got %v, want %v", d.Time, want)
	}

	var null DateTime
	if err := json.Unmarshal([]byte("null"), &null); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !null.IsZero() {
		t.Fatalf("null should be zero, got %v", null.Time)
	}

	if err := json.Unmarshal([]byte(`"29.08.2026 18:30"`), &d); err == nil {
		t.Fatal("want error for wrong format")
	}
}

func TestParseDateTime(t *testing.T) {
	d, err := ParseDateTime("2026-01-02 03:04:05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Time != time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) {
		t.Fatalf("got %v", d.Time)
	}
	if _, err := ParseDateTime("2026-01-02T03:04:05Z"); err == nil {
		t.Fatal("want error for RFC3339 input")
	}
}
