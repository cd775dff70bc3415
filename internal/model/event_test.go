package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestApplyPatchesOnlyPresentFields(t *testing.T) {
	e := Event{
		Annotation:        "original annotation describing the gathering",
		Description:       "original long-form description of the gathering",
		Title:             "original title",
		Category:          Category{ID: 1, Name: "hiking"},
		Location:          Location{Lat: 50.45, Lon: 30.52},
		Paid:              false,
		ParticipantLimit:  10,
		RequestModeration: true,
	}
	date := At(time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC))

	e.Apply(&UpdateEventRequest{
		Title:     strPtr("patched title"),
		Paid:      boolPtr(true),
		EventDate: &date,
	}, nil)

	if e.Title != "patched title" || !e.Paid || e.EventDate != date {
		t.Fatalf("patched fields not applied: %+v", e)
	}
	if e.Annotation != "original annotation describing the gathering" {
		t.Fatalf("annotation changed: %q", e.Annotation)
	}
	if e.Category.ID != 1 || e.ParticipantLimit != 10 || !e.RequestModeration {
		t.Fatalf("absent fields changed: %+v", e)
	}
}

func TestApplyResolvedCategory(t *testing.T) {
	e := Event{Category: Category{ID: 1, Name: "hiking"}}
	e.Apply(&UpdateEventRequest{}, &Category{ID: 2, Name: "concerts"})
	if e.Category.ID != 2 || e.Category.Name != "concerts" {
		t.Fatalf("category not replaced: %+v", e.Category)
	}
}

func TestApplyZeroValuesAreDistinctFromAbsent(t *testing.T) {
	e := Event{Paid: true, ParticipantLimit: 5, RequestModeration: true}

	e.Apply(&UpdateEventRequest{
		Paid:              boolPtr(false),
		ParticipantLimit:  intPtr(0),
		RequestModeration: boolPtr(false),
	}, nil)

	if e.Paid || e.ParticipantLimit != 0 || e.RequestModeration {
		t.Fatalf("explicit zero values not applied: %+v", e)
	}
}

func TestModeratedDefault(t *testing.T) {
	r := NewEventRequest{}
	if !r.Moderated() {
		t.Fatal("absent requestModeration must default to true")
	}
	r.RequestModeration = boolPtr(false)
	if r.Moderated() {
		t.Fatal("explicit false must win")
	}
}

func TestFullAndShortMapping(t *testing.T) {
	e := Event{
		ID:                7,
		Annotation:        "a talk about long-distance trail running",
		Title:             "trail running",
		Category:          Category{ID: 3, Name: "sports"},
		Initiator:         UserShort{ID: 4, Name: "ana"},
		Paid:              true,
		State:             StatePublished,
		ConfirmedRequests: 12,
	}

	full := e.Full(100, 5)
	if full.ID != 7 || full.Views != 100 || full.CommentCount != 5 || full.State != StatePublished {
		t.Fatalf("full mapping: %+v", full)
	}

	short := e.Short(100, 5)
	if short.ID != 7 || short.Views != 100 || short.CommentCount != 5 || short.Initiator.Name != "ana" {
		t.Fatalf("short mapping: %+v", short)
	}
}

func TestCommentCountWireName(t *testing.T) {
	e := Event{ID: 7}

	for _, view := range []any{e.Full(0, 5), e.Short(0, 5)} {
		b, err := json.Marshal(view)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(b), `"commentCount":5`) {
			t.Fatalf("missing commentCount field: %s", b)
		}
		if strings.Contains(string(b), `"comments"`) {
			t.Fatalf("stray comments field: %s", b)
		}
	}
}
