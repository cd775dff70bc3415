// Package model defines the domain types for the events platform: events,
// participation requests, users, categories, comments and compilations,
// together with the request/response payloads and the pure decision logic
// (state machine, admission control) that the services delegate to.
package model

import (
	"strings"

	"github.com/a-buianova/explore-with-me/internal/apperr"
)

// EventState is the moderation state of an event.
type EventState string

const (
	StatePending   EventState = "PENDING"
	StatePublished EventState = "PUBLISHED"
	StateCanceled  EventState = "CANCELED"
)

// ParseEventState parses a state filter value, case-insensitively.
func ParseEventState(s string) (EventState, error) {
	switch EventState(strings.ToUpper(strings.TrimSpace(s))) {
	case StatePending:
		return StatePending, nil
	case StatePublished:
		return StatePublished, nil
	case StateCanceled:
		return StateCanceled, nil
	}
	return "", apperr.BadRequest("invalid state value in filter: %s", s)
}

// StateAction is a requested state transition. SEND_TO_REVIEW and
// CANCEL_REVIEW are initiator actions; PUBLISH_EVENT and REJECT_EVENT are
// admin actions.
type StateAction string

const (
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	ActionPublish      StateAction = "PUBLISH_EVENT"
	ActionReject       StateAction = "REJECT_EVENT"
)

// Location is a geographic point.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Event is the core domain entity. CreatedOn is set once at creation and
// never changes; PublishedOn is set only on the publish transition.
type Event struct {
	ID                int64
	Annotation        string
	Description       string
	Title             string
	Category          Category
	Initiator         UserShort
	Location          Location
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
	State             EventState
	EventDate         DateTime
	CreatedOn         DateTime
	PublishedOn       DateTime // zero until published
	ConfirmedRequests int64
}

// Available reports whether the event can still admit participants.
// A zero limit means unlimited.
func (e *Event) Available() bool {
	return e.ParticipantLimit == 0 || e.ConfirmedRequests < int64(e.ParticipantLimit)
}

// NewEventRequest is the payload for creating an event. Absent paid and
// participantLimit default to false/0; absent requestModeration defaults
// to true, hence the pointer.
type NewEventRequest struct {
	Annotation        string    `json:"annotation" validate:"required,min=20,max=2000"`
	Description       string    `json:"description" validate:"required,min=20,max=7000"`
	Title             string    `json:"title" validate:"required,min=3,max=120"`
	Category          int64     `json:"category" validate:"required"`
	Location          *Location `json:"location" validate:"required"`
	EventDate         DateTime  `json:"eventDate" validate:"required"`
	Paid              bool      `json:"paid"`
	ParticipantLimit  int       `json:"participantLimit" validate:"gte=0"`
	RequestModeration *bool     `json:"requestModeration"`
}

// Moderated resolves the requestModeration default (true when absent).
func (r *NewEventRequest) Moderated() bool {
	return r.RequestModeration == nil || *r.RequestModeration
}

// UpdateEventRequest is a partial update: nil means "leave unchanged".
// The same shape serves both the initiator and the admin endpoint; which
// stateAction values are accepted differs per caller.
type UpdateEventRequest struct {
	Annotation        *string   `json:"annotation" validate:"omitempty,min=20,max=2000"`
	Description       *string   `json:"description" validate:"omitempty,min=20,max=7000"`
	Title             *string   `json:"title" validate:"omitempty,min=3,max=120"`
	Category          *int64    `json:"category"`
	Location          *Location `json:"location"`
	EventDate         *DateTime `json:"eventDate"`
	Paid              *bool     `json:"paid"`
	ParticipantLimit  *int      `json:"participantLimit"`
	RequestModeration *bool     `json:"requestModeration"`
	StateAction       *string   `json:"stateAction"`
}

// Apply copies every present patch field onto the event. The category must
// already be resolved by the caller; stateAction and date validation are
// handled separately.
func (e *Event) Apply(p *UpdateEventRequest, category *Category) {
	if p.Annotation != nil {
		e.Annotation = *p.Annotation
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if category != nil {
		e.Category = *category
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
	}
	if p.ParticipantLimit != nil {
		e.ParticipantLimit = *p.ParticipantLimit
	}
	if p.RequestModeration != nil {
		e.RequestModeration = *p.RequestModeration
	}
}

// EventFull is the detailed representation (admin and private views, public
// get-by-id).
type EventFull struct {
	ID                int64      `json:"id"`
	Annotation        string     `json:"annotation"`
	Description       string     `json:"description"`
	Title             string     `json:"title"`
	Category          Category   `json:"category"`
	Initiator         UserShort  `json:"initiator"`
	Location          Location   `json:"location"`
	Paid              bool       `json:"paid"`
	ParticipantLimit  int        `json:"participantLimit"`
	RequestModeration bool       `json:"requestModeration"`
	State             EventState `json:"state"`
	EventDate         DateTime   `json:"eventDate"`
	CreatedOn         DateTime   `json:"createdOn"`
	PublishedOn       DateTime   `json:"publishedOn"`
	ConfirmedRequests int64      `json:"confirmedRequests"`
	Views             int64      `json:"views"`
	CommentCount      int64      `json:"commentCount"`
}

// EventShort is the summary representation used in list results.
type EventShort struct {
	ID                int64     `json:"id"`
	Annotation        string    `json:"annotation"`
	Title             string    `json:"title"`
	Category          Category  `json:"category"`
	Initiator         UserShort `json:"initiator"`
	Paid              bool      `json:"paid"`
	EventDate         DateTime  `json:"eventDate"`
	ConfirmedRequests int64     `json:"confirmedRequests"`
	Views             int64     `json:"views"`
	CommentCount      int64     `json:"commentCount"`
}

// Full maps the event to its detailed representation.
func (e *Event) Full(views, comments int64) EventFull {
	return EventFull{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Description:       e.Description,
		Title:             e.Title,
		Category:          e.Category,
		Initiator:         e.Initiator,
		Location:          e.Location,
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             e.State,
		EventDate:         e.EventDate,
		CreatedOn:         e.CreatedOn,
		PublishedOn:       e.PublishedOn,
		ConfirmedRequests: e.ConfirmedRequests,
		Views:             views,
		CommentCount:      comments,
	}
}

// Short maps the event to its summary representation.
func (e *Event) Short(views, comments int64) EventShort {
	return EventShort{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Title:             e.Title,
		Category:          e.Category,
		Initiator:         e.Initiator,
		Paid:              e.Paid,
		EventDate:         e.EventDate,
		ConfirmedRequests: e.ConfirmedRequests,
		Views:             views,
		CommentCount:      comments,
	}
}
