package model

import (
	"strings"

	"github.com/a-buianova/explore-with-me/internal/apperr"
)

// RequestStatus is the lifecycle state of a participation request.
// CONFIRMED, REJECTED and CANCELED are terminal.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCanceled  RequestStatus = "CANCELED"
)

// ParseTargetStatus parses the target status of a bulk status update. Only
// CONFIRMED and REJECTED are valid targets.
func ParseTargetStatus(s string) (RequestStatus, error) {
	switch RequestStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case RequestConfirmed:
		return RequestConfirmed, nil
	case RequestRejected:
		return RequestRejected, nil
	}
	return "", apperr.BadRequest("invalid target status: %s", s)
}

// ParticipationRequest is a user's request to participate in an event.
type ParticipationRequest struct {
	ID        int64         `json:"id"`
	Requester int64         `json:"requester"`
	Event     int64         `json:"event"`
	Status    RequestStatus `json:"status"`
	Created   DateTime      `json:"created"`
}

// StatusUpdateRequest is the organizer's bulk confirm/reject payload.
type StatusUpdateRequest struct {
	RequestIDs []int64 `json:"requestIds" validate:"required,min=1"`
	Status     string  `json:"status" validate:"required"`
}

// StatusUpdateResult reports which requests were confirmed and rejected.
type StatusUpdateResult struct {
	ConfirmedRequests []ParticipationRequest `json:"confirmedRequests"`
	RejectedRequests  []ParticipationRequest `json:"rejectedRequests"`
}
