package model

import "github.com/a-buianova/explore-with-me/internal/apperr"

// DecideAdmission is the admission-control decision for a new participation
// request. It must be evaluated against event state read under the event
// row lock, so two concurrent admissions cannot both see free capacity.
//
// hasRequest reports whether any request (of any status) already exists for
// this (event, requester) pair.
func DecideAdmission(event *Event, requesterID int64, hasRequest bool) (RequestStatus, error) {
	if hasRequest {
		return "", apperr.Conflict("request already exists for event %d", event.ID)
	}
	if event.Initiator.ID == requesterID {
		return "", apperr.Conflict("initiator cannot request participation in own event")
	}
	if event.State != StatePublished {
		return "", apperr.Conflict("cannot participate in unpublished event")
	}
	if event.ParticipantLimit < 0 {
		return "", apperr.BadRequest("participant limit cannot be negative")
	}
	if event.ParticipantLimit > 0 && event.ConfirmedRequests >= int64(event.ParticipantLimit) {
		return "", apperr.Conflict("event participant limit reached")
	}

	if event.ParticipantLimit == 0 || !event.RequestModeration {
		return RequestConfirmed, nil
	}
	return RequestPending, nil
}

// DecideStatusUpdate resolves the organizer's bulk confirm/reject against
// the event's remaining capacity. Every targeted request must be PENDING.
//
// Confirmation is strict: if confirming the whole batch would push
// confirmedRequests past the participant limit, the entire batch fails with
// Conflict and nothing is applied. Rejection is unconditional.
//
// It returns the ids to confirm, the ids to reject, and the counter delta
// to apply to the event.
func DecideStatusUpdate(event *Event, requests []ParticipationRequest, target RequestStatus) (confirmed, rejected []int64, delta int64, err error) {
	for i := range requests {
		if requests[i].Status != RequestPending {
			return nil, nil, 0, apperr.Conflict("only pending requests can be changed")
		}
	}

	switch target {
	case RequestConfirmed:
		for i := range requests {
			if event.ParticipantLimit > 0 &&
				event.ConfirmedRequests+delta >= int64(event.ParticipantLimit) {
				return nil, nil, 0, apperr.Conflict("event participant limit reached")
			}
			confirmed = append(confirmed, requests[i].ID)
			delta++
		}
		return confirmed, nil, delta, nil

	case RequestRejected:
		for i := range requests {
			rejected = append(rejected, requests[i].ID)
		}
		return nil, rejected, 0, nil
	}
	return nil, nil, 0, apperr.BadRequest("invalid target status: %s", target)
}
