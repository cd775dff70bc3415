package service

import (
	"context"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
)

// RequestStore is the participation-request persistence. Add and
// UpdateStatuses run their admission decisions inside a transaction
// holding the event row lock.
type RequestStore interface {
	Add(ctx context.Context, requesterID, eventID int64) (*model.ParticipationRequest, error)
	Cancel(ctx context.Context, userID, requestID int64) (*model.ParticipationRequest, error)
	ByRequester(ctx context.Context, userID int64) ([]model.ParticipationRequest, error)
	ByEvent(ctx context.Context, eventID int64) ([]model.ParticipationRequest, error)
	UpdateStatuses(ctx context.Context, eventID int64, requestIDs []int64, target model.RequestStatus) (*model.StatusUpdateResult, error)
}

// RequestService is the participation-request engine: request lifecycle,
// the participant-limit invariant, and the organizer's bulk workflow.
type RequestService struct {
	requests RequestStore
	events   EventStore
	users    UserStore
}

// NewRequestService constructs a RequestService.
func NewRequestService(requests RequestStore, events EventStore, users UserStore) *RequestService {
	return &RequestService{requests: requests, events: events, users: users}
}

// Add creates a participation request for a published event. Every
// admission rule — duplicate, own-event, state, capacity — is evaluated
// under the event row lock in the store; auto-confirmation applies when
// the event is unlimited or unmoderated.
func (s *RequestService) Add(ctx context.Context, userID, eventID int64) (*model.ParticipationRequest, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.requests.Add(ctx, userID, eventID)
}

// Cancel sets the caller's own request to CANCELED. The confirmed counter
// is not decremented, even for previously confirmed requests.
func (s *RequestService) Cancel(ctx context.Context, userID, requestID int64) (*model.ParticipationRequest, error) {
	return s.requests.Cancel(ctx, userID, requestID)
}

// ByRequester lists all of a user's requests.
func (s *RequestService) ByRequester(ctx context.Context, userID int64) ([]model.ParticipationRequest, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.requests.ByRequester(ctx, userID)
}

// ByEvent lists the requests against the caller's own event.
func (s *RequestService) ByEvent(ctx context.Context, userID, eventID int64) ([]model.ParticipationRequest, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID != userID {
		return nil, apperr.Conflict("user %d is not the initiator of event %d", userID, eventID)
	}
	return s.requests.ByEvent(ctx, eventID)
}

// UpdateStatuses applies the organizer's bulk confirm/reject. The batch is
// atomic: any non-PENDING member, missing id, or capacity overflow fails
// the whole batch with nothing applied.
func (s *RequestService) UpdateStatuses(ctx context.Context, userID, eventID int64, req *model.StatusUpdateRequest) (*model.StatusUpdateResult, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID != userID {
		return nil, apperr.Conflict("user %d is not the initiator of event %d", userID, eventID)
	}

	target, err := model.ParseTargetStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.requests.UpdateStatuses(ctx, eventID, req.RequestIDs, target)
}
