package model

import (
	"testing"

	"github.com/a-buianova/explore-with-me/internal/apperr"
)

func published(limit int, confirmed int64, moderation bool) *Event {
	return &Event{
		ID:                1,
		Initiator:         UserShort{ID: 10},
		State:             StatePublished,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		ConfirmedRequests: confirmed,
	}
}

func TestDecideAdmission(t *testing.T) {
	tests := []struct {
		name       string
		event      *Event
		requester  int64
		hasRequest bool
		want       RequestStatus
		wantErr    func(error) bool
	}{
		{
			name:      "moderated event admits as pending",
			event:     published(10, 0, true),
			requester: 20,
			want:      RequestPending,
		},
		{
			name:      "unmoderated event auto-confirms",
			event:     published(10, 0, false),
			requester: 20,
			want:      RequestConfirmed,
		},
		{
			name:      "zero limit auto-confirms even with moderation",
			event:     published(0, 500, true),
			requester: 20,
			want:      RequestConfirmed,
		},
		{
			name:       "duplicate request conflicts",
			event:      published(10, 0, true),
			requester:  20,
			hasRequest: true,
			wantErr:    apperr.IsConflict,
		},
		{
			name:      "initiator cannot join own event",
			event:     published(10, 0, true),
			requester: 10,
			wantErr:   apperr.IsConflict,
		},
		{
			name: "unpublished event conflicts",
			event: &Event{
				ID: 1, Initiator: UserShort{ID: 10},
				State: StatePending, ParticipantLimit: 10, RequestModeration: true,
			},
			requester: 20,
			wantErr:   apperr.IsConflict,
		},
		{
			name:      "full event conflicts",
			event:     published(2, 2, false),
			requester: 20,
			wantErr:   apperr.IsConflict,
		},
		{
			name:      "last slot still admits",
			event:     published(2, 1, false),
			requester: 20,
			want:      RequestConfirmed,
		},
		{
			name: "negative limit is a bad request",
			event: &Event{
				ID: 1, Initiator: UserShort{ID: 10},
				State: StatePublished, ParticipantLimit: -1,
			},
			requester: 20,
			wantErr:   apperr.IsBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecideAdmission(tt.event, tt.requester, tt.hasRequest)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Fatalf("wrong error kind: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func pendingRequests(ids ...int64) []ParticipationRequest {
	reqs := make([]ParticipationRequest, 0, len(ids))
	for _, id := range ids {
		reqs = append(reqs, ParticipationRequest{ID: id, Status: RequestPending})
	}
	return reqs
}

func TestDecideStatusUpdateConfirm(t *testing.T) {
	event := published(3, 1, true)

	confirmed, rejected, delta, err := DecideStatusUpdate(event, pendingRequests(5, 6), RequestConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(confirmed) != 2 || confirmed[0] != 5 || confirmed[1] != 6 {
		t.Fatalf("confirmed = %v", confirmed)
	}
	if rejected != nil {
		t.Fatalf("rejected = %v, want none", rejected)
	}
	if delta != 2 {
		t.Fatalf("delta = %d, want 2", delta)
	}
}

func TestDecideStatusUpdateWholeBatchFailsOnOverflow(t *testing.T) {
	// Two free slots, three requests: nothing may be applied.
	event := published(2, 0, true)

	confirmed, rejected, delta, err := DecideStatusUpdate(event, pendingRequests(1, 2, 3), RequestConfirmed)
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
	if confirmed != nil || rejected != nil || delta != 0 {
		t.Fatalf("partial application: confirmed=%v rejected=%v delta=%d", confirmed, rejected, delta)
	}
}

func TestDecideStatusUpdateFullEventConflicts(t *testing.T) {
	event := published(2, 2, true)

	_, _, _, err := DecideStatusUpdate(event, pendingRequests(1), RequestConfirmed)
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestDecideStatusUpdateZeroLimitConfirmsAll(t *testing.T) {
	event := published(0, 100, true)

	confirmed, _, delta, err := DecideStatusUpdate(event, pendingRequests(1, 2, 3), RequestConfirmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(confirmed) != 3 || delta != 3 {
		t.Fatalf("confirmed=%v delta=%d", confirmed, delta)
	}
}

func TestDecideStatusUpdateRejectIsUnconditional(t *testing.T) {
	// Rejection ignores capacity entirely.
	event := published(1, 1, true)

	confirmed, rejected, delta, err := DecideStatusUpdate(event, pendingRequests(7, 8), RequestRejected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmed != nil || delta != 0 {
		t.Fatalf("confirmed=%v delta=%d, want none", confirmed, delta)
	}
	if len(rejected) != 2 || rejected[0] != 7 || rejected[1] != 8 {
		t.Fatalf("rejected = %v", rejected)
	}
}

func TestDecideStatusUpdateNonPendingConflicts(t *testing.T) {
	event := published(10, 0, true)
	reqs := []ParticipationRequest{
		{ID: 1, Status: RequestPending},
		{ID: 2, Status: RequestConfirmed},
	}

	_, _, _, err := DecideStatusUpdate(event, reqs, RequestRejected)
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestAvailable(t *testing.T) {
	if !(&Event{ParticipantLimit: 0, ConfirmedRequests: 999}).Available() {
		t.Fatal("zero limit must always be available")
	}
	if (&Event{ParticipantLimit: 3, ConfirmedRequests: 3}).Available() {
		t.Fatal("full event must not be available")
	}
	if !(&Event{ParticipantLimit: 3, ConfirmedRequests: 2}).Available() {
		t.Fatal("event with a free slot must be available")
	}
}
