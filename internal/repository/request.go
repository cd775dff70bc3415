package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
)

// RequestRepository handles persistence for participation requests,
// including the admission-control transactions.
type RequestRepository struct {
	db *pgxpool.Pool
}

// NewRequestRepository constructs a RequestRepository.
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

// lockEvent loads the admission-relevant event fields under a row-level
// exclusive lock. Concurrent admissions against the same event serialize
// here, so the capacity decision never reads a stale counter.
func lockEvent(ctx context.Context, tx pgx.Tx, eventID int64) (*model.Event, error) {
	var e model.Event
	err := tx.QueryRow(ctx,
		`SELECT id, initiator_id, state, participant_limit, request_moderation, confirmed_requests
		 FROM events
		 WHERE id = $1
		 FOR UPDATE`,
		eventID,
	).Scan(&e.ID, &e.Initiator.ID, &e.State, &e.ParticipantLimit, &e.RequestModeration, &e.ConfirmedRequests)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("event not found: id=%d", eventID)
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}
	return &e, nil
}

// Add performs the admission-controlled creation of a participation
// request. The whole decision runs inside one transaction holding the
// event row lock: duplicate check, initiator/state/capacity checks, status
// assignment, and, for auto-confirmed requests, the counter increment.
func (r *RequestRepository) Add(ctx context.Context, requesterID, eventID int64) (req *model.ParticipationRequest, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	var hasRequest bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE event_id = $1 AND requester_id = $2)`,
		eventID, requesterID,
	).Scan(&hasRequest)
	if err != nil {
		return nil, fmt.Errorf("check duplicate request: %w", err)
	}

	status, err := model.DecideAdmission(event, requesterID, hasRequest)
	if err != nil {
		return nil, err
	}

	if status == model.RequestConfirmed {
		if _, err = tx.Exec(ctx,
			`UPDATE events SET confirmed_requests = confirmed_requests + 1 WHERE id = $1`,
			eventID,
		); err != nil {
			return nil, fmt.Errorf("increment confirmed_requests: %w", err)
		}
	}

	req = &model.ParticipationRequest{
		Requester: requesterID,
		Event:     eventID,
		Status:    status,
		Created:   model.Now(),
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO requests (event_id, requester_id, status, created)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		req.Event, req.Requester, req.Status, req.Created.Time,
	).Scan(&req.ID)
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent duplicate slipped past the existence check.
			return nil, apperr.Conflict("request already exists for event %d", eventID)
		}
		return nil, fmt.Errorf("insert request: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return req, nil
}

// Cancel sets the requester's own request to CANCELED. The status change is
// unconditional; the event's confirmed-requests counter is intentionally
// left untouched even for previously confirmed requests.
func (r *RequestRepository) Cancel(ctx context.Context, userID, requestID int64) (*model.ParticipationRequest, error) {
	req, err := r.get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Requester != userID {
		return nil, apperr.Conflict("cannot cancel someone else's request")
	}

	req.Status = model.RequestCanceled
	if _, err := r.db.Exec(ctx,
		`UPDATE requests SET status = $1 WHERE id = $2`,
		req.Status, req.ID,
	); err != nil {
		return nil, fmt.Errorf("cancel request: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) get(ctx context.Context, id int64) (*model.ParticipationRequest, error) {
	var (
		req     model.ParticipationRequest
		created time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, event_id, requester_id, status, created FROM requests WHERE id = $1`,
		id,
	).Scan(&req.ID, &req.Event, &req.Requester, &req.Status, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("request not found: id=%d", id)
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	req.Created = model.At(created)
	return &req, nil
}

// ByRequester lists all requests made by a user.
func (r *RequestRepository) ByRequester(ctx context.Context, userID int64) ([]model.ParticipationRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, requester_id, status, created
		 FROM requests
		 WHERE requester_id = $1
		 ORDER BY created ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list user requests: %w", err)
	}
	return collectRequests(rows)
}

// ByEvent lists all requests against an event.
func (r *RequestRepository) ByEvent(ctx context.Context, eventID int64) ([]model.ParticipationRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, requester_id, status, created
		 FROM requests
		 WHERE event_id = $1
		 ORDER BY created ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("list event requests: %w", err)
	}
	return collectRequests(rows)
}

// UpdateStatuses applies the organizer's bulk confirm/reject in one
// transaction. The event row lock serializes this against concurrent
// admissions; the batch either applies fully or not at all.
func (r *RequestRepository) UpdateStatuses(ctx context.Context, eventID int64, requestIDs []int64, target model.RequestStatus) (result *model.StatusUpdateResult, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT id, event_id, requester_id, status, created
		 FROM requests
		 WHERE id = ANY($1)
		 FOR UPDATE`,
		requestIDs)
	if err != nil {
		return nil, fmt.Errorf("lock requests: %w", err)
	}
	found, err := collectRequests(rows)
	if err != nil {
		return nil, err
	}

	// Restore input order; every id must resolve.
	byID := make(map[int64]*model.ParticipationRequest, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	requests := make([]model.ParticipationRequest, 0, len(requestIDs))
	for _, id := range requestIDs {
		req, ok := byID[id]
		if !ok {
			return nil, apperr.NotFound("request not found: id=%d", id)
		}
		requests = append(requests, *req)
	}

	confirmedIDs, rejectedIDs, delta, err := model.DecideStatusUpdate(event, requests, target)
	if err != nil {
		return nil, err
	}

	if len(confirmedIDs) > 0 {
		if _, err = tx.Exec(ctx,
			`UPDATE requests SET status = $1 WHERE id = ANY($2)`,
			model.RequestConfirmed, confirmedIDs,
		); err != nil {
			return nil, fmt.Errorf("confirm requests: %w", err)
		}
	}
	if len(rejectedIDs) > 0 {
		if _, err = tx.Exec(ctx,
			`UPDATE requests SET status = $1 WHERE id = ANY($2)`,
			model.RequestRejected, rejectedIDs,
		); err != nil {
			return nil, fmt.Errorf("reject requests: %w", err)
		}
	}
	if delta > 0 {
		if _, err = tx.Exec(ctx,
			`UPDATE events SET confirmed_requests = confirmed_requests + $1 WHERE id = $2`,
			delta, eventID,
		); err != nil {
			return nil, fmt.Errorf("update confirmed_requests: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	result = &model.StatusUpdateResult{
		ConfirmedRequests: []model.ParticipationRequest{},
		RejectedRequests:  []model.ParticipationRequest{},
	}
	confirmed := make(map[int64]bool, len(confirmedIDs))
	for _, id := range confirmedIDs {
		confirmed[id] = true
	}
	for _, req := range requests {
		if confirmed[req.ID] {
			req.Status = model.RequestConfirmed
			result.ConfirmedRequests = append(result.ConfirmedRequests, req)
		} else {
			req.Status = model.RequestRejected
			result.RejectedRequests = append(result.RejectedRequests, req)
		}
	}
	return result, nil
}

func collectRequests(rows pgx.Rows) ([]model.ParticipationRequest, error) {
	defer rows.Close()
	var requests []model.ParticipationRequest
	for rows.Next() {
		var (
			req     model.ParticipationRequest
			created time.Time
		)
		if err := rows.Scan(&req.ID, &req.Event, &req.Requester, &req.Status, &created); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req.Created = model.At(created)
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
