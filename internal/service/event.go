// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer. The two engines here —
// the event lifecycle and the participation-request admission control —
// delegate their pure decisions to the model package and their transactional
// work to the repositories.
package service

import (
	"context"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/repository"
	"github.com/a-buianova/explore-with-me/internal/statsclient"
)

// Minimum lead time between "now" and an event's date.
const (
	createLead  = 2 * time.Hour // on create and initiator update
	publishLead = 1 * time.Hour // on admin publish
)

// EventStore is the event persistence the lifecycle engine depends on.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	Get(ctx context.Context, id int64) (*model.Event, error)
	GetByInitiator(ctx context.Context, userID, eventID int64) (*model.Event, error)
	GetPublished(ctx context.Context, id int64) (*model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	FindByInitiator(ctx context.Context, userID int64, from, size int) ([]model.Event, error)
	SearchPublic(ctx context.Context, f repository.PublicFilter) ([]model.Event, error)
	SearchAdmin(ctx context.Context, f repository.AdminFilter) ([]model.Event, error)
}

// UserStore resolves user references.
type UserStore interface {
	Get(ctx context.Context, id int64) (*model.User, error)
}

// CategoryStore resolves category references.
type CategoryStore interface {
	Get(ctx context.Context, id int64) (*model.Category, error)
}

// CommentCounts supplies published-comment counts for enrichment.
type CommentCounts interface {
	CountPublished(ctx context.Context, eventID int64) (int64, error)
	CountPublishedBatch(ctx context.Context, eventIDs []int64) (map[int64]int64, error)
}

// EventService is the event lifecycle engine: creation, initiator and admin
// updates, the moderation state machine, and enriched search.
type EventService struct {
	events     EventStore
	users      UserStore
	categories CategoryStore
	comments   CommentCounts
	stats      statsclient.Client
	app        string
}

// NewEventService constructs an EventService. app is the application name
// reported with every stats hit.
func NewEventService(
	events EventStore,
	users UserStore,
	categories CategoryStore,
	comments CommentCounts,
	stats statsclient.Client,
	app string,
) *EventService {
	return &EventService{
		events:     events,
		users:      users,
		categories: categories,
		comments:   comments,
		stats:      stats,
		app:        app,
	}
}

// Create persists a new event in PENDING state. The event date must be at
// least 2 hours out; violating that is a business Conflict, not a
// validation error.
func (s *EventService) Create(ctx context.Context, userID int64, req *model.NewEventRequest) (*model.EventFull, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.Get(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	if req.EventDate.Before(time.Now().Add(createLead)) {
		return nil, apperr.Conflict("event date must be at least 2 hours from now")
	}

	event := &model.Event{
		Annotation:        req.Annotation,
		Description:       req.Description,
		Title:             req.Title,
		Category:          *category,
		Initiator:         user.Short(),
		Location:          *req.Location,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: req.Moderated(),
		State:             model.StatePending,
		EventDate:         req.EventDate,
		CreatedOn:         model.Now(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	log.Printf("created event id=%d by user=%d", event.ID, userID)

	full := event.Full(0, 0)
	return &full, nil
}

// UpdateByInitiator applies a partial update on behalf of the event's
// owner. Allowed only while the event is PENDING or CANCELED. Unlike
// create, a too-soon event date here is a BadRequest.
func (s *EventService) UpdateByInitiator(ctx context.Context, userID, eventID int64, patch *model.UpdateEventRequest) (*model.EventFull, error) {
	event, err := s.events.GetByInitiator(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != model.StatePending && event.State != model.StateCanceled {
		return nil, apperr.Conflict("only pending or canceled events can be updated by initiator")
	}
	if patch.ParticipantLimit != nil && *patch.ParticipantLimit < 0 {
		return nil, apperr.BadRequest("participantLimit cannot be negative")
	}

	category, err := s.resolveCategory(ctx, patch.Category)
	if err != nil {
		return nil, err
	}
	event.Apply(patch, category)

	if patch.StateAction != nil {
		action, err := model.InitiatorAction(*patch.StateAction)
		if err != nil {
			return nil, err
		}
		next, err := model.Transition(event.State, action)
		if err != nil {
			return nil, err
		}
		event.State = next
	}

	if patch.EventDate != nil && patch.EventDate.Before(time.Now().Add(createLead)) {
		return nil, apperr.BadRequest("eventDate must be at least 2 hours from now")
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	full := event.Full(0, 0)
	return &full, nil
}

// UpdateByAdmin applies a partial update and optional moderation action.
// Publishing requires a PENDING event whose date is at least 1 hour out and
// stamps publishedOn; rejecting is valid from any state except PUBLISHED.
func (s *EventService) UpdateByAdmin(ctx context.Context, eventID int64, patch *model.UpdateEventRequest) (*model.EventFull, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if patch.ParticipantLimit != nil && *patch.ParticipantLimit < 0 {
		return nil, apperr.BadRequest("participantLimit cannot be negative")
	}

	category, err := s.resolveCategory(ctx, patch.Category)
	if err != nil {
		return nil, err
	}
	event.Apply(patch, category)

	if patch.EventDate != nil && patch.EventDate.Before(time.Now()) {
		return nil, apperr.BadRequest("eventDate must not be in the past")
	}

	if patch.StateAction != nil {
		action, err := model.AdminAction(*patch.StateAction)
		if err != nil {
			return nil, err
		}
		next, err := model.Transition(event.State, action)
		if err != nil {
			return nil, err
		}
		if action == model.ActionPublish {
			if event.EventDate.Before(time.Now().Add(publishLead)) {
				return nil, apperr.Conflict("event date must be at least 1 hour after publish time")
			}
			event.PublishedOn = model.Now()
		}
		event.State = next
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	full := event.Full(0, 0)
	return &full, nil
}

// FindByInitiator lists a user's own events. Views are not computed on
// initiator-scoped reads.
func (s *EventService) FindByInitiator(ctx context.Context, userID int64, from, size int) ([]model.EventShort, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	events, err := s.events.FindByInitiator(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	result := make([]model.EventShort, 0, len(events))
	for i := range events {
		result = append(result, events[i].Short(0, 0))
	}
	return result, nil
}

// GetByInitiator returns one of the user's own events. A foreign event is a
// NotFound, never a Conflict, so existence is not leaked.
func (s *EventService) GetByInitiator(ctx context.Context, userID, eventID int64) (*model.EventFull, error) {
	event, err := s.events.GetByInitiator(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	full := event.Full(0, 0)
	return &full, nil
}

// PublicQuery is the public search input. Zero-valued range ends mean
// "absent"; Sort is one of "", "EVENT_DATE", "VIEWS".
type PublicQuery struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    time.Time
	RangeEnd      time.Time
	OnlyAvailable bool
	Sort          string
	From, Size    int
}

// SearchPublic runs the public, PUBLISHED-only search: fires a best-effort
// hit, queries the store, post-filters availability, enriches with views
// and published-comment counts, and applies the VIEWS sort after
// enrichment (the store cannot sort by an externally computed value).
func (s *EventService) SearchPublic(ctx context.Context, q PublicQuery, requestURI, clientIP string) ([]model.EventShort, error) {
	s.safeHit(ctx, requestURI, clientIP)

	start := q.RangeStart
	if start.IsZero() {
		start = time.Now()
	}
	if !q.RangeEnd.IsZero() && q.RangeEnd.Before(start) {
		return nil, apperr.BadRequest("end must be equal to or after start")
	}

	sortByViews := false
	filter := repository.PublicFilter{
		Text:       strings.TrimSpace(q.Text),
		Categories: q.Categories,
		Paid:       q.Paid,
		RangeStart: start,
		RangeEnd:   q.RangeEnd,
		From:       q.From,
		Size:       q.Size,
	}
	switch strings.ToUpper(q.Sort) {
	case "":
	case "EVENT_DATE":
		filter.SortByEventDate = true
	case "VIEWS":
		sortByViews = true
	default:
		return nil, apperr.BadRequest("unsupported sort: %s", q.Sort)
	}

	events, err := s.events.SearchPublic(ctx, filter)
	if err != nil {
		return nil, err
	}

	if q.OnlyAvailable {
		available := events[:0]
		for i := range events {
			if events[i].Available() {
				available = append(available, events[i])
			}
		}
		events = available
	}

	// Stats windows are always live: an open range end queries up to now.
	statsEnd := q.RangeEnd
	if statsEnd.IsZero() {
		statsEnd = time.Now()
	}
	views := s.fetchViews(ctx, events, start, statsEnd)

	if sortByViews {
		sort.SliceStable(events, func(i, j int) bool {
			return views[events[i].ID] > views[events[j].ID]
		})
	}

	ids := make([]int64, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
	}
	counts, err := s.comments.CountPublishedBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]model.EventShort, 0, len(events))
	for i := range events {
		e := &events[i]
		result = append(result, e.Short(views[e.ID], counts[e.ID]))
	}
	return result, nil
}

// GetPublicByID returns a PUBLISHED event by id; any other state reads as
// NotFound. The view window runs from publication (or creation, as a
// fallback) through now.
func (s *EventService) GetPublicByID(ctx context.Context, eventID int64, requestURI, clientIP string) (*model.EventFull, error) {
	s.safeHit(ctx, requestURI, clientIP)

	event, err := s.events.GetPublished(ctx, eventID)
	if err != nil {
		return nil, err
	}

	windowStart := event.PublishedOn.Time
	if event.PublishedOn.IsZero() {
		windowStart = event.CreatedOn.Time
	}
	views := s.fetchViews(ctx, []model.Event{*event}, windowStart, time.Now())

	comments, err := s.comments.CountPublished(ctx, eventID)
	if err != nil {
		return nil, err
	}

	full := event.Full(views[event.ID], comments)
	return &full, nil
}

// AdminQuery is the moderation search input. State names are validated
// here; an unknown name is a BadRequest.
type AdminQuery struct {
	Users      []int64
	States     []string
	Categories []int64
	RangeStart time.Time
	RangeEnd   time.Time
	From, Size int
}

// SearchAdmin runs the unrestricted moderation search. Views are reported
// as zero: this path is for moderation, not analytics.
func (s *EventService) SearchAdmin(ctx context.Context, q AdminQuery) ([]model.EventFull, error) {
	if !q.RangeStart.IsZero() && !q.RangeEnd.IsZero() && q.RangeEnd.Before(q.RangeStart) {
		return nil, apperr.BadRequest("end must be equal to or after start")
	}

	states := make([]model.EventState, 0, len(q.States))
	for _, raw := range q.States {
		state, err := model.ParseEventState(raw)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	events, err := s.events.SearchAdmin(ctx, repository.AdminFilter{
		Users:      q.Users,
		States:     states,
		Categories: q.Categories,
		RangeStart: q.RangeStart,
		RangeEnd:   q.RangeEnd,
		From:       q.From,
		Size:       q.Size,
	})
	if err != nil {
		return nil, err
	}

	result := make([]model.EventFull, 0, len(events))
	for i := range events {
		result = append(result, events[i].Full(0, 0))
	}
	return result, nil
}

// safeHit fires a hit to the stats service. Failures are logged and
// swallowed: the side channel must never fail a read path.
func (s *EventService) safeHit(ctx context.Context, uri, ip string) {
	err := s.stats.SendHit(ctx, statsclient.Hit{
		App:       s.app,
		URI:       uri,
		IP:        ip,
		Timestamp: model.Now(),
	})
	if err != nil {
		log.Printf("stats hit failed: %v", err)
	}
}

// fetchViews queries unique view counts for the events' URIs. Any failure
// degrades to all-zero counts.
func (s *EventService) fetchViews(ctx context.Context, events []model.Event, start, end time.Time) map[int64]int64 {
	views := make(map[int64]int64, len(events))
	if len(events) == 0 {
		return views
	}

	uris := make([]string, 0, len(events))
	for i := range events {
		uris = append(uris, "/events/"+strconv.FormatInt(events[i].ID, 10))
	}

	stats, err := s.stats.GetStats(ctx, start, end, uris, true)
	if err != nil {
		log.Printf("stats query failed: %v", err)
		return views
	}
	for _, vs := range stats {
		if id, ok := eventIDFromURI(vs.URI); ok {
			views[id] += vs.Hits
		}
	}
	return views
}

// eventIDFromURI extracts the numeric id from a "/events/{id}" URI.
func eventIDFromURI(uri string) (int64, bool) {
	rest, ok := strings.CutPrefix(uri, "/events/")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *EventService) resolveCategory(ctx context.Context, id *int64) (*model.Category, error) {
	if id == nil {
		return nil, nil
	}
	return s.categories.Get(ctx, *id)
}
