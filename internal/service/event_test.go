package service

import (
	"context"
	"testing"
	"time"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/repository"
	"github.com/a-buianova/explore-with-me/internal/statsclient"
)

// fakeEventStore serves events from memory and records updates.
type fakeEventStore struct {
	events  map[int64]model.Event
	public  []model.Event
	admin   []model.Event
	updated *model.Event
	nextID  int64
}

func (f *fakeEventStore) Create(_ context.Context, e *model.Event) error {
	f.nextID++
	e.ID = f.nextID
	if f.events == nil {
		f.events = map[int64]model.Event{}
	}
	f.events[e.ID] = *e
	return nil
}

func (f *fakeEventStore) Get(_ context.Context, id int64) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperr.NotFound("event not found: id=%d", id)
	}
	return &e, nil
}

func (f *fakeEventStore) GetByInitiator(_ context.Context, userID, eventID int64) (*model.Event, error) {
	e, ok := f.events[eventID]
	if !ok || e.Initiator.ID != userID {
		return nil, apperr.NotFound("event not found: id=%d", eventID)
	}
	return &e, nil
}

func (f *fakeEventStore) GetPublished(_ context.Context, id int64) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok || e.State != model.StatePublished {
		return nil, apperr.NotFound("event not found: id=%d", id)
	}
	return &e, nil
}

func (f *fakeEventStore) Update(_ context.Context, e *model.Event) error {
	f.updated = e
	f.events[e.ID] = *e
	return nil
}

func (f *fakeEventStore) FindByInitiator(_ context.Context, userID int64, _, _ int) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.Initiator.ID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) SearchPublic(_ context.Context, _ repository.PublicFilter) ([]model.Event, error) {
	return f.public, nil
}

func (f *fakeEventStore) SearchAdmin(_ context.Context, _ repository.AdminFilter) ([]model.Event, error) {
	return f.admin, nil
}

type fakeUserStore struct{ users map[int64]model.User }

func (f *fakeUserStore) Get(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found: id=%d", id)
	}
	return &u, nil
}

type fakeCategoryStore struct{ categories map[int64]model.Category }

func (f *fakeCategoryStore) Get(_ context.Context, id int64) (*model.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperr.NotFound("category not found: id=%d", id)
	}
	return &c, nil
}

type fakeComments struct{ counts map[int64]int64 }

func (f *fakeComments) CountPublished(_ context.Context, eventID int64) (int64, error) {
	return f.counts[eventID], nil
}

func (f *fakeComments) CountPublishedBatch(_ context.Context, _ []int64) (map[int64]int64, error) {
	return f.counts, nil
}

// fakeStats records hits and serves canned view stats; fail makes every
// call error to exercise degradation.
type fakeStats struct {
	hits  []statsclient.Hit
	stats []statsclient.ViewStats
	fail  bool
}

func (f *fakeStats) SendHit(_ context.Context, hit statsclient.Hit) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	f.hits = append(f.hits, hit)
	return nil
}

func (f *fakeStats) GetStats(_ context.Context, _, _ time.Time, _ []string, _ bool) ([]statsclient.ViewStats, error) {
	if f.fail {
		return nil, context.DeadlineExceeded
	}
	return f.stats, nil
}

func newEventFixture() (*EventService, *fakeEventStore, *fakeStats) {
	events := &fakeEventStore{events: map[int64]model.Event{}}
	stats := &fakeStats{}
	svc := NewEventService(
		events,
		&fakeUserStore{users: map[int64]model.User{10: {ID: 10, Name: "ana"}}},
		&fakeCategoryStore{categories: map[int64]model.Category{1: {ID: 1, Name: "hiking"}}},
		&fakeComments{counts: map[int64]int64{}},
		stats,
		"ewm-test",
	)
	return svc, events, stats
}

func validNewEvent(date time.Time) *model.NewEventRequest {
	return &model.NewEventRequest{
		Annotation:  "a weekend hike through the nearby hills",
		Description: "we will meet at the trailhead and walk together",
		Title:       "weekend hike",
		Category:    1,
		Location:    &model.Location{Lat: 50.45, Lon: 30.52},
		EventDate:   model.At(date),
	}
}

func TestCreateEvent(t *testing.T) {
	svc, events, _ := newEventFixture()

	full, err := svc.Create(context.Background(), 10, validNewEvent(time.Now().Add(3*time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if full.State != model.StatePending {
		t.Fatalf("state = %q, want PENDING", full.State)
	}
	if !full.PublishedOn.IsZero() {
		t.Fatalf("publishedOn must be unset, got %v", full.PublishedOn)
	}
	if full.ConfirmedRequests != 0 || full.Views != 0 {
		t.Fatalf("counters must start at zero: %+v", full)
	}
	if events.events[full.ID].RequestModeration != true {
		t.Fatal("requestModeration must default to true")
	}
}

func TestCreateEventTooSoonIsConflict(t *testing.T) {
	svc, _, _ := newEventFixture()

	_, err := svc.Create(context.Background(), 10, validNewEvent(time.Now().Add(time.Hour)))
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestCreateEventUnknownUserOrCategory(t *testing.T) {
	svc, _, _ := newEventFixture()

	if _, err := svc.Create(context.Background(), 99, validNewEvent(time.Now().Add(3*time.Hour))); !apperr.IsNotFound(err) {
		t.Fatalf("unknown user: want not found, got %v", err)
	}
	req := validNewEvent(time.Now().Add(3 * time.Hour))
	req.Category = 99
	if _, err := svc.Create(context.Background(), 10, req); !apperr.IsNotFound(err) {
		t.Fatalf("unknown category: want not found, got %v", err)
	}
}

func seedEvent(events *fakeEventStore, state model.EventState, date time.Time) int64 {
	events.nextID++
	id := events.nextID
	events.events[id] = model.Event{
		ID:                id,
		Annotation:        "a weekend hike through the nearby hills",
		Title:             "weekend hike",
		Category:          model.Category{ID: 1, Name: "hiking"},
		Initiator:         model.UserShort{ID: 10, Name: "ana"},
		RequestModeration: true,
		State:             state,
		EventDate:         model.At(date),
		CreatedOn:         model.Now(),
	}
	return id
}

func TestUpdateByInitiatorTooSoonIsBadRequest(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePending, time.Now().Add(48*time.Hour))

	soon := model.At(time.Now().Add(time.Hour))
	_, err := svc.UpdateByInitiator(context.Background(), 10, id, &model.UpdateEventRequest{EventDate: &soon})
	if !apperr.IsBadRequest(err) {
		t.Fatalf("want bad request, got %v", err)
	}
}

func TestUpdateByInitiatorPublishedIsConflict(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePublished, time.Now().Add(48*time.Hour))

	_, err := svc.UpdateByInitiator(context.Background(), 10, id, &model.UpdateEventRequest{})
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestUpdateByInitiatorForeignEventIsNotFound(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePending, time.Now().Add(48*time.Hour))

	_, err := svc.UpdateByInitiator(context.Background(), 77, id, &model.UpdateEventRequest{})
	if !apperr.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestUpdateByInitiatorCancelAndResubmit(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePending, time.Now().Add(48*time.Hour))

	cancel := "CANCEL_REVIEW"
	full, err := svc.UpdateByInitiator(context.Background(), 10, id, &model.UpdateEventRequest{StateAction: &cancel})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if full.State != model.StateCanceled {
		t.Fatalf("state = %q, want CANCELED", full.State)
	}

	resubmit := "SEND_TO_REVIEW"
	full, err = svc.UpdateByInitiator(context.Background(), 10, id, &model.UpdateEventRequest{StateAction: &resubmit})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if full.State != model.StatePending {
		t.Fatalf("state = %q, want PENDING", full.State)
	}
}

func TestUpdateByAdminPublish(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePending, time.Now().Add(48*time.Hour))

	publish := "PUBLISH_EVENT"
	full, err := svc.UpdateByAdmin(context.Background(), id, &model.UpdateEventRequest{StateAction: &publish})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if full.State != model.StatePublished {
		t.Fatalf("state = %q, want PUBLISHED", full.State)
	}
	if full.PublishedOn.IsZero() {
		t.Fatal("publishedOn must be stamped on publish")
	}
}

func TestUpdateByAdminPublishTooSoonIsConflict(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePending, time.Now().Add(30*time.Minute))

	publish := "PUBLISH_EVENT"
	_, err := svc.UpdateByAdmin(context.Background(), id, &model.UpdateEventRequest{StateAction: &publish})
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestUpdateByAdminRejectPublishedIsConflict(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePublished, time.Now().Add(48*time.Hour))

	reject := "REJECT_EVENT"
	_, err := svc.UpdateByAdmin(context.Background(), id, &model.UpdateEventRequest{StateAction: &reject})
	if !apperr.IsConflict(err) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestUpdateByAdminPastDateIsBadRequest(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePending, time.Now().Add(48*time.Hour))

	past := model.At(time.Now().Add(-time.Hour))
	_, err := svc.UpdateByAdmin(context.Background(), id, &model.UpdateEventRequest{EventDate: &past})
	if !apperr.IsBadRequest(err) {
		t.Fatalf("want bad request, got %v", err)
	}
}

func TestSearchPublicInvalidRange(t *testing.T) {
	svc, _, _ := newEventFixture()

	_, err := svc.SearchPublic(context.Background(), PublicQuery{
		RangeStart: time.Now().Add(2 * time.Hour),
		RangeEnd:   time.Now().Add(time.Hour),
		Size:       10,
	}, "/events", "10.0.0.1")
	if !apperr.IsBadRequest(err) {
		t.Fatalf("want bad request, got %v", err)
	}
}

func TestSearchPublicInvalidSort(t *testing.T) {
	svc, _, _ := newEventFixture()

	_, err := svc.SearchPublic(context.Background(), PublicQuery{Sort: "PRICE", Size: 10}, "/events", "10.0.0.1")
	if !apperr.IsBadRequest(err) {
		t.Fatalf("want bad request, got %v", err)
	}
}

func TestSearchPublicRecordsHit(t *testing.T) {
	svc, _, stats := newEventFixture()

	if _, err := svc.SearchPublic(context.Background(), PublicQuery{Size: 10}, "/events", "10.0.0.1"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(stats.hits) != 1 || stats.hits[0].URI != "/events" || stats.hits[0].IP != "10.0.0.1" {
		t.Fatalf("hits = %+v", stats.hits)
	}
	if stats.hits[0].App != "ewm-test" {
		t.Fatalf("app = %q", stats.hits[0].App)
	}
}

func TestSearchPublicOnlyAvailableAndViewsSort(t *testing.T) {
	svc, events, stats := newEventFixture()
	events.public = []model.Event{
		{ID: 1, State: model.StatePublished, ParticipantLimit: 2, ConfirmedRequests: 2},
		{ID: 2, State: model.StatePublished, ParticipantLimit: 2, ConfirmedRequests: 1},
		{ID: 3, State: model.StatePublished},
	}
	stats.stats = []statsclient.ViewStats{
		{App: "ewm-test", URI: "/events/2", Hits: 5},
		{App: "ewm-test", URI: "/events/3", Hits: 9},
	}

	result, err := svc.SearchPublic(context.Background(), PublicQuery{
		OnlyAvailable: true,
		Sort:          "VIEWS",
		Size:          10,
	}, "/events", "10.0.0.1")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// Event 1 is full and filtered out; 3 has more views than 2.
	if len(result) != 2 || result[0].ID != 3 || result[1].ID != 2 {
		t.Fatalf("result = %+v", result)
	}
	if result[0].Views != 9 || result[1].Views != 5 {
		t.Fatalf("views = %d, %d", result[0].Views, result[1].Views)
	}
}

func TestSearchPublicDegradesWhenStatsDown(t *testing.T) {
	svc, events, stats := newEventFixture()
	stats.fail = true
	events.public = []model.Event{{ID: 1, State: model.StatePublished}}

	result, err := svc.SearchPublic(context.Background(), PublicQuery{Size: 10}, "/events", "10.0.0.1")
	if err != nil {
		t.Fatalf("stats outage must not fail the search: %v", err)
	}
	if len(result) != 1 || result[0].Views != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestGetPublicByID(t *testing.T) {
	svc, events, stats := newEventFixture()
	id := seedEvent(events, model.StatePublished, time.Now().Add(48*time.Hour))
	stats.stats = []statsclient.ViewStats{{App: "ewm-test", URI: "/events/1", Hits: 7}}

	full, err := svc.GetPublicByID(context.Background(), id, "/events/1", "10.0.0.1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if full.Views != 7 {
		t.Fatalf("views = %d, want 7", full.Views)
	}
	if len(stats.hits) != 1 {
		t.Fatalf("hit not recorded: %+v", stats.hits)
	}
}

func TestGetPublicByIDUnpublishedIsNotFound(t *testing.T) {
	svc, events, _ := newEventFixture()
	id := seedEvent(events, model.StatePending, time.Now().Add(48*time.Hour))

	_, err := svc.GetPublicByID(context.Background(), id, "/events/1", "10.0.0.1")
	if !apperr.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestSearchAdminUnknownStateIsBadRequest(t *testing.T) {
	svc, _, _ := newEventFixture()

	_, err := svc.SearchAdmin(context.Background(), AdminQuery{States: []string{"ARCHIVED"}, Size: 10})
	if !apperr.IsBadRequest(err) {
		t.Fatalf("want bad request, got %v", err)
	}
}

func TestSearchAdminReportsZeroViews(t *testing.T) {
	svc, events, stats := newEventFixture()
	events.admin = []model.Event{{ID: 1, State: model.StatePending}}
	stats.stats = []statsclient.ViewStats{{URI: "/events/1", Hits: 100}}

	result, err := svc.SearchAdmin(context.Background(), AdminQuery{Size: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result) != 1 || result[0].Views != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(stats.hits) != 0 {
		t.Fatal("admin search must not record hits")
	}
}
