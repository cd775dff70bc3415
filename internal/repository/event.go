// Package repository implements all database queries for the events
// platform. It uses pgx directly (no ORM) for transparency and performance.
// Business errors surface as apperr kinds; database integrity violations
// that slip past application checks are reported as Conflict.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
)

// isUniqueViolation reports a 23505 unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports a 23503 foreign-key error. Events keep
// their initiator and requests keep their event and requester without
// cascades, so these deletes are blocked at the storage level while
// anything still references the row.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

const eventColumns = `
	e.id, e.annotation, e.description, e.title,
	c.id, c.name, u.id, u.name,
	e.lat, e.lon, e.paid, e.participant_limit, e.request_moderation,
	e.state, e.event_date, e.created_on, e.published_on, e.confirmed_requests`

const eventFrom = `
	FROM events e
	JOIN categories c ON c.id = e.category_id
	JOIN users u ON u.id = e.initiator_id`

type eventRow interface {
	Scan(dest ...any) error
}

func scanEvent(row eventRow) (*model.Event, error) {
	var (
		e           model.Event
		eventDate   time.Time
		createdOn   time.Time
		publishedOn *time.Time
	)
	err := row.Scan(
		&e.ID, &e.Annotation, &e.Description, &e.Title,
		&e.Category.ID, &e.Category.Name, &e.Initiator.ID, &e.Initiator.Name,
		&e.Location.Lat, &e.Location.Lon, &e.Paid, &e.ParticipantLimit, &e.RequestModeration,
		&e.State, &eventDate, &createdOn, &publishedOn, &e.ConfirmedRequests,
	)
	if err != nil {
		return nil, err
	}
	e.EventDate = model.At(eventDate)
	e.CreatedOn = model.At(createdOn)
	if publishedOn != nil {
		e.PublishedOn = model.At(*publishedOn)
	}
	return &e, nil
}

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and fills in its generated id.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	var publishedOn *time.Time
	err := r.db.QueryRow(ctx,
		`INSERT INTO events
		   (annotation, description, title, category_id, initiator_id,
		    lat, lon, paid, participant_limit, request_moderation,
		    state, event_date, created_on, published_on, confirmed_requests)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 RETURNING id`,
		e.Annotation, e.Description, e.Title, e.Category.ID, e.Initiator.ID,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		e.State, e.EventDate.Time, e.CreatedOn.Time, publishedOn, e.ConfirmedRequests,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Get returns an event in any state.
func (r *EventRepository) Get(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT`+eventColumns+eventFrom+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("event not found: id=%d", id)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// GetByInitiator returns an event only if it belongs to userID. A foreign
// event reads as NotFound so existence is not leaked to non-owners.
func (r *EventRepository) GetByInitiator(ctx context.Context, userID, eventID int64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT`+eventColumns+eventFrom+` WHERE e.id = $1 AND e.initiator_id = $2`,
		eventID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("event not found: id=%d", eventID)
		}
		return nil, fmt.Errorf("get event by initiator: %w", err)
	}
	return e, nil
}

// GetPublished returns an event only if it is PUBLISHED; other states read
// as NotFound.
func (r *EventRepository) GetPublished(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT`+eventColumns+eventFrom+` WHERE e.id = $1 AND e.state = $2`,
		id, model.StatePublished))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("event not found or not published: id=%d", id)
		}
		return nil, fmt.Errorf("get published event: %w", err)
	}
	return e, nil
}

// Update writes the mutable fields of an event. createdOn and the
// confirmed-requests counter are deliberately not written here; the counter
// changes only inside the admission transactions.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	var publishedOn *time.Time
	if !e.PublishedOn.IsZero() {
		t := e.PublishedOn.Time
		publishedOn = &t
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET
		   annotation = $1, description = $2, title = $3, category_id = $4,
		   lat = $5, lon = $6, paid = $7, participant_limit = $8,
		   request_moderation = $9, state = $10, event_date = $11, published_on = $12
		 WHERE id = $13`,
		e.Annotation, e.Description, e.Title, e.Category.ID,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit,
		e.RequestModeration, e.State, e.EventDate.Time, publishedOn, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("event not found: id=%d", e.ID)
	}
	return nil
}

// FindByInitiator lists a user's events, newest first.
func (r *EventRepository) FindByInitiator(ctx context.Context, userID int64, from, size int) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+eventColumns+eventFrom+`
		 WHERE e.initiator_id = $1
		 ORDER BY e.created_on DESC
		 OFFSET $2 LIMIT $3`,
		userID, from, size)
	if err != nil {
		return nil, fmt.Errorf("list initiator events: %w", err)
	}
	return collectEvents(rows)
}

// FindByIDs returns the events with the given ids, in id order.
func (r *EventRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT`+eventColumns+eventFrom+` WHERE e.id = ANY($1) ORDER BY e.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("find events by ids: %w", err)
	}
	return collectEvents(rows)
}

// CountByCategory counts events referencing a category. Used by the
// category-deletion guard.
func (r *EventRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events by category: %w", err)
	}
	return n, nil
}

// PublicFilter narrows the public event search. Only PUBLISHED events are
// ever returned. RangeEnd zero means open-ended.
type PublicFilter struct {
	Text            string
	Categories      []int64
	Paid            *bool
	RangeStart      time.Time
	RangeEnd        time.Time
	SortByEventDate bool
	From, Size      int
}

// SearchPublic runs the public search against the database. Availability
// filtering and view sorting happen in the service, after enrichment.
func (r *EventRepository) SearchPublic(ctx context.Context, f PublicFilter) ([]model.Event, error) {
	var (
		where = []string{"e.state = $1", "e.event_date >= $2"}
		args  = []any{model.StatePublished, f.RangeStart}
	)
	if !f.RangeEnd.IsZero() {
		args = append(args, f.RangeEnd)
		where = append(where, fmt.Sprintf("e.event_date <= $%d", len(args)))
	}
	if f.Text != "" {
		args = append(args, "%"+f.Text+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(e.annotation ILIKE $%d OR e.description ILIKE $%d)", n, n))
	}
	if len(f.Categories) > 0 {
		args = append(args, f.Categories)
		where = append(where, fmt.Sprintf("e.category_id = ANY($%d)", len(args)))
	}
	if f.Paid != nil {
		args = append(args, *f.Paid)
		where = append(where, fmt.Sprintf("e.paid = $%d", len(args)))
	}

	order := "e.id"
	if f.SortByEventDate {
		order = "e.event_date ASC"
	}

	args = append(args, f.From, f.Size)
	query := fmt.Sprintf(`SELECT%s%s WHERE %s ORDER BY %s OFFSET $%d LIMIT $%d`,
		eventColumns, eventFrom, strings.Join(where, " AND "), order, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("public event search: %w", err)
	}
	return collectEvents(rows)
}

// AdminFilter narrows the admin event search. Zero-valued fields are
// ignored; the admin path sees events in every state.
type AdminFilter struct {
	Users      []int64
	States     []model.EventState
	Categories []int64
	RangeStart time.Time
	RangeEnd   time.Time
	From, Size int
}

// SearchAdmin runs the moderation search against the database.
func (r *EventRepository) SearchAdmin(ctx context.Context, f AdminFilter) ([]model.Event, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Users) > 0 {
		args = append(args, f.Users)
		where = append(where, fmt.Sprintf("e.initiator_id = ANY($%d)", len(args)))
	}
	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, s := range f.States {
			states[i] = string(s)
		}
		args = append(args, states)
		where = append(where, fmt.Sprintf("e.state = ANY($%d)", len(args)))
	}
	if len(f.Categories) > 0 {
		args = append(args, f.Categories)
		where = append(where, fmt.Sprintf("e.category_id = ANY($%d)", len(args)))
	}
	if !f.RangeStart.IsZero() {
		args = append(args, f.RangeStart)
		where = append(where, fmt.Sprintf("e.event_date >= $%d", len(args)))
	}
	if !f.RangeEnd.IsZero() {
		args = append(args, f.RangeEnd)
		where = append(where, fmt.Sprintf("e.event_date <= $%d", len(args)))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	args = append(args, f.From, f.Size)
	query := fmt.Sprintf(`SELECT%s%s%s ORDER BY e.created_on DESC OFFSET $%d LIMIT $%d`,
		eventColumns, eventFrom, cond, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("admin event search: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]model.Event, error) {
	defer rows.Close()
	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
