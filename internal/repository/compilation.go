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

// CompilationRepository handles persistence for compilations and their
// event membership.
type CompilationRepository struct {
	db *pgxpool.Pool
}

// NewCompilationRepository constructs a CompilationRepository.
func NewCompilationRepository(db *pgxpool.Pool) *CompilationRepository {
	return &CompilationRepository{db: db}
}

// Create inserts a compilation and its event links in one transaction.
func (r *CompilationRepository) Create(ctx context.Context, c *model.Compilation) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`,
		c.Title, c.Pinned,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert compilation: %w", err)
	}

	if err = insertLinks(ctx, tx, c.ID, c.Events); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Update rewrites the compilation row and, when events is non-nil,
// replaces its membership.
func (r *CompilationRepository) Update(ctx context.Context, c *model.Compilation, replaceEvents bool) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE compilations SET title = $1, pinned = $2 WHERE id = $3`,
		c.Title, c.Pinned, c.ID)
	if err != nil {
		return fmt.Errorf("update compilation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("compilation not found: id=%d", c.ID)
	}

	if replaceEvents {
		if _, err = tx.Exec(ctx,
			`DELETE FROM compilation_events WHERE compilation_id = $1`, c.ID); err != nil {
			return fmt.Errorf("clear compilation events: %w", err)
		}
		if err = insertLinks(ctx, tx, c.ID, c.Events); err != nil {
			return err
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertLinks(ctx context.Context, tx pgx.Tx, compID int64, events []model.Event) error {
	for i := range events {
		if _, err := tx.Exec(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`,
			compID, events[i].ID,
		); err != nil {
			return fmt.Errorf("link compilation event: %w", err)
		}
	}
	return nil
}

// Delete removes a compilation; links go with it via ON DELETE CASCADE.
func (r *CompilationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete compilation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("compilation not found: id=%d", id)
	}
	return nil
}

// Get returns a compilation with its member events loaded.
func (r *CompilationRepository) Get(ctx context.Context, id int64) (*model.Compilation, error) {
	var c model.Compilation
	err := r.db.QueryRow(ctx,
		`SELECT id, title, pinned FROM compilations WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Pinned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("compilation not found: id=%d", id)
		}
		return nil, fmt.Errorf("get compilation: %w", err)
	}

	events, err := r.memberEvents(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	c.Events = events[id]
	return &c, nil
}

// List returns compilations with an optional pinned filter.
func (r *CompilationRepository) List(ctx context.Context, pinned *bool, from, size int) ([]model.Compilation, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if pinned == nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, title, pinned FROM compilations ORDER BY id OFFSET $1 LIMIT $2`,
			from, size)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, title, pinned FROM compilations WHERE pinned = $1 ORDER BY id OFFSET $2 LIMIT $3`,
			*pinned, from, size)
	}
	if err != nil {
		return nil, fmt.Errorf("list compilations: %w", err)
	}
	defer rows.Close()

	var comps []model.Compilation
	for rows.Next() {
		var c model.Compilation
		if err := rows.Scan(&c.ID, &c.Title, &c.Pinned); err != nil {
			return nil, fmt.Errorf("scan compilation: %w", err)
		}
		comps = append(comps, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(comps) == 0 {
		return comps, nil
	}

	ids := make([]int64, len(comps))
	for i := range comps {
		ids[i] = comps[i].ID
	}
	events, err := r.memberEvents(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range comps {
		comps[i].Events = events[comps[i].ID]
	}
	return comps, nil
}

// memberEvents loads the events of the given compilations, grouped by
// compilation id.
func (r *CompilationRepository) memberEvents(ctx context.Context, compIDs []int64) (map[int64][]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ce.compilation_id,`+eventColumns+eventFrom+`
		 JOIN compilation_events ce ON ce.event_id = e.id
		 WHERE ce.compilation_id = ANY($1)
		 ORDER BY e.id`,
		compIDs)
	if err != nil {
		return nil, fmt.Errorf("load compilation events: %w", err)
	}
	defer rows.Close()

	grouped := make(map[int64][]model.Event)
	for rows.Next() {
		var (
			compID      int64
			e           model.Event
			eventDate   time.Time
			createdOn   time.Time
			publishedOn *time.Time
		)
		err := rows.Scan(
			&compID,
			&e.ID, &e.Annotation, &e.Description, &e.Title,
			&e.Category.ID, &e.Category.Name, &e.Initiator.ID, &e.Initiator.Name,
			&e.Location.Lat, &e.Location.Lon, &e.Paid, &e.ParticipantLimit, &e.RequestModeration,
			&e.State, &eventDate, &createdOn, &publishedOn, &e.ConfirmedRequests,
		)
		if err != nil {
			return nil, fmt.Errorf("scan compilation event: %w", err)
		}
		e.EventDate = model.At(eventDate)
		e.CreatedOn = model.At(createdOn)
		if publishedOn != nil {
			e.PublishedOn = model.At(*publishedOn)
		}
		grouped[compID] = append(grouped[compID], e)
	}
	return grouped, rows.Err()
}
