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

// CommentRepository handles persistence for comments.
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository constructs a CommentRepository.
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `
	cm.id, cm.text, cm.author_id, u.name, cm.event_id,
	COALESCE(cm.parent_id, 0), cm.state, cm.created, cm.updated, cm.edited`

const commentFrom = ` FROM comments cm JOIN users u ON u.id = cm.author_id`

func scanComment(row eventRow) (*model.Comment, error) {
	var (
		c       model.Comment
		created time.Time
		updated *time.Time
	)
	err := row.Scan(
		&c.ID, &c.Text, &c.AuthorID, &c.AuthorName, &c.EventID,
		&c.ParentID, &c.State, &created, &updated, &c.Edited,
	)
	if err != nil {
		return nil, err
	}
	c.Created = model.At(created)
	if updated != nil {
		c.Updated = model.At(*updated)
	}
	return &c, nil
}

// Create inserts a comment and fills in its generated id.
func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	var parent *int64
	if c.ParentID != 0 {
		parent = &c.ParentID
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO comments (text, author_id, event_id, parent_id, state, created, edited)
		 VALUES ($1, $2, $3, $4, $5, $6, false)
		 RETURNING id`,
		c.Text, c.AuthorID, c.EventID, parent, c.State, c.Created.Time,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// Get returns a comment in any state.
func (r *CommentRepository) Get(ctx context.Context, id int64) (*model.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx,
		`SELECT`+commentColumns+commentFrom+` WHERE cm.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("comment not found: id=%d", id)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// Update writes the mutable comment fields: text, state, edit markers.
func (r *CommentRepository) Update(ctx context.Context, c *model.Comment) error {
	var updated *time.Time
	if !c.Updated.IsZero() {
		t := c.Updated.Time
		updated = &t
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE comments SET text = $1, state = $2, updated = $3, edited = $4 WHERE id = $5`,
		c.Text, c.State, updated, c.Edited, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment not found: id=%d", c.ID)
	}
	return nil
}

// Delete removes a comment permanently.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment not found: id=%d", id)
	}
	return nil
}

// ByEvent lists an event's comments in the given state, oldest first.
func (r *CommentRepository) ByEvent(ctx context.Context, eventID int64, state model.CommentState, from, size int) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+commentColumns+commentFrom+`
		 WHERE cm.event_id = $1 AND cm.state = $2
		 ORDER BY cm.created ASC
		 OFFSET $3 LIMIT $4`,
		eventID, state, from, size)
	if err != nil {
		return nil, fmt.Errorf("list event comments: %w", err)
	}
	return collectComments(rows)
}

// ByAuthor lists a user's comments in any state, newest first.
func (r *CommentRepository) ByAuthor(ctx context.Context, authorID int64, from, size int) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+commentColumns+commentFrom+`
		 WHERE cm.author_id = $1
		 ORDER BY cm.created DESC
		 OFFSET $2 LIMIT $3`,
		authorID, from, size)
	if err != nil {
		return nil, fmt.Errorf("list author comments: %w", err)
	}
	return collectComments(rows)
}

// ByState lists the moderation queue, oldest first.
func (r *CommentRepository) ByState(ctx context.Context, state model.CommentState, from, size int) ([]model.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+commentColumns+commentFrom+`
		 WHERE cm.state = $1
		 ORDER BY cm.created ASC
		 OFFSET $2 LIMIT $3`,
		state, from, size)
	if err != nil {
		return nil, fmt.Errorf("list comments by state: %w", err)
	}
	return collectComments(rows)
}

// CountPublished counts an event's published comments.
func (r *CommentRepository) CountPublished(ctx context.Context, eventID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE event_id = $1 AND state = $2`,
		eventID, model.CommentPublished,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count published comments: %w", err)
	}
	return n, nil
}

// CountPublishedBatch counts published comments for a set of events.
// Events without comments are absent from the map.
func (r *CommentRepository) CountPublishedBatch(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT event_id, COUNT(*)
		 FROM comments
		 WHERE event_id = ANY($1) AND state = $2
		 GROUP BY event_id`,
		eventIDs, model.CommentPublished)
	if err != nil {
		return nil, fmt.Errorf("count published comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id int64
			n  int64
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan comment count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func collectComments(rows pgx.Rows) ([]model.Comment, error) {
	defer rows.Close()
	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}
