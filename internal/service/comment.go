package service

import (
	"context"
	"time"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/repository"
)

// Authors may edit a published comment only this long after posting it.
const commentEditWindow = 24 * time.Hour

// CommentService handles user comments on events with a moderation
// workflow: new comments start PENDING, admins publish or reject them, and
// only published comments are publicly visible.
type CommentService struct {
	comments *repository.CommentRepository
	events   EventStore
	users    UserStore
}

// NewCommentService constructs a CommentService.
func NewCommentService(comments *repository.CommentRepository, events EventStore, users UserStore) *CommentService {
	return &CommentService{comments: comments, events: events, users: users}
}

// Add posts a comment on a published event, optionally as a reply to a
// published comment on the same event.
func (s *CommentService) Add(ctx context.Context, userID, eventID int64, req *model.NewCommentRequest) (*model.CommentView, error) {
	author, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != model.StatePublished {
		return nil, apperr.Conflict("cannot comment unpublished event: id=%d", eventID)
	}

	comment := &model.Comment{
		Text:       req.Text,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		EventID:    eventID,
		State:      model.CommentPending,
		Created:    model.Now(),
	}

	if req.ParentComment != nil {
		parent, err := s.comments.Get(ctx, *req.ParentComment)
		if err != nil {
			return nil, err
		}
		if parent.EventID != eventID {
			return nil, apperr.Conflict("parent comment belongs to another event")
		}
		if parent.State != model.CommentPublished {
			return nil, apperr.Conflict("cannot reply to a non-published parent comment")
		}
		comment.ParentID = parent.ID
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	view := comment.View()
	return &view, nil
}

// Update edits the author's own published comment within the edit window.
// An edited comment goes back through moderation.
func (s *CommentService) Update(ctx context.Context, userID, commentID int64, req *model.UpdateCommentRequest) (*model.CommentView, error) {
	comment, err := s.comments.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, apperr.Conflict("cannot edit others' comments")
	}
	if comment.State == model.CommentPending {
		return nil, apperr.Conflict("cannot edit while pending moderation")
	}
	if comment.State != model.CommentPublished {
		return nil, apperr.Conflict("only published comments can be edited")
	}
	if comment.Created.Add(commentEditWindow).Before(time.Now()) {
		return nil, apperr.Conflict("edit window (24h) has expired")
	}

	comment.Text = req.Text
	comment.Edited = true
	comment.State = model.CommentPending
	comment.Updated = model.Now()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	view := comment.View()
	return &view, nil
}

// Delete removes the author's own comment permanently.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return apperr.Conflict("cannot delete others' comments")
	}
	return s.comments.Delete(ctx, commentID)
}

// Get returns a single comment; only published comments are publicly
// visible, anything else reads as NotFound.
func (s *CommentService) Get(ctx context.Context, id int64) (*model.CommentView, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.State != model.CommentPublished {
		return nil, apperr.NotFound("comment not found: id=%d", id)
	}
	view := comment.View()
	return &view, nil
}

// ByEvent lists the published comments on an event.
func (s *CommentService) ByEvent(ctx context.Context, eventID int64, from, size int) ([]model.CommentView, error) {
	comments, err := s.comments.ByEvent(ctx, eventID, model.CommentPublished, from, size)
	if err != nil {
		return nil, err
	}
	return views(comments), nil
}

// ByAuthor lists a user's own comments in any state.
func (s *CommentService) ByAuthor(ctx context.Context, userID int64, from, size int) ([]model.CommentView, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ByAuthor(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	return views(comments), nil
}

// Pending returns the moderation queue.
func (s *CommentService) Pending(ctx context.Context, from, size int) ([]model.CommentView, error) {
	comments, err := s.comments.ByState(ctx, model.CommentPending, from, size)
	if err != nil {
		return nil, err
	}
	return views(comments), nil
}

// Approve publishes a pending comment.
func (s *CommentService) Approve(ctx context.Context, commentID int64) error {
	return s.moderate(ctx, commentID, model.CommentPublished)
}

// Reject hides a pending comment.
func (s *CommentService) Reject(ctx context.Context, commentID int64) error {
	return s.moderate(ctx, commentID, model.CommentRejected)
}

func (s *CommentService) moderate(ctx context.Context, commentID int64, next model.CommentState) error {
	comment, err := s.comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.State != model.CommentPending {
		return apperr.Conflict("only pending comments can be moderated")
	}
	comment.State = next
	return s.comments.Update(ctx, comment)
}

func views(comments []model.Comment) []model.CommentView {
	result := make([]model.CommentView, 0, len(comments))
	for i := range comments {
		result = append(result, comments[i].View())
	}
	return result
}
