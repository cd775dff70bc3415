package model

// CommentState is the moderation state of a comment. New comments start
// PENDING and become visible publicly only once PUBLISHED.
type CommentState string

const (
	CommentPending   CommentState = "PENDING"
	CommentPublished CommentState = "PUBLISHED"
	CommentRejected  CommentState = "REJECTED"
)

// Comment is a user's comment on a published event. Replies reference a
// parent comment by id (zero means top-level), never by embedded object, so
// the reply tree stays an id-keyed arena without ownership cycles.
type Comment struct {
	ID         int64
	Text       string
	AuthorID   int64
	AuthorName string
	EventID    int64
	ParentID   int64 // 0 = top-level comment
	State      CommentState
	Created    DateTime
	Updated    DateTime // zero if never edited
	Edited     bool
}

// CommentView is the API representation of a comment.
type CommentView struct {
	ID            int64    `json:"id"`
	Text          string   `json:"text"`
	Author        string   `json:"author"`
	EventID       int64    `json:"eventId"`
	ParentComment *int64   `json:"parentComment"`
	CreationDate  DateTime `json:"creationDate"`
	UpdateDate    DateTime `json:"updateDate"`
	Edited        bool     `json:"edited"`
}

// View maps the comment to its API representation.
func (c *Comment) View() CommentView {
	v := CommentView{
		ID:           c.ID,
		Text:         c.Text,
		Author:       c.AuthorName,
		EventID:      c.EventID,
		CreationDate: c.Created,
		UpdateDate:   c.Updated,
		Edited:       c.Edited,
	}
	if c.ParentID != 0 {
		parent := c.ParentID
		v.ParentComment = &parent
	}
	return v
}

// NewCommentRequest is the payload for posting a comment, optionally as a
// reply to an existing published comment on the same event.
type NewCommentRequest struct {
	Text          string `json:"text" validate:"required,min=1,max=2000"`
	ParentComment *int64 `json:"parentComment"`
}

// UpdateCommentRequest is the payload for editing one's own comment.
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}
