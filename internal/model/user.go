package model

// User is a registered account, identified by an opaque numeric id.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserShort is the embedded initiator/author view.
type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Short returns the embedded view of the user.
func (u *User) Short() UserShort {
	return UserShort{ID: u.ID, Name: u.Name}
}

// NewUserRequest is the admin payload for registering a user.
type NewUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=250"`
	Email string `json:"email" validate:"required,email,min=6,max=254"`
}
