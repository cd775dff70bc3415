package model

// Category groups events by topic.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewCategoryRequest is the admin payload for creating or renaming a
// category.
type NewCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}
