package model

// Compilation is a curated, possibly pinned list of events.
type Compilation struct {
	ID     int64
	Title  string
	Pinned bool
	Events []Event
}

// CompilationView is the API representation of a compilation.
type CompilationView struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Pinned bool         `json:"pinned"`
	Events []EventShort `json:"events"`
}

// View maps the compilation and its member events.
func (c *Compilation) View() CompilationView {
	events := make([]EventShort, 0, len(c.Events))
	for i := range c.Events {
		events = append(events, c.Events[i].Short(0, 0))
	}
	return CompilationView{ID: c.ID, Title: c.Title, Pinned: c.Pinned, Events: events}
}

// NewCompilationRequest is the admin payload for creating a compilation.
// The event set may be empty.
type NewCompilationRequest struct {
	Title  string  `json:"title" validate:"required,min=1,max=50"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events"`
}

// UpdateCompilationRequest is a partial compilation update: nil means
// "leave unchanged".
type UpdateCompilationRequest struct {
	Title  *string  `json:"title" validate:"omitempty,min=1,max=50"`
	Pinned *bool    `json:"pinned"`
	Events *[]int64 `json:"events"`
}
