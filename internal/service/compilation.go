package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/a-buianova/explore-with-me/internal/apperr"
	"github.com/a-buianova/explore-with-me/internal/model"
	"github.com/a-buianova/explore-with-me/internal/repository"
)

// CompilationService handles curated event lists.
type CompilationService struct {
	compilations *repository.CompilationRepository
	events       *repository.EventRepository
}

// NewCompilationService constructs a CompilationService.
func NewCompilationService(compilations *repository.CompilationRepository, events *repository.EventRepository) *CompilationService {
	return &CompilationService{compilations: compilations, events: events}
}

// Create builds a compilation; every referenced event must exist.
func (s *CompilationService) Create(ctx context.Context, req *model.NewCompilationRequest) (*model.CompilationView, error) {
	events, err := s.loadEvents(ctx, req.Events)
	if err != nil {
		return nil, err
	}

	comp := &model.Compilation{Title: req.Title, Pinned: req.Pinned, Events: events}
	if err := s.compilations.Create(ctx, comp); err != nil {
		return nil, err
	}
	log.Printf("created compilation id=%d pinned=%v title=%q", comp.ID, comp.Pinned, comp.Title)

	view := comp.View()
	return &view, nil
}

// Update applies a partial compilation update; a non-nil event list
// replaces the membership wholesale.
func (s *CompilationService) Update(ctx context.Context, id int64, req *model.UpdateCompilationRequest) (*model.CompilationView, error) {
	comp, err := s.compilations.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		comp.Title = *req.Title
	}
	if req.Pinned != nil {
		comp.Pinned = *req.Pinned
	}
	replaceEvents := req.Events != nil
	if replaceEvents {
		events, err := s.loadEvents(ctx, *req.Events)
		if err != nil {
			return nil, err
		}
		comp.Events = events
	}

	if err := s.compilations.Update(ctx, comp, replaceEvents); err != nil {
		return nil, err
	}
	view := comp.View()
	return &view, nil
}

// Delete removes a compilation.
func (s *CompilationService) Delete(ctx context.Context, id int64) error {
	if err := s.compilations.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("deleted compilation id=%d", id)
	return nil
}

// List returns compilations with an optional pinned filter.
func (s *CompilationService) List(ctx context.Context, pinned *bool, from, size int) ([]model.CompilationView, error) {
	comps, err := s.compilations.List(ctx, pinned, from, size)
	if err != nil {
		return nil, err
	}
	result := make([]model.CompilationView, 0, len(comps))
	for i := range comps {
		result = append(result, comps[i].View())
	}
	return result, nil
}

// Get returns a single compilation.
func (s *CompilationService) Get(ctx context.Context, id int64) (*model.CompilationView, error) {
	comp, err := s.compilations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := comp.View()
	return &view, nil
}

// loadEvents resolves an id list into events, failing with NotFound when
// any id is missing.
func (s *CompilationService) loadEvents(ctx context.Context, ids []int64) ([]model.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	events, err := s.events.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[int64]bool, len(events))
	for i := range events {
		found[events[i].ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, fmt.Sprintf("%d", id))
		}
	}
	if len(missing) > 0 {
		return nil, apperr.NotFound("events not found: %s", strings.Join(missing, ", "))
	}
	return events, nil
}
