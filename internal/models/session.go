package models

import (
	"fmt"
	"time"
)

// AppState is the application's position in its load/filter lifecycle.
type AppState int

const (
	StateEmpty AppState = iota
	StateLoaded
	StateFiltered
)

func (s AppState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFiltered:
		return "filtered"
	default:
		return "empty"
	}
}

// Session owns the loaded Dataset, its FilterSet and the current
// FilteredView. It is not safe for concurrent use; the controller mutates it
// from the UI event thread only.
type Session struct {
	state    AppState
	dataset  *Dataset
	filters  *FilterSet
	view     *Dataset
	loadedAt time.Time
	options  RegistryOptions
}

func NewSession(opts RegistryOptions) *Session {
	return &Session{options: opts}
}

// Load replaces the dataset wholesale and rebuilds the filters.
func (s *Session) Load(ds *Dataset) {
	s.dataset = ds
	s.filters = BuildFilterSet(ds, s.options)
	s.view = ds
	s.state = StateLoaded
	s.loadedAt = time.Now()
}

func (s *Session) State() AppState {
	return s.state
}

func (s *Session) Dataset() *Dataset {
	return s.dataset
}

func (s *Session) Filters() *FilterSet {
	return s.filters
}

// View returns the current FilteredView, the full dataset when unfiltered.
func (s *Session) View() *Dataset {
	return s.view
}

func (s *Session) LoadedAt() time.Time {
	return s.loadedAt
}

// Edit forwards a widget edit to the filter set.
func (s *Session) Edit(edit FilterEdit) error {
	if s.dataset == nil {
		return ErrNoDataset
	}
	return s.filters.Apply(edit)
}

// SetView installs a freshly evaluated view. The view must be derived from
// the session's dataset.
func (s *Session) SetView(view *Dataset) error {
	if s.dataset == nil {
		return ErrNoDataset
	}
	if len(view.columns) != len(s.dataset.columns) {
		return fmt.Errorf("view has %d columns, dataset has %d", len(view.columns), len(s.dataset.columns))
	}
	s.view = view
	s.state = StateFiltered
	return nil
}

// Reset clears every filter and restores the full dataset as the view.
func (s *Session) Reset() error {
	if s.dataset == nil {
		return ErrNoDataset
	}
	s.filters.Clear()
	s.view = s.dataset
	s.state = StateLoaded
	return nil
}

// Summary is the "Showing n of total" line, or the empty-state message.
func (s *Session) Summary() string {
	if s.dataset == nil {
		return "No file loaded"
	}
	return summaryLine(s.view.Len(), s.dataset.Len())
}

func summaryLine(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d total rows", shown, total)
}

// Preview renders the current view bounded to limit rows.
func (s *Session) Preview(limit int) Preview {
	if s.dataset == nil {
		return NewPreview(nil, 0, limit)
	}
	return NewPreview(s.view, s.dataset.Len(), limit)
}
