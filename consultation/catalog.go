package consultation

import (
	"context"
	"fmt"
	"strings"

	"golang-physioconsult/models"
	"golang-physioconsult/selection"
)

// CatalogSelector presents the exercise catalog and tracks a selection
// by exercise id. The same selector backs step two of the wizard and
// the standalone add-picker of the detail editor; the picker differs
// only in which ids are pre-excluded, so an already-recommended
// exercise is hidden rather than shown as checked.
type CatalogSelector struct {
	dir ExerciseDirectory

	catalog []models.Exercise
	loaded  bool

	selected *selection.Set
	excluded *selection.Set
}

func NewCatalogSelector(dir ExerciseDirectory) *CatalogSelector {
	return &CatalogSelector{
		dir:      dir,
		selected: selection.NewSet(),
		excluded: selection.NewSet(),
	}
}

// Load fetches the catalog once per wizard session.
func (s *CatalogSelector) Load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	exercises, err := s.dir.ListExercises(ctx)
	if err != nil {
		return fmt.Errorf("load exercise catalog: %w", err)
	}
	s.catalog = exercises
	s.loaded = true
	return nil
}

// SetExcluded hides the given ids from the visible catalog. Exclusion
// also drops them from the current selection.
func (s *CatalogSelector) SetExcluded(ids []string) {
	s.excluded = selection.NewSet(ids...)
	for _, id := range ids {
		if s.selected.Contains(id) {
			s.selected.Remove(id)
		}
	}
}

// Exercises returns the visible catalog: everything fetched minus the
// excluded ids.
func (s *CatalogSelector) Exercises() []models.Exercise {
	var visible []models.Exercise
	for _, ex := range s.catalog {
		if !s.excluded.Contains(ex.ID) {
			visible = append(visible, ex)
		}
	}
	return visible
}

// Filter narrows the visible catalog to exercises whose title, category
// or position contains the query, case-insensitively.
func (s *CatalogSelector) Filter(query string) []models.Exercise {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.Exercises()
	}
	var matches []models.Exercise
	for _, ex := range s.Exercises() {
		if strings.Contains(strings.ToLower(ex.Title), query) ||
			strings.Contains(strings.ToLower(ex.Category), query) ||
			strings.Contains(strings.ToLower(ex.Position), query) {
			matches = append(matches, ex)
		}
	}
	return matches
}

// Toggle flips membership of the exercise id in the selection and
// reports whether it is selected afterwards. Excluded ids cannot be
// selected.
func (s *CatalogSelector) Toggle(id string) bool {
	if s.excluded.Contains(id) {
		return false
	}
	return s.selected.Toggle(id)
}

func (s *CatalogSelector) IsSelected(id string) bool {
	return s.selected.Contains(id)
}

// Selected returns the selected exercises in the order they were
// chosen.
func (s *CatalogSelector) Selected() []models.Exercise {
	byID := make(map[string]models.Exercise, len(s.catalog))
	for _, ex := range s.catalog {
		byID[ex.ID] = ex
	}
	var out []models.Exercise
	for _, id := range s.selected.IDs() {
		if ex, ok := byID[id]; ok {
			out = append(out, ex)
		}
	}
	return out
}

func (s *CatalogSelector) SelectedIDs() []string {
	return s.selected.IDs()
}

// Reset clears the selection and exclusions but keeps the fetched
// catalog, so reopening the picker does not refetch.
func (s *CatalogSelector) Reset() {
	s.selected.Clear()
	s.excluded.Clear()
}
