package consultation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"golang-physioconsult/models"
)

// ListView holds the therapist's consultation collection. It is only
// ever updated by Refresh: after a create, save or delete the owning
// view refetches rather than splicing locally, so the list always
// reflects the last successful server read.
type ListView struct {
	backend Backend
	log     zerolog.Logger

	consultations []models.Consultation
	loaded        bool
}

func NewListView(backend Backend, log zerolog.Logger) *ListView {
	return &ListView{
		backend: backend,
		log:     log.With().Str("component", "list").Logger(),
	}
}

// Refresh fetches the full collection for the authenticated therapist.
func (l *ListView) Refresh(ctx context.Context) error {
	consultations, err := l.backend.ListConsultations(ctx)
	if err != nil {
		return fmt.Errorf("load consultations: %w", err)
	}
	l.consultations = consultations
	l.loaded = true
	l.log.Debug().Int("consultations", len(consultations)).Msg("list refreshed")
	return nil
}

func (l *ListView) Loaded() bool {
	return l.loaded
}

func (l *ListView) Consultations() []models.Consultation {
	out := make([]models.Consultation, len(l.consultations))
	copy(out, l.consultations)
	return out
}

// Filter matches consultations whose patient name, patient email or
// notes contain the query, case-insensitively. Filtering is purely
// presentational over the fetched collection.
func (l *ListView) Filter(query string) []models.Consultation {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return l.Consultations()
	}
	var matches []models.Consultation
	for _, c := range l.consultations {
		if strings.Contains(strings.ToLower(c.Patient.FullName), query) ||
			strings.Contains(strings.ToLower(c.Patient.Email), query) ||
			strings.Contains(strings.ToLower(c.Notes), query) {
			matches = append(matches, c)
		}
	}
	return matches
}

// Find returns the consultation with the given id from the fetched
// collection.
func (l *ListView) Find(id string) (models.Consultation, bool) {
	for _, c := range l.consultations {
		if c.ID == id {
			return c, true
		}
	}
	return models.Consultation{}, false
}
