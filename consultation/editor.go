package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"golang-physioconsult/api"
	"golang-physioconsult/models"
	"golang-physioconsult/selection"
	"golang-physioconsult/task"
)

var (
	ErrNothingOpen      = errors.New("no consultation is open in the editor")
	ErrNotEditing       = errors.New("the editor is not in edit mode")
	ErrDuplicateAdd     = errors.New("exercise is already recommended")
	ErrDeleteCancelled  = errors.New("deletion was not confirmed")
	ErrNotFound         = errors.New("consultation not found")
	ErrEmptyRecommended = errors.New("a consultation must keep at least one exercise")
)

type editorSnapshot struct {
	activeDays int
	notes      string
	exercises  []models.Exercise
}

// DetailEditor loads a persisted consultation, derives the signed
// active-day count from its stored expiry, and applies exercise and
// note edits through an explicit edit mode with snapshot/cancel
// semantics.
type DetailEditor struct {
	backend Backend
	gate    task.Gate
	log     zerolog.Logger

	// Clock is injectable for the date math; defaults to time.Now.
	Clock func() time.Time

	consultation *models.Consultation
	activeDays   int
	notes        string
	exercises    []models.Exercise
	ids          *selection.Set

	snapshot *editorSnapshot

	// OnMutated fires after a successful save or delete; the list view
	// hooks its refetch here.
	OnMutated func()
}

func NewDetailEditor(backend Backend, log zerolog.Logger) *DetailEditor {
	return &DetailEditor{
		backend: backend,
		log:     log.With().Str("component", "editor").Logger(),
		Clock:   time.Now,
		ids:     selection.NewSet(),
	}
}

// Open loads a consultation into the editor and derives the active-day
// count from the stored expiry timestamp. A lapsed consultation yields
// a zero or negative count; the sign drives the displayed label.
func (e *DetailEditor) Open(c models.Consultation) {
	e.consultation = &c
	e.activeDays = ActiveDays(c.ExpiresOn, e.Clock())
	e.notes = c.Notes
	e.exercises = make([]models.Exercise, len(c.RecommendedExercises))
	copy(e.exercises, c.RecommendedExercises)
	e.ids = selection.NewSet(c.ExerciseIDs()...)
	e.snapshot = nil
}

// Load fetches the therapist's consultations and opens the one with the
// given id. The contract has no single-record read, so the collection
// fetch backs both the list and the editor.
func (e *DetailEditor) Load(ctx context.Context, id string) error {
	consultations, err := e.backend.ListConsultations(ctx)
	if err != nil {
		return fmt.Errorf("load consultation: %w", err)
	}
	for _, c := range consultations {
		if c.ID == id {
			e.Open(c)
			return nil
		}
	}
	return ErrNotFound
}

func (e *DetailEditor) Consultation() *models.Consultation {
	return e.consultation
}

func (e *DetailEditor) ActiveDays() int {
	return e.activeDays
}

func (e *DetailEditor) Notes() string {
	return e.notes
}

// StatusLabel distinguishes "N days remaining" from "deactivated N days
// back" using the sign of the derived count.
func (e *DetailEditor) StatusLabel() string {
	return StatusLabel(e.activeDays)
}

// RecommendedExercises returns the working copy in order.
func (e *DetailEditor) RecommendedExercises() []models.Exercise {
	out := make([]models.Exercise, len(e.exercises))
	copy(out, e.exercises)
	return out
}

// ExcludedIDs feeds the add-picker: already-recommended exercises are
// hidden there so they cannot be re-added.
func (e *DetailEditor) ExcludedIDs() []string {
	return e.ids.IDs()
}

// BeginEdit snapshots the current activeDays, notes and exercise list
// so Cancel can restore them verbatim. A plain refetch would not do:
// exercises added via the picker before the snapshot would be lost.
func (e *DetailEditor) BeginEdit() error {
	if e.consultation == nil {
		return ErrNothingOpen
	}
	if e.snapshot != nil {
		return nil
	}
	snap := &editorSnapshot{
		activeDays: e.activeDays,
		notes:      e.notes,
		exercises:  make([]models.Exercise, len(e.exercises)),
	}
	copy(snap.exercises, e.exercises)
	e.snapshot = snap
	return nil
}

func (e *DetailEditor) Editing() bool {
	return e.snapshot != nil
}

// Cancel leaves edit mode and restores the snapshot exactly.
func (e *DetailEditor) Cancel() {
	if e.snapshot == nil {
		return
	}
	e.activeDays = e.snapshot.activeDays
	e.notes = e.snapshot.notes
	e.exercises = e.snapshot.exercises
	ids := make([]string, 0, len(e.exercises))
	for _, ex := range e.exercises {
		ids = append(ids, ex.ID)
	}
	e.ids = selection.NewSet(ids...)
	e.snapshot = nil
}

func (e *DetailEditor) SetActiveDays(days int) error {
	if e.snapshot == nil {
		return ErrNotEditing
	}
	e.activeDays = days
	return nil
}

func (e *DetailEditor) SetNotes(notes string) error {
	if e.snapshot == nil {
		return ErrNotEditing
	}
	e.notes = notes
	return nil
}

// AddExercise appends an exercise picked from the catalog. Duplicates
// are rejected by id.
func (e *DetailEditor) AddExercise(ex models.Exercise) error {
	if e.consultation == nil {
		return ErrNothingOpen
	}
	if e.snapshot == nil {
		return ErrNotEditing
	}
	if !e.ids.Add(ex.ID) {
		return ErrDuplicateAdd
	}
	e.exercises = append(e.exercises, ex)
	return nil
}

func (e *DetailEditor) RemoveExercise(id string) bool {
	if e.snapshot == nil || !e.ids.Remove(id) {
		return false
	}
	for i, ex := range e.exercises {
		if ex.ID == id {
			e.exercises = append(e.exercises[:i], e.exercises[i+1:]...)
			break
		}
	}
	return true
}

// Save writes the edited activeDays, notes and the full exercise id
// list. The displayed count may be negative for a lapsed consultation,
// but the write clamps it to zero or more so the server-side expiry
// stays "today + N days". The editor state is updated from the response
// and edit mode ends; the list still refetches via OnMutated.
func (e *DetailEditor) Save(ctx context.Context) (*models.Consultation, error) {
	if e.consultation == nil {
		return nil, ErrNothingOpen
	}
	if e.snapshot == nil {
		return nil, ErrNotEditing
	}
	if e.ids.Len() == 0 {
		return nil, ErrEmptyRecommended
	}
	if !e.gate.TryAcquire() {
		return nil, task.ErrInFlight
	}
	defer e.gate.Release()

	days := e.activeDays
	if days < 0 {
		days = 0
	}

	updated, err := e.backend.UpdateConsultation(ctx, e.consultation.ID, api.UpdateConsultationRequest{
		ActiveDays:           days,
		Notes:                e.notes,
		RecommendedExercises: e.ids.IDs(),
	})
	if err != nil {
		e.log.Error().Err(err).Str("consultation_id", e.consultation.ID).Msg("save failed")
		return nil, fmt.Errorf("update consultation: %w", err)
	}

	e.log.Info().Str("consultation_id", updated.ID).Msg("consultation updated")
	e.Open(*updated)
	if e.OnMutated != nil {
		e.OnMutated()
	}
	return updated, nil
}

// Delete destroys the open consultation after the confirm callback,
// which receives the patient's name for display, returns true.
func (e *DetailEditor) Delete(ctx context.Context, confirm func(patientName string) bool) error {
	if e.consultation == nil {
		return ErrNothingOpen
	}
	if confirm == nil || !confirm(e.consultation.Patient.FullName) {
		return ErrDeleteCancelled
	}
	if !e.gate.TryAcquire() {
		return task.ErrInFlight
	}
	defer e.gate.Release()

	if err := e.backend.DeleteConsultation(ctx, e.consultation.ID); err != nil {
		e.log.Error().Err(err).Str("consultation_id", e.consultation.ID).Msg("delete failed")
		return fmt.Errorf("delete consultation: %w", err)
	}

	e.log.Info().Str("consultation_id", e.consultation.ID).Msg("consultation deleted")
	e.consultation = nil
	e.snapshot = nil
	e.exercises = nil
	e.ids.Clear()
	if e.OnMutated != nil {
		e.OnMutated()
	}
	return nil
}
