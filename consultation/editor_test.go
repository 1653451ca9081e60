package consultation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"golang-physioconsult/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func persistedConsultation() models.Consultation {
	return models.Consultation{
		ID:          "c1",
		TherapistID: "therapist-1",
		Patient:     models.Patient{ID: "p1", FullName: "Jane Doe", Email: "j@x.com"},
		RecommendedExercises: []models.Exercise{
			exercise("e1", "Squat"),
			exercise("e2", "Lunge"),
		},
		Status:    models.StatusActive,
		ExpiresOn: date(2024, time.January, 8),
		Notes:     "twice daily",
		CreatedAt: date(2024, time.January, 1),
	}
}

func newTestEditor(backend *fakeBackend, now time.Time) *DetailEditor {
	e := NewDetailEditor(backend, zerolog.Nop())
	e.Clock = fixedClock(now)
	return e
}

func TestEditor_OpenDerivesSignedActiveDays(t *testing.T) {
	e := newTestEditor(&fakeBackend{}, date(2024, time.January, 5))
	e.Open(persistedConsultation())

	if got := e.ActiveDays(); got != 3 {
		t.Errorf("expected 3 days remaining, got %d", got)
	}
	if got := e.StatusLabel(); got != "3 days remaining" {
		t.Errorf("unexpected label %q", got)
	}

	lapsed := newTestEditor(&fakeBackend{}, date(2024, time.January, 10))
	lapsed.Open(persistedConsultation())
	if got := lapsed.ActiveDays(); got != -2 {
		t.Errorf("expected -2 for a lapsed consultation, got %d", got)
	}
	if got := lapsed.StatusLabel(); got != "deactivated 2 days back" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestEditor_LoadFindsConsultationInCollection(t *testing.T) {
	backend := &fakeBackend{consultations: []models.Consultation{persistedConsultation()}}
	e := newTestEditor(backend, date(2024, time.January, 5))

	if err := e.Load(context.Background(), "c1"); err != nil {
		t.Fatal(err)
	}
	if e.Consultation() == nil || e.Consultation().ID != "c1" {
		t.Errorf("consultation not opened")
	}

	if err := e.Load(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEditor_CancelRestoresSnapshotVerbatim(t *testing.T) {
	e := newTestEditor(&fakeBackend{}, date(2024, time.January, 5))
	e.Open(persistedConsultation())

	if err := e.BeginEdit(); err != nil {
		t.Fatal(err)
	}
	if err := e.SetActiveDays(30); err != nil {
		t.Fatal(err)
	}
	if err := e.SetNotes("changed"); err != nil {
		t.Fatal(err)
	}
	if err := e.AddExercise(exercise("e3", "Plank")); err != nil {
		t.Fatal(err)
	}
	if !e.RemoveExercise("e1") {
		t.Fatal("remove e1 failed")
	}

	e.Cancel()

	if e.Editing() {
		t.Errorf("cancel should leave edit mode")
	}
	if e.ActiveDays() != 3 || e.Notes() != "twice daily" {
		t.Errorf("scalar fields not restored: days=%d notes=%q", e.ActiveDays(), e.Notes())
	}
	ids := e.ExcludedIDs()
	if len(ids) != 2 || ids[0] != "e1" || ids[1] != "e2" {
		t.Errorf("exercise list not restored verbatim: %v", ids)
	}
}

func TestEditor_CancelRestoresExercisesAddedBeforeSnapshot(t *testing.T) {
	// An exercise added during one edit session must survive a
	// cancelled second session; a plain refetch would lose it before
	// the first save.
	backend := &fakeBackend{}
	e := newTestEditor(backend, date(2024, time.January, 5))
	e.Open(persistedConsultation())

	if err := e.BeginEdit(); err != nil {
		t.Fatal(err)
	}
	if err := e.AddExercise(exercise("e3", "Plank")); err != nil {
		t.Fatal(err)
	}
	backend.updated = func() *models.Consultation {
		c := persistedConsultation()
		c.RecommendedExercises = append(c.RecommendedExercises, exercise("e3", "Plank"))
		return &c
	}()
	if _, err := e.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := e.BeginEdit(); err != nil {
		t.Fatal(err)
	}
	if !e.RemoveExercise("e3") {
		t.Fatal("remove e3 failed")
	}
	e.Cancel()

	ids := e.ExcludedIDs()
	if len(ids) != 3 || ids[2] != "e3" {
		t.Errorf("picker-added exercise lost on cancel: %v", ids)
	}
}

func TestEditor_AddRejectsDuplicatesByID(t *testing.T) {
	e := newTestEditor(&fakeBackend{}, date(2024, time.January, 5))
	e.Open(persistedConsultation())
	if err := e.BeginEdit(); err != nil {
		t.Fatal(err)
	}

	if err := e.AddExercise(exercise("e1", "Squat")); !errors.Is(err, ErrDuplicateAdd) {
		t.Errorf("expected ErrDuplicateAdd, got %v", err)
	}
	if got := len(e.RecommendedExercises()); got != 2 {
		t.Errorf("duplicate add changed the list, len=%d", got)
	}
}

func TestEditor_SaveClampsNegativeActiveDays(t *testing.T) {
	backend := &fakeBackend{}
	// Opened well past expiry: derived count is -2.
	e := newTestEditor(backend, date(2024, time.January, 10))
	e.Open(persistedConsultation())
	if err := e.BeginEdit(); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if backend.lastUpdate.ActiveDays != 0 {
		t.Errorf("negative activeDays must be clamped to 0, got %d", backend.lastUpdate.ActiveDays)
	}
}

func TestEditor_SaveSendsFullExerciseList(t *testing.T) {
	backend := &fakeBackend{}
	e := newTestEditor(backend, date(2024, time.January, 5))
	e.Open(persistedConsultation())
	if err := e.BeginEdit(); err != nil {
		t.Fatal(err)
	}
	if err := e.SetActiveDays(14); err != nil {
		t.Fatal(err)
	}
	if err := e.SetNotes("updated"); err != nil {
		t.Fatal(err)
	}
	if err := e.AddExercise(exercise("e3", "Plank")); err != nil {
		t.Fatal(err)
	}
	e.RemoveExercise("e1")

	if _, err := e.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	if backend.lastID != "c1" {
		t.Errorf("update sent to wrong id %q", backend.lastID)
	}
	req := backend.lastUpdate
	if req.ActiveDays != 14 || req.Notes != "updated" {
		t.Errorf("unexpected update payload: %+v", req)
	}
	if len(req.RecommendedExercises) != 2 || req.RecommendedExercises[0] != "e2" || req.RecommendedExercises[1] != "e3" {
		t.Errorf("update must carry the full modified id list, got %v", req.RecommendedExercises)
	}
	if e.Editing() {
		t.Errorf("save should leave edit mode")
	}
}

func TestEditor_SaveFailureKeepsEditState(t *testing.T) {
	backend := &fakeBackend{updateErr: errBackendDown}
	e := newTestEditor(backend, date(2024, time.January, 5))
	e.Open(persistedConsultation())
	if err := e.BeginEdit(); err != nil {
		t.Fatal(err)
	}
	if err := e.SetNotes("changed"); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Save(context.Background()); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if !e.Editing() || e.Notes() != "changed" {
		t.Errorf("failed save must not discard the edit session")
	}
}

func TestEditor_MutationsRequireEditMode(t *testing.T) {
	e := newTestEditor(&fakeBackend{}, date(2024, time.January, 5))
	e.Open(persistedConsultation())

	if err := e.SetActiveDays(10); !errors.Is(err, ErrNotEditing) {
		t.Errorf("SetActiveDays outside edit mode: %v", err)
	}
	if err := e.AddExercise(exercise("e9", "Row")); !errors.Is(err, ErrNotEditing) {
		t.Errorf("AddExercise outside edit mode: %v", err)
	}
	if _, err := e.Save(context.Background()); !errors.Is(err, ErrNotEditing) {
		t.Errorf("Save outside edit mode: %v", err)
	}
}

func TestEditor_DeleteRequiresConfirmationWithPatientName(t *testing.T) {
	backend := &fakeBackend{}
	e := newTestEditor(backend, date(2024, time.January, 5))
	e.Open(persistedConsultation())

	var shownName string
	err := e.Delete(context.Background(), func(patientName string) bool {
		shownName = patientName
		return false
	})
	if !errors.Is(err, ErrDeleteCancelled) {
		t.Fatalf("expected ErrDeleteCancelled, got %v", err)
	}
	if shownName != "Jane Doe" {
		t.Errorf("confirmation must display the patient name, got %q", shownName)
	}
	if len(backend.calls) != 0 {
		t.Errorf("declined confirmation must not reach the backend, calls: %v", backend.calls)
	}

	if err := e.Delete(context.Background(), func(string) bool { return true }); err != nil {
		t.Fatal(err)
	}
	if backend.lastID != "c1" {
		t.Errorf("delete sent to wrong id %q", backend.lastID)
	}
	if e.Consultation() != nil {
		t.Errorf("editor should be empty after delete")
	}
}
