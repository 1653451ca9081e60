package consultation

import (
	"errors"

	"github.com/google/uuid"

	"golang-physioconsult/models"
	"golang-physioconsult/selection"
)

// Step is the wizard position. Transitions move strictly forward or
// backward by one step; backward navigation never resets collected
// state.
type Step int

const (
	StepSelectPatient   Step = 1
	StepSelectExercises Step = 2
	StepFinalize        Step = 3
)

var (
	ErrNoPatient         = errors.New("select an existing patient or enter new patient details")
	ErrNoExercises       = errors.New("select at least one exercise")
	ErrInvalidActiveDays = errors.New("active days must be at least 1")
	ErrAtFinalStep       = errors.New("the wizard is already at the final step")
)

const defaultActiveDays = 7

// Draft is the in-memory state of a consultation being constructed. It
// exists only until submit succeeds or the wizard is cancelled.
type Draft struct {
	ID string

	step       Step
	patient    *models.Patient
	newPatient *models.NewPatient

	selected []models.Exercise
	ids      *selection.Set

	ActiveDays int
	Notes      string
}

func NewDraft() *Draft {
	return &Draft{
		ID:         uuid.NewString(),
		step:       StepSelectPatient,
		ids:        selection.NewSet(),
		ActiveDays: defaultActiveDays,
	}
}

func (d *Draft) Step() Step {
	return d.step
}

// SelectPatient picks an existing roster patient, discarding any new
// patient fields entered earlier.
func (d *Draft) SelectPatient(p models.Patient) {
	d.patient = &p
	d.newPatient = nil
}

// EnterNewPatient records inline registration fields, discarding any
// previously selected roster patient.
func (d *Draft) EnterNewPatient(np models.NewPatient) {
	d.newPatient = &np
	d.patient = nil
}

func (d *Draft) Patient() *models.Patient {
	return d.patient
}

func (d *Draft) NewPatient() *models.NewPatient {
	return d.newPatient
}

// SetPatient stores the durable patient reference once an inline
// registration has resolved, so a retry after a later failure does not
// register the patient twice.
func (d *Draft) SetPatient(p models.Patient) {
	d.patient = &p
	d.newPatient = nil
}

// ToggleExercise adds the exercise to the selection, or removes it when
// already selected. It reports whether the exercise is selected after
// the call.
func (d *Draft) ToggleExercise(ex models.Exercise) bool {
	if !d.ids.Toggle(ex.ID) {
		for i, sel := range d.selected {
			if sel.ID == ex.ID {
				d.selected = append(d.selected[:i], d.selected[i+1:]...)
				break
			}
		}
		return false
	}
	d.selected = append(d.selected, ex)
	return true
}

func (d *Draft) Selected(id string) bool {
	return d.ids.Contains(id)
}

// SelectedExercises returns the selection in insertion order.
func (d *Draft) SelectedExercises() []models.Exercise {
	out := make([]models.Exercise, len(d.selected))
	copy(out, d.selected)
	return out
}

func (d *Draft) ExerciseIDs() []string {
	return d.ids.IDs()
}

// PatientSummary is the read-only patient line shown on the finalize
// step: the resolved roster identity, or the pending registration
// fields when the patient will be created on submit.
func (d *Draft) PatientSummary() (fullName, email string) {
	if d.patient != nil {
		return d.patient.FullName, d.patient.Email
	}
	if d.newPatient != nil {
		return d.newPatient.FullName, d.newPatient.Email
	}
	return "", ""
}

// Next advances the wizard one step, enforcing the gate for the current
// step: a resolved-or-valid patient to leave step 1, a non-empty
// exercise selection to leave step 2.
func (d *Draft) Next() error {
	switch d.step {
	case StepSelectPatient:
		if d.patient == nil {
			if d.newPatient == nil {
				return ErrNoPatient
			}
			if err := ValidateNewPatient(*d.newPatient); err != nil {
				return err
			}
		}
		d.step = StepSelectExercises
	case StepSelectExercises:
		if d.ids.Len() == 0 {
			return ErrNoExercises
		}
		d.step = StepFinalize
	default:
		return ErrAtFinalStep
	}
	return nil
}

// Back moves one step backward. All collected state is preserved.
func (d *Draft) Back() {
	if d.step > StepSelectPatient {
		d.step--
	}
}

// Complete reports whether the draft is sitting on the finalize step
// with a submittable payload.
func (d *Draft) Complete() bool {
	return d.step == StepFinalize && d.ids.Len() > 0 && d.ActiveDays >= 1 &&
		(d.patient != nil || d.newPatient != nil)
}

// Reset discards everything and returns the wizard to step one. Called
// after a successful submit or an explicit cancel.
func (d *Draft) Reset() {
	d.step = StepSelectPatient
	d.patient = nil
	d.newPatient = nil
	d.selected = nil
	d.ids.Clear()
	d.ActiveDays = defaultActiveDays
	d.Notes = ""
}
