package consultation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"golang-physioconsult/api"
	"golang-physioconsult/models"
	"golang-physioconsult/task"
)

var ErrDraftIncomplete = errors.New("the draft has not reached the final step")

// SubmissionService turns a completed draft into backend writes:
// patient registration first when the draft carries a new patient, then
// consultation creation. The draft survives every failure path so the
// user can correct and retry without re-entering data; it is cleared
// only after the create call succeeds.
type SubmissionService struct {
	backend  Backend
	resolver *PatientResolver
	gate     task.Gate
	log      zerolog.Logger

	// OnComplete fires after a successful create, before the draft is
	// cleared. The list view hooks its refetch here; the created record
	// is never spliced into the list locally because expiresOn and
	// status are server-derived.
	OnComplete func(created *models.Consultation)
}

func NewSubmissionService(backend Backend, resolver *PatientResolver, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		backend:  backend,
		resolver: resolver,
		log:      log.With().Str("component", "submit").Logger(),
	}
}

// InFlight reports whether a submission is currently outstanding.
func (s *SubmissionService) InFlight() bool {
	return s.gate.Busy()
}

// Submit performs the causally ordered create sequence. The patient
// write must resolve before the consultation write is issued; on a
// registration failure no consultation is created at all.
func (s *SubmissionService) Submit(ctx context.Context, d *Draft) (*models.Consultation, error) {
	if !d.Complete() {
		if d.ActiveDays < 1 {
			return nil, ErrInvalidActiveDays
		}
		return nil, ErrDraftIncomplete
	}
	if !s.gate.TryAcquire() {
		return nil, task.ErrInFlight
	}
	defer s.gate.Release()

	patient := d.Patient()
	if patient == nil {
		created, err := s.resolver.Create(ctx, *d.NewPatient())
		if err != nil {
			return nil, err
		}
		// Keep the durable reference on the draft: a retry after a
		// failed consultation write must not register the patient again.
		d.SetPatient(created)
		patient = d.Patient()
	}

	createdConsultation, err := s.backend.CreateConsultation(ctx, api.CreateConsultationRequest{
		UserID:     patient.ID,
		Exercises:  d.ExerciseIDs(),
		ActiveDays: d.ActiveDays,
		Notes:      d.Notes,
	})
	if err != nil {
		s.log.Error().Err(err).Str("patient_id", patient.ID).Msg("consultation create failed")
		return nil, fmt.Errorf("create consultation: %w", err)
	}

	s.log.Info().Str("consultation_id", createdConsultation.ID).
		Str("patient_id", patient.ID).Int("exercises", len(d.ExerciseIDs())).
		Msg("consultation created")

	if s.OnComplete != nil {
		s.OnComplete(createdConsultation)
	}
	d.Reset()
	return createdConsultation, nil
}
