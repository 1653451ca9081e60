// Package consultation implements the therapist-side consultation
// lifecycle: the three-step creation wizard, patient resolution,
// exercise catalog selection, submission, the detail editor and the
// list view. The backend is reached only through the api client; these
// interfaces exist so tests can substitute recording fakes.
package consultation

import (
	"context"

	"golang-physioconsult/api"
	"golang-physioconsult/models"
)

// PatientDirectory is the roster/search/create surface of the backend.
type PatientDirectory interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	RegisterPatient(ctx context.Context, req api.RegisterPatientRequest) (string, error)
}

// ExerciseDirectory exposes the read-only exercise catalog.
type ExerciseDirectory interface {
	ListExercises(ctx context.Context) ([]models.Exercise, error)
}

// Backend is the consultation CRUD surface of the api client.
type Backend interface {
	ListConsultations(ctx context.Context) ([]models.Consultation, error)
	CreateConsultation(ctx context.Context, req api.CreateConsultationRequest) (*models.Consultation, error)
	UpdateConsultation(ctx context.Context, id string, req api.UpdateConsultationRequest) (*models.Consultation, error)
	DeleteConsultation(ctx context.Context, id string) error
}
