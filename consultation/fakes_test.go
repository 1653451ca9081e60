package consultation

import (
	"context"
	"errors"

	"golang-physioconsult/api"
	"golang-physioconsult/models"
)

// fakeDirectory implements PatientDirectory and ExerciseDirectory over
// fixtures and records every call so ordering can be asserted.
type fakeDirectory struct {
	patients  []models.Patient
	exercises []models.Exercise

	calls        []string
	registerErr  error
	listErr      error
	registeredID string
	lastRegister api.RegisterPatientRequest
}

func (f *fakeDirectory) ListPatients(ctx context.Context) ([]models.Patient, error) {
	f.calls = append(f.calls, "ListPatients")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.patients, nil
}

func (f *fakeDirectory) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	f.calls = append(f.calls, "ListExercises")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.exercises, nil
}

func (f *fakeDirectory) RegisterPatient(ctx context.Context, req api.RegisterPatientRequest) (string, error) {
	f.calls = append(f.calls, "RegisterPatient")
	f.lastRegister = req
	if f.registerErr != nil {
		return "", f.registerErr
	}
	if f.registeredID == "" {
		f.registeredID = "patient-created"
	}
	return f.registeredID, nil
}

// fakeBackend implements Backend over fixtures with call recording.
type fakeBackend struct {
	consultations []models.Consultation

	calls       []string
	createErr   error
	updateErr   error
	deleteErr   error
	listErr     error
	createBlock chan struct{}
	lastCreate  api.CreateConsultationRequest
	lastUpdate  api.UpdateConsultationRequest
	lastID      string
	created     *models.Consultation
	updated     *models.Consultation
}

func (f *fakeBackend) ListConsultations(ctx context.Context) ([]models.Consultation, error) {
	f.calls = append(f.calls, "ListConsultations")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.consultations, nil
}

func (f *fakeBackend) CreateConsultation(ctx context.Context, req api.CreateConsultationRequest) (*models.Consultation, error) {
	f.calls = append(f.calls, "CreateConsultation")
	f.lastCreate = req
	if f.createBlock != nil {
		<-f.createBlock
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &models.Consultation{ID: "consultation-created"}, nil
}

func (f *fakeBackend) UpdateConsultation(ctx context.Context, id string, req api.UpdateConsultationRequest) (*models.Consultation, error) {
	f.calls = append(f.calls, "UpdateConsultation")
	f.lastID = id
	f.lastUpdate = req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updated != nil {
		return f.updated, nil
	}
	return &models.Consultation{ID: id}, nil
}

func (f *fakeBackend) DeleteConsultation(ctx context.Context, id string) error {
	f.calls = append(f.calls, "DeleteConsultation")
	f.lastID = id
	return f.deleteErr
}

var errBackendDown = errors.New("backend unavailable")

func exercise(id, title string) models.Exercise {
	return models.Exercise{
		ID:       id,
		Title:    title,
		Category: "strength",
		Reps:     10,
		Hold:     5,
		Set:      3,
		Perform:  models.Perform{Count: 2, Unit: "day"},
	}
}
