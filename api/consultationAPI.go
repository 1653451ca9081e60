package api

import (
	"context"
	"net/http"

	"golang-physioconsult/models"
)

// RegisterPatientRequest creates a patient account. Creator carries the
// provenance tag of the therapist who registered the patient inline.
type RegisterPatientRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Creator  string `json:"creator,omitempty"`
}

// RegisterPatientResponse mirrors the register endpoint: the durable id
// plus an optional token the patient can later sign in with.
type RegisterPatientResponse struct {
	ID    string `json:"_id"`
	Token string `json:"token,omitempty"`
}

type CreateConsultationRequest struct {
	UserID     string   `json:"userId"`
	Exercises  []string `json:"exercises"`
	ActiveDays int      `json:"activeDays"`
	Notes      string   `json:"desp"`
}

type UpdateConsultationRequest struct {
	ActiveDays           int      `json:"activeDays"`
	Notes                string   `json:"desp"`
	RecommendedExercises []string `json:"recommendedExercises"`
}

// ListPatients returns the therapist's patient roster.
func (c *Client) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := c.do(ctx, http.MethodGet, "/therapist/users", nil, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// ListExercises returns the full exercise catalog.
func (c *Client) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.do(ctx, http.MethodGet, "/therapist/exercises", nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// RegisterPatient creates a patient account and returns its durable id.
func (c *Client) RegisterPatient(ctx context.Context, req RegisterPatientRequest) (string, error) {
	var resp RegisterPatientResponse
	if err := c.do(ctx, http.MethodPost, "/users/register", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// ListConsultations returns every consultation owned by the
// authenticated therapist, with patient and exercises populated.
func (c *Client) ListConsultations(ctx context.Context) ([]models.Consultation, error) {
	var consultations []models.Consultation
	if err := c.do(ctx, http.MethodGet, "/therapist/consultations", nil, &consultations); err != nil {
		return nil, err
	}
	return consultations, nil
}

func (c *Client) CreateConsultation(ctx context.Context, req CreateConsultationRequest) (*models.Consultation, error) {
	var created models.Consultation
	if err := c.do(ctx, http.MethodPost, "/therapist/consultations", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateConsultation(ctx context.Context, id string, req UpdateConsultationRequest) (*models.Consultation, error) {
	var updated models.Consultation
	if err := c.do(ctx, http.MethodPut, "/therapist/consultations/"+id, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteConsultation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/therapist/consultations/"+id, nil, nil)
}
