package consultation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"golang-physioconsult/api"
	"golang-physioconsult/models"
)

var validate = validator.New()

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidEmail     = errors.New("enter a valid email address")
	ErrMissingFields    = errors.New("fill in all patient fields")
	ErrRosterNotLoaded  = errors.New("patient roster has not been loaded")
)

// ValidateNewPatient checks the inline registration fields before any
// network call: all fields present, password confirmed and long enough,
// email syntactically valid.
func ValidateNewPatient(np models.NewPatient) error {
	if np.Password != np.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := validate.Struct(np); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			switch {
			case fe.Field() == "Email":
				return ErrInvalidEmail
			case fe.Field() == "Password" && fe.Tag() == "min":
				return ErrPasswordTooShort
			}
		}
		return ErrMissingFields
	}
	return nil
}

// PatientResolver finds an existing patient in the therapist's cached
// roster or registers a new one inline.
type PatientResolver struct {
	dir         PatientDirectory
	therapistID string

	roster []models.Patient
	loaded bool

	log zerolog.Logger
}

func NewPatientResolver(dir PatientDirectory, therapistID string, log zerolog.Logger) *PatientResolver {
	return &PatientResolver{
		dir:         dir,
		therapistID: therapistID,
		log:         log.With().Str("component", "resolver").Logger(),
	}
}

// Load fetches the roster once; later calls are no-ops. Use Refresh to
// force a refetch after an inline registration.
func (r *PatientResolver) Load(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	return r.Refresh(ctx)
}

func (r *PatientResolver) Refresh(ctx context.Context) error {
	patients, err := r.dir.ListPatients(ctx)
	if err != nil {
		return fmt.Errorf("load patient roster: %w", err)
	}
	r.roster = patients
	r.loaded = true
	r.log.Debug().Int("patients", len(patients)).Msg("roster loaded")
	return nil
}

// Search returns roster entries whose name or email contains the query,
// case-insensitively. An empty query returns the whole roster.
func (r *PatientResolver) Search(query string) []models.Patient {
	query = strings.ToLower(strings.TrimSpace(query))
	var matches []models.Patient
	for _, p := range r.roster {
		if query == "" ||
			strings.Contains(strings.ToLower(p.FullName), query) ||
			strings.Contains(strings.ToLower(p.Email), query) {
			matches = append(matches, p)
		}
	}
	return matches
}

// Create validates the fields, registers the patient with the creating
// therapist recorded as provenance, and returns the durable reference.
// On any failure nothing is created and the caller's draft is left as
// it was.
func (r *PatientResolver) Create(ctx context.Context, np models.NewPatient) (models.Patient, error) {
	if err := ValidateNewPatient(np); err != nil {
		return models.Patient{}, err
	}

	id, err := r.dir.RegisterPatient(ctx, api.RegisterPatientRequest{
		FullName: np.FullName,
		Email:    np.Email,
		Password: np.Password,
		Creator:  r.therapistID,
	})
	if err != nil {
		r.log.Error().Err(err).Str("email", np.Email).Msg("patient registration failed")
		return models.Patient{}, fmt.Errorf("register patient: %w", err)
	}

	created := models.Patient{ID: id, FullName: np.FullName, Email: np.Email}
	r.roster = append(r.roster, created)
	r.log.Info().Str("patient_id", id).Msg("patient registered")
	return created, nil
}
