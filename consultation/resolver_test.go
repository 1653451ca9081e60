package consultation

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"golang-physioconsult/models"
)

func newTestResolver(dir *fakeDirectory) *PatientResolver {
	return NewPatientResolver(dir, "therapist-1", zerolog.Nop())
}

func TestResolver_SearchMatchesNameAndEmail(t *testing.T) {
	dir := &fakeDirectory{patients: []models.Patient{
		{ID: "p1", FullName: "Jane Doe", Email: "j@x.com"},
		{ID: "p2", FullName: "Bob", Email: "jane.bob@x.com"},
		{ID: "p3", FullName: "Carol", Email: "carol@x.com"},
	}}
	r := newTestResolver(dir)
	if err := r.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	matches := r.Search("jane")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "jane", len(matches))
	}
	if matches[0].ID != "p1" || matches[1].ID != "p2" {
		t.Errorf("unexpected matches: %+v", matches)
	}

	if got := r.Search("CAROL"); len(got) != 1 || got[0].ID != "p3" {
		t.Errorf("search should be case-insensitive, got %+v", got)
	}

	if got := r.Search(""); len(got) != 3 {
		t.Errorf("empty query should return the whole roster, got %d", len(got))
	}
	if got := r.Search("nobody"); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

func TestResolver_LoadFetchesRosterOnce(t *testing.T) {
	dir := &fakeDirectory{}
	r := newTestResolver(dir)

	if err := r.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := r.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(dir.calls) != 1 {
		t.Errorf("expected a single roster fetch, got %v", dir.calls)
	}
}

func TestResolver_ValidateNewPatient(t *testing.T) {
	valid := models.NewPatient{FullName: "Jane Doe", Email: "j@x.com", Password: "abc123", ConfirmPassword: "abc123"}

	cases := []struct {
		name   string
		mutate func(*models.NewPatient)
		want   error
	}{
		{"valid", func(np *models.NewPatient) {}, nil},
		{"password mismatch", func(np *models.NewPatient) { np.ConfirmPassword = "abc124" }, ErrPasswordMismatch},
		{"short password", func(np *models.NewPatient) { np.Password = "abc"; np.ConfirmPassword = "abc" }, ErrPasswordTooShort},
		{"email without at sign", func(np *models.NewPatient) { np.Email = "not-an-email" }, ErrInvalidEmail},
		{"missing name", func(np *models.NewPatient) { np.FullName = "" }, ErrMissingFields},
	}

	for _, tc := range cases {
		np := valid
		tc.mutate(&np)
		err := ValidateNewPatient(np)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestResolver_CreateCarriesTherapistProvenance(t *testing.T) {
	dir := &fakeDirectory{registeredID: "p-new"}
	r := newTestResolver(dir)

	created, err := r.Create(context.Background(), models.NewPatient{
		FullName: "New Patient", Email: "new@x.com",
		Password: "abc123", ConfirmPassword: "abc123",
	})
	if err != nil {
		t.Fatal(err)
	}

	if created.ID != "p-new" {
		t.Errorf("expected durable id from backend, got %q", created.ID)
	}
	if dir.lastRegister.Creator != "therapist-1" {
		t.Errorf("creator provenance tag missing: %+v", dir.lastRegister)
	}

	// The fresh patient joins the cached roster.
	if got := r.Search("new@x.com"); len(got) != 1 {
		t.Errorf("created patient not searchable, got %+v", got)
	}
}

func TestResolver_CreateRejectsInvalidFieldsWithoutNetworkCall(t *testing.T) {
	dir := &fakeDirectory{}
	r := newTestResolver(dir)

	_, err := r.Create(context.Background(), models.NewPatient{
		FullName: "New Patient", Email: "new@x.com",
		Password: "abc123", ConfirmPassword: "abc124",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if len(dir.calls) != 0 {
		t.Errorf("validation failure must not reach the backend, calls: %v", dir.calls)
	}
}

func TestResolver_CreatePropagatesServerFailure(t *testing.T) {
	dir := &fakeDirectory{registerErr: errBackendDown}
	r := newTestResolver(dir)

	_, err := r.Create(context.Background(), models.NewPatient{
		FullName: "New Patient", Email: "new@x.com",
		Password: "abc123", ConfirmPassword: "abc123",
	})
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if got := r.Search("new@x.com"); len(got) != 0 {
		t.Errorf("failed registration must not join the roster")
	}
}
