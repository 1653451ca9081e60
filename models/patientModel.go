package models

// Patient is a member of the therapist's roster as returned by the backend.
type Patient struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// NewPatient holds the registration fields collected when a patient is
// created inline from the consultation wizard. The password is write-only:
// it is sent on the register call and never stored.
type NewPatient struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"required"`
}
