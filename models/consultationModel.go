package models

import "time"

type ConsultationStatus string

const (
	StatusActive   ConsultationStatus = "active"
	StatusInactive ConsultationStatus = "inactive"
	StatusPending  ConsultationStatus = "pending"
	StatusRejected ConsultationStatus = "rejected"
)

// Consultation is a therapist-authored, time-bounded treatment assignment
// linking one patient to an ordered, duplicate-free set of recommended
// exercises. The backend populates Patient and RecommendedExercises on
// reads; writes carry exercise ids only. Notes travel on the wire as
// "desp".
type Consultation struct {
	ID                   string             `json:"_id"`
	TherapistID          string             `json:"therapist"`
	Patient              Patient            `json:"patient"`
	RecommendedExercises []Exercise         `json:"recommendedExercises"`
	Status               ConsultationStatus `json:"status"`
	ExpiresOn            time.Time          `json:"expiresOn"`
	Notes                string             `json:"desp"`
	CreatedAt            time.Time          `json:"createdAt"`
}

// ExerciseIDs returns the ids of the recommended exercises in order.
func (c Consultation) ExerciseIDs() []string {
	ids := make([]string, 0, len(c.RecommendedExercises))
	for _, ex := range c.RecommendedExercises {
		ids = append(ids, ex.ID)
	}
	return ids
}
