package apitest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"golang-physioconsult/models"
)

func (s *Server) register(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Creator  string `json:"creator"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.patients {
		if p.Email == req.Email {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User could not be created"})
		return
	}

	patient := models.Patient{
		ID:       uuid.NewString(),
		FullName: req.FullName,
		Email:    req.Email,
	}
	s.patients = append(s.patients, patient)
	s.passwords[req.Email] = string(hash)

	c.JSON(http.StatusOK, gin.H{
		"_id":   patient.ID,
		"token": s.mintToken(patient.ID, patient.FullName, patient.Email),
	})
}

func (s *Server) listPatients(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients := make([]models.Patient, len(s.patients))
	copy(patients, s.patients)
	c.JSON(http.StatusOK, patients)
}

func (s *Server) listExercises(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exercises := make([]models.Exercise, len(s.exercises))
	copy(exercises, s.exercises)
	c.JSON(http.StatusOK, exercises)
}

func (s *Server) listConsultations(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	therapistID := c.GetString("user_id")
	out := make([]models.Consultation, 0, len(s.order))
	for _, id := range s.order {
		sc := s.consultations[id]
		if sc.TherapistID != therapistID {
			continue
		}
		out = append(out, s.populate(sc))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createConsultation(c *gin.Context) {
	var req struct {
		UserID     string   `json:"userId" validate:"required"`
		Exercises  []string `json:"exercises" validate:"required,min=1,dive,required"`
		ActiveDays int      `json:"activeDays" validate:"required,min=1"`
		Notes      string   `json:"desp"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findPatient(req.UserID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Patient not found"})
		return
	}
	for _, id := range req.Exercises {
		if _, ok := s.findExercise(id); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Some exercises not found"})
			return
		}
	}

	now := s.Now()
	sc := &storedConsultation{
		ID:          uuid.NewString(),
		TherapistID: c.GetString("user_id"),
		PatientID:   req.UserID,
		ExerciseIDs: req.Exercises,
		Status:      models.StatusActive,
		ExpiresOn:   midnight(now).AddDate(0, 0, req.ActiveDays),
		Notes:       req.Notes,
		CreatedAt:   now,
	}
	s.consultations[sc.ID] = sc
	s.order = append(s.order, sc.ID)

	c.JSON(http.StatusOK, s.populate(sc))
}

func (s *Server) updateConsultation(c *gin.Context) {
	var req struct {
		ActiveDays           int      `json:"activeDays" validate:"min=0"`
		Notes                string   `json:"desp"`
		RecommendedExercises []string `json:"recommendedExercises" validate:"required,min=1,dive,required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.consultations[c.Param("id")]
	if !ok || sc.TherapistID != c.GetString("user_id") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
		return
	}
	for _, id := range req.RecommendedExercises {
		if _, ok := s.findExercise(id); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Some exercises not found"})
			return
		}
	}

	sc.ExerciseIDs = req.RecommendedExercises
	sc.Notes = req.Notes
	sc.ExpiresOn = midnight(s.Now()).AddDate(0, 0, req.ActiveDays)

	c.JSON(http.StatusOK, s.populate(sc))
}

func (s *Server) deleteConsultation(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	sc, ok := s.consultations[id]
	if !ok || sc.TherapistID != c.GetString("user_id") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
		return
	}

	delete(s.consultations, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted consultation successfully"})
}

// SeedTherapist registers a therapist fixture and returns its id and a
// valid bearer token.
func (s *Server) SeedTherapist(fullName, email string) (id, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = uuid.NewString()
	return id, s.mintToken(id, fullName, email)
}

// SeedPatient inserts a roster patient fixture.
func (s *Server) SeedPatient(fullName, email string) models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient := models.Patient{ID: uuid.NewString(), FullName: fullName, Email: email}
	s.patients = append(s.patients, patient)
	return patient
}

// SeedExercise inserts a catalog exercise fixture.
func (s *Server) SeedExercise(title, category string) models.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex := models.Exercise{
		ID:       uuid.NewString(),
		Title:    title,
		Category: category,
		Reps:     10,
		Hold:     5,
		Set:      3,
		Perform:  models.Perform{Count: 2, Unit: "day"},
	}
	s.exercises = append(s.exercises, ex)
	return ex
}

// SeedConsultation inserts a consultation fixture owned by the given
// therapist, expiring activeDays after the server clock's today.
func (s *Server) SeedConsultation(therapistID, patientID string, exerciseIDs []string, activeDays int, notes string) models.Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	sc := &storedConsultation{
		ID:          uuid.NewString(),
		TherapistID: therapistID,
		PatientID:   patientID,
		ExerciseIDs: append([]string(nil), exerciseIDs...),
		Status:      models.StatusActive,
		ExpiresOn:   midnight(now).AddDate(0, 0, activeDays),
		Notes:       notes,
		CreatedAt:   now,
	}
	s.consultations[sc.ID] = sc
	s.order = append(s.order, sc.ID)
	return s.populate(sc)
}
