// Package apitest is an in-memory implementation of the platform
// backend contract, served over gin. Tests run the api client and the
// consultation workflow against it instead of a deployed backend. It
// mirrors the contract's observable behavior only: bearer-token auth,
// register with duplicate-email rejection, and consultation CRUD with
// server-derived expiresOn and status.
package apitest

import (
	"net/http"
	"strings"
	"sync"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"golang-physioconsult/models"
)

var validate = validator.New()

type signedDetails struct {
	Email    string
	FullName string
	UserID   string
	jwt.StandardClaims
}

type storedConsultation struct {
	ID          string
	TherapistID string
	PatientID   string
	ExerciseIDs []string
	Status      models.ConsultationStatus
	ExpiresOn   time.Time
	Notes       string
	CreatedAt   time.Time
}

// Server holds the fixture state behind the fake backend.
type Server struct {
	engine *gin.Engine
	secret string

	mu            sync.Mutex
	patients      []models.Patient
	passwords     map[string]string
	exercises     []models.Exercise
	consultations map[string]*storedConsultation
	order         []string

	// Now is the fake server clock, injectable for date assertions.
	Now func() time.Time
}

func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		engine:        gin.New(),
		secret:        "apitest-secret",
		passwords:     make(map[string]string),
		consultations: make(map[string]*storedConsultation),
		Now:           time.Now,
	}

	public := s.engine.Group("/")
	{
		public.POST("/users/register", s.register)
	}

	private := s.engine.Group("/therapist")
	private.Use(s.authentication())
	{
		private.GET("/users", s.listPatients)
		private.GET("/exercises", s.listExercises)
		private.GET("/consultations", s.listConsultations)
		private.POST("/consultations", s.createConsultation)
		private.PUT("/consultations/:id", s.updateConsultation)
		private.DELETE("/consultations/:id", s.deleteConsultation)
	}

	return s
}

// Handler exposes the fake backend for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) mintToken(userID, fullName, email string) string {
	claims := &signedDetails{
		Email:    email,
		FullName: fullName,
		UserID:   userID,
		StandardClaims: jwt.StandardClaims{
			// jwt.ParseWithClaims checks exp against the real wall
			// clock, so the token's expiry must come from time.Now();
			// s.Now exists only for consultation-expiry semantics.
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			return
		}

		claims := &signedDetails{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(token *jwt.Token) (interface{}, error) {
				return []byte(s.secret), nil
			})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Server) deriveStatus(sc *storedConsultation) models.ConsultationStatus {
	if sc.Status == models.StatusPending || sc.Status == models.StatusRejected {
		return sc.Status
	}
	if sc.ExpiresOn.After(s.Now()) {
		return models.StatusActive
	}
	return models.StatusInactive
}

func (s *Server) findPatient(id string) (models.Patient, bool) {
	for _, p := range s.patients {
		if p.ID == id {
			return p, true
		}
	}
	return models.Patient{}, false
}

func (s *Server) findExercise(id string) (models.Exercise, bool) {
	for _, ex := range s.exercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return models.Exercise{}, false
}

func (s *Server) populate(sc *storedConsultation) models.Consultation {
	patient, _ := s.findPatient(sc.PatientID)
	exercises := make([]models.Exercise, 0, len(sc.ExerciseIDs))
	for _, id := range sc.ExerciseIDs {
		if ex, ok := s.findExercise(id); ok {
			exercises = append(exercises, ex)
		}
	}
	return models.Consultation{
		ID:                   sc.ID,
		TherapistID:          sc.TherapistID,
		Patient:              patient,
		RecommendedExercises: exercises,
		Status:               s.deriveStatus(sc),
		ExpiresOn:            sc.ExpiresOn,
		Notes:                sc.Notes,
		CreatedAt:            sc.CreatedAt,
	}
}
