package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

// ErrNoSession is returned when no therapist session has been persisted.
var ErrNoSession = errors.New("no therapist session found")

// TherapistSession is the client-persisted session blob. The token is
// attached as a bearer header on every backend call.
type TherapistSession struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// SignedDetails mirrors the claims the backend embeds in its tokens.
type SignedDetails struct {
	Email    string
	FullName string
	UserID   string
	jwt.StandardClaims
}

// Claims decodes the token payload without verifying the signature; the
// client has no signing key, it only introspects identity and expiry.
func (s *TherapistSession) Claims() (*SignedDetails, error) {
	claims := &SignedDetails{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	return claims, nil
}

// Expired reports whether the session token has passed its expiry claim.
// A token without claims is treated as expired.
func (s *TherapistSession) Expired(now time.Time) bool {
	claims, err := s.Claims()
	if err != nil {
		return true
	}
	return claims.ExpiresAt < now.Unix()
}

// Store is the single typed access point to the persisted therapist
// session. Components take a Store instead of decoding the session blob
// themselves, so tests can substitute the in-memory implementation.
type Store interface {
	Session() (*TherapistSession, error)
	Save(*TherapistSession) error
	Clear() error
}

// FileStore persists the session as a JSON file, the client-side
// equivalent of the browser key-value store.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Session() (*TherapistSession, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var sess TherapistSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (f *FileStore) Save(sess *TherapistSession) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemStore is the in-memory Store used by tests.
type MemStore struct {
	sess *TherapistSession
}

func NewMemStore(sess *TherapistSession) *MemStore {
	return &MemStore{sess: sess}
}

func (m *MemStore) Session() (*TherapistSession, error) {
	if m.sess == nil || m.sess.Token == "" {
		return nil, ErrNoSession
	}
	return m.sess, nil
}

func (m *MemStore) Save(sess *TherapistSession) error {
	m.sess = sess
	return nil
}

func (m *MemStore) Clear() error {
	m.sess = nil
	return nil
}
