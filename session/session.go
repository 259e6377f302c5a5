// Package session keeps per-visitor prediction state between form submissions.
package session

import (
	"errors"
	"sync"
	"time"

	"diabetescheck/ml"
	"diabetescheck/patient"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrNoPrediction     = errors.New("session has no prediction")
	ErrFeedbackRecorded = errors.New("feedback already recorded for this prediction")
)

// DefaultCapacity bounds the number of live sessions.
const DefaultCapacity = 1024

// Session is a snapshot of one visitor's state. Outcome is nil until the
// first prediction and after a reset.
type Session struct {
	ID            string           `json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	Patient       *patient.Patient `json:"patient,omitempty"`
	Outcome       *ml.Outcome      `json:"outcome,omitempty"`
	FeedbackGiven bool             `json:"feedback_given"`
}

func (s Session) clone() Session {
	out := s
	if s.Patient != nil {
		p := *s.Patient
		out.Patient = &p
	}
	if s.Outcome != nil {
		o := *s.Outcome
		out.Outcome = &o
	}
	return out
}

// Store is an in-memory session table that evicts the least recently used
// session once capacity is reached.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Session]
	now   func() time.Time
}

// NewStore returns a Store holding at most capacity sessions.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[string, *Session](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache, now: time.Now}, nil
}

// Create registers a new empty session under a random ID.
func (s *Store) Create() Session {
	sess := &Session{ID: uuid.NewString(), CreatedAt: s.now().UTC()}
	s.mu.Lock()
	s.cache.Add(sess.ID, sess)
	s.mu.Unlock()
	return sess.clone()
}

// Get returns a copy of the session, or ErrNotFound if it expired or never existed.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess.clone(), nil
}

// RecordPrediction stores the latest outcome for the session. first reports
// whether the session had no outcome before this call. A new prediction
// reopens feedback.
func (s *Store) RecordPrediction(id string, p patient.Patient, outcome ml.Outcome) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return false, ErrNotFound
	}
	first := sess.Outcome == nil
	sess.Patient = &p
	sess.Outcome = &outcome
	sess.FeedbackGiven = false
	return first, nil
}

// MarkFeedback claims the feedback slot of the current prediction and
// returns the session as it was predicted.
func (s *Store) MarkFeedback(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	if sess.Outcome == nil || sess.Patient == nil {
		return Session{}, ErrNoPrediction
	}
	if sess.FeedbackGiven {
		return Session{}, ErrFeedbackRecorded
	}
	sess.FeedbackGiven = true
	return sess.clone(), nil
}

// UnmarkFeedback releases the feedback slot after a failed write.
func (s *Store) UnmarkFeedback(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.cache.Get(id); ok {
		sess.FeedbackGiven = false
	}
}

// Reset starts a new analysis on the session.
func (s *Store) Reset(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	sess.Patient = nil
	sess.Outcome = nil
	sess.FeedbackGiven = false
	return sess.clone(), nil
}

// Delete forgets the session. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	s.cache.Remove(id)
	s.mu.Unlock()
}

// Len reports how many sessions are held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
