package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"shiine-academy-backend/pkg/cache"
	"shiine-academy-backend/pkg/logger"
)

// View names the screen a user is currently on.
type View string

const (
	ViewCatalog         = View("catalog")
	ViewAwaitingAuth    = View("awaiting_auth")
	ViewAwaitingPayment = View("awaiting_payment")
	ViewPlayer          = View("player")
	ViewAdmin           = View("admin")
)

// NavigationState is the per-user snapshot of where the user is in the app.
// PendingCourseID survives the auth hand-off: a visitor who picks a paid
// course, signs in and comes back lands on the payment step for that course.
type NavigationState struct {
	View            View `json:"view"`
	CourseID        uint `json:"course_id,omitempty"`
	Preview         bool `json:"preview,omitempty"`
	PendingCourseID uint `json:"pending_course_id,omitempty"`
}

// ProgressRecord tracks lesson completion and the last viewed lesson for one
// user/course pair. Completed is keyed by lesson id so marking a lesson twice
// is a no-op.
type ProgressRecord struct {
	CurrentLessonID uint          `json:"current_lesson_id,omitempty"`
	Completed       map[uint]bool `json:"completed,omitempty"`
	QuizScore       *int          `json:"quiz_score,omitempty"`
}

// DefaultNavigation is the state every unknown or corrupt snapshot decodes
// to: the catalog, nothing selected.
func DefaultNavigation() NavigationState {
	return NavigationState{View: ViewCatalog}
}

func DefaultProgress() ProgressRecord {
	return ProgressRecord{Completed: map[uint]bool{}}
}

// Store persists navigation and progress snapshots in Redis. When Redis is
// disabled it falls back to an in-process map, which is enough for a single
// instance and keeps the service usable without the dependency.
type Store struct {
	cache *cache.Cache

	mu     sync.RWMutex
	memory map[string]string
}

func NewStore(c *cache.Cache) *Store {
	return &Store{
		cache:  c,
		memory: make(map[string]string),
	}
}

func navigationKey(userID uint) string {
	return fmt.Sprintf("state:nav:%d", userID)
}

func progressKey(userID, courseID uint) string {
	return fmt.Sprintf("state:progress:%d:%d", userID, courseID)
}

func (s *Store) load(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	if s.cache.Enabled() {
		raw, err := s.cache.GetString(key)
		if err != nil {
			return "", false
		}
		return raw, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.memory[key]
	return raw, ok
}

func (s *Store) save(key, raw string) error {
	if s == nil {
		return errors.New("state store is not initialised")
	}
	if s.cache.Enabled() {
		return s.cache.SetString(key, raw, 0)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.memory[key] = raw
	return nil
}

func (s *Store) delete(key string) {
	if s == nil {
		return
	}
	if s.cache.Enabled() {
		_ = s.cache.Delete(key)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memory, key)
}

// Navigation returns the user's snapshot. A missing or undecodable value
// yields the default state rather than an error; a corrupt snapshot must
// never lock a user out of the catalog.
func (s *Store) Navigation(userID uint) NavigationState {
	raw, ok := s.load(navigationKey(userID))
	if !ok {
		return DefaultNavigation()
	}

	var state NavigationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil || state.View == "" {
		logger.Warn("Discarding corrupt navigation state", map[string]interface{}{
			"user_id": userID,
		})
		return DefaultNavigation()
	}
	return state
}

func (s *Store) SaveNavigation(userID uint, state NavigationState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.save(navigationKey(userID), string(raw))
}

func (s *Store) ClearNavigation(userID uint) {
	s.delete(navigationKey(userID))
}

// Progress returns the progress record for a user/course pair, defaulting on
// miss or corruption the same way Navigation does.
func (s *Store) Progress(userID, courseID uint) ProgressRecord {
	raw, ok := s.load(progressKey(userID, courseID))
	if !ok {
		return DefaultProgress()
	}

	var record ProgressRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logger.Warn("Discarding corrupt progress record", map[string]interface{}{
			"user_id":   userID,
			"course_id": courseID,
		})
		return DefaultProgress()
	}
	if record.Completed == nil {
		record.Completed = map[uint]bool{}
	}
	return record
}

func (s *Store) SaveProgress(userID, courseID uint, record ProgressRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.save(progressKey(userID, courseID), string(raw))
}

// Purge drops everything stored for a user: the navigation snapshot and the
// progress records of every course. Used when the account itself is removed.
func (s *Store) Purge(userID uint) {
	if s == nil {
		return
	}
	s.delete(navigationKey(userID))

	prefix := fmt.Sprintf("state:progress:%d:", userID)
	if s.cache.Enabled() {
		if err := s.cache.DeletePattern(prefix + "*"); err != nil {
			logger.Error(err, "Failed to purge progress records", map[string]interface{}{
				"user_id": userID,
			})
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.memory {
		if strings.HasPrefix(key, prefix) {
			delete(s.memory, key)
		}
	}
}
