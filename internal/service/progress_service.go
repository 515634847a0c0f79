package service

import (
	"math"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/internal/statestore"
)

// ProgressSummary is the per-course completion readout.
type ProgressSummary struct {
	CourseID       uint   `json:"course_id"`
	CompletedCount int    `json:"completed_count"`
	LessonCount    int    `json:"lesson_count"`
	Percent        int    `json:"percent"`
	CompletedIDs   []uint `json:"completed_ids"`
}

// ProgressService tracks which lessons a user finished. Marking the same
// lesson twice is a no-op; the completed set only grows.
type ProgressService struct {
	lessonRepo repository.LessonRepository
	store      *statestore.Store
}

func NewProgressService(lessonRepo repository.LessonRepository, store *statestore.Store) *ProgressService {
	return &ProgressService{lessonRepo: lessonRepo, store: store}
}

// MarkComplete records a finished lesson and returns the updated summary. The
// lesson must belong to the course.
func (s *ProgressService) MarkComplete(userID, courseID, lessonID uint) (*ProgressSummary, error) {
	lessons, err := s.lessonRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, lesson := range lessons {
		if lesson.ID == lessonID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrLessonNotFound
	}

	record := s.store.Progress(userID, courseID)
	record.Completed[lessonID] = true
	if err := s.store.SaveProgress(userID, courseID, record); err != nil {
		return nil, err
	}

	return summarize(courseID, lessons, record), nil
}

// Summary returns the current completion state without modifying it.
func (s *ProgressService) Summary(userID, courseID uint) (*ProgressSummary, error) {
	lessons, err := s.lessonRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	record := s.store.Progress(userID, courseID)
	return summarize(courseID, lessons, record), nil
}

func summarize(courseID uint, lessons []models.Lesson, record statestore.ProgressRecord) *ProgressSummary {
	completedIDs := make([]uint, 0, len(record.Completed))
	completed := 0
	for _, lesson := range lessons {
		if record.Completed[lesson.ID] {
			completed++
			completedIDs = append(completedIDs, lesson.ID)
		}
	}

	return &ProgressSummary{
		CourseID:       courseID,
		CompletedCount: completed,
		LessonCount:    len(lessons),
		Percent:        ProgressPercent(completed, len(lessons)),
		CompletedIDs:   completedIDs,
	}
}

// ProgressPercent is the completion ratio rounded to the nearest whole
// percent. A course with no lessons reads as 0, never a division error.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
