package service

import (
	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/internal/statestore"
	"shiine-academy-backend/pkg/media"
)

// PlayerLesson is a lesson as the player sees it: the stored record plus the
// extracted YouTube id and a lock flag for preview viewers.
type PlayerLesson struct {
	models.Lesson
	YouTubeID string `json:"youtube_id"`
	Locked    bool   `json:"locked"`
}

// PlayerView is everything the player screen needs for one course.
type PlayerView struct {
	Course          *models.Course `json:"course"`
	Lessons         []PlayerLesson `json:"lessons"`
	CurrentLessonID uint           `json:"current_lesson_id"`
	Preview         bool           `json:"preview"`
	CompletedCount  int            `json:"completed_count"`
	ProgressPercent int            `json:"progress_percent"`
}

// LessonService assembles the player view and enforces preview gating: a
// preview viewer can watch the first lesson of a paid course and nothing
// else.
type LessonService struct {
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
	access     *AccessService
	store      *statestore.Store
}

func NewLessonService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	access *AccessService,
	store *statestore.Store,
) *LessonService {
	return &LessonService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		access:     access,
		store:      store,
	}
}

// Player builds the view for a course. A course with no lessons yields an
// empty lesson list, not an error; the player renders its empty state.
func (s *LessonService) Player(userID, courseID uint) (*PlayerView, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	lessons, err := s.lessonRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	preview := !s.access.HasFullAccess(userID, course)
	progress := s.store.Progress(userID, courseID)

	playerLessons := make([]PlayerLesson, 0, len(lessons))
	completed := 0
	for i, lesson := range lessons {
		if progress.Completed[lesson.ID] {
			completed++
		}
		playerLessons = append(playerLessons, PlayerLesson{
			Lesson:    lesson,
			YouTubeID: media.YouTubeVideoID(lesson.VideoURL),
			Locked:    preview && i > 0,
		})
	}

	current := progress.CurrentLessonID
	if current == 0 && len(lessons) > 0 {
		current = lessons[0].ID
	}

	return &PlayerView{
		Course:          course,
		Lessons:         playerLessons,
		CurrentLessonID: current,
		Preview:         preview,
		CompletedCount:  completed,
		ProgressPercent: ProgressPercent(completed, len(lessons)),
	}, nil
}

// OpenLesson records the lesson as current and returns it. Preview viewers
// asking for anything past the first lesson get ErrEnrollRequired, which the
// caller turns into the enroll prompt.
func (s *LessonService) OpenLesson(userID, courseID, lessonID uint) (*PlayerLesson, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	lessons, err := s.lessonRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, lesson := range lessons {
		if lesson.ID == lessonID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrLessonNotFound
	}

	if !s.access.HasFullAccess(userID, course) && index > 0 {
		return nil, ErrEnrollRequired
	}

	if userID != 0 {
		progress := s.store.Progress(userID, courseID)
		progress.CurrentLessonID = lessonID
		if err := s.store.SaveProgress(userID, courseID, progress); err != nil {
			return nil, err
		}
	}

	lesson := lessons[index]
	return &PlayerLesson{
		Lesson:    lesson,
		YouTubeID: media.YouTubeVideoID(lesson.VideoURL),
	}, nil
}

// NextLesson returns the lesson after the given one in course order, or nil
// at the end of the course.
func (s *LessonService) NextLesson(courseID, lessonID uint) (*models.Lesson, error) {
	lessons, err := s.lessonRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	for i, lesson := range lessons {
		if lesson.ID == lessonID {
			if i+1 < len(lessons) {
				next := lessons[i+1]
				return &next, nil
			}
			return nil, nil
		}
	}
	return nil, ErrLessonNotFound
}
