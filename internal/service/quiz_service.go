package service

import (
	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/internal/statestore"
)

// QuizQuestionView is a question with the answer key stripped out.
type QuizQuestionView struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizResult is the graded outcome of one submission.
type QuizResult struct {
	CourseID      uint         `json:"course_id"`
	Score         int          `json:"score"`
	Total         int          `json:"total"`
	CorrectByID   map[uint]int `json:"correct_by_id"`
	SelectedByID  map[uint]int `json:"selected_by_id"`
	PerfectScore  bool         `json:"perfect_score"`
	PreviousScore *int         `json:"previous_score,omitempty"`
}

// QuizService grades course quizzes. A submission must answer every question;
// retakes simply overwrite the stored score.
type QuizService struct {
	quizRepo repository.QuizQuestionRepository
	store    *statestore.Store
}

func NewQuizService(quizRepo repository.QuizQuestionRepository, store *statestore.Store) *QuizService {
	return &QuizService{quizRepo: quizRepo, store: store}
}

// Questions returns the quiz for a course without correct-answer indexes.
func (s *QuizService) Questions(courseID uint) ([]QuizQuestionView, error) {
	questions, err := s.quizRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	views := make([]QuizQuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuizQuestionView{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
		})
	}
	return views, nil
}

// Submit grades a full set of answers. Each answered option index must be
// within the fixed option range.
func (s *QuizService) Submit(userID, courseID uint, answers map[uint]int) (*QuizResult, error) {
	questions, err := s.quizRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, newValidationError("this course has no quiz")
	}

	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok {
			return nil, newValidationError("all questions must be answered before submitting")
		}
		if selected < 0 || selected >= models.QuizOptionCount {
			return nil, newValidationError("answer out of range for question %d", q.ID)
		}
	}

	score := 0
	correct := make(map[uint]int, len(questions))
	selected := make(map[uint]int, len(questions))
	for _, q := range questions {
		correct[q.ID] = q.CorrectOption
		selected[q.ID] = answers[q.ID]
		if answers[q.ID] == q.CorrectOption {
			score++
		}
	}

	result := &QuizResult{
		CourseID:     courseID,
		Score:        score,
		Total:        len(questions),
		CorrectByID:  correct,
		SelectedByID: selected,
		PerfectScore: score == len(questions),
	}

	if userID != 0 {
		record := s.store.Progress(userID, courseID)
		result.PreviousScore = record.QuizScore
		record.QuizScore = &score
		if err := s.store.SaveProgress(userID, courseID, record); err != nil {
			return nil, err
		}
	}

	return result, nil
}
