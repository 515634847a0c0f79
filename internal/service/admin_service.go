package service

import (
	"strings"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/pkg/logger"
	"shiine-academy-backend/pkg/validator"
)

// AdminService is the write side of the catalog: course, lesson and quiz
// management. Reads for the storefront go through CatalogService; every write
// here invalidates its cache.
type AdminService struct {
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
	quizRepo   repository.QuizQuestionRepository
	catalog    *CatalogService
}

func NewAdminService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	quizRepo repository.QuizQuestionRepository,
	catalog *CatalogService,
) *AdminService {
	return &AdminService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		quizRepo:   quizRepo,
		catalog:    catalog,
	}
}

// CreateCourse derives type, price label and button text from the raw price.
// An explicit button text overrides the derived default.
func (s *AdminService) CreateCourse(req models.CreateCourseRequest) (*models.Course, error) {
	title := validator.SanitizeString(strings.TrimSpace(req.Title))
	if title == "" {
		return nil, newValidationError("course title is required")
	}

	pricing, err := models.DeriveCoursePricing(req.Price)
	if err != nil {
		return nil, newValidationError("%s", err.Error())
	}

	buttonText := strings.TrimSpace(req.ButtonText)
	if buttonText == "" {
		buttonText = pricing.ButtonText
	}

	course := &models.Course{
		Title:       title,
		Description: validator.SanitizeHTML(req.Description),
		Price:       req.Price,
		PriceLabel:  pricing.PriceLabel,
		Type:        pricing.Type,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		ButtonText:  buttonText,
		PromoVideo:  strings.TrimSpace(req.PromoVideo),
	}

	if err := s.courseRepo.Create(course); err != nil {
		return nil, err
	}

	s.catalog.Invalidate()
	logger.Info("Course created", map[string]interface{}{
		"course_id": course.ID,
		"title":     course.Title,
		"type":      course.Type,
	})
	return course, nil
}

// UpdateCourse re-derives the pricing trio whenever the price changes.
func (s *AdminService) UpdateCourse(id uint, req models.CreateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	title := validator.SanitizeString(strings.TrimSpace(req.Title))
	if title == "" {
		return nil, newValidationError("course title is required")
	}

	pricing, err := models.DeriveCoursePricing(req.Price)
	if err != nil {
		return nil, newValidationError("%s", err.Error())
	}

	course.Title = title
	course.Description = validator.SanitizeHTML(req.Description)
	course.Price = req.Price
	course.PriceLabel = pricing.PriceLabel
	course.Type = pricing.Type
	course.ImageURL = strings.TrimSpace(req.ImageURL)
	course.PromoVideo = strings.TrimSpace(req.PromoVideo)
	if buttonText := strings.TrimSpace(req.ButtonText); buttonText != "" {
		course.ButtonText = buttonText
	} else {
		course.ButtonText = pricing.ButtonText
	}

	if err := s.courseRepo.Update(course); err != nil {
		return nil, err
	}

	s.catalog.Invalidate()
	return course, nil
}

// DeleteCourse removes the course with its lessons, quiz and enrollments.
func (s *AdminService) DeleteCourse(id uint) error {
	exists, err := s.courseRepo.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCourseNotFound
	}

	if err := s.courseRepo.Delete(id); err != nil {
		return err
	}

	s.catalog.Invalidate()
	logger.Info("Course deleted", map[string]interface{}{"course_id": id})
	return nil
}

// AddLesson appends a lesson at the end of the course order. Order indexes of
// deleted lessons are never reused.
func (s *AdminService) AddLesson(courseID uint, req models.CreateLessonRequest) (*models.Lesson, error) {
	exists, err := s.courseRepo.Exists(courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	title := validator.SanitizeString(strings.TrimSpace(req.Title))
	if title == "" {
		return nil, newValidationError("lesson title is required")
	}

	maxIndex, err := s.lessonRepo.MaxOrderIndex(courseID)
	if err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		CourseID:    courseID,
		Title:       title,
		Duration:    strings.TrimSpace(req.Duration),
		VideoURL:    strings.TrimSpace(req.VideoURL),
		DocumentURL: strings.TrimSpace(req.DocumentURL),
		ResourceURL: strings.TrimSpace(req.ResourceURL),
		OrderIndex:  maxIndex + 1,
	}

	if err := s.lessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson removes a lesson, leaving a gap in the order sequence.
func (s *AdminService) DeleteLesson(courseID, lessonID uint) error {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err != nil {
		if isNotFound(err) {
			return ErrLessonNotFound
		}
		return err
	}
	if lesson.CourseID != courseID {
		return ErrLessonNotFound
	}
	return s.lessonRepo.Delete(lessonID)
}

// AddQuizQuestion stores a question with its fixed four options.
func (s *AdminService) AddQuizQuestion(courseID uint, req models.CreateQuizQuestionRequest) (*models.QuizQuestion, error) {
	exists, err := s.courseRepo.Exists(courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	if len(req.Options) != models.QuizOptionCount {
		return nil, newValidationError("a question must have exactly %d options", models.QuizOptionCount)
	}
	if req.CorrectOption < 0 || req.CorrectOption >= models.QuizOptionCount {
		return nil, newValidationError("correct option is out of range")
	}

	options := make(models.QuizOptions, 0, models.QuizOptionCount)
	for i, option := range req.Options {
		trimmed := validator.SanitizeString(strings.TrimSpace(option))
		if trimmed == "" {
			return nil, newValidationError("option %d text is required", i+1)
		}
		options = append(options, trimmed)
	}

	question := &models.QuizQuestion{
		CourseID:      courseID,
		Question:      validator.SanitizeString(strings.TrimSpace(req.Question)),
		Options:       options,
		CorrectOption: req.CorrectOption,
	}
	if question.Question == "" {
		return nil, newValidationError("question text is required")
	}

	if err := s.quizRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuizQuestion removes one question from a course quiz.
func (s *AdminService) DeleteQuizQuestion(courseID, questionID uint) error {
	question, err := s.quizRepo.GetByID(questionID)
	if err != nil {
		if isNotFound(err) {
			return newValidationError("quiz question not found")
		}
		return err
	}
	if question.CourseID != courseID {
		return newValidationError("quiz question not found")
	}
	return s.quizRepo.Delete(questionID)
}

// ListQuizQuestions returns the full questions, answer keys included, for the
// console.
func (s *AdminService) ListQuizQuestions(courseID uint) ([]models.QuizQuestion, error) {
	return s.quizRepo.ListByCourse(courseID)
}

// ListLessons returns the course lessons in order for the console.
func (s *AdminService) ListLessons(courseID uint) ([]models.Lesson, error) {
	return s.lessonRepo.ListByCourse(courseID)
}
