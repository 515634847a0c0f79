package repository

import (
	"errors"

	"gorm.io/gorm"

	"shiine-academy-backend/internal/models"
)

type CourseRepository interface {
	Create(course *models.Course) error
	Update(course *models.Course) error
	Delete(id uint) error
	GetByID(id uint) (*models.Course, error)
	List() ([]models.Course, error)
	Exists(id uint) (bool, error)
}

type LessonRepository interface {
	Create(lesson *models.Lesson) error
	Delete(id uint) error
	GetByID(id uint) (*models.Lesson, error)
	ListByCourse(courseID uint) ([]models.Lesson, error)
	MaxOrderIndex(courseID uint) (int, error)
}

type QuizQuestionRepository interface {
	Create(question *models.QuizQuestion) error
	Delete(id uint) error
	GetByID(id uint) (*models.QuizQuestion, error)
	ListByCourse(courseID uint) ([]models.QuizQuestion, error)
}

type courseRepository struct {
	db *gorm.DB
}

type lessonRepository struct {
	db *gorm.DB
}

type quizQuestionRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func NewQuizQuestionRepository(db *gorm.DB) QuizQuestionRepository {
	return &quizQuestionRepository{db: db}
}

func (r *courseRepository) Create(course *models.Course) error {
	if r == nil || r.db == nil {
		return errors.New("course repository is not initialised")
	}
	if course == nil {
		return errors.New("course is required")
	}
	return r.db.Create(course).Error
}

func (r *courseRepository) Update(course *models.Course) error {
	if r == nil || r.db == nil {
		return errors.New("course repository is not initialised")
	}
	if course == nil {
		return errors.New("course is required")
	}
	return r.db.Save(course).Error
}

// Delete removes the course and everything hanging off it. Lessons keep their
// order indexes until deleted with the course; nothing is renumbered.
func (r *courseRepository) Delete(id uint) error {
	if r == nil || r.db == nil {
		return errors.New("course repository is not initialised")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Course{}, id).Error
	})
}

func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("course repository is not initialised")
	}
	var course models.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List() ([]models.Course, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("course repository is not initialised")
	}
	var courses []models.Course
	if err := r.db.Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Exists(id uint) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("course repository is not initialised")
	}
	var count int64
	if err := r.db.Model(&models.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *lessonRepository) Create(lesson *models.Lesson) error {
	if r == nil || r.db == nil {
		return errors.New("lesson repository is not initialised")
	}
	if lesson == nil {
		return errors.New("lesson is required")
	}
	return r.db.Create(lesson).Error
}

func (r *lessonRepository) Delete(id uint) error {
	if r == nil || r.db == nil {
		return errors.New("lesson repository is not initialised")
	}
	return r.db.Delete(&models.Lesson{}, id).Error
}

func (r *lessonRepository) GetByID(id uint) (*models.Lesson, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lesson repository is not initialised")
	}
	var lesson models.Lesson
	if err := r.db.First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepository) ListByCourse(courseID uint) ([]models.Lesson, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("lesson repository is not initialised")
	}
	var lessons []models.Lesson
	if err := r.db.Where("course_id = ?", courseID).Order("order_index ASC").Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) MaxOrderIndex(courseID uint) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("lesson repository is not initialised")
	}
	// Soft-deleted lessons keep their (course_id, order_index) pair in the
	// unique index, so the max must cover them or a freed index would be
	// reassigned and the insert would collide.
	var max *int
	err := r.db.Unscoped().Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *quizQuestionRepository) Create(question *models.QuizQuestion) error {
	if r == nil || r.db == nil {
		return errors.New("quiz question repository is not initialised")
	}
	if question == nil {
		return errors.New("question is required")
	}
	return r.db.Create(question).Error
}

func (r *quizQuestionRepository) Delete(id uint) error {
	if r == nil || r.db == nil {
		return errors.New("quiz question repository is not initialised")
	}
	return r.db.Delete(&models.QuizQuestion{}, id).Error
}

func (r *quizQuestionRepository) GetByID(id uint) (*models.QuizQuestion, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("quiz question repository is not initialised")
	}
	var question models.QuizQuestion
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *quizQuestionRepository) ListByCourse(courseID uint) ([]models.QuizQuestion, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("quiz question repository is not initialised")
	}
	var questions []models.QuizQuestion
	if err := r.db.Where("course_id = ?", courseID).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
