package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiine-academy-backend/internal/models"
)

type EnrollmentRepository interface {
	Upsert(enrollment *models.Enrollment) error
	Exists(userID, courseID uint) (bool, error)
	ListByUser(userID uint) ([]models.Enrollment, error)
}

type PaymentAttemptRepository interface {
	Create(attempt *models.PaymentAttempt) error
	ListByUser(userID uint) ([]models.PaymentAttempt, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

type paymentAttemptRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func NewPaymentAttemptRepository(db *gorm.DB) PaymentAttemptRepository {
	return &paymentAttemptRepository{db: db}
}

// Upsert keeps enrollment idempotent: paying twice for the same course leaves
// a single row.
func (r *enrollmentRepository) Upsert(enrollment *models.Enrollment) error {
	if r == nil || r.db == nil {
		return errors.New("enrollment repository is not initialised")
	}
	if enrollment == nil {
		return errors.New("enrollment is required")
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(enrollment).Error
}

func (r *enrollmentRepository) Exists(userID, courseID uint) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("enrollment repository is not initialised")
	}
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *enrollmentRepository) ListByUser(userID uint) ([]models.Enrollment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("enrollment repository is not initialised")
	}
	var enrollments []models.Enrollment
	if err := r.db.Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *paymentAttemptRepository) Create(attempt *models.PaymentAttempt) error {
	if r == nil || r.db == nil {
		return errors.New("payment attempt repository is not initialised")
	}
	if attempt == nil {
		return errors.New("attempt is required")
	}
	return r.db.Create(attempt).Error
}

func (r *paymentAttemptRepository) ListByUser(userID uint) ([]models.PaymentAttempt, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("payment attempt repository is not initialised")
	}
	var attempts []models.PaymentAttempt
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
