package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/payments"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/pkg/logger"
)

// PaymentOutcome is what the checkout screen renders after a charge attempt.
type PaymentOutcome struct {
	Result   payments.Result `json:"result"`
	Enrolled bool            `json:"enrolled"`
}

// PaymentService dispatches charges to the wallet providers and records every
// attempt. Validation failures are caught before any provider is called: an
// unsupported method or a missing phone number never reaches the network.
type PaymentService struct {
	providers      map[payments.Method]payments.Provider
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	attemptRepo    repository.PaymentAttemptRepository
	access         *AccessService
}

func NewPaymentService(
	providers map[payments.Method]payments.Provider,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	attemptRepo repository.PaymentAttemptRepository,
	access *AccessService,
) *PaymentService {
	return &PaymentService{
		providers:      providers,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		attemptRepo:    attemptRepo,
		access:         access,
	}
}

// Process charges the user's wallet for a course. On success the enrollment
// is recorded and the user is moved to the player; on failure the normalized
// gateway message comes back for the checkout screen. Either way the attempt
// lands in the audit trail.
func (s *PaymentService) Process(ctx context.Context, userID uint, req models.ProcessPaymentRequest) (*PaymentOutcome, error) {
	if req.PhoneNumber == "" {
		return nil, payments.ErrMissingPhoneNumber
	}

	method := payments.Method(req.Method)
	provider, ok := s.providers[method]
	if !ok || provider == nil {
		return nil, payments.ErrUnsupportedMethod
	}

	course, err := s.courseRepo.GetByID(req.CourseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.Type != models.CourseTypePaid {
		return nil, newValidationError("course %d does not require payment", course.ID)
	}

	// The charge amount always comes from the catalog, never the client.
	params := payments.ChargeParams{
		PhoneNumber: req.PhoneNumber,
		Amount:      course.Price,
		Currency:    "USD",
		Description: course.Title,
		ReferenceID: uuid.NewString(),
		InvoiceID:   fmt.Sprintf("%d-%d", userID, course.ID),
	}

	result := provider.Charge(ctx, params)

	attempt := &models.PaymentAttempt{
		UserID:      userID,
		CourseID:    course.ID,
		Method:      string(method),
		Amount:      params.Amount,
		PhoneNumber: req.PhoneNumber,
		ReferenceID: params.ReferenceID,
		Success:     result.Success,
		Message:     result.Message,
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		logger.Error(err, "Failed to record payment attempt", map[string]interface{}{
			"user_id":   userID,
			"course_id": course.ID,
			"reference": params.ReferenceID,
		})
	}

	if !result.Success {
		logger.Warn("Payment declined", map[string]interface{}{
			"user_id":   userID,
			"course_id": course.ID,
			"method":    string(method),
			"message":   result.Message,
		})
		return &PaymentOutcome{Result: result}, nil
	}

	enrollment := &models.Enrollment{UserID: userID, CourseID: course.ID}
	if err := s.enrollmentRepo.Upsert(enrollment); err != nil {
		// The wallet was charged; surface the grant failure instead of
		// pretending the payment failed.
		logger.Error(err, "Charge succeeded but enrollment failed", map[string]interface{}{
			"user_id":   userID,
			"course_id": course.ID,
			"reference": params.ReferenceID,
		})
		return nil, err
	}

	s.access.OnPaymentComplete(userID, course.ID)
	logger.Info("Payment completed", map[string]interface{}{
		"user_id":   userID,
		"course_id": course.ID,
		"method":    string(method),
		"reference": params.ReferenceID,
	})

	return &PaymentOutcome{Result: result, Enrolled: true}, nil
}

// History lists the user's past attempts, newest first.
func (s *PaymentService) History(userID uint) ([]models.PaymentAttempt, error) {
	return s.attemptRepo.ListByUser(userID)
}
