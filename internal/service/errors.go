package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers both the unknown-email and wrong-password
	// cases so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidCode is returned when the sign-up verification code is wrong,
	// expired or was never requested.
	ErrInvalidCode = errors.New("invalid or expired verification code")
	// ErrPasswordMismatch is returned when the confirmation field does not
	// match the chosen password.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrEmailTaken is returned when an account already exists for the email.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrCourseNotFound is returned for a course id with no catalog entry.
	ErrCourseNotFound = errors.New("course not found")
	// ErrLessonNotFound is returned for a lesson id outside the course.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrEnrollRequired signals that a preview viewer asked for content beyond
	// the first lesson and must pay first.
	ErrEnrollRequired = errors.New("enrollment required to continue")
	// ErrAccessDenied is returned when a user opens paid content without an
	// enrollment.
	ErrAccessDenied = errors.New("access to this course is not unlocked")
)

var errValidation = errors.New("academy: validation error")

type validationError struct {
	message string
}

func (e *validationError) Error() string {
	return e.message
}

func (e *validationError) Unwrap() error {
	return errValidation
}

func newValidationError(format string, args ...interface{}) error {
	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		message = "invalid input"
	}
	return &validationError{message: message}
}

// IsValidationError reports whether the provided error indicates invalid user input.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, errValidation)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
