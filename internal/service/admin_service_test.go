package service

import (
	"errors"
	"testing"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/pkg/cache"
	"shiine-academy-backend/pkg/validator"
)

func newAdminFixture() (*AdminService, *mockCourseRepo, *mockLessonRepo) {
	validator.Init()

	courseRepo := &mockCourseRepo{courses: map[uint]models.Course{}}
	lessonRepo := &mockLessonRepo{lessons: map[uint][]models.Lesson{}}
	quizRepo := &mockQuizRepo{questions: map[uint][]models.QuizQuestion{}}
	catalog := NewCatalogService(courseRepo, cache.NewCache("", false))
	return NewAdminService(courseRepo, lessonRepo, quizRepo, catalog), courseRepo, lessonRepo
}

func TestCreateCourseDerivesPaidPricing(t *testing.T) {
	admin, _, _ := newAdminFixture()

	course, err := admin.CreateCourse(models.CreateCourseRequest{
		Title:       "Business English",
		Description: "Advanced speaking",
		Price:       25,
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	if course.Type != models.CourseTypePaid {
		t.Errorf("expected paid type, got %q", course.Type)
	}
	if course.PriceLabel != "$25" {
		t.Errorf("expected $25 label, got %q", course.PriceLabel)
	}
	if course.ButtonText != "Faahfaahin" {
		t.Errorf("expected paid button text, got %q", course.ButtonText)
	}
}

func TestCreateCourseDerivesFreePricing(t *testing.T) {
	admin, _, _ := newAdminFixture()

	course, err := admin.CreateCourse(models.CreateCourseRequest{
		Title:       "Somali for Beginners",
		Description: "Learn the basics",
		Price:       0,
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	if course.Type != models.CourseTypeFree || course.PriceLabel != "FREE" {
		t.Errorf("expected free/FREE, got %q/%q", course.Type, course.PriceLabel)
	}
	if course.ButtonText != "Daawo Bilaash" {
		t.Errorf("expected free button text, got %q", course.ButtonText)
	}
}

func TestCreateCourseRejectsNegativePrice(t *testing.T) {
	admin, _, _ := newAdminFixture()

	_, err := admin.CreateCourse(models.CreateCourseRequest{
		Title:       "Bad price",
		Description: "x",
		Price:       -5,
	})
	if !IsValidationError(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestUpdateCourseRederivesPricing(t *testing.T) {
	admin, _, _ := newAdminFixture()

	course, err := admin.CreateCourse(models.CreateCourseRequest{
		Title:       "Course",
		Description: "x",
		Price:       25,
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	updated, err := admin.UpdateCourse(course.ID, models.CreateCourseRequest{
		Title:       "Course",
		Description: "x",
		Price:       0,
	})
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if updated.Type != models.CourseTypeFree || updated.PriceLabel != "FREE" {
		t.Fatalf("price change must re-derive pricing, got %q/%q", updated.Type, updated.PriceLabel)
	}
}

func TestAddLessonAssignsNextOrderIndex(t *testing.T) {
	admin, courseRepo, lessonRepo := newAdminFixture()
	courseRepo.courses[1] = models.Course{ID: 1, Title: "Course", Type: models.CourseTypeFree}
	lessonRepo.lessons[1] = []models.Lesson{
		{ID: 1, CourseID: 1, OrderIndex: 1},
		{ID: 2, CourseID: 1, OrderIndex: 5}, // gap from earlier deletes
	}

	lesson, err := admin.AddLesson(1, models.CreateLessonRequest{
		Title:    "New lesson",
		VideoURL: "https://youtu.be/dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	if lesson.OrderIndex != 6 {
		t.Fatalf("expected order index 6 after the gap, got %d", lesson.OrderIndex)
	}
}

func TestAddLessonNeverReusesDeletedOrderIndex(t *testing.T) {
	admin, courseRepo, lessonRepo := newAdminFixture()
	courseRepo.courses[1] = models.Course{ID: 1, Title: "Course", Type: models.CourseTypeFree}
	lessonRepo.lessons[1] = []models.Lesson{
		{ID: 1, CourseID: 1, OrderIndex: 1},
		{ID: 2, CourseID: 1, OrderIndex: 2},
	}

	if err := admin.DeleteLesson(1, 2); err != nil {
		t.Fatalf("DeleteLesson: %v", err)
	}

	lesson, err := admin.AddLesson(1, models.CreateLessonRequest{
		Title:    "Replacement",
		VideoURL: "https://youtu.be/dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("AddLesson: %v", err)
	}
	if lesson.OrderIndex != 3 {
		t.Fatalf("a freed order index must not be reassigned, expected 3, got %d", lesson.OrderIndex)
	}
}

func TestAddLessonToUnknownCourse(t *testing.T) {
	admin, _, _ := newAdminFixture()

	_, err := admin.AddLesson(9, models.CreateLessonRequest{Title: "x", VideoURL: "y"})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestAddQuizQuestionValidatesOptions(t *testing.T) {
	admin, courseRepo, _ := newAdminFixture()
	courseRepo.courses[1] = models.Course{ID: 1, Title: "Course", Type: models.CourseTypeFree}

	cases := []struct {
		name string
		req  models.CreateQuizQuestionRequest
	}{
		{"three options", models.CreateQuizQuestionRequest{
			Question: "Q", Options: []string{"a", "b", "c"}, CorrectOption: 0,
		}},
		{"blank option", models.CreateQuizQuestionRequest{
			Question: "Q", Options: []string{"a", "b", "", "d"}, CorrectOption: 0,
		}},
		{"correct out of range", models.CreateQuizQuestionRequest{
			Question: "Q", Options: []string{"a", "b", "c", "d"}, CorrectOption: 4,
		}},
		{"no question text", models.CreateQuizQuestionRequest{
			Question: "  ", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1,
		}},
	}

	for _, tc := range cases {
		if _, err := admin.AddQuizQuestion(1, tc.req); !IsValidationError(err) {
			t.Errorf("%s: expected a validation error, got %v", tc.name, err)
		}
	}

	question, err := admin.AddQuizQuestion(1, models.CreateQuizQuestionRequest{
		Question: "Valid?", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2,
	})
	if err != nil {
		t.Fatalf("AddQuizQuestion: %v", err)
	}
	if len(question.Options) != models.QuizOptionCount || question.CorrectOption != 2 {
		t.Fatalf("question stored wrong: %+v", question)
	}
}

func TestDeleteCourseUnknown(t *testing.T) {
	admin, _, _ := newAdminFixture()

	if err := admin.DeleteCourse(9); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
