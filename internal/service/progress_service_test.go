package service

import (
	"errors"
	"testing"

	"shiine-academy-backend/internal/models"
)

func newProgressFixture(lessonCount int) (*ProgressService, *mockLessonRepo) {
	lessonRepo := &mockLessonRepo{lessons: map[uint][]models.Lesson{}}
	for i := 0; i < lessonCount; i++ {
		lessonRepo.lessons[1] = append(lessonRepo.lessons[1], models.Lesson{
			ID:         uint(i + 1),
			CourseID:   1,
			OrderIndex: i + 1,
		})
	}
	return NewProgressService(lessonRepo, newTestStore()), lessonRepo
}

func TestProgressPercentRounding(t *testing.T) {
	cases := []struct {
		completed int
		total     int
		want      int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 2, 50},
		{5, 3, 100},
		{-1, 3, 0},
	}

	for _, tc := range cases {
		if got := ProgressPercent(tc.completed, tc.total); got != tc.want {
			t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	progress, _ := newProgressFixture(3)

	first, err := progress.MarkComplete(10, 1, 2)
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	second, err := progress.MarkComplete(10, 1, 2)
	if err != nil {
		t.Fatalf("MarkComplete (repeat): %v", err)
	}

	if first.CompletedCount != 1 || second.CompletedCount != 1 {
		t.Fatalf("repeat completion must not double-count: first=%d second=%d",
			first.CompletedCount, second.CompletedCount)
	}
	if second.Percent != 33 {
		t.Errorf("expected 33%%, got %d%%", second.Percent)
	}
}

func TestMarkCompleteAccumulates(t *testing.T) {
	progress, _ := newProgressFixture(3)

	if _, err := progress.MarkComplete(10, 1, 1); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	summary, err := progress.MarkComplete(10, 1, 2)
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	if summary.CompletedCount != 2 || summary.Percent != 67 {
		t.Fatalf("expected 2 of 3 = 67%%, got %d of %d = %d%%",
			summary.CompletedCount, summary.LessonCount, summary.Percent)
	}
}

func TestMarkCompleteRejectsForeignLesson(t *testing.T) {
	progress, _ := newProgressFixture(3)

	if _, err := progress.MarkComplete(10, 1, 99); !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestSummaryForEmptyCourse(t *testing.T) {
	progress, _ := newProgressFixture(0)

	summary, err := progress.Summary(10, 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Percent != 0 || summary.LessonCount != 0 {
		t.Fatalf("empty course should read 0%%, got %+v", summary)
	}
}

func TestSummaryIsolatedPerUser(t *testing.T) {
	progress, _ := newProgressFixture(2)

	if _, err := progress.MarkComplete(10, 1, 1); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	other, err := progress.Summary(11, 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if other.CompletedCount != 0 {
		t.Fatalf("progress must not leak across users, got %+v", other)
	}
}
