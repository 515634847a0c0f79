package service

import (
	"testing"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/pkg/cache"
)

func newCatalogFixture() *CatalogService {
	courseRepo := &mockCourseRepo{courses: map[uint]models.Course{
		1: {ID: 1, Title: "Somali for Beginners", Description: "Learn the basics", Type: models.CourseTypeFree},
		2: {ID: 2, Title: "Business English", Description: "Advanced speaking", Type: models.CourseTypePaid, Price: 25},
		3: {ID: 3, Title: "Accounting 101", Description: "Numbers for business", Type: models.CourseTypePaid, Price: 40},
	}}
	return NewCatalogService(courseRepo, cache.NewCache("", false))
}

func TestListAllKeepsStableOrder(t *testing.T) {
	catalog := newCatalogFixture()

	courses, err := catalog.List(FilterAll, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(courses) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(courses))
	}
	for i, course := range courses {
		if course.ID != uint(i+1) {
			t.Fatalf("expected id order, got %d at position %d", course.ID, i)
		}
	}
}

func TestListFilterFree(t *testing.T) {
	catalog := newCatalogFixture()

	courses, err := catalog.List(FilterFree, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != 1 {
		t.Fatalf("expected only the free course, got %+v", courses)
	}
}

func TestListFilterPaid(t *testing.T) {
	catalog := newCatalogFixture()

	courses, err := catalog.List(FilterPaid, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 paid courses, got %d", len(courses))
	}
}

func TestListUnknownFilterBehavesAsAll(t *testing.T) {
	catalog := newCatalogFixture()

	courses, err := catalog.List("premium", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(courses) != 3 {
		t.Fatalf("unknown filter should not exclude anything, got %d", len(courses))
	}
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	catalog := newCatalogFixture()

	courses, err := catalog.List(FilterAll, "BUSINESS")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// Matches "Business English" by title and "Accounting 101" by description.
	if len(courses) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(courses))
	}
}

func TestListSearchCombinesWithFilter(t *testing.T) {
	catalog := newCatalogFixture()

	courses, err := catalog.List(FilterFree, "business")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(courses) != 0 {
		t.Fatalf("filter and search must both apply, got %+v", courses)
	}
}

func TestGetCourseNotFound(t *testing.T) {
	catalog := newCatalogFixture()

	if _, err := catalog.GetCourse(99); err != ErrCourseNotFound {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
