package service

import (
	"strings"
	"time"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/repository"
	"shiine-academy-backend/pkg/cache"
	"shiine-academy-backend/pkg/logger"
)

const (
	catalogCacheKey = "catalog:courses"
	catalogCacheTTL = 5 * time.Minute
)

// Course filters accepted by the catalog listing.
const (
	FilterAll  = "all"
	FilterFree = "free"
	FilterPaid = "paid"
)

// CatalogService serves the public course listing. The full list is cached;
// filter and search are applied per request on the cached slice.
type CatalogService struct {
	courseRepo repository.CourseRepository
	cache      *cache.Cache
}

func NewCatalogService(courseRepo repository.CourseRepository, c *cache.Cache) *CatalogService {
	return &CatalogService{courseRepo: courseRepo, cache: c}
}

// List returns catalog entries matching the filter and search query, in the
// repository's stable id order. An unknown filter behaves as "all"; an empty
// query matches everything.
func (s *CatalogService) List(filter, query string) ([]models.Course, error) {
	courses, err := s.allCourses()
	if err != nil {
		return nil, err
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if !matchesFilter(course, filter) {
			continue
		}
		if !matchesQuery(course, query) {
			continue
		}
		result = append(result, course)
	}
	return result, nil
}

func (s *CatalogService) GetCourse(id uint) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// Invalidate drops the cached listing. Called by the admin service after any
// course write.
func (s *CatalogService) Invalidate() {
	if err := s.cache.Delete(catalogCacheKey); err != nil {
		logger.Warn("Failed to invalidate catalog cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *CatalogService) allCourses() ([]models.Course, error) {
	var cached []models.Course
	if err := s.cache.Get(catalogCacheKey, &cached); err == nil {
		return cached, nil
	}

	courses, err := s.courseRepo.List()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(catalogCacheKey, courses, catalogCacheTTL); err != nil {
		logger.Warn("Failed to cache catalog", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return courses, nil
}

func matchesFilter(course models.Course, filter string) bool {
	switch filter {
	case FilterFree:
		return course.Type == models.CourseTypeFree
	case FilterPaid:
		return course.Type == models.CourseTypePaid
	default:
		return true
	}
}

func matchesQuery(course models.Course, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(course.Title), query) ||
		strings.Contains(strings.ToLower(course.Description), query)
}
