package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/service"
)

// CourseHandler serves the public catalog and the admin course console.
type CourseHandler struct {
	catalogService *service.CatalogService
	adminService   *service.AdminService
}

func NewCourseHandler(catalogService *service.CatalogService, adminService *service.AdminService) *CourseHandler {
	return &CourseHandler{
		catalogService: catalogService,
		adminService:   adminService,
	}
}

// List is the catalog endpoint: ?filter=all|free|paid and ?q= for search.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.catalogService.List(c.DefaultQuery("filter", service.FilterAll), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	course, err := h.catalogService.GetCourse(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.adminService.CreateCourse(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": course})
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.adminService.UpdateCourse(id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteCourse(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ListLessons(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	lessons, err := h.adminService.ListLessons(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

func (h *CourseHandler) AddLesson(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.adminService.AddLesson(id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lesson": lesson})
}

func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	lessonID, ok := parseUintParam(c, "lessonId")
	if !ok {
		return
	}

	if err := h.adminService.DeleteLesson(courseID, lessonID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ListQuizQuestions(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.adminService.ListQuizQuestions(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *CourseHandler) AddQuizQuestion(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateQuizQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.adminService.AddQuizQuestion(id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"question": question})
}

func (h *CourseHandler) DeleteQuizQuestion(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseUintParam(c, "questionId")
	if !ok {
		return
	}

	if err := h.adminService.DeleteQuizQuestion(courseID, questionID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
