package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/service"
)

// PlayerHandler serves the lesson player: lesson lists, progress and quizzes.
type PlayerHandler struct {
	lessonService   *service.LessonService
	progressService *service.ProgressService
	quizService     *service.QuizService
}

func NewPlayerHandler(
	lessonService *service.LessonService,
	progressService *service.ProgressService,
	quizService *service.QuizService,
) *PlayerHandler {
	return &PlayerHandler{
		lessonService:   lessonService,
		progressService: progressService,
		quizService:     quizService,
	}
}

// Player returns the full view for a course: ordered lessons, lock flags,
// current lesson and progress.
func (h *PlayerHandler) Player(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	view, err := h.lessonService.Player(c.GetUint("user_id"), courseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": view})
}

// OpenLesson selects a lesson as current. Preview viewers get 403 with an
// enroll message past the first lesson.
func (h *PlayerHandler) OpenLesson(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	lessonID, ok := parseUintParam(c, "lessonId")
	if !ok {
		return
	}

	lesson, err := h.lessonService.OpenLesson(c.GetUint("user_id"), courseID, lessonID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

// NextLesson returns the lesson after the given one, or null at the end.
func (h *PlayerHandler) NextLesson(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	lessonID, ok := parseUintParam(c, "lessonId")
	if !ok {
		return
	}

	next, err := h.lessonService.NextLesson(courseID, lessonID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": next})
}

// MarkComplete records a finished lesson and returns the updated summary.
func (h *PlayerHandler) MarkComplete(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.MarkCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.progressService.MarkComplete(c.GetUint("user_id"), courseID, req.LessonID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": summary})
}

// Progress returns the completion summary without modifying it.
func (h *PlayerHandler) Progress(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.progressService.Summary(c.GetUint("user_id"), courseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": summary})
}

// Quiz returns the course quiz with answer keys stripped.
func (h *PlayerHandler) Quiz(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.quizService.Questions(courseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// SubmitQuiz grades a complete answer set.
func (h *PlayerHandler) SubmitQuiz(c *gin.Context) {
	courseID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req models.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizService.Submit(c.GetUint("user_id"), courseID, req.Answers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
