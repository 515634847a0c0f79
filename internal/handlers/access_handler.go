package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/service"
)

// AccessHandler exposes the navigation flow: where the user is and where a
// catalog click takes them next.
type AccessHandler struct {
	accessService *service.AccessService
}

func NewAccessHandler(accessService *service.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

// State returns the persisted snapshot for the session, or the catalog
// default for anonymous visitors.
func (h *AccessHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.accessService.State(c.GetUint("user_id"))})
}

// Select resolves a catalog card click into the next view.
func (h *AccessHandler) Select(c *gin.Context) {
	var req models.SelectCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.accessService.SelectCourse(c.GetUint("user_id"), req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// Preview opens the first-lesson preview of a course.
func (h *AccessHandler) Preview(c *gin.Context) {
	var req models.SelectCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.accessService.PreviewCourse(c.GetUint("user_id"), req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// Enroll moves a preview viewer toward full access.
func (h *AccessHandler) Enroll(c *gin.Context) {
	var req models.SelectCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.accessService.EnrollFromPreview(c.GetUint("user_id"), req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}
