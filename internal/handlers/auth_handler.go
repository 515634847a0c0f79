package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shiine-academy-backend/internal/constants"
	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/service"
)

const authCookieMaxAge = 72 * 60 * 60

type AuthHandler struct {
	authService   *service.AuthService
	accessService *service.AccessService
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, accessService *service.AccessService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		accessService: accessService,
		secureCookies: secureCookies,
	}
}

// RequestCode mails the sign-up verification code.
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req models.RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.RequestCode(req.Email); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

// SignUp completes registration and opens a session. The response carries the
// navigation state resolved from any pending course.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.SignUp(req)
	if err != nil {
		writeError(c, err)
		return
	}

	state, err := h.accessService.OnAuthSuccess(user.ID, req.PendingCourseID)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
		"state": state,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(req)
	if err != nil {
		writeError(c, err)
		return
	}

	state, err := h.accessService.OnAuthSuccess(user.ID, req.PendingCourseID)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
		"state": state,
	})
}

// Logout drops the cookie and publishes the sign-out event; the navigation
// reset happens in the subscribed access service.
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID := c.GetUint("user_id"); userID != 0 {
		h.authService.Logout(userID, c.GetString("email"))
	}

	c.SetCookie(constants.AuthTokenCookieName, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.GetUint("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.UpdateProfile(c.GetUint("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetCookie(constants.AuthTokenCookieName, token, authCookieMaxAge, "/", "", h.secureCookies, true)
}
