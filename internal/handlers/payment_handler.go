package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shiine-academy-backend/internal/middleware"
	"shiine-academy-backend/internal/models"
	"shiine-academy-backend/internal/service"
)

// PaymentHandler runs the checkout step. All endpoints require a session.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Process charges the wallet and, on success, unlocks the course. Gateway
// declines are 200 responses with success=false; only validation and
// infrastructure problems are HTTP errors.
func (h *PaymentHandler) Process(c *gin.Context) {
	var req models.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.paymentService.Process(c.Request.Context(), c.GetUint("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.CountPaymentAttempt(req.Method, outcome.Result.Success)
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

// History lists the caller's past attempts, newest first.
func (h *PaymentHandler) History(c *gin.Context) {
	attempts, err := h.paymentService.History(c.GetUint("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
