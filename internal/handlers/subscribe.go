package handlers

import (
	"log"
	"net/http"

	"dotmd/internal/services"

	"github.com/gin-gonic/gin"
)

type SubscribeHandler struct {
	subscribers *services.SubscriberService
}

func NewSubscribeHandler(subscribers *services.SubscriberService) *SubscribeHandler {
	return &SubscribeHandler{subscribers: subscribers}
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe adds an email to the newsletter list. Already-subscribed
// addresses get the same success response as new ones.
func (h *SubscribeHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	if err := h.subscribers.Subscribe(req.Email); err != nil {
		log.Printf("subscribe error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to subscribe. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
