package handlers

import (
	"net/http"

	"dotmd/internal/services"
	"dotmd/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type voteRequest struct {
	ConfigID string `json:"config_id" binding:"required,uuid"`
	ToolID   string `json:"tool_id" binding:"required,uuid"`
}

// Vote toggles the logged-in user's per-tool vote. The client flips
// its button optimistically; this response either confirms the flip or
// tells the client to revert (on error).
func (h *VoteHandler) Vote(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	voted, count, err := h.votes.ToggleToolVote(user.ID, req.ConfigID, req.ToolID)
	if err != nil {
		ServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"voted": voted, "newCount": count})
}

type helpfulRequest struct {
	ConfigID string `json:"config_id" binding:"required,uuid"`
}

// Helpful toggles the anonymous "found this helpful" vote. The voter
// identity is derived from request network metadata server-side and
// only its hash ever leaves this handler.
func (h *VoteHandler) Helpful(c *gin.Context) {
	var req helpfulRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingError(c, err)
		return
	}

	ipHash := utils.HashIP(utils.ClientIP(c.Request))

	voted, count, err := h.votes.ToggleHelpfulVote(req.ConfigID, ipHash)
	if err != nil {
		ServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"voted": voted, "count": count})
}
