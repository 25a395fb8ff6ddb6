package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wlopz/codeflow-app/internal/gateway"
	"github.com/wlopz/codeflow-app/internal/models"
	"github.com/wlopz/codeflow-app/internal/voting"
)

// voteService is the slice of the voting engine the handler needs.
type voteService interface {
	CastVote(ctx context.Context, authorID, targetID int, targetType models.TargetType, voteType models.VoteType) (voting.TransitionKind, error)
	HasVoted(ctx context.Context, authorID, targetID int, targetType models.TargetType) (voting.VoteState, error)
}

type VoteHandler struct {
	votes voteService
}

func NewVoteHandler(votes voteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// CastVote handles cast/retract/switch for questions and answers
// (PROTECTED - requires authentication)
func (h *VoteHandler) CastVote(c *gin.Context) {
	userID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	req, err := gateway.BindVote(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id, target_type (question|answer) and vote_type (upvote|downvote) are required"})
		return
	}

	kind, err := h.votes.CastVote(c.Request.Context(), userID, req.TargetID, req.TargetType, req.VoteType)
	if err != nil {
		status, msg := voteErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	switch kind {
	case voting.Retract:
		c.JSON(http.StatusOK, gin.H{"message": "Vote removed"})
	case voting.Switch:
		c.JSON(http.StatusOK, gin.H{"message": "Vote updated"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
	}
}

// GetVoteState returns the caller's current vote on a target
// (PROTECTED - requires authentication)
func (h *VoteHandler) GetVoteState(c *gin.Context) {
	userID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	q, err := gateway.BindVoteState(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id and target_type (question|answer) are required"})
		return
	}

	state, err := h.votes.HasVoted(c.Request.Context(), userID, q.TargetID, q.TargetType)
	if err != nil {
		status, msg := voteErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, state)
}

func voteErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, voting.ErrValidation):
		return http.StatusBadRequest, "Invalid vote parameters"
	case errors.Is(err, voting.ErrUnauthorized):
		return http.StatusUnauthorized, "User not authenticated"
	case errors.Is(err, voting.ErrTargetNotFound):
		return http.StatusNotFound, "Target not found"
	case errors.Is(err, voting.ErrVoteNotFound):
		return http.StatusNotFound, "Vote not found"
	case errors.Is(err, voting.ErrConflict):
		return http.StatusConflict, "Vote conflict, please try again"
	default:
		return http.StatusInternalServerError, "Failed to process vote, please try again"
	}
}
