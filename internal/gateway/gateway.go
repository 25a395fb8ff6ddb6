// Package gateway binds and validates vote requests before they reach the
// engine. A request that makes it past here carries a well-formed target,
// a legal vote direction and a resolved acting user; malformed input is
// rejected without any store access.
package gateway

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/wlopz/codeflow-app/internal/models"
)

var (
	ErrBadRequest   = errors.New("malformed vote request")
	ErrUnauthorized = errors.New("user not authenticated")
)

// VoteRequest is the inbound contract for the voting engine.
type VoteRequest struct {
	TargetID   int               `json:"target_id" binding:"required"`
	TargetType models.TargetType `json:"target_type" binding:"required,oneof=question answer"`
	VoteType   models.VoteType   `json:"vote_type" binding:"required,oneof=upvote downvote"`
}

// VoteStateQuery is the inbound contract for vote-state lookups.
type VoteStateQuery struct {
	TargetID   int               `form:"target_id" binding:"required"`
	TargetType models.TargetType `form:"target_type" binding:"required,oneof=question answer"`
}

// BindVote validates the JSON body of a vote request.
func BindVote(c *gin.Context) (*VoteRequest, error) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, ErrBadRequest
	}
	return &req, nil
}

// BindVoteState validates the query string of a vote-state lookup.
func BindVoteState(c *gin.Context) (*VoteStateQuery, error) {
	var q VoteStateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil, ErrBadRequest
	}
	return &q, nil
}

// CurrentUser returns the authenticated user's id set by the auth
// middleware.
func CurrentUser(c *gin.Context) (int, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, ErrUnauthorized
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case uint:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, ErrUnauthorized
	}
}
