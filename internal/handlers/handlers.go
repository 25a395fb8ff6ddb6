package handlers

import (
	"gorm.io/gorm"

	"github.com/wlopz/codeflow-app/internal/config"
	"github.com/wlopz/codeflow-app/internal/voting"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Vote     *VoteHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config, votes *voting.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(db, cfg),
		Question: NewQuestionHandler(db),
		Answer:   NewAnswerHandler(db),
		Vote:     NewVoteHandler(votes),
	}
}
