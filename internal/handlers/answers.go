package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wlopz/codeflow-app/internal/gateway"
	"github.com/wlopz/codeflow-app/internal/models"
)

type AnswerHandler struct {
	db *gorm.DB
}

func NewAnswerHandler(db *gorm.DB) *AnswerHandler {
	return &AnswerHandler{db: db}
}

// GetAnswers returns all answers for a question, most upvoted first
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID := c.Param("id")
	var answers []models.Answer

	if err := h.db.Preload("User").Where("question_id = ?", questionID).
		Order("upvotes - downvotes desc, created_at asc").Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	if answers == nil {
		answers = []models.Answer{}
	}

	c.JSON(http.StatusOK, answers)
}

// CreateAnswer posts an answer and bumps the question's answer count
// (PROTECTED - requires authentication)
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	questionID := c.Param("id")

	authorID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	answer := models.Answer{
		Body:       input.Body,
		AuthorID:   authorID,
		QuestionID: question.ID,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).Where("id = ?", question.ID).
			UpdateColumn("answers", gorm.Expr("answers + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer"})
		return
	}

	h.db.Preload("User").First(&answer, answer.ID)
	c.JSON(http.StatusCreated, answer)
}

// DeleteAnswer deletes an answer and its votes (PROTECTED - requires ownership)
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	answerID := c.Param("answerId")

	authorID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	if answer.AuthorID != authorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own answers"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_id = ? AND target_type = ?", answer.ID, models.TargetAnswer).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&answer).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).Where("id = ?", answer.QuestionID).
			UpdateColumn("answers", gorm.Expr("answers - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}
