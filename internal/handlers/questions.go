package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wlopz/codeflow-app/internal/gateway"
	"github.com/wlopz/codeflow-app/internal/models"
)

type QuestionHandler struct {
	db *gorm.DB
}

func NewQuestionHandler(db *gorm.DB) *QuestionHandler {
	return &QuestionHandler{db: db}
}

// upsertTags finds or creates each named tag inside tx.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// GetQuestions returns all questions, newest first. Vote counts come
// straight from the denormalized columns the voting engine maintains.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	var questions []models.Question

	query := h.db.Preload("User").Preload("Tags").Order("created_at desc")
	if tag := c.Query("tag"); tag != "" {
		query = query.Joins("JOIN question_tags ON question_tags.question_id = questions.id").
			Joins("JOIN tags ON tags.id = question_tags.tag_id").
			Where("tags.name = ?", tag)
	}

	if err := query.Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	if questions == nil {
		questions = []models.Question{}
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns a single question by ID and bumps its view count
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.Param("id")
	var question models.Question

	if err := h.db.Preload("User").Preload("Tags").First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	h.db.Model(&question).UpdateColumn("views", gorm.Expr("views + 1"))
	question.Views++

	c.JSON(http.StatusOK, question)
}

// CreateQuestion creates a new question with its tags
// (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var question models.Question
	err = h.db.Transaction(func(tx *gorm.DB) error {
		tags, err := upsertTags(tx, input.Tags)
		if err != nil {
			return err
		}
		question = models.Question{
			Title:    input.Title,
			Body:     input.Body,
			AuthorID: authorID,
			Tags:     tags,
		}
		return tx.Create(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	h.db.Preload("User").Preload("Tags").First(&question, question.ID)
	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion updates a question (PROTECTED - requires ownership)
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.Param("id")

	authorID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.AuthorID != authorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own questions"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if input.Title != "" {
			question.Title = input.Title
		}
		if input.Body != "" {
			question.Body = input.Body
		}
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if len(input.Tags) > 0 {
			tags, err := upsertTags(tx, input.Tags)
			if err != nil {
				return err
			}
			return tx.Model(&question).Association("Tags").Replace(tags)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update question"})
		return
	}

	h.db.Preload("User").Preload("Tags").First(&question, question.ID)
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion deletes a question, its answers and all votes on them
// (PROTECTED - requires ownership)
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.Param("id")

	authorID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.AuthorID != authorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own questions"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var answerIDs []int
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", question.ID).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("target_id IN ? AND target_type = ?", answerIDs, models.TargetAnswer).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Answer{}, answerIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_id = ? AND target_type = ?", question.ID, models.TargetQuestion).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.SavedQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&question).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// ToggleSaveQuestion bookmarks a question, or removes the bookmark if it
// already exists (PROTECTED - requires authentication)
func (h *QuestionHandler) ToggleSaveQuestion(c *gin.Context) {
	questionID := c.Param("id")

	authorID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	var saved models.SavedQuestion
	err = h.db.Where("author_id = ? AND question_id = ?", authorID, question.ID).First(&saved).Error
	if err == nil {
		h.db.Delete(&saved)
		c.JSON(http.StatusOK, gin.H{"saved": false})
		return
	}

	saved = models.SavedQuestion{AuthorID: authorID, QuestionID: question.ID}
	if err := h.db.Create(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// GetSavedQuestions returns the caller's bookmarked questions
// (PROTECTED - requires authentication)
func (h *QuestionHandler) GetSavedQuestions(c *gin.Context) {
	authorID, err := gateway.CurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var saved []models.SavedQuestion
	if err := h.db.Preload("Question").Preload("Question.User").Preload("Question.Tags").
		Where("author_id = ?", authorID).Order("created_at desc").Find(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved questions"})
		return
	}

	questions := make([]models.Question, 0, len(saved))
	for _, s := range saved {
		questions = append(questions, s.Question)
	}

	c.JSON(http.StatusOK, questions)
}

// GetTags lists all tags with how many questions carry each
func (h *QuestionHandler) GetTags(c *gin.Context) {
	type tagCount struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		Questions int    `json:"questions"`
	}

	var tags []tagCount
	err := h.db.Model(&models.Tag{}).
		Select("tags.id, tags.name, count(question_tags.question_id) as questions").
		Joins("LEFT JOIN question_tags ON question_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("questions desc").
		Scan(&tags).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	if tags == nil {
		tags = []tagCount{}
	}

	c.JSON(http.StatusOK, tags)
}
