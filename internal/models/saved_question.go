package models

import "time"

// SavedQuestion model - a question bookmarked by a user
type SavedQuestion struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	AuthorID   int       `gorm:"not null;uniqueIndex:idx_saved_author_question" json:"author_id"`
	QuestionID int       `gorm:"not null;uniqueIndex:idx_saved_author_question" json:"question_id"`
	Question   Question  `gorm:"foreignKey:QuestionID" json:"question"`
	CreatedAt  time.Time `json:"created_at"`
}
