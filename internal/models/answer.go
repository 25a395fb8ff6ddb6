package models

import "time"

type Answer struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Body       string    `gorm:"not null" json:"body"`
	AuthorID   int       `json:"author_id"`
	User       User      `gorm:"foreignKey:AuthorID" json:"user"`
	QuestionID int       `gorm:"index" json:"question_id"`
	Upvotes    int       `gorm:"default:0" json:"upvotes"`
	Downvotes  int       `gorm:"default:0" json:"downvotes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Body string `json:"body" binding:"required,min=20"`
}
