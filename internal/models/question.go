package models

import "time"

type Question struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"not null" json:"body"`
	AuthorID  int       `json:"author_id"`
	User      User      `gorm:"foreignKey:AuthorID" json:"user"`
	Tags      []Tag     `gorm:"many2many:question_tags" json:"tags"`
	Upvotes   int       `gorm:"default:0" json:"upvotes"`
	Downvotes int       `gorm:"default:0" json:"downvotes"`
	Answers   int       `gorm:"default:0" json:"answers"`
	Views     int       `gorm:"default:0" json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateQuestionRequest struct {
	Title string   `json:"title" binding:"required,min=5,max=300"`
	Body  string   `json:"body" binding:"required,min=20"`
	Tags  []string `json:"tags" binding:"required,min=1,max=5"`
}

type UpdateQuestionRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}
