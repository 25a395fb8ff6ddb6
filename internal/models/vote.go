package models

import "time"

// TargetType discriminates what kind of entity a vote lands on.
type TargetType string

const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

// VoteType is the direction of a vote.
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// Vote model - one row per (author, target); the source of truth for
// per-user vote state. The composite unique index backs the
// one-vote-per-target guarantee at the database level.
type Vote struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	AuthorID   int        `gorm:"not null;uniqueIndex:idx_votes_author_target" json:"author_id"`
	TargetID   int        `gorm:"not null;uniqueIndex:idx_votes_author_target" json:"target_id"`
	TargetType TargetType `gorm:"not null;uniqueIndex:idx_votes_author_target" json:"target_type"`
	VoteType   VoteType   `gorm:"not null" json:"vote_type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
