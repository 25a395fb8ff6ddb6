package voting

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wlopz/codeflow-app/internal/models"
)

// Ledger owns Vote records. Every method takes the database handle it
// must run against, so callers decide whether an operation participates
// in a transaction; nothing here opens or commits one.
type Ledger struct{}

// FindVote returns the caller's vote on a target, or nil when none exists.
func (Ledger) FindVote(tx *gorm.DB, authorID, targetID int, targetType models.TargetType) (*models.Vote, error) {
	var vote models.Vote
	err := tx.Where("author_id = ? AND target_id = ? AND target_type = ?", authorID, targetID, targetType).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &vote, nil
}

// CreateVote inserts a new vote. The unique index on
// (author_id, target_id, target_type) rejects a duplicate with
// ErrConflict; under serialized casts that never fires.
func (Ledger) CreateVote(tx *gorm.DB, authorID, targetID int, targetType models.TargetType, voteType models.VoteType) (*models.Vote, error) {
	vote := models.Vote{
		AuthorID:   authorID,
		TargetID:   targetID,
		TargetType: targetType,
		VoteType:   voteType,
	}
	if err := tx.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create vote: %w", ErrConflict)
		}
		return nil, fmt.Errorf("create vote: %w", err)
	}
	return &vote, nil
}

// UpdateVoteType changes an existing vote's direction.
func (Ledger) UpdateVoteType(tx *gorm.DB, voteID int, voteType models.VoteType) (*models.Vote, error) {
	res := tx.Model(&models.Vote{}).Where("id = ?", voteID).Update("vote_type", voteType)
	if res.Error != nil {
		return nil, fmt.Errorf("update vote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update vote %d: %w", voteID, ErrVoteNotFound)
	}

	var vote models.Vote
	if err := tx.First(&vote, voteID).Error; err != nil {
		return nil, fmt.Errorf("reload vote: %w", err)
	}
	return &vote, nil
}

// DeleteVote removes a vote record.
func (Ledger) DeleteVote(tx *gorm.DB, voteID int) error {
	res := tx.Delete(&models.Vote{}, voteID)
	if res.Error != nil {
		return fmt.Errorf("delete vote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete vote %d: %w", voteID, ErrVoteNotFound)
	}
	return nil
}

// CountVotes returns how many ledger records a target holds for a given
// direction. Used by read paths and tests, never by the coordinator.
func (Ledger) CountVotes(tx *gorm.DB, targetID int, targetType models.TargetType, voteType models.VoteType) (int, error) {
	var n int64
	err := tx.Model(&models.Vote{}).
		Where("target_id = ? AND target_type = ? AND vote_type = ?", targetID, targetType, voteType).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return int(n), nil
}
