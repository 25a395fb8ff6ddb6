package voting

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wlopz/codeflow-app/internal/models"
)

// TargetStore adapts the two votable entities, questions and answers,
// behind one capability: look a target up and bump one of its
// denormalized counters. The target type is resolved to a model once
// here, not string-switched at every call site.
type TargetStore struct{}

func targetModel(targetType models.TargetType) (interface{}, error) {
	switch targetType {
	case models.TargetQuestion:
		return &models.Question{}, nil
	case models.TargetAnswer:
		return &models.Answer{}, nil
	default:
		return nil, fmt.Errorf("target type %q: %w", targetType, ErrValidation)
	}
}

func counterColumn(voteType models.VoteType) (string, error) {
	switch voteType {
	case models.Upvote:
		return "upvotes", nil
	case models.Downvote:
		return "downvotes", nil
	default:
		return "", fmt.Errorf("vote type %q: %w", voteType, ErrValidation)
	}
}

// Exists reports whether the target row is present.
func (TargetStore) Exists(tx *gorm.DB, targetType models.TargetType, targetID int) (bool, error) {
	model, err := targetModel(targetType)
	if err != nil {
		return false, err
	}
	err = tx.Select("id").First(model, targetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find %s %d: %w", targetType, targetID, err)
	}
	return true, nil
}

// IncrementField applies one counter delta as a single UPDATE
// (`SET col = col + ?`). The increment happens in the database, so
// concurrent voters on the same target never lose updates regardless of
// the surrounding isolation level.
func (TargetStore) IncrementField(tx *gorm.DB, targetType models.TargetType, targetID int, voteType models.VoteType, delta int) error {
	model, err := targetModel(targetType)
	if err != nil {
		return err
	}
	column, err := counterColumn(voteType)
	if err != nil {
		return err
	}

	res := tx.Model(model).Where("id = ?", targetID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("increment %s on %s %d: %w", column, targetType, targetID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", targetType, targetID, ErrTargetNotFound)
	}
	return nil
}
