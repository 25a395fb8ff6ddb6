package voting

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wlopz/codeflow-app/internal/models"
)

// Invalidator is notified after a vote commits so stale cached reads of
// the target can be dropped. Best effort: failures are logged by the
// implementation, never surfaced, never part of the transaction.
type Invalidator interface {
	InvalidateTarget(targetType models.TargetType, targetID int)
}

// VoteState is the current stance of one user on one target.
type VoteState struct {
	HasUpvoted   bool `json:"hasUpvoted"`
	HasDownvoted bool `json:"hasDownvoted"`
}

// Service is the voting engine's entry point. CastVote is the only code
// path in the application that writes Vote rows or the upvotes/downvotes
// columns on questions and answers.
type Service struct {
	db         *gorm.DB
	ledger     Ledger
	targets    TargetStore
	invalidate Invalidator
}

// NewService wires the engine to an injected database handle. A nil
// invalidator disables the post-commit signal.
func NewService(db *gorm.DB, invalidate Invalidator) *Service {
	return &Service{db: db, invalidate: invalidate}
}

// CastVote applies one vote request atomically: it re-reads the caller's
// existing vote inside the transaction, resolves the transition
// (cast/retract/switch) and applies the ledger mutation together with the
// counter increments. Any failure aborts the whole transaction; no
// partial state is ever visible.
//
// The re-read takes a row lock, so two concurrent casts by the same user
// on the same target serialize; a create/create race on a fresh target is
// caught by the ledger's unique index instead and surfaces as ErrConflict,
// which callers may retry.
func (s *Service) CastVote(ctx context.Context, authorID, targetID int, targetType models.TargetType, voteType models.VoteType) (TransitionKind, error) {
	if _, err := targetModel(targetType); err != nil {
		return 0, err
	}
	if _, err := counterColumn(voteType); err != nil {
		return 0, err
	}

	var kind TransitionKind
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.targets.Exists(tx, targetType, targetID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s %d: %w", targetType, targetID, ErrTargetNotFound)
		}

		locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})
		existing, err := s.ledger.FindVote(locked, authorID, targetID, targetType)
		if err != nil {
			return err
		}

		transition := Resolve(existing, voteType)
		kind = transition.Kind

		switch transition.Kind {
		case Cast:
			if _, err := s.ledger.CreateVote(tx, authorID, targetID, targetType, voteType); err != nil {
				return err
			}
		case Retract:
			if err := s.ledger.DeleteVote(tx, existing.ID); err != nil {
				return err
			}
		case Switch:
			if _, err := s.ledger.UpdateVoteType(tx, existing.ID, voteType); err != nil {
				return err
			}
		}

		for _, delta := range transition.Deltas {
			if err := s.targets.IncrementField(tx, targetType, targetID, delta.VoteType, delta.Change); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, classify(err)
	}

	if s.invalidate != nil {
		s.invalidate.InvalidateTarget(targetType, targetID)
	}
	return kind, nil
}

// HasVoted reports the caller's current vote state on a target. Plain
// read outside any transaction; used for UI state only, the coordinator
// always re-reads transactionally.
func (s *Service) HasVoted(ctx context.Context, authorID, targetID int, targetType models.TargetType) (VoteState, error) {
	vote, err := s.ledger.FindVote(s.db.WithContext(ctx), authorID, targetID, targetType)
	if err != nil {
		return VoteState{}, classify(err)
	}
	if vote == nil {
		return VoteState{}, nil
	}
	return VoteState{
		HasUpvoted:   vote.VoteType == models.Upvote,
		HasDownvoted: vote.VoteType == models.Downvote,
	}, nil
}

// classify maps store-level failures to the engine's error kinds at the
// coordinator boundary. Engine sentinels and context cancellation pass
// through; anything else becomes ErrTransaction.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrTargetNotFound),
		errors.Is(err, ErrVoteNotFound),
		errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		log.Printf("vote transaction aborted: %v", err)
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
}
