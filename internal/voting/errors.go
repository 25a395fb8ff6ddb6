package voting

import "errors"

// Error kinds surfaced by the engine. Store-level failures are classified
// at the coordinator boundary and wrapped around one of these sentinels, so
// callers can branch with errors.Is without seeing gorm internals.
var (
	ErrValidation     = errors.New("invalid vote parameters")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrTargetNotFound = errors.New("target not found")
	ErrVoteNotFound   = errors.New("vote not found")
	ErrConflict       = errors.New("vote already exists")
	ErrTransaction    = errors.New("vote transaction failed")
)
