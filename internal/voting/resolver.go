package voting

import "github.com/wlopz/codeflow-app/internal/models"

// TransitionKind is what the ledger should do with the vote record.
type TransitionKind int

const (
	// Cast creates a new vote with the requested type.
	Cast TransitionKind = iota
	// Retract deletes the existing vote (same-type re-vote toggles off).
	Retract
	// Switch updates the existing vote to the requested type.
	Switch
)

func (k TransitionKind) String() string {
	switch k {
	case Cast:
		return "cast"
	case Retract:
		return "retract"
	case Switch:
		return "switch"
	default:
		return "unknown"
	}
}

// CounterDelta is one atomic increment against a target's denormalized
// vote counters.
type CounterDelta struct {
	VoteType models.VoteType
	Change   int
}

// Transition is the resolved outcome of a vote request: the ledger
// mutation plus the counter increments that keep the target's aggregate
// in sync with the ledger.
type Transition struct {
	Kind   TransitionKind
	Deltas []CounterDelta
}

// Resolve maps (existing vote, requested type) to a transition. Pure
// decision logic, no store access.
//
// A switch applies both deltas: -1 on the old type's counter and +1 on
// the new type's, so the counters always equal the ledger counts. An
// earlier revision only incremented the new counter, which left the old
// counter stale after every switch.
func Resolve(existing *models.Vote, requested models.VoteType) Transition {
	if existing == nil {
		return Transition{
			Kind:   Cast,
			Deltas: []CounterDelta{{VoteType: requested, Change: 1}},
		}
	}

	if existing.VoteType == requested {
		return Transition{
			Kind:   Retract,
			Deltas: []CounterDelta{{VoteType: requested, Change: -1}},
		}
	}

	return Transition{
		Kind: Switch,
		Deltas: []CounterDelta{
			{VoteType: existing.VoteType, Change: -1},
			{VoteType: requested, Change: 1},
		},
	}
}
