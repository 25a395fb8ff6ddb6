package voting

import (
	"testing"

	"github.com/wlopz/codeflow-app/internal/models"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		existing  *models.Vote
		requested models.VoteType
		wantKind  TransitionKind
		wantDelta []CounterDelta
	}{
		{
			name:      "no vote, upvote casts",
			existing:  nil,
			requested: models.Upvote,
			wantKind:  Cast,
			wantDelta: []CounterDelta{{VoteType: models.Upvote, Change: 1}},
		},
		{
			name:      "no vote, downvote casts",
			existing:  nil,
			requested: models.Downvote,
			wantKind:  Cast,
			wantDelta: []CounterDelta{{VoteType: models.Downvote, Change: 1}},
		},
		{
			name:      "same-type upvote retracts",
			existing:  &models.Vote{ID: 1, VoteType: models.Upvote},
			requested: models.Upvote,
			wantKind:  Retract,
			wantDelta: []CounterDelta{{VoteType: models.Upvote, Change: -1}},
		},
		{
			name:      "same-type downvote retracts",
			existing:  &models.Vote{ID: 1, VoteType: models.Downvote},
			requested: models.Downvote,
			wantKind:  Retract,
			wantDelta: []CounterDelta{{VoteType: models.Downvote, Change: -1}},
		},
		{
			name:      "upvote over downvote switches with both deltas",
			existing:  &models.Vote{ID: 1, VoteType: models.Downvote},
			requested: models.Upvote,
			wantKind:  Switch,
			wantDelta: []CounterDelta{
				{VoteType: models.Downvote, Change: -1},
				{VoteType: models.Upvote, Change: 1},
			},
		},
		{
			name:      "downvote over upvote switches with both deltas",
			existing:  &models.Vote{ID: 1, VoteType: models.Upvote},
			requested: models.Downvote,
			wantKind:  Switch,
			wantDelta: []CounterDelta{
				{VoteType: models.Upvote, Change: -1},
				{VoteType: models.Downvote, Change: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.existing, tt.requested)

			if got.Kind != tt.wantKind {
				t.Errorf("Resolve() kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if len(got.Deltas) != len(tt.wantDelta) {
				t.Fatalf("Resolve() returned %d deltas, want %d", len(got.Deltas), len(tt.wantDelta))
			}
			for i, want := range tt.wantDelta {
				if got.Deltas[i] != want {
					t.Errorf("Resolve() delta[%d] = %+v, want %+v", i, got.Deltas[i], want)
				}
			}
		})
	}
}

// The deltas of any transition must sum such that the counters keep
// matching the ledger: a switch moves exactly one vote between fields.
func TestResolveSwitchIsNetZero(t *testing.T) {
	got := Resolve(&models.Vote{ID: 7, VoteType: models.Downvote}, models.Upvote)

	net := 0
	for _, d := range got.Deltas {
		net += d.Change
	}
	if net != 0 {
		t.Errorf("switch deltas net to %d, want 0 (one vote moved, none created)", net)
	}
}

func TestTransitionKindString(t *testing.T) {
	if Cast.String() != "cast" || Retract.String() != "retract" || Switch.String() != "switch" {
		t.Errorf("unexpected TransitionKind strings: %v %v %v", Cast, Retract, Switch)
	}
}
