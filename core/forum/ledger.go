package forum

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/darasa/core"
)

var errBadVoteValue = errors.New("vote value must be +1 or -1")

type (
	// VoteRepository owns the vote records; one record at most per
	// (user, target, target type) tuple.
	VoteRepository interface {
		// UpsertVote records the vote, replacing any prior vote by the same
		// user on the same target.
		UpsertVote(ctx context.Context, vote Vote) error
		GetVote(ctx context.Context, userID, targetID string, targetType TargetType) (Vote, error)
		// TallyVotes sums all vote values for the target; 0 when the target has no votes.
		TallyVotes(ctx context.Context, targetID string, targetType TargetType) (int, error)
		// TallyAllVotes sums vote values per target for all targets of the given type.
		TallyAllVotes(ctx context.Context, targetType TargetType) (map[string]int, error)
	}

	// Ledger keeps the per-user vote state and derives target tallies from it.
	Ledger struct {
		repo VoteRepository
	}
)

func NewLedger(repo VoteRepository) *Ledger {
	return &Ledger{repo: repo}
}

// CastVote upserts the actor's vote on the target and returns the target's new tally.
// Re-casting the same value is a no-op; casting the opposite value flips the sign.
func (l *Ledger) CastVote(ctx context.Context, actor Actor, cv CastVote) (int, error) {
	if !actor.Known() {
		return 0, ErrNotAuthorized
	}
	if cv.Value != 1 && cv.Value != -1 {
		return 0, core.NewValidationError(errBadVoteValue, core.FieldError{Field: "value", Error: errBadVoteValue.Error()})
	}

	vote := Vote{
		UserID:     actor.ID,
		TargetID:   cv.TargetID,
		TargetType: cv.TargetType,
		Value:      cv.Value,
		CreatedAt:  time.Now().UTC(),
	}
	if err := l.repo.UpsertVote(ctx, vote); err != nil {
		return 0, err
	}
	return l.repo.TallyVotes(ctx, cv.TargetID, cv.TargetType)
}

// UserVote returns the user's current vote value on the target; 0 when the user
// has not voted on it.
func (l *Ledger) UserVote(ctx context.Context, userID, targetID string, targetType TargetType) (int, error) {
	vote, err := l.repo.GetVote(ctx, userID, targetID, targetType)
	if err != nil {
		if err == ErrVoteNotFound {
			return 0, nil
		}
		return 0, err
	}
	return vote.Value, nil
}

// TallyFor returns the target's aggregate tally; 0 for an unknown target.
func (l *Ledger) TallyFor(ctx context.Context, targetID string, targetType TargetType) (int, error) {
	return l.repo.TallyVotes(ctx, targetID, targetType)
}
