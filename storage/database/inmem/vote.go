package inmemdb

import (
	"context"

	"github.com/trezcool/darasa/core/forum"
)

type voteRepository struct {
	db *voteTable
}

func NewVoteRepository(db *DB) forum.VoteRepository {
	return &voteRepository{db: db.vote}
}

func (repo *voteRepository) UpsertVote(ctx context.Context, vote forum.Vote) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := voteKey{userID: vote.UserID, targetID: vote.TargetID, targetType: vote.TargetType}
	repo.db.table[key] = &vote
	return nil
}

func (repo *voteRepository) GetVote(ctx context.Context, userID, targetID string, targetType forum.TargetType) (forum.Vote, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	key := voteKey{userID: userID, targetID: targetID, targetType: targetType}
	if vote, ok := repo.db.table[key]; ok {
		return *vote, nil
	}
	return forum.Vote{}, forum.ErrVoteNotFound
}

func (repo *voteRepository) TallyVotes(ctx context.Context, targetID string, targetType forum.TargetType) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var tally int
	for key, vote := range repo.db.table {
		if key.targetID == targetID && key.targetType == targetType {
			tally += vote.Value
		}
	}
	return tally, nil
}

func (repo *voteRepository) TallyAllVotes(ctx context.Context, targetType forum.TargetType) (map[string]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tallies := make(map[string]int)
	for key, vote := range repo.db.table {
		if key.targetType == targetType {
			tallies[key.targetID] += vote.Value
		}
	}
	return tallies, nil
}
