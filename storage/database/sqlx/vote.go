package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/forum"
)

type voteRepository struct {
	db *sqlx.DB
}

func NewVoteRepository(db *sqlx.DB) forum.VoteRepository {
	return &voteRepository{db: db}
}

func (repo *voteRepository) UpsertVote(ctx context.Context, vote forum.Vote) error {
	query := `
		INSERT INTO vote (user_id, target_id, target_type, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, target_id, target_type) DO UPDATE SET value = EXCLUDED.value`
	_, err := repo.db.ExecContext(ctx, query, vote.UserID, vote.TargetID, string(vote.TargetType), vote.Value, vote.CreatedAt)
	return errors.Wrap(err, "upserting vote")
}

func (repo *voteRepository) GetVote(ctx context.Context, userID, targetID string, targetType forum.TargetType) (forum.Vote, error) {
	var value int
	query := `SELECT value FROM vote WHERE user_id = $1 AND target_id = $2 AND target_type = $3`
	if err := repo.db.GetContext(ctx, &value, query, userID, targetID, string(targetType)); err != nil {
		if err == sql.ErrNoRows {
			return forum.Vote{}, forum.ErrVoteNotFound
		}
		return forum.Vote{}, errors.Wrap(err, "getting vote")
	}
	return forum.Vote{UserID: userID, TargetID: targetID, TargetType: targetType, Value: value}, nil
}

func (repo *voteRepository) TallyVotes(ctx context.Context, targetID string, targetType forum.TargetType) (int, error) {
	var tally int
	query := `SELECT COALESCE(SUM(value), 0) FROM vote WHERE target_id = $1 AND target_type = $2`
	if err := repo.db.GetContext(ctx, &tally, query, targetID, string(targetType)); err != nil {
		return 0, errors.Wrap(err, "tallying votes")
	}
	return tally, nil
}

func (repo *voteRepository) TallyAllVotes(ctx context.Context, targetType forum.TargetType) (map[string]int, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT target_id, SUM(value) FROM vote WHERE target_type = $1 GROUP BY target_id`, string(targetType))
	if err != nil {
		return nil, errors.Wrap(err, "tallying all votes")
	}
	defer func() { _ = rows.Close() }()

	tallies := make(map[string]int)
	for rows.Next() {
		var targetID string
		var tally int
		if err = rows.Scan(&targetID, &tally); err != nil {
			return nil, errors.Wrap(err, "tallying all votes")
		}
		tallies[targetID] = tally
	}
	return tallies, errors.Wrap(rows.Err(), "tallying all votes")
}
