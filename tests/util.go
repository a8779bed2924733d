package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/forum"
)

func CreateQuestion(
	t *testing.T,
	repo forum.QuestionRepository,
	title, content string,
	category forum.Category,
	tags []string,
	author forum.Actor,
	createdAt ...time.Time,
) forum.Question {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	q := forum.Question{
		ID:          uuid.New().String(),
		Title:       title,
		Content:     content,
		Category:    category,
		Tags:        tags,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		AuthorRole:  author.Role,
		Status:      forum.StatusOpen,
		Answers:     []forum.Answer{},
		CreatedAt:   tstamp,
	}
	q, err := repo.CreateQuestion(context.Background(), q)
	if err != nil {
		t.Fatalf("CreateQuestion() failed: %v", err)
	}
	return q
}

func CreateAnswer(
	t *testing.T,
	repo forum.QuestionRepository,
	questionID, content string,
	author forum.Actor,
	createdAt ...time.Time,
) forum.Answer {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	ans := forum.Answer{
		ID:         uuid.New().String(),
		QuestionID: questionID,
		Content:    content,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		AuthorRole: author.Role,
		CreatedAt:  tstamp,
	}
	ans, err := repo.CreateAnswer(context.Background(), ans)
	if err != nil {
		t.Fatalf("CreateAnswer() failed: %v", err)
	}
	return ans
}

func CastVote(
	t *testing.T,
	repo forum.VoteRepository,
	userID, targetID string,
	targetType forum.TargetType,
	value int,
) {
	t.Helper()

	vote := forum.Vote{
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
		Value:      value,
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.UpsertVote(context.Background(), vote); err != nil {
		t.Fatalf("CastVote() failed: %v", err)
	}
}
