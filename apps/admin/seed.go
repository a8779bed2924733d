package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/forum"
)

var demoAuthors = []forum.Actor{
	{ID: "demo-amina", Name: "Amina O.", Email: "amina@demo.local", Role: forum.RoleStudent},
	{ID: "demo-joseph", Name: "Joseph K.", Email: "joseph@demo.local", Role: forum.RoleStudent},
	{ID: "demo-mwalimu", Name: "Mw. Neema", Email: "neema@demo.local", Role: forum.RoleTeacher},
}

// seedDemo populates the forum with a few demo questions for local envs.
func (cli *commandLine) seedDemo() error {
	ctx := context.Background()
	now := time.Now().UTC()

	questions := []forum.Question{
		{
			Title:    "Help with derivatives",
			Content:  "I am stuck on the chain rule, any pointers?",
			Category: forum.CategoryMathematics,
			Tags:     []string{"calculus"},
		},
		{
			Title:    "Balancing redox equations",
			Content:  "How do I balance a redox reaction in acidic solution?",
			Category: forum.CategoryChemistry,
			Tags:     []string{"redox", "equations"},
		},
		{
			Title:    "Newton's third law examples",
			Content:  "Looking for everyday examples of action-reaction pairs.",
			Category: forum.CategoryPhysics,
			Tags:     []string{"mechanics"},
		},
	}

	for i, q := range questions {
		author := demoAuthors[i%len(demoAuthors)]
		q.ID = uuid.New().String()
		q.AuthorID = author.ID
		q.AuthorName = author.Name
		q.AuthorEmail = author.Email
		q.AuthorRole = author.Role
		q.Status = forum.StatusOpen
		q.CreatedAt = now.Add(time.Duration(i) * time.Second)
		if _, err := cli.qRepo.CreateQuestion(ctx, q); err != nil {
			return err
		}

		answerer := demoAuthors[(i+1)%len(demoAuthors)]
		ans := forum.Answer{
			ID:         uuid.New().String(),
			QuestionID: q.ID,
			Content:    "Demo answer: have a look at your course notes, chapter 3.",
			AuthorID:   answerer.ID,
			AuthorName: answerer.Name,
			AuthorRole: answerer.Role,
			CreatedAt:  q.CreatedAt.Add(time.Minute),
		}
		if _, err := cli.qRepo.CreateAnswer(ctx, ans); err != nil {
			return err
		}

		vote := forum.Vote{
			UserID:     answerer.ID,
			TargetID:   q.ID,
			TargetType: forum.TargetQuestion,
			Value:      1,
			CreatedAt:  q.CreatedAt.Add(2 * time.Minute),
		}
		if err := cli.vRepo.UpsertVote(ctx, vote); err != nil {
			return err
		}
	}

	logger.Printf("seeded %d demo questions", len(questions))
	return nil
}
