package forum_test

import (
	"context"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/forum"
	emailsvc "github.com/trezcool/darasa/services/email"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

var (
	asker   = forum.Actor{ID: "asker", Name: "Amani T.", Email: "amani@test.cd", Role: forum.RoleStudent}
	helper  = forum.Actor{ID: "helper", Name: "Hawa B.", Email: "hawa@test.cd", Role: forum.RoleVolunteer}
	teacher = forum.Actor{ID: "teacher", Name: "Prof. Kalala", Email: "kalala@test.cd", Role: forum.RoleTeacher}
	rando   = forum.Actor{ID: "rando", Name: "Randy O.", Email: "randy@test.cd", Role: forum.RoleStudent}
)

func setupService(t *testing.T) (*forum.Service, forum.QuestionRepository, forum.VoteRepository) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setupService() failed: %v", err)
	}
	conf := &core.Config{AppName: "Darasa", Debug: true, TestMode: true}
	qRepo := inmemdb.NewQuestionRepository(db)
	vRepo := inmemdb.NewVoteRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	svc := forum.NewService(qRepo, forum.NewLedger(vRepo), mailSvc, conf)
	return svc, qRepo, vRepo
}

func Test_Service_PostQuestion(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	q, err := svc.PostQuestion(ctx, asker, forum.NewQuestion{
		Title:    "Help with derivatives",
		Content:  "I am stuck on the chain rule",
		Category: forum.CategoryMathematics,
		Tags:     []string{"calculus"},
	})
	if err != nil {
		t.Fatalf("PostQuestion() failed: %v", err)
	}
	if q.ID == "" {
		t.Error("PostQuestion() question has no ID")
	}
	if q.Status != forum.StatusOpen {
		t.Errorf("PostQuestion() status = %s, want %s", q.Status, forum.StatusOpen)
	}
	if q.Votes != 0 || q.Views != 0 {
		t.Errorf("PostQuestion() votes/views = %d/%d, want 0/0", q.Votes, q.Views)
	}
	if len(q.Answers) != 0 {
		t.Errorf("PostQuestion() answers = %v, want none", q.Answers)
	}
	if q.AuthorID != asker.ID || q.AuthorName != asker.Name || q.AuthorRole != asker.Role {
		t.Errorf("PostQuestion() author snapshot = %s/%s/%s", q.AuthorID, q.AuthorName, q.AuthorRole)
	}
	if q.CreatedAt.IsZero() {
		t.Error("PostQuestion() CreatedAt not set")
	}
}

func Test_Service_PostQuestion_requiresIdentity(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.PostQuestion(context.Background(), forum.Actor{}, forum.NewQuestion{
		Title:    "Anonymous",
		Content:  "should fail",
		Category: forum.CategoryOther,
	})
	if err != forum.ErrNotAuthorized {
		t.Errorf("PostQuestion() error = %v, want %v", err, forum.ErrNotAuthorized)
	}
}

func Test_Service_PostAnswer(t *testing.T) {
	svc, qRepo, _ := setupService(t)
	ctx := context.Background()
	q := testutil.CreateQuestion(t, qRepo, "Newton's second law", "F = ma?", forum.CategoryPhysics, nil, asker)

	ans, err := svc.PostAnswer(ctx, helper, q.ID, forum.NewAnswer{Content: "Decompose the forces along the incline."})
	if err != nil {
		t.Fatalf("PostAnswer() failed: %v", err)
	}
	if ans.QuestionID != q.ID || ans.AuthorID != helper.ID {
		t.Errorf("PostAnswer() answer = %+v", ans)
	}

	// answering does not change the question's status
	q, err = svc.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuestion() failed: %v", err)
	}
	if q.Status != forum.StatusOpen {
		t.Errorf("question status = %s, want %s", q.Status, forum.StatusOpen)
	}
	if len(q.Answers) != 1 || q.Answers[0].ID != ans.ID {
		t.Errorf("question answers = %v, want [%s]", q.Answers, ans.ID)
	}

	if _, err = svc.PostAnswer(ctx, helper, "nope", forum.NewAnswer{Content: "hi"}); err != forum.ErrQuestionNotFound {
		t.Errorf("PostAnswer(unknown) error = %v, want %v", err, forum.ErrQuestionNotFound)
	}
}

func Test_Service_PostAnswer_notifiesAuthor(t *testing.T) {
	svc, qRepo, _ := setupService(t)
	ctx := context.Background()
	q := testutil.CreateQuestion(t, qRepo, "Balancing equations", "H2 + O2?", forum.CategoryChemistry, nil, asker)

	emailsvc.SentMessages = nil
	if _, err := svc.PostAnswer(ctx, helper, q.ID, forum.NewAnswer{Content: "2H2 + O2 -> 2H2O"}); err != nil {
		t.Fatalf("PostAnswer() failed: %v", err)
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("SentMessages = %d, want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if len(msg.To) != 1 || msg.To[0].Address != asker.Email {
		t.Errorf("notification sent to %v, want %s", msg.To, asker.Email)
	}

	// self-answers are not notified
	emailsvc.SentMessages = nil
	if _, err := svc.PostAnswer(ctx, asker, q.ID, forum.NewAnswer{Content: "never mind, got it"}); err != nil {
		t.Fatalf("PostAnswer() failed: %v", err)
	}
	if len(emailsvc.SentMessages) != 0 {
		t.Errorf("SentMessages = %d, want 0", len(emailsvc.SentMessages))
	}
}

func Test_Service_AcceptAnswer(t *testing.T) {
	svc, qRepo, _ := setupService(t)
	ctx := context.Background()
	q := testutil.CreateQuestion(t, qRepo, "Photosynthesis inputs", "What goes in?", forum.CategoryBiology, nil, asker)
	ans1 := testutil.CreateAnswer(t, qRepo, q.ID, "Light, water, CO2.", helper)
	ans2 := testutil.CreateAnswer(t, qRepo, q.ID, "Also chlorophyll as catalyst.", teacher)
	other := testutil.CreateQuestion(t, qRepo, "Other question", "Unrelated", forum.CategoryOther, nil, asker)
	foreign := testutil.CreateAnswer(t, qRepo, other.ID, "Unrelated answer.", helper)

	// only the author accepts
	if _, err := svc.AcceptAnswer(ctx, helper, q.ID, ans1.ID); err != forum.ErrNotAuthorized {
		t.Errorf("AcceptAnswer(non-author) error = %v, want %v", err, forum.ErrNotAuthorized)
	}
	// the answer must belong to the question
	if _, err := svc.AcceptAnswer(ctx, asker, q.ID, foreign.ID); err != forum.ErrAnswerNotFound {
		t.Errorf("AcceptAnswer(foreign answer) error = %v, want %v", err, forum.ErrAnswerNotFound)
	}

	got, err := svc.AcceptAnswer(ctx, asker, q.ID, ans1.ID)
	if err != nil {
		t.Fatalf("AcceptAnswer() failed: %v", err)
	}
	if got.Status != forum.StatusAnswered || got.AcceptedAnswerID != ans1.ID {
		t.Errorf("AcceptAnswer() = %s/%s, want %s/%s", got.Status, got.AcceptedAnswerID, forum.StatusAnswered, ans1.ID)
	}

	// accepting again is a no-op
	if got, err = svc.AcceptAnswer(ctx, asker, q.ID, ans1.ID); err != nil || got.AcceptedAnswerID != ans1.ID {
		t.Errorf("AcceptAnswer(again) = (%s, %v)", got.AcceptedAnswerID, err)
	}
	// a different answer re-targets the acceptance
	if got, err = svc.AcceptAnswer(ctx, asker, q.ID, ans2.ID); err != nil || got.AcceptedAnswerID != ans2.ID {
		t.Errorf("AcceptAnswer(re-target) = (%s, %v), want (%s, nil)", got.AcceptedAnswerID, err, ans2.ID)
	}
}

func Test_Service_CloseQuestion(t *testing.T) {
	svc, qRepo, _ := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   forum.Actor
		wantErr error
	}{
		{name: "author can close", actor: asker},
		{name: "teacher can close", actor: teacher},
		{name: "admin can close", actor: forum.Actor{ID: "root", Name: "Root", Role: forum.RoleAdmin}},
		{name: "volunteer cannot close", actor: helper, wantErr: forum.ErrNotAuthorized},
		{name: "other student cannot close", actor: rando, wantErr: forum.ErrNotAuthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := testutil.CreateQuestion(t, qRepo, "To be closed", "...", forum.CategoryHistory, nil, asker)
			got, err := svc.CloseQuestion(ctx, tt.actor, q.ID)
			if err != tt.wantErr {
				t.Fatalf("CloseQuestion() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.Status != forum.StatusClosed {
				t.Errorf("CloseQuestion() status = %s, want %s", got.Status, forum.StatusClosed)
			}
		})
	}
}

func Test_Service_CloseQuestion_isTerminal(t *testing.T) {
	svc, qRepo, _ := setupService(t)
	ctx := context.Background()
	q := testutil.CreateQuestion(t, qRepo, "Closed case", "...", forum.CategoryLiterature, nil, asker)
	ans := testutil.CreateAnswer(t, qRepo, q.ID, "A fine answer.", helper)

	if _, err := svc.CloseQuestion(ctx, asker, q.ID); err != nil {
		t.Fatalf("CloseQuestion() failed: %v", err)
	}
	// closing again is a no-op
	if got, err := svc.CloseQuestion(ctx, asker, q.ID); err != nil || got.Status != forum.StatusClosed {
		t.Errorf("CloseQuestion(again) = (%s, %v)", got.Status, err)
	}
	// no answering, no accepting once closed
	if _, err := svc.PostAnswer(ctx, helper, q.ID, forum.NewAnswer{Content: "too late"}); err != forum.ErrQuestionClosed {
		t.Errorf("PostAnswer(closed) error = %v, want %v", err, forum.ErrQuestionClosed)
	}
	if _, err := svc.AcceptAnswer(ctx, asker, q.ID, ans.ID); err != forum.ErrQuestionClosed {
		t.Errorf("AcceptAnswer(closed) error = %v, want %v", err, forum.ErrQuestionClosed)
	}
}

func Test_Service_CloseQuestion_notifiesOnModeratorClose(t *testing.T) {
	svc, qRepo, _ := setupService(t)
	ctx := context.Background()

	q := testutil.CreateQuestion(t, qRepo, "Off topic", "...", forum.CategoryOther, nil, asker)
	emailsvc.SentMessages = nil
	if _, err := svc.CloseQuestion(ctx, teacher, q.ID); err != nil {
		t.Fatalf("CloseQuestion() failed: %v", err)
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("SentMessages = %d, want 1", len(emailsvc.SentMessages))
	}

	// author closing their own question is not notified
	q = testutil.CreateQuestion(t, qRepo, "Solved offline", "...", forum.CategoryOther, nil, asker)
	emailsvc.SentMessages = nil
	if _, err := svc.CloseQuestion(ctx, asker, q.ID); err != nil {
		t.Fatalf("CloseQuestion() failed: %v", err)
	}
	if len(emailsvc.SentMessages) != 0 {
		t.Errorf("SentMessages = %d, want 0", len(emailsvc.SentMessages))
	}
}

func Test_Service_GetQuestion(t *testing.T) {
	svc, qRepo, vRepo := setupService(t)
	ctx := context.Background()
	q := testutil.CreateQuestion(t, qRepo, "Recursion base case", "When to stop?", forum.CategoryComputerScience, nil, asker)
	ans := testutil.CreateAnswer(t, qRepo, q.ID, "When the input is trivial.", helper)
	testutil.CastVote(t, vRepo, helper.ID, q.ID, forum.TargetQuestion, 1)
	testutil.CastVote(t, vRepo, rando.ID, q.ID, forum.TargetQuestion, 1)
	testutil.CastVote(t, vRepo, asker.ID, ans.ID, forum.TargetAnswer, 1)

	got, err := svc.GetQuestion(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuestion() failed: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("GetQuestion() views = %d, want 1", got.Views)
	}
	if got.Votes != 2 {
		t.Errorf("GetQuestion() votes = %d, want 2", got.Votes)
	}
	if len(got.Answers) != 1 || got.Answers[0].Votes != 1 {
		t.Errorf("GetQuestion() answer votes = %+v, want 1", got.Answers)
	}

	// every view counts
	if got, err = svc.GetQuestion(ctx, q.ID); err != nil || got.Views != 2 {
		t.Errorf("GetQuestion(again) views = (%d, %v), want (2, nil)", got.Views, err)
	}

	if _, err = svc.GetQuestion(ctx, "nope"); err != forum.ErrQuestionNotFound {
		t.Errorf("GetQuestion(unknown) error = %v, want %v", err, forum.ErrQuestionNotFound)
	}
}

func Test_Service_Search(t *testing.T) {
	svc, qRepo, vRepo := setupService(t)
	ctx := context.Background()

	q1 := testutil.CreateQuestion(t, qRepo, "Help with derivatives", "Chain rule trouble", forum.CategoryMathematics, []string{"calculus"}, asker)
	q2 := testutil.CreateQuestion(t, qRepo, "Newton's laws", "Incline problem", forum.CategoryPhysics, []string{"mechanics"}, rando)
	testutil.CastVote(t, vRepo, helper.ID, q1.ID, forum.TargetQuestion, 1)

	// empty filter lists all, most recent first
	got, err := svc.Search(ctx, forum.QueryFilter{})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if !sameIDs(got, []string{q2.ID, q1.ID}) {
		t.Errorf("Search() = %v, want [%s %s]", questionIDs(got), q2.ID, q1.ID)
	}
	if got[1].Votes != 1 {
		t.Errorf("Search() tallies not refreshed: votes = %d, want 1", got[1].Votes)
	}

	got, err = svc.Search(ctx, forum.QueryFilter{Search: "derivatives", Category: forum.CategoryMathematics})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if !sameIDs(got, []string{q1.ID}) {
		t.Errorf("Search(filtered) = %v, want [%s]", questionIDs(got), q1.ID)
	}
}

func Test_Service_Vote(t *testing.T) {
	svc, qRepo, _ := setupService(t)
	ctx := context.Background()
	q := testutil.CreateQuestion(t, qRepo, "Vote target", "...", forum.CategoryOther, nil, asker)

	cv := forum.CastVote{TargetID: q.ID, TargetType: forum.TargetQuestion, Value: 1}
	if tally, err := svc.Vote(ctx, helper, cv); err != nil || tally != 1 {
		t.Errorf("Vote() = (%d, %v), want (1, nil)", tally, err)
	}
	if vote, err := svc.UserVote(ctx, helper.ID, q.ID, forum.TargetQuestion); err != nil || vote != 1 {
		t.Errorf("UserVote() = (%d, %v), want (1, nil)", vote, err)
	}
}
