package forum

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrQuestionClosed   = errors.New("question is closed")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrVoteNotFound     = errors.New("vote not found")
)

type (
	// QuestionRepository owns the Question and Answer lifecycles.
	QuestionRepository interface {
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		GetQuestionByID(ctx context.Context, id string) (Question, error)
		// QueryAllQuestions returns all questions, most recent first.
		QueryAllQuestions(ctx context.Context) ([]Question, error)
		// UpdateQuestion saves the question's mutable fields
		// (status, accepted answer, views).
		UpdateQuestion(ctx context.Context, q Question) (Question, error)
		CreateAnswer(ctx context.Context, ans Answer) (Answer, error)
	}

	// Service is the forum facade consumed by UI collaborators; it composes the
	// question repository and the vote ledger and performs no independent
	// business logic beyond permission checks and tally refresh.
	Service struct {
		repo    QuestionRepository
		ledger  *Ledger
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo QuestionRepository, ledger *Ledger, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		ledger:  ledger,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// PostQuestion creates a new open question authored by actor.
func (svc *Service) PostQuestion(ctx context.Context, actor Actor, nq NewQuestion) (Question, error) {
	if !actor.Known() {
		return Question{}, ErrNotAuthorized
	}
	q := Question{
		ID:          uuid.New().String(),
		Title:       nq.Title,
		Content:     nq.Content,
		Category:    nq.Category,
		Tags:        nq.Tags,
		AuthorID:    actor.ID,
		AuthorName:  actor.Name,
		AuthorEmail: actor.Email,
		AuthorRole:  actor.Role,
		Status:      StatusOpen,
		Answers:     []Answer{},
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateQuestion(ctx, q)
}

// PostAnswer appends an answer to the question; the question's status is left
// untouched. Fails with ErrQuestionClosed on a closed question.
func (svc *Service) PostAnswer(ctx context.Context, actor Actor, questionID string, na NewAnswer) (Answer, error) {
	if !actor.Known() {
		return Answer{}, ErrNotAuthorized
	}
	q, err := svc.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return Answer{}, err
	}
	if q.Status == StatusClosed {
		return Answer{}, ErrQuestionClosed
	}

	ans := Answer{
		ID:         uuid.New().String(),
		QuestionID: q.ID,
		Content:    na.Content,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		AuthorRole: actor.Role,
		CreatedAt:  time.Now().UTC(),
	}
	ans, err = svc.repo.CreateAnswer(ctx, ans)
	if err != nil {
		return Answer{}, err
	}

	if actor.ID != q.AuthorID {
		svc.notifyAuthor(q, "answer-posted", "Your question has a new answer", map[string]interface{}{
			"Question": q,
			"Answer":   ans,
		})
	}
	return ans, nil
}

// AcceptAnswer marks the answer as the question's accepted answer and
// transitions the question to StatusAnswered. Only the question's author may
// accept; accepting the same answer again is a no-op and accepting a different
// answer re-targets the acceptance.
func (svc *Service) AcceptAnswer(ctx context.Context, actor Actor, questionID, answerID string) (Question, error) {
	q, err := svc.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return Question{}, err
	}
	if q.AuthorID != actor.ID {
		return Question{}, ErrNotAuthorized
	}
	if q.Status == StatusClosed {
		return Question{}, ErrQuestionClosed
	}
	if !q.HasAnswer(answerID) {
		return Question{}, ErrAnswerNotFound
	}
	if q.Status == StatusAnswered && q.AcceptedAnswerID == answerID {
		return q, nil
	}

	q.Status = StatusAnswered
	q.AcceptedAnswerID = answerID
	return svc.repo.UpdateQuestion(ctx, q)
}

// CloseQuestion transitions the question to its terminal StatusClosed state.
// Allowed for the question's author or a moderator role; closing an already
// closed question is a no-op.
func (svc *Service) CloseQuestion(ctx context.Context, actor Actor, questionID string) (Question, error) {
	q, err := svc.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return Question{}, err
	}
	if q.AuthorID != actor.ID && !actor.IsModerator() {
		return Question{}, ErrNotAuthorized
	}
	if q.Status == StatusClosed {
		return q, nil
	}

	q.Status = StatusClosed
	q, err = svc.repo.UpdateQuestion(ctx, q)
	if err != nil {
		return Question{}, err
	}

	if actor.ID != q.AuthorID {
		svc.notifyAuthor(q, "question-closed", "Your question was closed", map[string]interface{}{
			"Question": q,
			"ClosedBy": actor,
		})
	}
	return q, nil
}

// GetQuestion returns the question with refreshed vote tallies and
// bumps its view counter.
func (svc *Service) GetQuestion(ctx context.Context, questionID string) (Question, error) {
	q, err := svc.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return Question{}, err
	}
	q.Views++
	q, err = svc.repo.UpdateQuestion(ctx, q)
	if err != nil {
		return Question{}, err
	}
	return svc.refreshQuestionTallies(ctx, q)
}

// Search filters the current question snapshot; an empty filter lists
// all questions, most recent first.
func (svc *Service) Search(ctx context.Context, filter QueryFilter) ([]Question, error) {
	questions, err := svc.repo.QueryAllQuestions(ctx)
	if err != nil {
		return nil, err
	}
	questions, err = svc.refreshTallies(ctx, questions)
	if err != nil {
		return nil, err
	}
	return SearchQuestions(questions, filter), nil
}

// Vote records the actor's vote and returns the target's refreshed tally.
func (svc *Service) Vote(ctx context.Context, actor Actor, cv CastVote) (int, error) {
	return svc.ledger.CastVote(ctx, actor, cv)
}

// UserVote returns the user's current vote value on the target; 0 when the
// user has not voted on it.
func (svc *Service) UserVote(ctx context.Context, userID, targetID string, targetType TargetType) (int, error) {
	return svc.ledger.UserVote(ctx, userID, targetID, targetType)
}

// refreshQuestionTallies refreshes the cached tallies of a single question
// and its answers from the ledger.
func (svc *Service) refreshQuestionTallies(ctx context.Context, q Question) (Question, error) {
	tally, err := svc.ledger.TallyFor(ctx, q.ID, TargetQuestion)
	if err != nil {
		return Question{}, err
	}
	q.Votes = tally
	for i := range q.Answers {
		if tally, err = svc.ledger.TallyFor(ctx, q.Answers[i].ID, TargetAnswer); err != nil {
			return Question{}, err
		}
		q.Answers[i].Votes = tally
	}
	return q, nil
}

// refreshTallies refreshes the cached tallies of all questions in bulk.
func (svc *Service) refreshTallies(ctx context.Context, questions []Question) ([]Question, error) {
	qTallies, err := svc.ledger.repo.TallyAllVotes(ctx, TargetQuestion)
	if err != nil {
		return nil, err
	}
	aTallies, err := svc.ledger.repo.TallyAllVotes(ctx, TargetAnswer)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Votes = qTallies[questions[i].ID]
		for j := range questions[i].Answers {
			questions[i].Answers[j].Votes = aTallies[questions[i].Answers[j].ID]
		}
	}
	return questions, nil
}

func (svc *Service) notifyAuthor(q Question, template, subject string, data map[string]interface{}) {
	if svc.mailSvc == nil || q.AuthorEmail == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: q.AuthorName, Address: q.AuthorEmail}},
		Subject:      subject,
		TemplateName: template,
		TemplateData: data,
	})
}
