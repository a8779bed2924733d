package inmemdb

import (
	"context"

	"github.com/trezcool/darasa/core/forum"
)

type questionRepository struct {
	db *questionTable
}

func NewQuestionRepository(db *DB) forum.QuestionRepository {
	return &questionRepository{db: db.question}
}

// clone copies the question so callers never alias table memory.
func clone(q forum.Question) forum.Question {
	q.Tags = append([]string(nil), q.Tags...)
	q.Answers = append([]forum.Answer(nil), q.Answers...)
	return q
}

func (repo *questionRepository) CreateQuestion(ctx context.Context, q forum.Question) (forum.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	saved := clone(q)
	repo.db.table[saved.ID] = &saved
	repo.db.order = append(repo.db.order, saved.ID)
	return clone(saved), nil
}

func (repo *questionRepository) GetQuestionByID(ctx context.Context, id string) (forum.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.table[id]; ok {
		return clone(*q), nil
	}
	return forum.Question{}, forum.ErrQuestionNotFound
}

func (repo *questionRepository) QueryAllQuestions(ctx context.Context) ([]forum.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	// most recent first
	questions := make([]forum.Question, 0, len(repo.db.order))
	for i := len(repo.db.order) - 1; i >= 0; i-- {
		if q, ok := repo.db.table[repo.db.order[i]]; ok {
			questions = append(questions, clone(*q))
		}
	}
	return questions, nil
}

func (repo *questionRepository) UpdateQuestion(ctx context.Context, q forum.Question) (forum.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save mutable fields
	origQ, ok := repo.db.table[q.ID]
	if !ok {
		return forum.Question{}, forum.ErrQuestionNotFound
	}
	origQ.Status = q.Status
	origQ.AcceptedAnswerID = q.AcceptedAnswerID
	origQ.Views = q.Views
	return clone(*origQ), nil
}

func (repo *questionRepository) CreateAnswer(ctx context.Context, ans forum.Answer) (forum.Answer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	q, ok := repo.db.table[ans.QuestionID]
	if !ok {
		return forum.Answer{}, forum.ErrQuestionNotFound
	}
	q.Answers = append(q.Answers, ans)
	return ans, nil
}
