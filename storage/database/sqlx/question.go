package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/forum"
)

type questionRow struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Content          string         `db:"content"`
	Category         string         `db:"category"`
	Tags             pq.StringArray `db:"tags"`
	AuthorID         string         `db:"author_id"`
	AuthorName       string         `db:"author_name"`
	AuthorEmail      string         `db:"author_email"`
	AuthorRole       string         `db:"author_role"`
	Status           string         `db:"status"`
	AcceptedAnswerID sql.NullString `db:"accepted_answer_id"`
	Views            int            `db:"views"`
	CreatedAt        time.Time      `db:"created_at"`
}

func (row questionRow) toForum() forum.Question {
	q := forum.Question{
		ID:          row.ID,
		Title:       row.Title,
		Content:     row.Content,
		Category:    forum.Category(row.Category),
		Tags:        row.Tags,
		AuthorID:    row.AuthorID,
		AuthorName:  row.AuthorName,
		AuthorEmail: row.AuthorEmail,
		AuthorRole:  row.AuthorRole,
		Status:      forum.Status(row.Status),
		Views:       row.Views,
		Answers:     []forum.Answer{},
		CreatedAt:   row.CreatedAt.UTC(),
	}
	if row.AcceptedAnswerID.Valid {
		q.AcceptedAnswerID = row.AcceptedAnswerID.String
	}
	return q
}

type answerRow struct {
	ID         string    `db:"id"`
	QuestionID string    `db:"question_id"`
	Content    string    `db:"content"`
	AuthorID   string    `db:"author_id"`
	AuthorName string    `db:"author_name"`
	AuthorRole string    `db:"author_role"`
	CreatedAt  time.Time `db:"created_at"`
}

func (row answerRow) toForum() forum.Answer {
	return forum.Answer{
		ID:         row.ID,
		QuestionID: row.QuestionID,
		Content:    row.Content,
		AuthorID:   row.AuthorID,
		AuthorName: row.AuthorName,
		AuthorRole: row.AuthorRole,
		CreatedAt:  row.CreatedAt.UTC(),
	}
}

type questionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) forum.QuestionRepository {
	return &questionRepository{db: db}
}

func (repo *questionRepository) CreateQuestion(ctx context.Context, q forum.Question) (forum.Question, error) {
	query := `
		INSERT INTO question (id, title, content, category, tags, author_id, author_name, author_email, author_role, status, views, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := repo.db.ExecContext(
		ctx, query,
		q.ID, q.Title, q.Content, string(q.Category), pq.StringArray(q.Tags),
		q.AuthorID, q.AuthorName, q.AuthorEmail, q.AuthorRole, string(q.Status), q.Views, q.CreatedAt,
	)
	if err != nil {
		return forum.Question{}, errors.Wrap(err, "inserting question")
	}
	return q, nil
}

func (repo *questionRepository) GetQuestionByID(ctx context.Context, id string) (forum.Question, error) {
	var row questionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM question WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return forum.Question{}, forum.ErrQuestionNotFound
		}
		return forum.Question{}, errors.Wrap(err, "getting question")
	}
	q := row.toForum()

	var ansRows []answerRow
	query := `SELECT * FROM answer WHERE question_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &ansRows, query, id); err != nil {
		return forum.Question{}, errors.Wrap(err, "getting answers")
	}
	for _, ansRow := range ansRows {
		q.Answers = append(q.Answers, ansRow.toForum())
	}
	return q, nil
}

func (repo *questionRepository) QueryAllQuestions(ctx context.Context) ([]forum.Question, error) {
	var rows []questionRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM question ORDER BY created_at DESC`); err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}

	var ansRows []answerRow
	if err := repo.db.SelectContext(ctx, &ansRows, `SELECT * FROM answer ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying answers")
	}
	answers := make(map[string][]forum.Answer, len(rows))
	for _, ansRow := range ansRows {
		answers[ansRow.QuestionID] = append(answers[ansRow.QuestionID], ansRow.toForum())
	}

	questions := make([]forum.Question, 0, len(rows))
	for _, row := range rows {
		q := row.toForum()
		if ans, ok := answers[q.ID]; ok {
			q.Answers = ans
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (repo *questionRepository) UpdateQuestion(ctx context.Context, q forum.Question) (forum.Question, error) {
	var acceptedAnswerID sql.NullString
	if q.AcceptedAnswerID != "" {
		acceptedAnswerID = sql.NullString{String: q.AcceptedAnswerID, Valid: true}
	}
	query := `UPDATE question SET status = $1, accepted_answer_id = $2, views = $3 WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query, string(q.Status), acceptedAnswerID, q.Views, q.ID)
	if err != nil {
		return forum.Question{}, errors.Wrap(err, "updating question")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return forum.Question{}, forum.ErrQuestionNotFound
	}
	return q, nil
}

func (repo *questionRepository) CreateAnswer(ctx context.Context, ans forum.Answer) (forum.Answer, error) {
	query := `
		INSERT INTO answer (id, question_id, content, author_id, author_name, author_role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(
		ctx, query,
		ans.ID, ans.QuestionID, ans.Content, ans.AuthorID, ans.AuthorName, ans.AuthorRole, ans.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
			return forum.Answer{}, forum.ErrQuestionNotFound
		}
		return forum.Answer{}, errors.Wrap(err, "inserting answer")
	}
	return ans, nil
}
