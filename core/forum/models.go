package forum

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Roles
const (
	RoleStudent   = "student"
	RoleVolunteer = "volunteer"
	RoleTeacher   = "teacher"
	RoleAdmin     = "admin"
)

var (
	AllRoles       = []string{RoleStudent, RoleVolunteer, RoleTeacher, RoleAdmin}
	ModeratorRoles = []string{RoleTeacher, RoleAdmin}
)

// Question statuses
type Status string

const (
	StatusOpen     Status = "open"
	StatusAnswered Status = "answered"
	StatusClosed   Status = "closed"
)

var AllStatuses = []Status{StatusOpen, StatusAnswered, StatusClosed}

// Vote targets
type TargetType string

const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

type Category string

const (
	CategoryMathematics     Category = "Mathematics"
	CategoryPhysics         Category = "Physics"
	CategoryChemistry       Category = "Chemistry"
	CategoryBiology         Category = "Biology"
	CategoryLiterature      Category = "Literature"
	CategoryHistory         Category = "History"
	CategoryComputerScience Category = "Computer Science"
	CategoryOther           Category = "Other"
)

var Categories = []Category{
	CategoryMathematics,
	CategoryPhysics,
	CategoryChemistry,
	CategoryBiology,
	CategoryLiterature,
	CategoryHistory,
	CategoryComputerScience,
	CategoryOther,
}

// Actor is a snapshot of the authenticated user acting on the forum,
// as provided by the identity service.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Known reports whether the actor carries an authenticated identity.
func (a Actor) Known() bool { return a.ID != "" }

func (a Actor) IsModerator() bool {
	for _, role := range ModeratorRoles {
		if a.Role == role {
			return true
		}
	}
	return false
}

type Question struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	Category         Category  `json:"category"`
	Tags             []string  `json:"tags"`
	AuthorID         string    `json:"author_id"`
	AuthorName       string    `json:"author_name"`
	AuthorEmail      string    `json:"-"`
	AuthorRole       string    `json:"author_role"`
	Status           Status    `json:"status"`
	AcceptedAnswerID string    `json:"accepted_answer_id,omitempty"`
	Votes            int       `json:"votes"` // cached ledger tally, refreshed on reads
	Views            int       `json:"views"`
	Answers          []Answer  `json:"answers"`
	CreatedAt        time.Time `json:"created_at"` // UTC
}

// HasAnswer reports whether the answer belongs to this question.
func (q *Question) HasAnswer(answerID string) bool {
	for _, ans := range q.Answers {
		if ans.ID == answerID {
			return true
		}
	}
	return false
}

type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Votes      int       `json:"votes"` // cached ledger tally, refreshed on reads
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// Vote is a single user's vote on a target; the ledger holds at most one
// per (user, target, target type) tuple.
type Vote struct {
	UserID     string     `json:"user_id"`
	TargetID   string     `json:"target_id"`
	TargetType TargetType `json:"target_type"`
	Value      int        `json:"value"` // +1 or -1
	CreatedAt  time.Time  `json:"created_at"` // UTC
}

// NewQuestion contains information needed to post a new Question.
type NewQuestion struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Category Category `json:"category" validate:"required,category"`
	Tags     []string `json:"tags" validate:"omitempty,max=5,unique,dive,required,max=30"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Title = core.CleanString(nq.Title)
	nq.Content = core.CleanString(nq.Content)
	tags := nq.Tags[:0]
	for _, tag := range nq.Tags {
		if tag = core.CleanString(tag, true /* lower */); tag != "" {
			tags = append(tags, tag)
		}
	}
	nq.Tags = tags
	return validate.Struct(nq)
}

// NewAnswer contains information needed to post a new Answer.
type NewAnswer struct {
	Content string `json:"content" validate:"required"`
}

func (na *NewAnswer) Validate(validate *validator.Validate) error {
	na.Content = core.CleanString(na.Content)
	return validate.Struct(na)
}

// CastVote contains information needed to record a user's vote.
type CastVote struct {
	TargetID   string     `json:"target_id" validate:"required"`
	TargetType TargetType `json:"target_type" validate:"required,targettype"`
	Value      int        `json:"value" validate:"required,votevalue"`
}

func (cv *CastVote) Validate(validate *validator.Validate) error {
	cv.TargetID = core.CleanString(cv.TargetID)
	return validate.Struct(cv)
}

// QueryFilter narrows down a question search. Absent fields are ignored;
// "All" is the UI's wildcard for Category/Status.
type QueryFilter struct {
	Search   string   `query:"search"`
	Category Category `query:"category"`
	Status   Status   `query:"status"`
}

const filterWildcard = "All"

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Category == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if string(qf.Category) == filterWildcard {
		qf.Category = ""
	}
	if string(qf.Status) == filterWildcard {
		qf.Status = ""
	}
}
