package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/forum"
)

type forumApi struct {
	svc        *forum.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerForumAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *forum.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := forumApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	// the whole forum sits behind the platform login
	fg := g.Group("/forum", jwt)

	fg.GET("/categories", api.queryCategories)
	fg.GET("/questions", api.search)
	fg.POST("/questions", api.postQuestion)
	fg.POST("/votes", api.vote)

	// detail endpoints
	dg := fg.Group("/questions/:id")
	dg.GET("", api.retrieveQuestion)
	dg.POST("/answers", api.postAnswer)
	dg.PUT("/accept", api.acceptAnswer)
	dg.PUT("/close", api.closeQuestion)
}

// AcceptAnswerRequest designates the answer being accepted.
type AcceptAnswerRequest struct {
	AnswerID string `json:"answer_id" validate:"required"`
}

func (r *AcceptAnswerRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

// QuestionDetail is a question annotated with the requesting user's current
// vote per target (question id and answer ids), for vote button highlighting.
type QuestionDetail struct {
	forum.Question
	UserVotes map[string]int `json:"user_votes"`
}

// VoteResponse reports a target's refreshed tally after a vote.
type VoteResponse struct {
	Tally    int `json:"tally"`
	UserVote int `json:"user_vote"`
}

// Handlers

func (api *forumApi) queryCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, forum.Categories)
}

func (api *forumApi) search(ctx echo.Context) error {
	var filter Filter
	filter.Bind(ctx)

	questions, err := api.svc.Search(ctx.Request().Context(), filter.QueryFilter)
	if err != nil {
		return errors.Wrap(err, "searching questions")
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api *forumApi) postQuestion(ctx echo.Context) error {
	var data forum.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	q, err := api.svc.PostQuestion(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "posting question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *forumApi) retrieveQuestion(ctx echo.Context) error {
	q, err := api.svc.GetQuestion(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == forum.ErrQuestionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting question")
	}

	detail := QuestionDetail{Question: q, UserVotes: make(map[string]int, len(q.Answers)+1)}
	if actor, err := getContextActor(ctx); err == nil {
		reqCtx := ctx.Request().Context()
		if vote, err := api.svc.UserVote(reqCtx, actor.ID, q.ID, forum.TargetQuestion); err == nil && vote != 0 {
			detail.UserVotes[q.ID] = vote
		}
		for _, ans := range q.Answers {
			if vote, err := api.svc.UserVote(reqCtx, actor.ID, ans.ID, forum.TargetAnswer); err == nil && vote != 0 {
				detail.UserVotes[ans.ID] = vote
			}
		}
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *forumApi) postAnswer(ctx echo.Context) error {
	var data forum.NewAnswer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnswer")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	ans, err := api.svc.PostAnswer(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ans)
}

func (api *forumApi) acceptAnswer(ctx echo.Context) error {
	var data AcceptAnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AcceptAnswerRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	q, err := api.svc.AcceptAnswer(ctx.Request().Context(), actor, ctx.Param("id"), data.AnswerID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *forumApi) closeQuestion(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	q, err := api.svc.CloseQuestion(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *forumApi) vote(ctx echo.Context) error {
	var data forum.CastVote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CastVote")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	tally, err := api.svc.Vote(ctx.Request().Context(), actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, VoteResponse{Tally: tally, UserVote: data.Value})
}
