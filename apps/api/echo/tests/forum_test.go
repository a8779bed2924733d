package tests

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/forum"
	testutil "github.com/trezcool/darasa/tests"
)

var (
	student = forum.Actor{ID: "stud1", Name: "Amani T.", Email: "amani@test.cd", Role: forum.RoleStudent}
	helper  = forum.Actor{ID: "vol1", Name: "Hawa B.", Email: "hawa@test.cd", Role: forum.RoleVolunteer}
	prof    = forum.Actor{ID: "prof1", Name: "Prof. Kalala", Email: "kalala@test.cd", Role: forum.RoleTeacher}
)

func Test_forumApi_requiresAuth(t *testing.T) {
	app, _, _ := setup(t)

	tests := []httpTest{
		{name: "categories", method: http.MethodGet, path: "/v1/forum/categories"},
		{name: "search", method: http.MethodGet, path: "/v1/forum/questions"},
		{name: "post question", method: http.MethodPost, path: "/v1/forum/questions"},
		{name: "vote", method: http.MethodPost, path: "/v1/forum/votes"},
		{name: "detail", method: http.MethodGet, path: "/v1/forum/questions/xyz"},
	}
	for _, tt := range tests {
		tt.wantCode = http.StatusUnauthorized
		tt.wantData = marchallObj(t, errMissingToken)

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_forumApi_queryCategories(t *testing.T) {
	app, _, _ := setup(t)

	tt := httpTest{
		method:   http.MethodGet,
		path:     "/v1/forum/categories",
		token:    getToken(t, student),
		wantCode: http.StatusOK,
		wantData: marchallObj(t, forum.Categories),
	}
	req, rec := newAuthRequest(tt.method, tt.path, tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_forumApi_postQuestion(t *testing.T) {
	app, _, _ := setup(t)
	token := getToken(t, student)

	tests := []httpTest{
		{
			name: "valid", wantCode: http.StatusCreated,
			body: marchallObj(t, forum.NewQuestion{
				Title:    "Help with derivatives",
				Content:  "I am stuck on the chain rule",
				Category: forum.CategoryMathematics,
				Tags:     []string{"calculus"},
			}),
		},
		{
			name: "title required", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, forum.NewQuestion{Content: "C", Category: forum.CategoryOther}),
			wantData: marchallObj(t, map[string]string{"title": "title is a required field"}),
		},
		{
			name: "title too long", wantCode: http.StatusBadRequest,
			body: marchallObj(t, forum.NewQuestion{
				Title:    strings.Repeat("a", 201),
				Content:  "C",
				Category: forum.CategoryOther,
			}),
		},
		{
			name: "unknown category", wantCode: http.StatusBadRequest,
			body: marchallObj(t, forum.NewQuestion{Title: "T", Content: "C", Category: "Astrology"}),
		},
		{
			name: "too many tags", wantCode: http.StatusBadRequest,
			body: marchallObj(t, forum.NewQuestion{
				Title: "T", Content: "C", Category: forum.CategoryOther,
				Tags: []string{"a", "b", "c", "d", "e", "f"},
			}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/forum/questions"
		tt.token = token

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var q forum.Question
				unmarchallObj(t, rec.Body.Bytes(), &q)
				if q.ID == "" || q.Status != forum.StatusOpen || q.AuthorID != student.ID {
					t.Errorf("failed! question = %+v", q)
				}
			}
		})
	}
}

func Test_forumApi_questionLifecycle(t *testing.T) {
	app, qRepo, _ := setup(t)
	q := testutil.CreateQuestion(t, qRepo, "Newton's second law", "Incline problem", forum.CategoryPhysics, nil, student)

	// helper answers
	req, rec := newAuthRequest(
		http.MethodPost, "/v1/forum/questions/"+q.ID+"/answers", getToken(t, helper),
		marchallObj(t, forum.NewAnswer{Content: "Decompose the forces."}),
	)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var ans forum.Answer
	unmarchallObj(t, rec.Body.Bytes(), &ans)

	// helper cannot accept
	req, rec = newAuthRequest(
		http.MethodPut, "/v1/forum/questions/"+q.ID+"/accept", getToken(t, helper),
		marchallObj(t, AcceptAnswerRequest{AnswerID: ans.ID}),
	)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("failed! code = %v; want %v", rec.Code, http.StatusForbidden)
	}

	// author accepts
	req, rec = newAuthRequest(
		http.MethodPut, "/v1/forum/questions/"+q.ID+"/accept", getToken(t, student),
		marchallObj(t, AcceptAnswerRequest{AnswerID: ans.ID}),
	)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var accepted forum.Question
	unmarchallObj(t, rec.Body.Bytes(), &accepted)
	if accepted.Status != forum.StatusAnswered || accepted.AcceptedAnswerID != ans.ID {
		t.Errorf("failed! question = %s/%s", accepted.Status, accepted.AcceptedAnswerID)
	}

	// helper upvotes the question, twice: the second vote does not double-count
	for i := 0; i < 2; i++ {
		req, rec = newAuthRequest(
			http.MethodPost, "/v1/forum/votes", getToken(t, helper),
			marchallObj(t, forum.CastVote{TargetID: q.ID, TargetType: forum.TargetQuestion, Value: 1}),
		)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var vr VoteResponse
		unmarchallObj(t, rec.Body.Bytes(), &vr)
		if vr.Tally != 1 || vr.UserVote != 1 {
			t.Errorf("failed! vote response = %+v", vr)
		}
	}

	// detail view carries the helper's vote and counts the view
	req, rec = newAuthRequest(http.MethodGet, "/v1/forum/questions/"+q.ID, getToken(t, helper))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var detail QuestionDetail
	unmarchallObj(t, rec.Body.Bytes(), &detail)
	if detail.Votes != 1 || detail.Views != 1 {
		t.Errorf("failed! votes/views = %d/%d; want 1/1", detail.Votes, detail.Views)
	}
	if detail.UserVotes[q.ID] != 1 {
		t.Errorf("failed! user_votes = %v", detail.UserVotes)
	}

	// moderator closes
	req, rec = newAuthRequest(http.MethodPut, "/v1/forum/questions/"+q.ID+"/close", getToken(t, prof))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// closed questions take no more answers
	req, rec = newAuthRequest(
		http.MethodPost, "/v1/forum/questions/"+q.ID+"/answers", getToken(t, helper),
		marchallObj(t, forum.NewAnswer{Content: "Too late."}),
	)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("failed! code = %v; want %v", rec.Code, http.StatusConflict)
	}
}

func Test_forumApi_retrieveQuestion_notFound(t *testing.T) {
	app, _, _ := setup(t)

	tt := httpTest{
		method:   http.MethodGet,
		path:     "/v1/forum/questions/does-not-exist",
		token:    getToken(t, student),
		wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: "not found"}),
	}
	req, rec := newAuthRequest(tt.method, tt.path, tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_forumApi_search(t *testing.T) {
	app, qRepo, _ := setup(t)
	token := getToken(t, student)

	q1 := testutil.CreateQuestion(t, qRepo, "Help with derivatives", "Chain rule trouble", forum.CategoryMathematics, []string{"calculus"}, student)
	q2 := testutil.CreateQuestion(t, qRepo, "Newton's laws", "Incline problem", forum.CategoryPhysics, []string{"mechanics"}, helper)

	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{name: "all, most recent first", query: url.Values{}, want: []string{q2.ID, q1.ID}},
		{name: "wildcards", query: url.Values{"category": {"All"}, "status": {"All"}}, want: []string{q2.ID, q1.ID}},
		{name: "by category", query: url.Values{"category": {string(forum.CategoryMathematics)}}, want: []string{q1.ID}},
		{name: "by search term", query: url.Values{"search": {"DERIV"}}, want: []string{q1.ID}},
		{
			name:  "combined",
			query: url.Values{"search": {"deriv"}, "category": {string(forum.CategoryPhysics)}},
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/v1/forum/questions"
			if len(tt.query) > 0 {
				path = fmt.Sprintf("%s?%s", path, tt.query.Encode())
			}
			req, rec := newAuthRequest(http.MethodGet, path, token)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			var got []forum.Question
			unmarchallObj(t, rec.Body.Bytes(), &got)
			if len(got) != len(tt.want) {
				t.Fatalf("failed! got %d questions; want %d", len(got), len(tt.want))
			}
			for i, q := range got {
				if q.ID != tt.want[i] {
					t.Errorf("failed! got[%d] = %s; want %s", i, q.ID, tt.want[i])
				}
			}
		})
	}
}
