package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

type recorded struct {
	Method      string
	Path        string
	Query       string
	Auth        string
	ContentType string
	Body        []byte
}

// fakeAPI records every request and answers from routes keyed by "METHOD /path".
func fakeAPI(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery,
			Auth: r.Header.Get("Authorization"), ContentType: r.Header.Get("Content-Type"), Body: body,
		})
		h, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/v1"), &calls
}

func writeJSON(status int, v any) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func TestListStageUsesStagePath(t *testing.T) {
	for _, stage := range pipeline.Stages {
		t.Run(stage.String(), func(t *testing.T) {
			want := []Candidate{{ID: "b", FullName: "Second"}, {ID: "a", FullName: "First"}}
			c, calls := fakeAPI(t, map[string]func(http.ResponseWriter, *http.Request){
				"GET /api/v1" + stage.ListPath(): writeJSON(http.StatusOK, dtos.CandidateListResponse{Data: want}),
			})

			got, err := c.ListStage(context.Background(), stage)
			require.NoError(t, err)
			assert.Equal(t, []string{"b", "a"}, []string{got[0].ID, got[1].ID}, "server order is kept")
			assert.Len(t, *calls, 1)
		})
	}
}

func TestTokenHeader(t *testing.T) {
	c, calls := fakeAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/users/profile": writeJSON(http.StatusOK, dtos.ProfileResponse{User: dtos.User{ID: "u1"}}),
	})

	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	c.SetToken("tok")
	_, err = c.Profile(context.Background())
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Empty(t, (*calls)[0].Auth, "no token, no header")
	assert.Equal(t, "Bearer tok", (*calls)[1].Auth)
}

func TestMoveToScreeningBody(t *testing.T) {
	c, calls := fakeAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/v1/candidates/contact": writeJSON(http.StatusCreated, dtos.CandidateResponse{Data: Candidate{ID: "cs1"}}),
	})

	got, err := c.MoveToScreening(context.Background(), ContactDetails{
		InitialScreeningID: "c1", Email: "a@b.com", Phone: "123", Address: "X",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs1", got.ID)

	require.Len(t, *calls, 1)
	assert.JSONEq(t, `{"initialScreeningId":"c1","email":"a@b.com","phone":"123","address":"X"}`, string((*calls)[0].Body))
}

func TestMoveToEndorsementMultipart(t *testing.T) {
	var form map[string]string
	var fileName, fileBody string
	c, _ := fakeAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/v1/candidates/screening": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			form = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				form[k] = v[0]
			}
			f, fh, err := r.FormFile("resume")
			require.NoError(t, err)
			defer f.Close()
			b, _ := io.ReadAll(f)
			fileName, fileBody = fh.Filename, string(b)
			writeJSON(http.StatusCreated, dtos.CandidateResponse{Data: Candidate{ID: "s1"}})(w, r)
		},
	})

	got, err := c.MoveToEndorsement(context.Background(), ScreeningSubmission{
		CandidateID:   "cs1",
		Resume:        &File{Name: "cv.pdf", Reader: strings.NewReader("%PDF-1.4 resume")},
		CurrentSalary: 40000,
		AskingSalary:  52500.5,
		Interviewer:   "Dana",
		Remarks:       "Good",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, map[string]string{
		"candidateId": "cs1", "currentSalary": "40000", "askingSalary": "52500.5",
		"interviewer": "Dana", "remarks": "Good",
	}, form)
	assert.Equal(t, "cv.pdf", fileName)
	assert.Equal(t, "%PDF-1.4 resume", fileBody)
}

func TestMoveToEndorsementWithoutResumeSendsNothing(t *testing.T) {
	c, calls := fakeAPI(t, nil)
	_, err := c.MoveToEndorsement(context.Background(), ScreeningSubmission{CandidateID: "cs1"})
	assert.ErrorIs(t, err, ErrNoResume)
	assert.Empty(t, *calls)
}

func TestBuildMultipartKeepsFieldOrder(t *testing.T) {
	mp, err := BuildMultipart(
		[]FormField{{Name: "z", Value: "1"}, {Name: "a", Value: "2"}},
		[]FileField{{Name: "doc", FileName: "x.pdf", Reader: strings.NewReader("data")}},
	)
	require.NoError(t, err)
	body := string(mp.Body)
	assert.Less(t, strings.Index(body, `name="z"`), strings.Index(body, `name="a"`))
	assert.Less(t, strings.Index(body, `name="a"`), strings.Index(body, `name="doc"`))
	assert.Contains(t, body, "Content-Type: application/octet-stream")
	assert.True(t, strings.HasPrefix(mp.ContentType, "multipart/form-data; boundary="))
}

func TestAPIErrorMessage(t *testing.T) {
	c, _ := fakeAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/v1/candidates/contact":          writeJSON(http.StatusConflict, map[string]string{"error": "already moved"}),
		"DELETE /api/v1/candidates/c9":             writeJSON(http.StatusForbidden, map[string]string{"message": "nope"}),
		"GET /api/v1/candidates/initial-screening": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
	})
	ctx := context.Background()

	_, err := c.MoveToScreening(ctx, ContactDetails{InitialScreeningID: "c1"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "already moved", apiErr.Message)

	_, err = c.DeleteCandidate(ctx, "c9")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "nope", apiErr.Message)

	_, err = c.ListStage(ctx, pipeline.Contact)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestJobsAndUsers(t *testing.T) {
	c, calls := fakeAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/v1/jobs":                    writeJSON(http.StatusOK, dtos.JobListResponse{JobPosted: []Job{{ID: "j1"}}}),
		"GET /api/v1/jobs/search":             writeJSON(http.StatusOK, JobPage{Results: []Job{{ID: "j1"}}, Page: 2, TotalPages: 3}),
		"POST /api/v1/jobs/createJob":         writeJSON(http.StatusCreated, dtos.JobCreationResponse{Feedback: "Success", Job: Job{ID: "j2"}}),
		"DELETE /api/v1/jobs/j2":              writeJSON(http.StatusOK, dtos.MessageResponse{Message: "ok"}),
		"POST /api/v1/users/login":            writeJSON(http.StatusOK, dtos.LoginResponse{AccessToken: "jwt"}),
		"PATCH /api/v1/users/u1/setPrivilege": writeJSON(http.StatusOK, dtos.ProfileResponse{User: User{ID: "u1", Roles: []string{"Manager"}}}),
	})
	ctx := context.Background()

	jobs, err := c.ListJobs(ctx, true)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, "status=Open", (*calls)[0].Query)

	page, err := c.SearchJobs(ctx, JobQuery{Q: "go", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Contains(t, (*calls)[1].Query, "q=go")

	job, err := c.CreateJob(ctx, JobInput{Title: "Go Dev"})
	require.NoError(t, err)
	assert.Equal(t, "j2", job.ID)
	require.NoError(t, c.DeleteJob(ctx, "j2"))

	tok, err := c.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok)

	u, err := c.SetPrivilege(ctx, "u1", "Manager")
	require.NoError(t, err)
	assert.Equal(t, []string{"Manager"}, u.Roles)
	assert.JSONEq(t, `{"roles":["Manager"]}`, string((*calls)[len(*calls)-1].Body))
}
