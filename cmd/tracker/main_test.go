package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/session"
)

type apiStub struct {
	mu     sync.Mutex
	seen   []string
	auth   []string
	bodies map[string][]byte
}

func (s *apiStub) hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.seen {
		if r == route {
			n++
		}
	}
	return n
}

func newAPIStub(t *testing.T, routes map[string]any) (*apiStub, string) {
	t.Helper()
	stub := &apiStub{bodies: map[string][]byte{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api/v1")
		body, _ := io.ReadAll(r.Body)
		stub.mu.Lock()
		stub.seen = append(stub.seen, route)
		stub.auth = append(stub.auth, r.Header.Get("Authorization"))
		stub.bodies[route] = body
		stub.mu.Unlock()

		v, ok := routes[route]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}))
	t.Cleanup(srv.Close)
	return stub, srv.URL + "/api/v1"
}

func run(t *testing.T, api, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--api", api, "--log-level", "error"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func setup(t *testing.T) {
	t.Helper()
	keyring.MockInit()
	t.Setenv(session.PrefsEnv, filepath.Join(t.TempDir(), "tracker.yaml"))
	t.Chdir(t.TempDir())
}

func candidates(ids ...string) dtos.CandidateListResponse {
	var out dtos.CandidateListResponse
	for _, id := range ids {
		out.Data = append(out.Data, dtos.CandidateView{ID: id, FullName: "Person " + id})
	}
	return out
}

func TestLoginStoresTokenAndPrefs(t *testing.T) {
	setup(t)
	stub, api := newAPIStub(t, map[string]any{
		"POST /users/login":  dtos.LoginResponse{AccessToken: "jwt-abc"},
		"GET /users/profile": dtos.ProfileResponse{User: dtos.User{Email: "admin@grrt.io", Roles: []string{"Admin"}}},
	})

	out, err := run(t, api, "s3cret\n", "login", "--email", "admin@grrt.io")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as admin@grrt.io (Admin)")
	assert.JSONEq(t, `{"email":"admin@grrt.io","password":"s3cret"}`, string(stub.bodies["POST /users/login"]))

	s, err := session.New(api)
	require.NoError(t, err)
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", tok)
	p, err := s.LoadPrefs()
	require.NoError(t, err)
	assert.True(t, p.ShowAdminMenu)

	_, err = run(t, api, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Bearer jwt-abc", stub.auth[len(stub.auth)-1])

	_, err = run(t, api, "", "logout")
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
}

func TestOverviewCountsEveryStage(t *testing.T) {
	setup(t)
	stub, api := newAPIStub(t, map[string]any{
		"GET /candidates/initial-screening": candidates("a", "b"),
		"GET /candidates/contact":           candidates("c"),
		"GET /candidates/screening":         candidates(),
		"GET /candidates/":                  candidates("d", "e", "f"),
	})

	out, err := run(t, api, "", "overview")
	require.NoError(t, err)
	for _, route := range []string{"GET /candidates/initial-screening", "GET /candidates/contact", "GET /candidates/screening", "GET /candidates/"} {
		assert.Equal(t, 1, stub.hits(route), route)
	}
	assert.Contains(t, out, "Contact Stage")
	assert.Contains(t, out, "Candidate Endorsement")
}

func TestStageAdvanceContact(t *testing.T) {
	setup(t)
	stub, api := newAPIStub(t, map[string]any{
		"GET /candidates/initial-screening": candidates("c1"),
		"POST /candidates/contact":          dtos.CandidateResponse{Data: dtos.CandidateView{ID: "cs1"}},
	})

	out, err := run(t, api, "", "stage", "advance", "contact", "c1", "--email", "a@b.com", "--phone", "123", "--address", "X")
	require.NoError(t, err)
	assert.Contains(t, out, "Person c1 moved to First Screening")
	assert.JSONEq(t, `{"initialScreeningId":"c1","email":"a@b.com","phone":"123","address":"X"}`, string(stub.bodies["POST /candidates/contact"]))

	_, err = run(t, api, "", "stage", "advance", "contact", "c1", "--email", "a@b.com", "--phone", "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")
	assert.Equal(t, 1, stub.hits("POST /candidates/contact"))
}

func TestStageAdvanceScreeningNeedsBothSalaries(t *testing.T) {
	setup(t)
	stub, api := newAPIStub(t, map[string]any{
		"GET /candidates/contact":    candidates("k1"),
		"POST /candidates/screening": dtos.CandidateResponse{Data: dtos.CandidateView{ID: "s1"}},
	})
	require.NoError(t, os.WriteFile("cv.pdf", []byte("%PDF-1.4 resume"), 0o600))

	args := []string{"stage", "advance", "screening", "k1", "--resume", "cv.pdf", "--interviewer", "Ana", "--remarks", "ok", "--current-salary", "0"}
	_, err := run(t, api, "", args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "askingSalary")
	assert.Zero(t, stub.hits("POST /candidates/screening"))

	out, err := run(t, api, "", append(args, "--asking-salary", "0")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Person k1 moved to")
	body := string(stub.bodies["POST /candidates/screening"])
	assert.Contains(t, body, `name="askingSalary"`)
	assert.Contains(t, body, "%PDF-1.4 resume")
}

func TestStageListRemembersStage(t *testing.T) {
	setup(t)
	stub, api := newAPIStub(t, map[string]any{
		"GET /candidates/screening": candidates("s1", "s2"),
	})

	out, err := run(t, api, "", "stage", "list", "endorsement")
	require.NoError(t, err)
	assert.Contains(t, out, "Candidate Profile (2)")

	_, err = run(t, api, "", "stage", "list")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.hits("GET /candidates/screening"))
}

func TestStageDeleteAsksFirst(t *testing.T) {
	setup(t)
	stub, api := newAPIStub(t, map[string]any{
		"GET /candidates/":      candidates("p1"),
		"DELETE /candidates/p1": dtos.DeleteCandidateResponse{Message: "Candidate deleted successfully"},
	})

	out, err := run(t, api, "n\n", "stage", "delete", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Zero(t, stub.hits("DELETE /candidates/p1"))

	out, err = run(t, api, "", "stage", "delete", "p1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Person p1")
	assert.Equal(t, 1, stub.hits("DELETE /candidates/p1"))
}
