package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/grrt-recruitment/pipeline/internal/auth"
	"github.com/grrt-recruitment/pipeline/internal/config"
	"github.com/grrt-recruitment/pipeline/internal/database"
	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/events"
	"github.com/grrt-recruitment/pipeline/internal/logging"
	"github.com/grrt-recruitment/pipeline/internal/services"
)

var minimalPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	users  *services.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := logging.Discard()
	users := services.NewUserService(db)
	router := NewRouter(Deps{
		Candidates:     services.NewCandidateService(db, services.NewResumeService(t.TempDir(), 1<<20, log), events.LogPublisher{Log: log}, log),
		Jobs:           services.NewJobService(db),
		Users:          users,
		Issuer:         auth.NewIssuer("test-secret", time.Hour),
		LoginLimiter:   auth.NewLoginLimiter(100),
		MaxResumeBytes: 1 << 20,
		Log:            log,
	})
	return &testServer{t: t, router: router, users: users}
}

// login creates a user with role and returns a bearer token for it.
func (s *testServer) login(email, role string) string {
	s.t.Helper()
	_, err := s.users.Register(context.Background(), &dtos.RegisterRequest{
		FullName: "Op " + role, Email: email, Password: "password123", Roles: []string{role},
	})
	require.NoError(s.t, err)

	w := s.do(http.MethodPost, "/api/v1/users/login", "", dtos.LoginRequest{Email: email, Password: "password123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp dtos.LoginResponse
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func screeningUpload(t *testing.T, candidateID string, resume []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"candidateId":   candidateID,
		"currentSalary": "40000",
		"askingSalary":  "55000",
		"interviewer":   "Dana",
		"remarks":       "Good fit",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	if resume != nil {
		fw, err := mw.CreateFormFile("resume", "cv.pdf")
		require.NoError(t, err)
		_, err = fw.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/screening", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSOrigins(t *testing.T) {
	fromOrigin := func(origins config.Origins, origin string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(cors.New(corsConfig(origins)))
		r.GET("/api/v1/health", HealthCheck)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := fromOrigin(nil, "http://anywhere.test")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = fromOrigin(config.Origins{"*"}, "http://anywhere.test")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	listed := config.Origins{"https://grrt.example.com"}
	w = fromOrigin(listed, "https://grrt.example.com")
	assert.Equal(t, "https://grrt.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = fromOrigin(listed, "https://evil.test")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCandidateRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/candidates/initial-screening", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestPipelineOverHTTP(t *testing.T) {
	s := newTestServer(t)
	user := s.login("user@grrt.io", dtos.RoleUser)
	admin := s.login("admin@grrt.io", dtos.RoleAdmin)

	w := s.do(http.MethodPost, "/api/v1/candidates/initial-screening", user,
		dtos.InitialScreeningRequest{FullName: "Ana Cruz", PositionApplied: "Backend Engineer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode[dtos.CandidateResponse](t, w).Data

	list := decode[dtos.CandidateListResponse](t, s.do(http.MethodGet, "/api/v1/candidates/initial-screening", user, nil))
	require.Len(t, list.Data, 1)
	assert.Equal(t, added.ID, list.Data[0].ID)

	move := dtos.ContactStageRequest{InitialScreeningID: added.ID, Email: "a@b.com", Phone: "123", Address: "X"}
	w = s.do(http.MethodPost, "/api/v1/candidates/contact", user, move)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contact := decode[dtos.CandidateResponse](t, w).Data

	w = s.do(http.MethodPost, "/api/v1/candidates/contact", user, move)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.send(screeningUpload(t, contact.ID, nil), user)
	assert.Equal(t, http.StatusBadRequest, w.Code, "resume is required")

	w = s.send(screeningUpload(t, contact.ID, minimalPDF), user)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	screening := decode[dtos.CandidateResponse](t, w).Data
	assert.Equal(t, 55000.0, screening.AskingSalary)

	w = s.do(http.MethodPost, "/api/v1/candidates/candidateProfile/"+screening.ID+"/draft", user, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodPost, "/api/v1/candidates/candidateProfile/"+screening.ID, user, dtos.CandidateProfileRequest{
		Skills: []dtos.Skill{{Name: "Go", Level: "Expert", YearsOfExperience: 5}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	endorsed := decode[dtos.CandidateResponse](t, w).Data

	list = decode[dtos.CandidateListResponse](t, s.do(http.MethodGet, "/api/v1/candidates/", user, nil))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Ana Cruz", list.Data[0].FullName)

	w = s.do(http.MethodDelete, "/api/v1/candidates/"+endorsed.ID, user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/candidates/"+endorsed.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	del := decode[dtos.DeleteCandidateResponse](t, w)
	require.NotNil(t, del.DeletedCandidate)
	assert.Equal(t, endorsed.ID, del.DeletedCandidate.ID)
	assert.Equal(t, "Candidate deleted successfully", del.Message)

	w = s.do(http.MethodGet, "/api/v1/candidates/"+endorsed.ID, user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)
	user := s.login("user@grrt.io", dtos.RoleUser)

	w := s.do(http.MethodPost, "/api/v1/candidates/contact", user,
		dtos.ContactStageRequest{InitialScreeningID: "x", Email: "not-an-email", Phone: "1", Address: "A"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/candidates/candidateProfile/x", user, dtos.CandidateProfileRequest{
		Skills: []dtos.Skill{{Name: "Go", Level: "Wizard"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobRoutes(t *testing.T) {
	s := newTestServer(t)
	user := s.login("user@grrt.io", dtos.RoleUser)
	manager := s.login("mgr@grrt.io", dtos.RoleManager)

	job := dtos.JobCreationRequest{Title: "Backend Engineer", Description: "Go", EmploymentType: "Full-time", Location: "Manila"}
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/jobs/createJob", "", job).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/jobs/createJob", user, job).Code)

	w := s.do(http.MethodPost, "/api/v1/jobs/createJob", manager, job)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dtos.JobCreationResponse](t, w)
	assert.Equal(t, "Success", created.Feedback)

	closed := dtos.JobClosed
	w = s.do(http.MethodPut, "/api/v1/jobs/"+created.Job.ID, manager, dtos.JobUpdateRequest{Status: &closed})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, dtos.JobClosed, decode[dtos.JobUpdateResponse](t, w).JobUpdate.Status)

	all := decode[dtos.JobListResponse](t, s.do(http.MethodGet, "/api/v1/jobs", "", nil))
	assert.Len(t, all.JobPosted, 1)
	open := decode[dtos.JobListResponse](t, s.do(http.MethodGet, "/api/v1/jobs?status=Open", "", nil))
	assert.Empty(t, open.JobPosted)

	search := decode[dtos.JobSearchResponse](t, s.do(http.MethodGet, "/api/v1/jobs/search?q=backend", "", nil))
	assert.Empty(t, search.Results)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/jobs/search?perPage=500", "", nil).Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/jobs/"+created.Job.ID, manager, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/jobs/"+created.Job.ID, manager, nil).Code)
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@grrt.io", dtos.RoleAdmin)

	w := s.do(http.MethodPost, "/api/v1/users/register", "", dtos.RegisterRequest{
		FullName: "Self Made", Email: "self@grrt.io", Password: "password123", Roles: []string{dtos.RoleAdmin},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	self := decode[dtos.ProfileResponse](t, w).User
	assert.Equal(t, []string{dtos.RoleUser}, self.Roles, "anonymous registration cannot pick roles")

	w = s.do(http.MethodPost, "/api/v1/users/register", admin, dtos.RegisterRequest{
		FullName: "Made By Admin", Email: "mgr@grrt.io", Password: "password123", Roles: []string{dtos.RoleManager},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, []string{dtos.RoleManager}, decode[dtos.ProfileResponse](t, w).User.Roles)

	w = s.do(http.MethodPost, "/api/v1/users/login", "", dtos.LoginRequest{Email: "self@grrt.io", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Login failed: invalid email or password")

	users := decode[dtos.UserListResponse](t, s.do(http.MethodGet, "/api/v1/users", admin, nil))
	assert.Len(t, users.Data, 3)

	w = s.do(http.MethodPatch, "/api/v1/users/"+self.ID+"/setPrivilege", admin, dtos.SetPrivilegeRequest{Roles: []string{dtos.RoleManager, dtos.RoleUser}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPatch, "/api/v1/users/"+self.ID+"/setPrivilege", admin, dtos.SetPrivilegeRequest{Roles: []string{dtos.RoleManager}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{dtos.RoleManager}, decode[dtos.ProfileResponse](t, w).User.Roles)

	profile := decode[dtos.ProfileResponse](t, s.do(http.MethodGet, "/api/v1/users/profile", admin, nil))
	assert.Equal(t, "admin@grrt.io", profile.User.Email)
	assert.Equal(t, dtos.UserOnline, profile.User.Status)

	w = s.do(http.MethodPatch, "/api/v1/users/update-password", admin,
		dtos.UpdatePasswordRequest{CurrentPassword: "password123", NewPassword: "evenbetter123"})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/api/v1/users/"+profile.User.ID, admin, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/users/"+self.ID, admin, nil).Code)
}
