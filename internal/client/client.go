// Package client is a typed REST client for the pipeline API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
)

type (
	Candidate      = dtos.CandidateView
	ContactDetails = dtos.ContactStageRequest
	Profile        = dtos.CandidateProfileRequest
	NewCandidate   = dtos.InitialScreeningRequest
	DeleteResult   = dtos.DeleteCandidateResponse
	Job            = dtos.Job
	JobInput       = dtos.JobCreationRequest
	JobPatch       = dtos.JobUpdateRequest
	JobQuery       = dtos.JobSearchParams
	JobPage        = dtos.JobSearchResponse
	User           = dtos.User
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for the API rooted at baseURL, e.g.
// "https://api.grrt.example/api/v1".
func New(baseURL string) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(60 * time.Second)
	return &Client{http: hc}
}

// SetToken sets the bearer token sent with every request. An empty token
// sends requests anonymously and lets the server decide.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if tok := c.Token(); tok != "" {
		r.SetAuthToken(tok)
	}
	return r
}

// send executes r and decodes a successful JSON body into out (if non-nil).
func (c *Client) send(r *resty.Request, method, path string, out any) error {
	if out != nil {
		r.SetResult(out).ForceContentType("application/json")
	}
	resp, err := r.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return newAPIError(resp)
	}
	return nil
}

// newAPIError prefers the body's "error", then "message", then the status text.
func newAPIError(resp *resty.Response) *APIError {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(resp.Body(), &body)

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}
