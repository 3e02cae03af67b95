package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

// ListStage returns the candidates listed under stage, in server order.
func (c *Client) ListStage(ctx context.Context, stage pipeline.Stage) ([]Candidate, error) {
	path := stage.ListPath()
	if path == "" {
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
	var out dtos.CandidateListResponse
	if err := c.send(c.request(ctx), http.MethodGet, path, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) GetCandidate(ctx context.Context, id string) (*Candidate, error) {
	var out dtos.CandidateResponse
	if err := c.send(c.request(ctx), http.MethodGet, "/candidates/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// AddToInitialScreening records a newly sourced candidate; it shows up
// under the Contact stage.
func (c *Client) AddToInitialScreening(ctx context.Context, in NewCandidate) (*Candidate, error) {
	var out dtos.CandidateResponse
	if err := c.send(c.request(ctx).SetBody(in), http.MethodPost, "/candidates/initial-screening", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// MoveToScreening advances a Contact-stage candidate.
func (c *Client) MoveToScreening(ctx context.Context, in ContactDetails) (*Candidate, error) {
	var out dtos.CandidateResponse
	if err := c.send(c.request(ctx).SetBody(in), http.MethodPost, "/candidates/contact", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// MoveToEndorsement advances a Screening-stage candidate with its resume.
func (c *Client) MoveToEndorsement(ctx context.Context, in ScreeningSubmission) (*Candidate, error) {
	mp, err := BuildScreeningMultipart(in)
	if err != nil {
		return nil, err
	}
	r := c.request(ctx).
		SetHeader("Content-Type", mp.ContentType).
		SetBody(mp.Body)

	var out dtos.CandidateResponse
	if err := c.send(r, http.MethodPost, "/candidates/screening", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// MoveToCandidateEndorsement posts the full profile for an
// Endorsement-stage candidate.
func (c *Client) MoveToCandidateEndorsement(ctx context.Context, id string, p Profile) (*Candidate, error) {
	var out dtos.CandidateResponse
	path := "/candidates/candidateProfile/" + url.PathEscape(id)
	if err := c.send(c.request(ctx).SetBody(p), http.MethodPost, path, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DraftProfile asks the server for an AI-suggested profile built from the
// candidate's resume.
func (c *Client) DraftProfile(ctx context.Context, id string) (*Profile, error) {
	var out struct {
		Data Profile `json:"data"`
	}
	path := "/candidates/candidateProfile/" + url.PathEscape(id) + "/draft"
	if err := c.send(c.request(ctx), http.MethodPost, path, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteCandidate(ctx context.Context, id string) (*DeleteResult, error) {
	var out DeleteResult
	if err := c.send(c.request(ctx), http.MethodDelete, "/candidates/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
