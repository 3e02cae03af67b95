package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
)

func (c *Client) ListJobs(ctx context.Context, openOnly bool) ([]Job, error) {
	r := c.request(ctx)
	if openOnly {
		r.SetQueryParam("status", dtos.JobOpen)
	}
	var out dtos.JobListResponse
	if err := c.send(r, http.MethodGet, "/jobs", &out); err != nil {
		return nil, err
	}
	return out.JobPosted, nil
}

func (c *Client) SearchJobs(ctx context.Context, q JobQuery) (*JobPage, error) {
	params := map[string]string{}
	if q.Q != "" {
		params["q"] = q.Q
	}
	if q.Position != "" {
		params["position"] = q.Position
	}
	if q.Location != "" {
		params["location"] = q.Location
	}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.PerPage > 0 {
		params["perPage"] = strconv.Itoa(q.PerPage)
	}
	var out JobPage
	if err := c.send(c.request(ctx).SetQueryParams(params), http.MethodGet, "/jobs/search", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	var out dtos.JobCreationResponse
	if err := c.send(c.request(ctx).SetBody(in), http.MethodPost, "/jobs/createJob", &out); err != nil {
		return nil, err
	}
	return &out.Job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id string, patch JobPatch) (*Job, error) {
	var out dtos.JobUpdateResponse
	if err := c.send(c.request(ctx).SetBody(patch), http.MethodPut, "/jobs/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out.JobUpdate, nil
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.send(c.request(ctx), http.MethodDelete, "/jobs/"+url.PathEscape(id), nil)
}
