package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/grrt-recruitment/pipeline/internal/client"
)

type JobsAPI interface {
	ListJobs(ctx context.Context, openOnly bool) ([]client.Job, error)
	CreateJob(ctx context.Context, in client.JobInput) (*client.Job, error)
	UpdateJob(ctx context.Context, id string, patch client.JobPatch) (*client.Job, error)
	DeleteJob(ctx context.Context, id string) error
}

// JobBoard keeps the job list in memory. Successful writes update the list
// in place; failed writes leave it untouched and record the error.
type JobBoard struct {
	api     JobsAPI
	confirm Confirmer

	mu   sync.Mutex
	jobs []client.Job
	err  error
}

func NewJobBoard(api JobsAPI, confirm Confirmer) *JobBoard {
	return &JobBoard{api: api, confirm: confirm}
}

func (b *JobBoard) Load(ctx context.Context, openOnly bool) error {
	jobs, err := b.api.ListJobs(ctx, openOnly)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	if err != nil {
		b.jobs = nil
		return err
	}
	b.jobs = jobs
	return nil
}

func (b *JobBoard) Jobs() []client.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]client.Job, len(b.jobs))
	copy(out, b.jobs)
	return out
}

func (b *JobBoard) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *JobBoard) Create(ctx context.Context, in client.JobInput) (*client.Job, error) {
	switch {
	case in.Title == "":
		return nil, b.record(required("title"))
	case in.Description == "":
		return nil, b.record(required("description"))
	case in.EmploymentType == "":
		return nil, b.record(required("employmentType"))
	case in.Location == "":
		return nil, b.record(required("location"))
	}
	job, err := b.api.CreateJob(ctx, in)
	if err != nil {
		return nil, b.record(err)
	}
	b.mu.Lock()
	b.jobs = append(b.jobs, *job)
	b.err = nil
	b.mu.Unlock()
	return job, nil
}

func (b *JobBoard) Update(ctx context.Context, id string, patch client.JobPatch) (*client.Job, error) {
	job, err := b.api.UpdateJob(ctx, id, patch)
	if err != nil {
		return nil, b.record(err)
	}
	b.mu.Lock()
	for i := range b.jobs {
		if b.jobs[i].ID == id {
			b.jobs[i] = *job
		}
	}
	b.err = nil
	b.mu.Unlock()
	return job, nil
}

// Delete removes the job after the operator confirms. Declining makes no call.
func (b *JobBoard) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := confirm(ctx, b.confirm, fmt.Sprintf("Delete job %s?", b.title(id)))
	if err != nil || !ok {
		return false, err
	}
	if err := b.api.DeleteJob(ctx, id); err != nil {
		return false, b.record(err)
	}
	b.mu.Lock()
	kept := b.jobs[:0]
	for _, j := range b.jobs {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	b.jobs = kept
	b.err = nil
	b.mu.Unlock()
	return true, nil
}

func (b *JobBoard) title(id string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, j := range b.jobs {
		if j.ID == id && j.Title != "" {
			return fmt.Sprintf("%q", j.Title)
		}
	}
	return id
}

func (b *JobBoard) record(err error) error {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
	return err
}

func confirm(ctx context.Context, c Confirmer, prompt string) (bool, error) {
	if c == nil {
		return false, nil
	}
	return c.Confirm(ctx, prompt)
}
