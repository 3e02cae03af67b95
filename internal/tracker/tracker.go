// Package tracker holds the client-side state of the pipeline dashboard:
// the candidate list for the selected stage and the form that advances a
// candidate out of it.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/grrt-recruitment/pipeline/internal/client"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

var (
	ErrNotInStage    = errors.New("candidate is not in the current stage list")
	ErrUnknownStage  = errors.New("unknown stage")
	ErrMissingResume = errors.New("resume file is required")
	ErrResumeNotPDF  = errors.New("resume must be a .pdf file")
	ErrFormClosed    = errors.New("form is closed")
	ErrBusy          = errors.New("submission already in progress")
)

// FieldError is a client-side validation failure on one form field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + " " + e.Reason }

func required(field string) error { return &FieldError{Field: field, Reason: "is required"} }

// API is the part of the REST client the tracker drives.
type API interface {
	ListStage(ctx context.Context, stage pipeline.Stage) ([]client.Candidate, error)
	MoveToScreening(ctx context.Context, in client.ContactDetails) (*client.Candidate, error)
	MoveToEndorsement(ctx context.Context, in client.ScreeningSubmission) (*client.Candidate, error)
	MoveToCandidateEndorsement(ctx context.Context, id string, p client.Profile) (*client.Candidate, error)
	DraftProfile(ctx context.Context, id string) (*client.Profile, error)
	DeleteCandidate(ctx context.Context, id string) (*client.DeleteResult, error)
}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// Tracker owns the candidate list of one selected stage.
type Tracker struct {
	api     API
	confirm Confirmer
	log     *logrus.Entry

	mu         sync.Mutex
	stage      pipeline.Stage
	candidates []client.Candidate
	loading    bool
	err        error
	gen        uint64
}

func New(api API, confirm Confirmer, log *logrus.Entry) *Tracker {
	return &Tracker{api: api, confirm: confirm, log: log.WithField("component", "tracker")}
}

// FetchStage selects stage and loads its list with one request. On failure
// the list stays empty and the error is kept for display. A fetch that is
// overtaken by a newer one leaves the state alone.
func (t *Tracker) FetchStage(ctx context.Context, stage pipeline.Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}

	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.stage = stage
	t.candidates = nil
	t.loading = true
	t.err = nil
	t.mu.Unlock()

	list, err := t.api.ListStage(ctx, stage)

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return nil
	}
	t.loading = false
	if err != nil {
		t.err = err
		t.log.WithError(err).WithField("stage", stage).Warn("failed to load stage")
		return err
	}
	t.candidates = list
	return nil
}

func (t *Tracker) Stage() pipeline.Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stage
}

// Candidates returns a copy of the current list in server order.
func (t *Tracker) Candidates() []client.Candidate {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]client.Candidate, len(t.candidates))
	copy(out, t.candidates)
	return out
}

func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Err is the error of the last fetch, if it failed.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Find returns the listed candidate with id.
func (t *Tracker) Find(id string) (client.Candidate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.candidates {
		if c.ID == id {
			return c, true
		}
	}
	return client.Candidate{}, false
}

// Advance opens the action that moves c out of the current stage.
func (t *Tracker) Advance(c client.Candidate) (Action, error) {
	t.mu.Lock()
	stage := t.stage
	listed := false
	for _, x := range t.candidates {
		if x.ID == c.ID {
			listed = true
			break
		}
	}
	t.mu.Unlock()

	if !listed {
		return nil, ErrNotInStage
	}

	switch stage {
	case pipeline.Contact:
		return &ContactForm{form: form{t: t, stage: stage, candidate: c, open: true}}, nil
	case pipeline.Screening:
		return &ScreeningForm{form: form{t: t, stage: stage, candidate: c, open: true}}, nil
	case pipeline.Endorsement:
		return &ProfileEditor{form: form{t: t, stage: stage, candidate: c, open: true}}, nil
	case pipeline.CandidateEndorsement:
		return &EndorsementView{form: form{t: t, stage: stage, candidate: c, open: true}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
}

func (t *Tracker) evict(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.candidates[:0]
	for _, c := range t.candidates {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	t.candidates = kept
}
