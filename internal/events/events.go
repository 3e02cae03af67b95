// Package events publishes pipeline changes for anyone downstream (reporting,
// notifications). Publishing never blocks or fails a transition.
package events

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

const (
	TypeCandidateAdded    = "candidate.added"
	TypeCandidateAdvanced = "candidate.advanced"
	TypeCandidateDeleted  = "candidate.deleted"
)

type Event struct {
	Type        string         `json:"type"`
	CandidateID string         `json:"candidateId"`
	From        pipeline.Stage `json:"from,omitempty"`
	To          pipeline.Stage `json:"to,omitempty"`
	At          time.Time      `json:"at"`
}

func Advanced(id string, from, to pipeline.Stage) Event {
	return Event{Type: TypeCandidateAdvanced, CandidateID: id, From: from, To: to, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher only logs events. Used when no broker is configured.
type LogPublisher struct {
	Log *logrus.Entry
}

func (p LogPublisher) Publish(_ context.Context, e Event) error {
	p.Log.WithFields(logrus.Fields{
		"type":         e.Type,
		"candidate_id": e.CandidateID,
		"from":         e.From,
		"to":           e.To,
	}).Debug("pipeline event")
	return nil
}

func (LogPublisher) Close() error { return nil }
