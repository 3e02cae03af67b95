// Package pipeline holds the candidate pipeline vocabulary shared by the API
// server, the REST client and the stage tracker.
package pipeline

import "fmt"

// Stage is the pipeline tab a candidate record is listed under.
type Stage string

const (
	Contact              Stage = "contact"
	Screening            Stage = "screening"
	Endorsement          Stage = "endorsement"
	CandidateEndorsement Stage = "candidateEndorsement"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{Contact, Screening, Endorsement, CandidateEndorsement}

// Parse validates a stage name coming from a flag, a query string or JSON.
func Parse(s string) (Stage, error) {
	st := Stage(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown stage %q", s)
	}
	return st, nil
}

func (s Stage) Valid() bool {
	switch s {
	case Contact, Screening, Endorsement, CandidateEndorsement:
		return true
	}
	return false
}

// Next returns the stage a candidate moves into when it leaves s.
// CandidateEndorsement is terminal.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case Contact:
		return Screening, true
	case Screening:
		return Endorsement, true
	case Endorsement:
		return CandidateEndorsement, true
	}
	return "", false
}

// ListPath is the API route returning the records shown under s.
// Each tab lists the records produced by the previous transition, so the
// Contact tab reads initial-screening records and so on.
func (s Stage) ListPath() string {
	switch s {
	case Contact:
		return "/candidates/initial-screening"
	case Screening:
		return "/candidates/contact"
	case Endorsement:
		return "/candidates/screening"
	case CandidateEndorsement:
		return "/candidates/"
	}
	return ""
}

func (s Stage) Label() string {
	switch s {
	case Contact:
		return "Contact Stage"
	case Screening:
		return "First Screening"
	case Endorsement:
		return "Candidate Profile"
	case CandidateEndorsement:
		return "Candidate Endorsement"
	}
	return string(s)
}

// ActionLabel is the call to action offered for a candidate listed under s.
func (s Stage) ActionLabel() string {
	switch s {
	case Contact:
		return "Move to First Screening"
	case Screening:
		return "Screen Candidate"
	case Endorsement:
		return "Create Profile"
	case CandidateEndorsement:
		return "Endorse Candidate"
	}
	return ""
}

func (s Stage) String() string { return string(s) }
