package tracker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/grrt-recruitment/pipeline/internal/client"
	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

// Action is what Advance opens for a candidate: *ContactForm,
// *ScreeningForm, *ProfileEditor or *EndorsementView.
type Action interface {
	Stage() pipeline.Stage
	Candidate() client.Candidate
	Open() bool
	Err() error
	Close()

	action()
}

type form struct {
	t         *Tracker
	stage     pipeline.Stage
	candidate client.Candidate

	mu         sync.Mutex
	open       bool
	submitting bool
	err        error
}

func (f *form) action() {}

func (f *form) Stage() pipeline.Stage { return f.stage }

// Candidate is the read-only context carried over from earlier stages.
func (f *form) Candidate() client.Candidate { return f.candidate }

func (f *form) Open() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Err is the last validation or API error; nil after a success.
func (f *form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *form) Close() {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
}

func (f *form) fail(err error) error {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
	return err
}

// run performs one transition call. Success evicts the candidate from the
// tracker's list and closes the form; failure leaves both as they were.
func (f *form) run(ctx context.Context, call func(context.Context) error) error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return ErrFormClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrBusy
	}
	f.submitting = true
	f.err = nil
	f.mu.Unlock()

	err := call(ctx)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.err = err
		f.mu.Unlock()
		return err
	}
	f.open = false
	f.mu.Unlock()

	f.t.evict(f.candidate.ID)
	return nil
}

// ContactForm moves a Contact-stage candidate into Screening.
type ContactForm struct {
	form
	Email   string
	Phone   string
	Address string
}

func (f *ContactForm) Submit(ctx context.Context) error {
	in := client.ContactDetails{
		InitialScreeningID: f.candidate.ID,
		Email:              strings.TrimSpace(f.Email),
		Phone:              strings.TrimSpace(f.Phone),
		Address:            strings.TrimSpace(f.Address),
	}
	switch {
	case in.Email == "":
		return f.fail(required("email"))
	case in.Phone == "":
		return f.fail(required("phone"))
	case in.Address == "":
		return f.fail(required("address"))
	}
	return f.run(ctx, func(ctx context.Context) error {
		_, err := f.t.api.MoveToScreening(ctx, in)
		return err
	})
}

// ScreeningForm moves a Screening-stage candidate into Endorsement.
// Salaries are pointers so that an empty field is told apart from zero.
type ScreeningForm struct {
	form
	Resume        *client.File
	CurrentSalary *float64
	AskingSalary  *float64
	Interviewer   string
	Remarks       string

	loaded     *client.File
	resumeData []byte
}

func (f *ScreeningForm) Submit(ctx context.Context) error {
	if f.Resume == nil || f.Resume.Reader == nil {
		return f.fail(ErrMissingResume)
	}
	if !strings.EqualFold(filepath.Ext(f.Resume.Name), ".pdf") {
		return f.fail(ErrResumeNotPDF)
	}
	switch {
	case f.CurrentSalary == nil:
		return f.fail(required("currentSalary"))
	case *f.CurrentSalary < 0:
		return f.fail(&FieldError{Field: "currentSalary", Reason: "must not be negative"})
	case f.AskingSalary == nil:
		return f.fail(required("askingSalary"))
	case *f.AskingSalary < 0:
		return f.fail(&FieldError{Field: "askingSalary", Reason: "must not be negative"})
	}
	interviewer, remarks := strings.TrimSpace(f.Interviewer), strings.TrimSpace(f.Remarks)
	switch {
	case interviewer == "":
		return f.fail(required("interviewer"))
	case remarks == "":
		return f.fail(required("remarks"))
	}
	data, err := f.resumeBytes()
	if err != nil {
		return f.fail(err)
	}
	if len(data) == 0 {
		return f.fail(ErrMissingResume)
	}
	name := f.Resume.Name
	current, asking := *f.CurrentSalary, *f.AskingSalary
	return f.run(ctx, func(ctx context.Context) error {
		_, err := f.t.api.MoveToEndorsement(ctx, client.ScreeningSubmission{
			CandidateID:   f.candidate.ID,
			Resume:        &client.File{Name: name, Reader: bytes.NewReader(data)},
			CurrentSalary: current,
			AskingSalary:  asking,
			Interviewer:   interviewer,
			Remarks:       remarks,
		})
		return err
	})
}

// resumeBytes reads the picked file once; every attempt uploads the same
// bytes. Picking another file replaces them.
func (f *ScreeningForm) resumeBytes() ([]byte, error) {
	if f.loaded == f.Resume {
		return f.resumeData, nil
	}
	data, err := io.ReadAll(f.Resume.Reader)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	f.loaded, f.resumeData = f.Resume, data
	return data, nil
}

// ProfileEditor builds the full profile that moves an Endorsement-stage
// candidate into CandidateEndorsement.
type ProfileEditor struct {
	form
	Profile client.Profile
}

// Draft fills Profile with a server-suggested draft. The operator still
// reviews and submits it.
func (f *ProfileEditor) Draft(ctx context.Context) error {
	draft, err := f.t.api.DraftProfile(ctx, f.candidate.ID)
	if err != nil {
		return f.fail(err)
	}
	f.Profile = *draft
	return nil
}

func (f *ProfileEditor) Submit(ctx context.Context) error {
	if err := validateProfile(f.Profile); err != nil {
		return f.fail(err)
	}
	p := f.Profile
	return f.run(ctx, func(ctx context.Context) error {
		_, err := f.t.api.MoveToCandidateEndorsement(ctx, f.candidate.ID, p)
		return err
	})
}

func validateProfile(p client.Profile) error {
	for i, s := range p.Skills {
		if strings.TrimSpace(s.Name) == "" {
			return required(fmt.Sprintf("skills[%d].name", i))
		}
		if !knownSkillLevel(s.Level) {
			return &FieldError{Field: fmt.Sprintf("skills[%d].level", i), Reason: "must be one of " + strings.Join(dtos.SkillLevels, ", ")}
		}
		if s.YearsOfExperience < 0 {
			return &FieldError{Field: fmt.Sprintf("skills[%d].yearsOfExperience", i), Reason: "must not be negative"}
		}
	}
	for i, e := range p.Education {
		if strings.TrimSpace(e.Level) == "" {
			return required(fmt.Sprintf("education[%d].level", i))
		}
		if strings.TrimSpace(e.SchoolName) == "" {
			return required(fmt.Sprintf("education[%d].schoolName", i))
		}
	}
	for i, e := range p.Experience {
		switch {
		case strings.TrimSpace(e.CompanyName) == "":
			return required(fmt.Sprintf("experience[%d].companyName", i))
		case strings.TrimSpace(e.Position) == "":
			return required(fmt.Sprintf("experience[%d].position", i))
		case strings.TrimSpace(e.StartDate) == "":
			return required(fmt.Sprintf("experience[%d].startDate", i))
		}
	}
	return nil
}

func knownSkillLevel(l string) bool {
	for _, k := range dtos.SkillLevels {
		if l == k {
			return true
		}
	}
	return false
}

// EndorsementView shows an endorsed candidate. Its only tracked action is
// a confirmed, irreversible delete.
type EndorsementView struct {
	form
}

// Delete asks for confirmation first. A declined prompt makes no call and
// reports false.
func (v *EndorsementView) Delete(ctx context.Context) (bool, error) {
	if v.t.confirm == nil {
		return false, nil
	}
	name := v.candidate.FullName
	if name == "" {
		name = v.candidate.ID
	}
	ok, err := v.t.confirm.Confirm(ctx, fmt.Sprintf("Permanently delete %s? This cannot be undone.", name))
	if err != nil {
		return false, v.fail(err)
	}
	if !ok {
		return false, nil
	}
	err = v.run(ctx, func(ctx context.Context) error {
		_, err := v.t.api.DeleteCandidate(ctx, v.candidate.ID)
		return err
	})
	return err == nil, err
}
