package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/events"
	"github.com/grrt-recruitment/pipeline/internal/models"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

// CandidateService owns the four stage tables and every transition between them.
type CandidateService struct {
	DB      *gorm.DB
	Resumes *ResumeService
	Events  events.Publisher
	Log     *logrus.Entry
}

func NewCandidateService(db *gorm.DB, resumes *ResumeService, pub events.Publisher, log *logrus.Entry) *CandidateService {
	return &CandidateService{
		DB:      db,
		Resumes: resumes,
		Events:  pub,
		Log:     log.WithField("component", "candidates"),
	}
}

// List returns the candidates currently sitting in stage, oldest first.
func (s *CandidateService) List(ctx context.Context, stage pipeline.Stage) ([]dtos.CandidateView, error) {
	db := s.DB.WithContext(ctx)
	out := []dtos.CandidateView{}

	switch stage {
	case pipeline.Contact:
		var rows []models.InitialScreening
		if err := db.Where("status <> ?", models.StatusAdvanced).Order("created_at asc").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, InitialScreeningView(r))
		}
	case pipeline.Screening:
		var rows []models.ContactStage
		if err := db.Preload("InitialScreening").
			Where("status <> ?", models.StatusAdvanced).Order("created_at asc").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, ContactStageView(r))
		}
	case pipeline.Endorsement:
		var rows []models.Screening
		if err := db.Preload("ContactStage.InitialScreening").
			Where("status <> ?", models.StatusAdvanced).Order("created_at asc").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, ScreeningView(r))
		}
	case pipeline.CandidateEndorsement:
		var rows []models.Candidate
		if err := db.Preload("Skills").Preload("Education").Preload("Experience").
			Order("created_at asc").Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, CandidateView(r))
		}
	default:
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
	}
	return out, nil
}

// Get returns one endorsed candidate with its full profile.
func (s *CandidateService) Get(ctx context.Context, id string) (*dtos.CandidateView, error) {
	var c models.Candidate
	err := s.DB.WithContext(ctx).Preload("Skills").Preload("Education").Preload("Experience").
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	v := CandidateView(c)
	return &v, nil
}

// AddInitialScreening records a newly sourced candidate in the Contact stage.
func (s *CandidateService) AddInitialScreening(ctx context.Context, req *dtos.InitialScreeningRequest) (*dtos.CandidateView, error) {
	rec := models.InitialScreening{
		FullName:        strings.TrimSpace(req.FullName),
		LinkedInURL:     strings.TrimSpace(req.LinkedInURL),
		PositionApplied: strings.TrimSpace(req.PositionApplied),
		Status:          models.StatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeCandidateAdded, CandidateID: rec.ID, To: pipeline.Contact})
	v := InitialScreeningView(rec)
	return &v, nil
}

// MoveToScreening takes an initial-screening record, attaches contact
// details and makes it appear in the Screening list.
func (s *CandidateService) MoveToScreening(ctx context.Context, req *dtos.ContactStageRequest) (*dtos.CandidateView, error) {
	var rec models.ContactStage
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src models.InitialScreening
		if err := lockForUpdate(tx).First(&src, "id = ?", req.InitialScreeningID).Error; err != nil {
			return notFound(err)
		}
		if src.Status == models.StatusAdvanced {
			return ErrAlreadyAdvanced
		}

		rec = models.ContactStage{
			InitialScreeningID: src.ID,
			Email:              strings.TrimSpace(req.Email),
			Phone:              strings.TrimSpace(req.Phone),
			Address:            strings.TrimSpace(req.Address),
			Status:             models.StatusPending,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		rec.InitialScreening = &src
		return markAdvanced(tx, &src)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Advanced(rec.ID, pipeline.Contact, pipeline.Screening))
	v := ContactStageView(rec)
	return &v, nil
}

// MoveToEndorsement stores the resume and first-screening notes for a
// contact-stage record and makes it appear in the Endorsement list.
func (s *CandidateService) MoveToEndorsement(ctx context.Context, req *dtos.ScreeningRequest, resume *Upload) (*dtos.CandidateView, error) {
	if resume == nil {
		return nil, ErrResumeMissing
	}

	var src models.ContactStage
	if err := s.DB.WithContext(ctx).First(&src, "id = ?", req.CandidateID).Error; err != nil {
		return nil, notFound(err)
	}
	if src.Status == models.StatusAdvanced {
		return nil, ErrAlreadyAdvanced
	}

	stored, err := s.Resumes.Save(resume)
	if err != nil {
		return nil, err
	}

	var rec models.Screening
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.ContactStage
		if err := lockForUpdate(tx).Preload("InitialScreening").First(&cur, "id = ?", src.ID).Error; err != nil {
			return notFound(err)
		}
		if cur.Status == models.StatusAdvanced {
			return ErrAlreadyAdvanced
		}

		rec = models.Screening{
			ContactStageID: cur.ID,
			ResumePath:     stored.Path,
			ResumeText:     stored.Text,
			CurrentSalary:  req.CurrentSalary,
			AskingSalary:   req.AskingSalary,
			GRRTInterview: models.Interview{
				Interviewer: strings.TrimSpace(req.Interviewer),
				Remarks:     strings.TrimSpace(req.Remarks),
			},
			Status: models.StatusPending,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		rec.ContactStage = &cur
		return markAdvanced(tx, &cur)
	})
	if err != nil {
		s.Resumes.Remove(stored.Path)
		return nil, err
	}

	s.publish(ctx, events.Advanced(rec.ID, pipeline.Screening, pipeline.Endorsement))
	v := ScreeningView(rec)
	return &v, nil
}

// MoveToCandidateEndorsement builds the full candidate profile from a
// screening record plus skills, education and experience.
func (s *CandidateService) MoveToCandidateEndorsement(ctx context.Context, screeningID string, req *dtos.CandidateProfileRequest) (*dtos.CandidateView, error) {
	var cand models.Candidate
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src models.Screening
		if err := lockForUpdate(tx).Preload("ContactStage.InitialScreening").First(&src, "id = ?", screeningID).Error; err != nil {
			return notFound(err)
		}
		if src.Status == models.StatusAdvanced {
			return ErrAlreadyAdvanced
		}

		cand = newCandidate(src, req)
		if err := tx.Create(&cand).Error; err != nil {
			return err
		}
		return markAdvanced(tx, &src)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Advanced(cand.ID, pipeline.Endorsement, pipeline.CandidateEndorsement))
	v := CandidateView(cand)
	return &v, nil
}

// DeleteCandidate removes an endorsed candidate and everything it owns.
// Earlier stage records are left untouched.
func (s *CandidateService) DeleteCandidate(ctx context.Context, id string) (*dtos.CandidateView, error) {
	var c models.Candidate
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Skills").Preload("Education").Preload("Experience").
			First(&c, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		return tx.Select(clause.Associations).Delete(&c).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeCandidateDeleted, CandidateID: c.ID, From: pipeline.CandidateEndorsement})
	v := CandidateView(c)
	return &v, nil
}

// ResumeText returns the text extracted from the resume attached to a
// screening record.
func (s *CandidateService) ResumeText(ctx context.Context, screeningID string) (string, error) {
	var src models.Screening
	if err := s.DB.WithContext(ctx).Select("id", "resume_text").First(&src, "id = ?", screeningID).Error; err != nil {
		return "", notFound(err)
	}
	if strings.TrimSpace(src.ResumeText) == "" {
		return "", ErrNoResumeText
	}
	return src.ResumeText, nil
}

func (s *CandidateService) publish(ctx context.Context, e events.Event) {
	if s.Events == nil {
		return
	}
	if e.At.IsZero() {
		e.At = nowUTC()
	}
	if err := s.Events.Publish(ctx, e); err != nil {
		s.Log.WithError(err).WithField("type", e.Type).Warn("⚠️ failed to publish pipeline event")
	}
}

func newCandidate(src models.Screening, req *dtos.CandidateProfileRequest) models.Candidate {
	c := models.Candidate{
		CurrentSalary: src.CurrentSalary,
		AskingSalary:  src.AskingSalary,
		GRRTInterview: src.GRRTInterview,
		Status:        models.StatusEndorsed,
		ScreeningID:   src.ID,
	}
	if cs := src.ContactStage; cs != nil {
		c.Email, c.Phone, c.Address = cs.Email, cs.Phone, cs.Address
		c.ContactStageID = cs.ID
		if is := cs.InitialScreening; is != nil {
			c.FullName, c.LinkedInURL, c.PositionApplied = is.FullName, is.LinkedInURL, is.PositionApplied
			c.InitialScreeningID = is.ID
		}
	}

	for _, sk := range req.Skills {
		c.Skills = append(c.Skills, models.Skill{Name: sk.Name, Level: sk.Level, YearsOfExperience: sk.YearsOfExperience})
	}
	for _, e := range req.Education {
		c.Education = append(c.Education, models.Education{
			Level: e.Level, SchoolName: e.SchoolName, Address: e.Address, Degree: e.Degree,
			FieldOfStudy: e.FieldOfStudy, CourseName: e.CourseName,
			StartYear: e.StartYear, EndYear: e.EndYear, IsCompleted: e.IsCompleted,
		})
	}
	for _, e := range req.Experience {
		c.Experience = append(c.Experience, models.Experience{
			CompanyName: e.CompanyName, Position: e.Position,
			StartDate: e.StartDate, EndDate: e.EndDate, Responsibilities: e.Responsibilities,
		})
	}
	return c
}

func markAdvanced(tx *gorm.DB, model any) error {
	return tx.Model(model).Update("status", models.StatusAdvanced).Error
}

// lockForUpdate takes a row lock where the dialect supports it. sqlite has
// no SELECT ... FOR UPDATE and serialises writers anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
