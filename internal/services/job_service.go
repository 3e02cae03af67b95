package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/models"
)

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

// ListJobs returns every job, newest first. openOnly hides Closed and Draft.
func (s *JobService) ListJobs(ctx context.Context, openOnly bool) ([]dtos.Job, error) {
	q := s.DB.WithContext(ctx).Order("date_posted desc")
	if openOnly {
		q = q.Where("status = ?", dtos.JobOpen)
	}
	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	out := make([]dtos.Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobView(j))
	}
	return out, nil
}

func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*dtos.Job, error) {
	status := req.Status
	if status == "" {
		status = dtos.JobOpen
	}
	job := &models.Job{
		Title:               strings.TrimSpace(req.Title),
		Description:         req.Description,
		KeyResponsibilities: nonNil(req.KeyResponsibilities),
		Requirements:        nonNil(req.Requirements),
		Benefits:            nonNil(req.Benefits),
		EmploymentType:      req.EmploymentType,
		Location:            strings.TrimSpace(req.Location),
		Status:              status,
		DatePosted:          nowUTC(),
	}
	if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	v := JobView(*job)
	return &v, nil
}

// UpdateJob applies the non-nil fields of req.
func (s *JobService) UpdateJob(ctx context.Context, id string, req *dtos.JobUpdateRequest) (*dtos.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.KeyResponsibilities != nil {
		job.KeyResponsibilities = nonNil(*req.KeyResponsibilities)
	}
	if req.Requirements != nil {
		job.Requirements = nonNil(*req.Requirements)
	}
	if req.Benefits != nil {
		job.Benefits = nonNil(*req.Benefits)
	}
	if req.EmploymentType != nil {
		job.EmploymentType = *req.EmploymentType
	}
	if req.Location != nil {
		job.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		job.Status = *req.Status
	}

	if err := s.DB.WithContext(ctx).Save(&job).Error; err != nil {
		return nil, err
	}
	v := JobView(job)
	return &v, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.Job{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
