package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/models"
)

const (
	defaultPerPage = 10
	maxPerPage     = 50
)

// SearchJobs matches open jobs against free text and optional position and
// location filters. Matching is case-insensitive substring matching.
func (s *JobService) SearchJobs(ctx context.Context, p dtos.JobSearchParams) (*dtos.JobSearchResponse, error) {
	page, perPage := p.Page, p.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	db := s.DB.WithContext(ctx)

	var total int64
	if err := matchJobs(db.Model(&models.Job{}), p).Count(&total).Error; err != nil {
		return nil, err
	}

	var jobs []models.Job
	if err := matchJobs(db, p).Order("date_posted desc").Offset((page - 1) * perPage).Limit(perPage).Find(&jobs).Error; err != nil {
		return nil, err
	}

	results := make([]dtos.Job, 0, len(jobs))
	for _, j := range jobs {
		results = append(results, JobView(j))
	}
	return &dtos.JobSearchResponse{
		Results:    results,
		Page:       page,
		TotalPages: int((total + int64(perPage) - 1) / int64(perPage)),
		Total:      total,
	}, nil
}

func matchJobs(q *gorm.DB, p dtos.JobSearchParams) *gorm.DB {
	q = q.Where("status = ?", dtos.JobOpen)

	// Rule 1: free text hits title or description.
	if term := likeTerm(p.Q); term != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", term, term)
	}
	// Rule 2: position narrows by title only.
	if term := likeTerm(p.Position); term != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", term)
	}
	// Rule 3: location.
	if term := likeTerm(p.Location); term != "" {
		q = q.Where("LOWER(location) LIKE ? ESCAPE '!'", term)
	}
	return q
}

// likeEscaper makes % and _ in user input match literally; '!' is the
// ESCAPE character in every LIKE above.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likeTerm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(s) + "%"
}
