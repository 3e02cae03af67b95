package dtos

import "time"

// Job statuses.
const (
	JobOpen   = "Open"
	JobClosed = "Closed"
	JobDraft  = "Draft"
)

var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Temporary"}

type Job struct {
	ID                  string    `json:"_id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	KeyResponsibilities []string  `json:"keyResponsibilities"`
	Requirements        []string  `json:"requirements"`
	Benefits            []string  `json:"benefits"`
	EmploymentType      string    `json:"employmentType"`
	Location            string    `json:"location"`
	Status              string    `json:"status"`
	DatePosted          time.Time `json:"datePosted"`
}

type JobCreationRequest struct {
	Title               string   `json:"title" binding:"required"`
	Description         string   `json:"description" binding:"required"`
	KeyResponsibilities []string `json:"keyResponsibilities"`
	Requirements        []string `json:"requirements"`
	Benefits            []string `json:"benefits"`
	EmploymentType      string   `json:"employmentType" binding:"required,oneof=Full-time Part-time Contract Internship Temporary"`
	Location            string   `json:"location" binding:"required"`
	Status              string   `json:"status" binding:"omitempty,oneof=Open Closed Draft"` // Defaults to "Open" if empty
}

// JobUpdateRequest is a partial update; nil fields are left alone.
type JobUpdateRequest struct {
	Title               *string   `json:"title,omitempty" binding:"omitempty,min=1"`
	Description         *string   `json:"description,omitempty"`
	KeyResponsibilities *[]string `json:"keyResponsibilities,omitempty"`
	Requirements        *[]string `json:"requirements,omitempty"`
	Benefits            *[]string `json:"benefits,omitempty"`
	EmploymentType      *string   `json:"employmentType,omitempty" binding:"omitempty,oneof=Full-time Part-time Contract Internship Temporary"`
	Location            *string   `json:"location,omitempty"`
	Status              *string   `json:"status,omitempty" binding:"omitempty,oneof=Open Closed Draft"`
}

type JobListResponse struct {
	JobPosted []Job `json:"jobPosted"`
}

type JobCreationResponse struct {
	Feedback string `json:"feedback"`
	Message  string `json:"message"`
	Job      Job    `json:"job"`
}

type JobUpdateResponse struct {
	Message   string `json:"message"`
	JobUpdate Job    `json:"jobUpdate"`
}

type JobSearchParams struct {
	Q        string `form:"q"`
	Page     int    `form:"page" binding:"omitempty,gte=1"`
	PerPage  int    `form:"perPage" binding:"omitempty,gte=1,lte=50"`
	Position string `form:"position"`
	Location string `form:"location"`
}

type JobSearchResponse struct {
	Results    []Job `json:"results"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
	Cached     bool  `json:"cached"`
}
