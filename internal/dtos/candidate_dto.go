package dtos

import (
	"time"

	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

// Skill levels accepted on a candidate profile.
var SkillLevels = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

type Interview struct {
	Interviewer string `json:"interviewer,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

type Skill struct {
	Name              string `json:"name" binding:"required"`
	Level             string `json:"level" binding:"required,oneof=Beginner Intermediate Advanced Expert"`
	YearsOfExperience int    `json:"yearsOfExperience" binding:"gte=0"`
}

type Education struct {
	Level        string `json:"level" binding:"required"`
	SchoolName   string `json:"schoolName" binding:"required"`
	Address      string `json:"address,omitempty"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	CourseName   string `json:"courseName,omitempty"`
	StartYear    int    `json:"startYear,omitempty"`
	EndYear      int    `json:"endYear,omitempty"`
	IsCompleted  bool   `json:"isCompleted,omitempty"`
}

type Experience struct {
	CompanyName      string   `json:"companyName" binding:"required"`
	Position         string   `json:"position" binding:"required"`
	StartDate        string   `json:"startDate" binding:"required"`
	EndDate          string   `json:"endDate,omitempty"`
	Responsibilities []string `json:"responsibilities"`
}

// CandidateView is how every stage list presents its records. Fields from
// earlier stages are carried along read-only so later forms never re-ask
// for them.
type CandidateView struct {
	ID     string         `json:"_id"`
	Stage  pipeline.Stage `json:"stage"`
	Status string         `json:"status"`

	FullName        string  `json:"fullName"`
	LinkedInURL     string  `json:"linkedInUrl,omitempty"`
	Email           string  `json:"email,omitempty"`
	Phone           string  `json:"phone,omitempty"`
	Address         string  `json:"address,omitempty"`
	PositionApplied string  `json:"positionApplied,omitempty"`
	CurrentSalary   float64 `json:"currentSalary,omitempty"`
	AskingSalary    float64 `json:"askingSalary,omitempty"`

	GRRTInterview *Interview   `json:"grrtInterview,omitempty"`
	Skills        []Skill      `json:"skills,omitempty"`
	Education     []Education  `json:"education,omitempty"`
	Experience    []Experience `json:"experience,omitempty"`

	InitialScreeningID string `json:"initialScreeningId,omitempty"`
	ContactStageID     string `json:"contactStageId,omitempty"`
	ScreeningID        string `json:"screeningId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CandidateListResponse struct {
	Data []CandidateView `json:"data"`
}

type CandidateResponse struct {
	Message string        `json:"message,omitempty"`
	Data    CandidateView `json:"data"`
}

type DeleteCandidateResponse struct {
	DeletedCandidate *CandidateView `json:"deletedCandidate"`
	Message          string         `json:"message"`
}

type InitialScreeningRequest struct {
	FullName        string `json:"fullName" binding:"required,min=2"`
	LinkedInURL     string `json:"linkedInUrl" binding:"omitempty,url"`
	PositionApplied string `json:"positionApplied"`
}

// ContactStageRequest moves an initial-screening record into Screening.
type ContactStageRequest struct {
	InitialScreeningID string `json:"initialScreeningId" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone" binding:"required"`
	Address            string `json:"address" binding:"required"`
}

// ScreeningRequest is the non-file part of the first-screening multipart form.
type ScreeningRequest struct {
	CandidateID   string  `form:"candidateId" binding:"required"`
	CurrentSalary float64 `form:"currentSalary" binding:"gte=0"`
	AskingSalary  float64 `form:"askingSalary" binding:"gte=0"`
	Interviewer   string  `form:"interviewer" binding:"required"`
	Remarks       string  `form:"remarks" binding:"required"`
}

type CandidateProfileRequest struct {
	Skills     []Skill      `json:"skills" binding:"dive"`
	Education  []Education  `json:"education" binding:"dive"`
	Experience []Experience `json:"experience" binding:"dive"`
}
