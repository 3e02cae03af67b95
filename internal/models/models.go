package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record statuses shared by the stage tables.
const (
	StatusPending  = "Pending"
	StatusAdvanced = "Advanced" // candidate moved on; hidden from the stage list
	StatusEndorsed = "Endorsed"
)

// Base gives every top-level record an opaque string id.
type Base struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// InitialScreening is a sourced candidate waiting to be contacted.
type InitialScreening struct {
	Base
	FullName        string `gorm:"size:255;not null"`
	LinkedInURL     string `gorm:"size:512"`
	PositionApplied string `gorm:"size:255"`
	Status          string `gorm:"size:32;index;default:'Pending'"`
}

// ContactStage holds the contact details captured when a candidate leaves
// initial screening.
type ContactStage struct {
	Base
	InitialScreeningID string `gorm:"type:varchar(36);index;not null"`
	InitialScreening   *InitialScreening

	Email   string `gorm:"size:320"`
	Phone   string `gorm:"size:64"`
	Address string `gorm:"size:512"`
	Status  string `gorm:"size:32;index;default:'Pending'"`
}

type Interview struct {
	Interviewer string `gorm:"size:255"`
	Remarks     string `gorm:"type:text"`
}

// Screening is the first-screening record: resume, salaries and interviewer notes.
type Screening struct {
	Base
	ContactStageID string `gorm:"type:varchar(36);index;not null"`
	ContactStage   *ContactStage

	ResumePath    string `gorm:"size:512"`
	ResumeText    string `gorm:"type:text"`
	CurrentSalary float64
	AskingSalary  float64
	GRRTInterview Interview `gorm:"embedded;embeddedPrefix:grrt_"`
	Status        string    `gorm:"size:32;index;default:'Pending'"`
}

// Candidate is the full profile ready for client endorsement.
// The stage ids are lookups only; deleting a candidate never touches them.
type Candidate struct {
	Base
	FullName        string `gorm:"size:255;not null"`
	LinkedInURL     string `gorm:"size:512"`
	Email           string `gorm:"size:320"`
	Phone           string `gorm:"size:64"`
	Address         string `gorm:"size:512"`
	PositionApplied string `gorm:"size:255"`
	CurrentSalary   float64
	AskingSalary    float64
	GRRTInterview   Interview `gorm:"embedded;embeddedPrefix:grrt_"`
	Status          string    `gorm:"size:32;index;default:'Endorsed'"`

	Skills     []Skill      `gorm:"constraint:OnDelete:CASCADE"`
	Education  []Education  `gorm:"constraint:OnDelete:CASCADE"`
	Experience []Experience `gorm:"constraint:OnDelete:CASCADE"`

	InitialScreeningID string `gorm:"type:varchar(36);index"`
	ContactStageID     string `gorm:"type:varchar(36);index"`
	ScreeningID        string `gorm:"type:varchar(36);uniqueIndex"`
}

type Skill struct {
	ID                uint   `gorm:"primaryKey"`
	CandidateID       string `gorm:"type:varchar(36);index;not null"`
	Name              string `gorm:"size:255;not null"`
	Level             string `gorm:"size:32"`
	YearsOfExperience int
}

type Education struct {
	ID           uint   `gorm:"primaryKey"`
	CandidateID  string `gorm:"type:varchar(36);index;not null"`
	Level        string `gorm:"size:64"`
	SchoolName   string `gorm:"size:255;not null"`
	Address      string `gorm:"size:512"`
	Degree       string `gorm:"size:255"`
	FieldOfStudy string `gorm:"size:255"`
	CourseName   string `gorm:"size:255"`
	StartYear    int
	EndYear      int
	IsCompleted  bool
}

type Experience struct {
	ID               uint     `gorm:"primaryKey"`
	CandidateID      string   `gorm:"type:varchar(36);index;not null"`
	CompanyName      string   `gorm:"size:255;not null"`
	Position         string   `gorm:"size:255"`
	StartDate        string   `gorm:"size:32"`
	EndDate          string   `gorm:"size:32"`
	Responsibilities []string `gorm:"serializer:json;type:text"`
}

type Job struct {
	Base
	Title               string   `gorm:"size:255;not null"`
	Description         string   `gorm:"type:text"`
	KeyResponsibilities []string `gorm:"serializer:json;type:text"`
	Requirements        []string `gorm:"serializer:json;type:text"`
	Benefits            []string `gorm:"serializer:json;type:text"`
	EmploymentType      string   `gorm:"size:32"`
	Location            string   `gorm:"size:255"`
	Status              string   `gorm:"size:16;index;default:'Open'"`
	DatePosted          time.Time
}

// User is an operator account.
type User struct {
	Base
	FullName     string   `gorm:"size:255;not null"`
	Email        string   `gorm:"size:320;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Roles        []string `gorm:"serializer:json;type:text"`
	Status       string   `gorm:"size:16;default:'Offline'"`
}

// All lists the tables AutoMigrate manages, parents first.
func All() []any {
	return []any{
		&InitialScreening{}, &ContactStage{}, &Screening{},
		&Candidate{}, &Skill{}, &Education{}, &Experience{},
		&Job{}, &User{},
	}
}
