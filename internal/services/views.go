package services

import (
	"github.com/grrt-recruitment/pipeline/internal/dtos"
	"github.com/grrt-recruitment/pipeline/internal/models"
	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

func InitialScreeningView(r models.InitialScreening) dtos.CandidateView {
	return dtos.CandidateView{
		ID:              r.ID,
		Stage:           pipeline.Contact,
		Status:          r.Status,
		FullName:        r.FullName,
		LinkedInURL:     r.LinkedInURL,
		PositionApplied: r.PositionApplied,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func ContactStageView(r models.ContactStage) dtos.CandidateView {
	v := dtos.CandidateView{
		ID:                 r.ID,
		Stage:              pipeline.Screening,
		Status:             r.Status,
		Email:              r.Email,
		Phone:              r.Phone,
		Address:            r.Address,
		InitialScreeningID: r.InitialScreeningID,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if is := r.InitialScreening; is != nil {
		v.FullName = is.FullName
		v.LinkedInURL = is.LinkedInURL
		v.PositionApplied = is.PositionApplied
	}
	return v
}

func ScreeningView(r models.Screening) dtos.CandidateView {
	v := dtos.CandidateView{
		ID:             r.ID,
		Stage:          pipeline.Endorsement,
		Status:         r.Status,
		CurrentSalary:  r.CurrentSalary,
		AskingSalary:   r.AskingSalary,
		GRRTInterview:  &dtos.Interview{Interviewer: r.GRRTInterview.Interviewer, Remarks: r.GRRTInterview.Remarks},
		ContactStageID: r.ContactStageID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if cs := r.ContactStage; cs != nil {
		prior := ContactStageView(*cs)
		v.FullName = prior.FullName
		v.LinkedInURL = prior.LinkedInURL
		v.PositionApplied = prior.PositionApplied
		v.Email = prior.Email
		v.Phone = prior.Phone
		v.Address = prior.Address
		v.InitialScreeningID = prior.InitialScreeningID
	}
	return v
}

func CandidateView(c models.Candidate) dtos.CandidateView {
	v := dtos.CandidateView{
		ID:                 c.ID,
		Stage:              pipeline.CandidateEndorsement,
		Status:             c.Status,
		FullName:           c.FullName,
		LinkedInURL:        c.LinkedInURL,
		Email:              c.Email,
		Phone:              c.Phone,
		Address:            c.Address,
		PositionApplied:    c.PositionApplied,
		CurrentSalary:      c.CurrentSalary,
		AskingSalary:       c.AskingSalary,
		GRRTInterview:      &dtos.Interview{Interviewer: c.GRRTInterview.Interviewer, Remarks: c.GRRTInterview.Remarks},
		InitialScreeningID: c.InitialScreeningID,
		ContactStageID:     c.ContactStageID,
		ScreeningID:        c.ScreeningID,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	for _, s := range c.Skills {
		v.Skills = append(v.Skills, dtos.Skill{Name: s.Name, Level: s.Level, YearsOfExperience: s.YearsOfExperience})
	}
	for _, e := range c.Education {
		v.Education = append(v.Education, dtos.Education{
			Level: e.Level, SchoolName: e.SchoolName, Address: e.Address, Degree: e.Degree,
			FieldOfStudy: e.FieldOfStudy, CourseName: e.CourseName,
			StartYear: e.StartYear, EndYear: e.EndYear, IsCompleted: e.IsCompleted,
		})
	}
	for _, e := range c.Experience {
		v.Experience = append(v.Experience, dtos.Experience{
			CompanyName: e.CompanyName, Position: e.Position,
			StartDate: e.StartDate, EndDate: e.EndDate, Responsibilities: e.Responsibilities,
		})
	}
	return v
}

func JobView(j models.Job) dtos.Job {
	return dtos.Job{
		ID:                  j.ID,
		Title:               j.Title,
		Description:         j.Description,
		KeyResponsibilities: nonNil(j.KeyResponsibilities),
		Requirements:        nonNil(j.Requirements),
		Benefits:            nonNil(j.Benefits),
		EmploymentType:      j.EmploymentType,
		Location:            j.Location,
		Status:              j.Status,
		DatePosted:          j.DatePosted,
	}
}

func UserView(u models.User) dtos.User {
	return dtos.User{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Roles:     nonNil(u.Roles),
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
