package recordshandler

import (
	"personnel/internal/domain/records"
	"personnel/internal/transport/http/shared"
)

type contractRequest struct {
	Type             string `json:"type" validate:"required"`
	StartDate        string `json:"startDate" validate:"required"`
	EndDate          string `json:"endDate"`
	ProbationEndDate string `json:"probationEndDate"`
	Status           string `json:"status"`
	Grade            string `json:"grade"`
	SalaryLevel      string `json:"salaryLevel"`
}

func (p contractRequest) build(v *shared.Validator) records.Contract {
	c := records.Contract{
		Type:             p.Type,
		EndDate:          v.OptionalDate("endDate", p.EndDate),
		ProbationEndDate: v.OptionalDate("probationEndDate", p.ProbationEndDate),
		Status:           p.Status,
		Grade:            p.Grade,
		SalaryLevel:      p.SalaryLevel,
	}
	if p.StartDate != "" {
		c.StartDate, _ = v.Date("startDate", p.StartDate)
	}
	v.Enum("status", p.Status, records.ContractStatuses, "must be one of ACTIF, EXPIRÉ, RÉSILIÉ")
	if c.EndDate != nil {
		v.DateOrder("startDate", c.StartDate, "endDate", *c.EndDate)
	}
	return c
}

type skillRequest struct {
	Name     string `json:"name" validate:"required"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

func (p skillRequest) build(*shared.Validator) records.Skill {
	return records.Skill{Name: p.Name, Level: p.Level, Category: p.Category}
}

type trainingRequest struct {
	Name        string `json:"name" validate:"required"`
	StartDate   string `json:"startDate"`
	Duration    string `json:"duration"`
	Institution string `json:"institution"`
}

func (p trainingRequest) build(v *shared.Validator) records.Training {
	return records.Training{
		Name:        p.Name,
		StartDate:   v.OptionalDate("startDate", p.StartDate),
		Duration:    p.Duration,
		Institution: p.Institution,
	}
}

type promotionRequest struct {
	PromotionDate string `json:"promotionDate"`
	OldTitle      string `json:"oldTitle"`
	NewTitle      string `json:"newTitle" validate:"required"`
	Reason        string `json:"reason"`
}

func (p promotionRequest) build(v *shared.Validator) records.Promotion {
	return records.Promotion{
		PromotionDate: v.OptionalDate("promotionDate", p.PromotionDate),
		OldTitle:      p.OldTitle,
		NewTitle:      p.NewTitle,
		Reason:        p.Reason,
	}
}

type reviewRequest struct {
	ReviewDate          string   `json:"reviewDate"`
	Period              string   `json:"period"`
	Rating              string   `json:"rating"`
	ObjectivesScore     *int     `json:"objectivesScore" validate:"omitempty,gte=0,lte=100"`
	SkillsScore         *int     `json:"skillsScore" validate:"omitempty,gte=0,lte=100"`
	DisciplineScore     *int     `json:"disciplineScore" validate:"omitempty,gte=0,lte=100"`
	ProductivityScore   *int     `json:"productivityScore" validate:"omitempty,gte=0,lte=100"`
	FinalScore          *float64 `json:"finalScore" validate:"omitempty,gte=0,lte=100"`
	Recommendation      string   `json:"recommendation"`
	Comments            string   `json:"comments"`
	Reviewer            string   `json:"reviewer"`
	ObjectivesAchieved  string   `json:"objectivesAchieved"`
	GeneralAppreciation string   `json:"generalAppreciation"`
	Strengths           string   `json:"strengths"`
	AreasForImprovement string   `json:"areasForImprovement"`
	TrainingPlan        string   `json:"trainingPlan"`
}

func (p reviewRequest) build(v *shared.Validator) records.Review {
	return records.Review{
		ReviewDate:          v.OptionalDate("reviewDate", p.ReviewDate),
		Period:              p.Period,
		Rating:              p.Rating,
		ObjectivesScore:     p.ObjectivesScore,
		SkillsScore:         p.SkillsScore,
		DisciplineScore:     p.DisciplineScore,
		ProductivityScore:   p.ProductivityScore,
		FinalScore:          p.FinalScore,
		Recommendation:      p.Recommendation,
		Comments:            p.Comments,
		Reviewer:            p.Reviewer,
		ObjectivesAchieved:  p.ObjectivesAchieved,
		GeneralAppreciation: p.GeneralAppreciation,
		Strengths:           p.Strengths,
		AreasForImprovement: p.AreasForImprovement,
		TrainingPlan:        p.TrainingPlan,
	}
}

