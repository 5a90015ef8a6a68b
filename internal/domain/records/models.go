// Package records holds the per-employee sub-records: contracts, skills,
// trainings, promotions and performance reviews. All of them are deleted with
// their employee.
package records

import "time"

const (
	ContractActive     = "ACTIF"
	ContractExpired    = "EXPIRÉ"
	ContractTerminated = "RÉSILIÉ"
)

var ContractStatuses = []string{ContractActive, ContractExpired, ContractTerminated}

type Contract struct {
	ID               int64      `json:"id"`
	EmployeeID       int64      `json:"employeeId"`
	Type             string     `json:"type"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	ProbationEndDate *time.Time `json:"probationEndDate,omitempty"`
	Status           string     `json:"status"`
	Grade            string     `json:"grade,omitempty"`
	SalaryLevel      string     `json:"salaryLevel,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type Skill struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employeeId"`
	Name       string `json:"name"`
	Level      string `json:"level,omitempty"`
	Category   string `json:"category,omitempty"`
}

type Training struct {
	ID          int64      `json:"id"`
	EmployeeID  int64      `json:"employeeId"`
	Name        string     `json:"name"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	Institution string     `json:"institution,omitempty"`
}

type Promotion struct {
	ID            int64      `json:"id"`
	EmployeeID    int64      `json:"employeeId"`
	PromotionDate *time.Time `json:"promotionDate,omitempty"`
	OldTitle      string     `json:"oldTitle,omitempty"`
	NewTitle      string     `json:"newTitle"`
	Reason        string     `json:"reason,omitempty"`
}

type Review struct {
	ID                  int64      `json:"id"`
	EmployeeID          int64      `json:"employeeId"`
	ReviewDate          *time.Time `json:"reviewDate,omitempty"`
	Period              string     `json:"period,omitempty"`
	Rating              string     `json:"rating,omitempty"`
	ObjectivesScore     *int       `json:"objectivesScore,omitempty"`
	SkillsScore         *int       `json:"skillsScore,omitempty"`
	DisciplineScore     *int       `json:"disciplineScore,omitempty"`
	ProductivityScore   *int       `json:"productivityScore,omitempty"`
	FinalScore          *float64   `json:"finalScore,omitempty"`
	Recommendation      string     `json:"recommendation,omitempty"`
	Comments            string     `json:"comments,omitempty"`
	Reviewer            string     `json:"reviewer,omitempty"`
	ObjectivesAchieved  string     `json:"objectivesAchieved,omitempty"`
	GeneralAppreciation string     `json:"generalAppreciation,omitempty"`
	Strengths           string     `json:"strengths,omitempty"`
	AreasForImprovement string     `json:"areasForImprovement,omitempty"`
	TrainingPlan        string     `json:"trainingPlan,omitempty"`
}

func (r Review) scores() []*int {
	return []*int{r.ObjectivesScore, r.SkillsScore, r.DisciplineScore, r.ProductivityScore}
}
