// Package stats computes the dashboard figures. Each figure is read with its
// own query, so the result is not a single consistent snapshot.
package stats

type Dashboard struct {
	TotalEmployees          int64            `json:"totalEmployees"`
	AverageAge              float64          `json:"averageAge"`
	TotalOrganizations      int64            `json:"totalOrganizations"`
	AverageTeamSize         float64          `json:"averageTeamSize"`
	EmployeesByOrganization map[string]int64 `json:"employeesByOrganization"`
	GrowthByMonth           []MonthlyCount   `json:"growthByMonth"`
	MaleCount               int64            `json:"maleCount"`
	FemaleCount             int64            `json:"femaleCount"`
	OtherCount              int64            `json:"otherCount"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type DivisionCount struct {
	DivisionID int64
	Name       string
	Count      int64
}

type MonthRow struct {
	Year  int
	Month int
	Count int64
}

type GenderRow struct {
	Gender string
	Count  int64
}

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)
