package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}

// AverageTeamSize is employees per division, 0 when there is no division.
func AverageTeamSize(employees, divisions int64) float64 {
	if divisions <= 0 {
		return 0
	}
	out, _ := decimal.NewFromInt(employees).DivRound(decimal.NewFromInt(divisions), 2).Float64()
	return out
}

// GenderBucket maps a free-form gender to male, female or other.
func GenderBucket(gender string) string {
	switch strings.ToUpper(gender) {
	case "M", "H", "HOMME":
		return GenderMale
	case "F", "FEMME":
		return GenderFemale
	default:
		return GenderOther
	}
}

func MonthLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// GrowthByMonth labels month rows and orders them chronologically.
func GrowthByMonth(rows []MonthRow) []MonthlyCount {
	ordered := make([]MonthRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Year != ordered[j].Year {
			return ordered[i].Year < ordered[j].Year
		}
		return ordered[i].Month < ordered[j].Month
	})
	out := make([]MonthlyCount, 0, len(ordered))
	for _, r := range ordered {
		out = append(out, MonthlyCount{Month: MonthLabel(r.Year, r.Month), Count: r.Count})
	}
	return out
}

// ByDivisionName keys counts by division name; when two divisions share a
// name the later one in the input wins.
func ByDivisionName(counts []DivisionCount) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for _, c := range counts {
		out[c.Name] = c.Count
	}
	return out
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	var err error

	if out.TotalEmployees, err = s.Store.CountEmployees(ctx); err != nil {
		return Dashboard{}, err
	}
	avg, err := s.Store.AverageAge(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	if avg != nil {
		out.AverageAge = Round2(*avg)
	}
	if out.TotalOrganizations, err = s.Store.CountDivisions(ctx); err != nil {
		return Dashboard{}, err
	}
	out.AverageTeamSize = AverageTeamSize(out.TotalEmployees, out.TotalOrganizations)

	perDivision, err := s.Store.EmployeesPerDivision(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	out.EmployeesByOrganization = ByDivisionName(perDivision)

	months, err := s.Store.CreatedPerMonth(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	out.GrowthByMonth = GrowthByMonth(months)

	genders, err := s.Store.GenderCounts(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	for _, g := range genders {
		switch GenderBucket(g.Gender) {
		case GenderMale:
			out.MaleCount += g.Count
		case GenderFemale:
			out.FemaleCount += g.Count
		default:
			out.OtherCount += g.Count
		}
	}
	return out, nil
}
