package records

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"personnel/internal/apperr"
)

const (
	minScore = 0
	maxScore = 100
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) requireEmployee(ctx context.Context, employeeID int64) error {
	ok, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Employee", employeeID)
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Validation(field + " is required")
	}
	return nil
}

func validateContract(c *Contract) error {
	if err := required("type", c.Type); err != nil {
		return err
	}
	if c.StartDate.IsZero() {
		return apperr.Validation("startDate is required")
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		return apperr.Validation("endDate must not be before startDate")
	}
	if c.ProbationEndDate != nil && c.ProbationEndDate.Before(c.StartDate) {
		return apperr.Validation("probationEndDate must not be before startDate")
	}
	if c.Status == "" {
		c.Status = ContractActive
	}
	if !slices.Contains(ContractStatuses, c.Status) {
		return apperr.Validation("status must be one of " + strings.Join(ContractStatuses, ", "))
	}
	return nil
}

func (s *Service) ListContracts(ctx context.Context, employeeID int64) ([]Contract, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.Store.ListContracts(ctx, employeeID)
}

func (s *Service) CreateContract(ctx context.Context, employeeID int64, c Contract) (Contract, error) {
	if err := validateContract(&c); err != nil {
		return Contract{}, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return Contract{}, err
	}
	c.EmployeeID = employeeID
	return s.Store.CreateContract(ctx, c)
}

func (s *Service) UpdateContract(ctx context.Context, id int64, c Contract) (Contract, error) {
	current, err := s.Store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	if err := validateContract(&c); err != nil {
		return Contract{}, err
	}
	c.ID = id
	c.EmployeeID = current.EmployeeID
	return s.Store.UpdateContract(ctx, c)
}

func (s *Service) DeleteContract(ctx context.Context, id int64) error {
	return s.Store.DeleteContract(ctx, id)
}

func (s *Service) ListSkills(ctx context.Context, employeeID int64) ([]Skill, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.Store.ListSkills(ctx, employeeID)
}

func (s *Service) CreateSkill(ctx context.Context, employeeID int64, sk Skill) (Skill, error) {
	if err := required("name", sk.Name); err != nil {
		return Skill{}, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return Skill{}, err
	}
	sk.EmployeeID = employeeID
	return s.Store.CreateSkill(ctx, sk)
}

func (s *Service) UpdateSkill(ctx context.Context, id int64, sk Skill) (Skill, error) {
	current, err := s.Store.GetSkill(ctx, id)
	if err != nil {
		return Skill{}, err
	}
	if err := required("name", sk.Name); err != nil {
		return Skill{}, err
	}
	sk.ID = id
	sk.EmployeeID = current.EmployeeID
	return s.Store.UpdateSkill(ctx, sk)
}

func (s *Service) DeleteSkill(ctx context.Context, id int64) error {
	return s.Store.DeleteSkill(ctx, id)
}

func (s *Service) ListTrainings(ctx context.Context, employeeID int64) ([]Training, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.Store.ListTrainings(ctx, employeeID)
}

func (s *Service) CreateTraining(ctx context.Context, employeeID int64, t Training) (Training, error) {
	if err := required("name", t.Name); err != nil {
		return Training{}, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return Training{}, err
	}
	t.EmployeeID = employeeID
	return s.Store.CreateTraining(ctx, t)
}

func (s *Service) UpdateTraining(ctx context.Context, id int64, t Training) (Training, error) {
	current, err := s.Store.GetTraining(ctx, id)
	if err != nil {
		return Training{}, err
	}
	if err := required("name", t.Name); err != nil {
		return Training{}, err
	}
	t.ID = id
	t.EmployeeID = current.EmployeeID
	return s.Store.UpdateTraining(ctx, t)
}

func (s *Service) DeleteTraining(ctx context.Context, id int64) error {
	return s.Store.DeleteTraining(ctx, id)
}

func (s *Service) ListPromotions(ctx context.Context, employeeID int64) ([]Promotion, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.Store.ListPromotions(ctx, employeeID)
}

func (s *Service) CreatePromotion(ctx context.Context, employeeID int64, p Promotion) (Promotion, error) {
	if err := required("newTitle", p.NewTitle); err != nil {
		return Promotion{}, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return Promotion{}, err
	}
	p.EmployeeID = employeeID
	return s.Store.CreatePromotion(ctx, p)
}

func (s *Service) UpdatePromotion(ctx context.Context, id int64, p Promotion) (Promotion, error) {
	current, err := s.Store.GetPromotion(ctx, id)
	if err != nil {
		return Promotion{}, err
	}
	if err := required("newTitle", p.NewTitle); err != nil {
		return Promotion{}, err
	}
	p.ID = id
	p.EmployeeID = current.EmployeeID
	return s.Store.UpdatePromotion(ctx, p)
}

func (s *Service) DeletePromotion(ctx context.Context, id int64) error {
	return s.Store.DeletePromotion(ctx, id)
}

// FinalScore is the mean of the scores that are present, rounded to two
// decimals, or nil when none is.
func FinalScore(r Review) *float64 {
	sum := decimal.Zero
	n := int64(0)
	for _, score := range r.scores() {
		if score == nil {
			continue
		}
		sum = sum.Add(decimal.NewFromInt(int64(*score)))
		n++
	}
	if n == 0 {
		return nil
	}
	mean, _ := sum.DivRound(decimal.NewFromInt(n), 2).Float64()
	return &mean
}

func prepareReview(r *Review) error {
	names := []string{"objectivesScore", "skillsScore", "disciplineScore", "productivityScore"}
	for i, score := range r.scores() {
		if score != nil && (*score < minScore || *score > maxScore) {
			return apperr.Validation(fmt.Sprintf("%s must be between %d and %d", names[i], minScore, maxScore))
		}
	}
	if r.FinalScore == nil {
		r.FinalScore = FinalScore(*r)
	}
	return nil
}

func (s *Service) ListReviews(ctx context.Context, employeeID int64) ([]Review, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.Store.ListReviews(ctx, employeeID)
}

func (s *Service) CreateReview(ctx context.Context, employeeID int64, r Review) (Review, error) {
	if err := prepareReview(&r); err != nil {
		return Review{}, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return Review{}, err
	}
	r.EmployeeID = employeeID
	return s.Store.CreateReview(ctx, r)
}

func (s *Service) UpdateReview(ctx context.Context, id int64, r Review) (Review, error) {
	current, err := s.Store.GetReview(ctx, id)
	if err != nil {
		return Review{}, err
	}
	if err := prepareReview(&r); err != nil {
		return Review{}, err
	}
	r.ID = id
	r.EmployeeID = current.EmployeeID
	return s.Store.UpdateReview(ctx, r)
}

func (s *Service) DeleteReview(ctx context.Context, id int64) error {
	return s.Store.DeleteReview(ctx, id)
}
