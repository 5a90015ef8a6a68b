package records

import "context"

type StoreAPI interface {
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)

	ListContracts(ctx context.Context, employeeID int64) ([]Contract, error)
	GetContract(ctx context.Context, id int64) (Contract, error)
	CreateContract(ctx context.Context, c Contract) (Contract, error)
	UpdateContract(ctx context.Context, c Contract) (Contract, error)
	DeleteContract(ctx context.Context, id int64) error

	ListSkills(ctx context.Context, employeeID int64) ([]Skill, error)
	GetSkill(ctx context.Context, id int64) (Skill, error)
	CreateSkill(ctx context.Context, s Skill) (Skill, error)
	UpdateSkill(ctx context.Context, s Skill) (Skill, error)
	DeleteSkill(ctx context.Context, id int64) error

	ListTrainings(ctx context.Context, employeeID int64) ([]Training, error)
	GetTraining(ctx context.Context, id int64) (Training, error)
	CreateTraining(ctx context.Context, t Training) (Training, error)
	UpdateTraining(ctx context.Context, t Training) (Training, error)
	DeleteTraining(ctx context.Context, id int64) error

	ListPromotions(ctx context.Context, employeeID int64) ([]Promotion, error)
	GetPromotion(ctx context.Context, id int64) (Promotion, error)
	CreatePromotion(ctx context.Context, p Promotion) (Promotion, error)
	UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error)
	DeletePromotion(ctx context.Context, id int64) error

	ListReviews(ctx context.Context, employeeID int64) ([]Review, error)
	GetReview(ctx context.Context, id int64) (Review, error)
	CreateReview(ctx context.Context, r Review) (Review, error)
	UpdateReview(ctx context.Context, r Review) (Review, error)
	DeleteReview(ctx context.Context, id int64) error
}
