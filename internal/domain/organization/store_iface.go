package organization

import "context"

type StoreAPI interface {
	ListDirections(ctx context.Context) ([]Direction, error)
	GetDirection(ctx context.Context, id int64) (Direction, error)
	CreateDirection(ctx context.Context, details Details) (Direction, error)
	UpdateDirection(ctx context.Context, id int64, details Details) (Direction, error)
	DeleteDirection(ctx context.Context, id int64) error

	// ListServiceUnits returns every service unit when directionID is 0.
	ListServiceUnits(ctx context.Context, directionID int64) ([]ServiceUnit, error)
	GetServiceUnit(ctx context.Context, id int64) (ServiceUnit, error)
	CreateServiceUnit(ctx context.Context, directionID int64, details Details) (ServiceUnit, error)
	UpdateServiceUnit(ctx context.Context, id int64, details Details) (ServiceUnit, error)
	DeleteServiceUnit(ctx context.Context, id int64) error

	// ListDivisions returns every division when serviceUnitID is 0.
	ListDivisions(ctx context.Context, serviceUnitID int64) ([]Division, error)
	GetDivision(ctx context.Context, id int64) (Division, error)
	CreateDivision(ctx context.Context, serviceUnitID int64, details Details) (Division, error)
	UpdateDivision(ctx context.Context, id int64, details Details) (Division, error)
	DeleteDivision(ctx context.Context, id int64) error

	CountEmployees(ctx context.Context, level Level, id int64) (int, error)
}
