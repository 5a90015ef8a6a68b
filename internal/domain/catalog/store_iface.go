package catalog

import (
	"context"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/organization"
)

type OrgLookup interface {
	GetDirection(ctx context.Context, id int64) (organization.Direction, error)
	GetServiceUnit(ctx context.Context, id int64) (organization.ServiceUnit, error)
	GetDivision(ctx context.Context, id int64) (organization.Division, error)
}

type StoreAPI interface {
	OrgLookup
	InTx(ctx context.Context, fn func(tx StoreAPI) error) error

	ListTemplates(ctx context.Context, filter TemplateFilter) ([]JobTemplate, error)
	GetTemplate(ctx context.Context, id int64) (JobTemplate, error)
	CreateTemplate(ctx context.Context, in TemplateInput) (int64, error)
	UpdateTemplate(ctx context.Context, id int64, in TemplateInput) error
	DeleteTemplate(ctx context.Context, id int64) error
	CountTemplateHolders(ctx context.Context, id int64) (int, error)

	ListPositions(ctx context.Context, filter PositionFilter) ([]Position, error)
	GetPosition(ctx context.Context, id int64) (Position, error)
	// LockPosition loads a position and holds a row lock until the transaction ends.
	LockPosition(ctx context.Context, id int64) (Position, error)
	CreatePosition(ctx context.Context, in PositionInput) (int64, error)
	UpdatePosition(ctx context.Context, id int64, in PositionInput) error
	SetPositionStatus(ctx context.Context, id int64, status string) error
	DeletePosition(ctx context.Context, id int64) error

	GetEmployeeRef(ctx context.Context, id int64) (EmployeeRef, error)
	// HolderOf returns nil when nobody holds the position.
	HolderOf(ctx context.Context, positionID int64) (*EmployeeRef, error)
	// SetEmployeePosition leaves the job title unchanged when jobTitle is nil.
	SetEmployeePosition(ctx context.Context, employeeID int64, positionID *int64, jobTitle *string) error

	AppendAction(ctx context.Context, action audit.Action) (audit.Action, error)
}
