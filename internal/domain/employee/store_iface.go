package employee

import (
	"context"
	"time"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/organization"
)

// OrgLookup resolves organization nodes. *organization.Store satisfies it.
type OrgLookup interface {
	GetDirection(ctx context.Context, id int64) (organization.Direction, error)
	GetServiceUnit(ctx context.Context, id int64) (organization.ServiceUnit, error)
	GetDivision(ctx context.Context, id int64) (organization.Division, error)
}

type StoreAPI interface {
	OrgLookup

	// InTx runs fn against a store bound to a single transaction.
	InTx(ctx context.Context, fn func(tx StoreAPI) error) error

	List(ctx context.Context) ([]Employee, error)
	Search(ctx context.Context, q Query) (Page, error)
	ListByDivision(ctx context.Context, divisionID int64) ([]Employee, error)
	Get(ctx context.Context, id int64) (Employee, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	MatriculeTaken(ctx context.Context, matricule string, excludeID int64) (bool, error)
	JobTemplateExists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, emp Employee) (int64, error)
	Update(ctx context.Context, emp Employee) error
	Delete(ctx context.Context, id int64) error
	VacatePosition(ctx context.Context, positionID int64) error
	LastUpdatedAt(ctx context.Context) (*time.Time, error)

	SetPhoto(ctx context.Context, id int64, data []byte, contentType string) error
	Photo(ctx context.Context, id int64) (Photo, error)

	DuplicateMatricules(ctx context.Context) ([]string, error)
	ListByMatricule(ctx context.Context, matricule string) ([]Employee, error)

	AppendAction(ctx context.Context, action audit.Action) (audit.Action, error)
	ListActions(ctx context.Context, employeeID int64) ([]audit.Action, error)
}
