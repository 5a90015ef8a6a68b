// Package reports renders employee documents: the PDF employee sheet and the
// xlsx export of the registry.
package reports

import (
	"context"
	"io"

	"github.com/go-faster/errors"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/domain/employee"
)

// Source is the read side of the employee registry.
type Source interface {
	Get(ctx context.Context, id int64) (employee.Employee, error)
	List(ctx context.Context) ([]employee.Employee, error)
	Photo(ctx context.Context, id int64) (employee.Photo, error)
	Actions(ctx context.Context, employeeID int64) ([]audit.Action, error)
}

type Sheet struct {
	Employee employee.Employee
	Photo    *employee.Photo
	Actions  []audit.Action
}

type Service struct {
	Source Source
}

func NewService(source Source) *Service {
	return &Service{Source: source}
}

func (s *Service) loadSheet(ctx context.Context, id int64) (Sheet, error) {
	emp, err := s.Source.Get(ctx, id)
	if err != nil {
		return Sheet{}, err
	}
	sheet := Sheet{Employee: emp}
	if emp.HasPhoto {
		photo, err := s.Source.Photo(ctx, id)
		switch {
		case err == nil:
			sheet.Photo = &photo
		case !errors.Is(err, apperr.ErrNotFound):
			return Sheet{}, err
		}
	}
	if sheet.Actions, err = s.Source.Actions(ctx, id); err != nil {
		return Sheet{}, err
	}
	return sheet, nil
}

// EmployeeSheet writes the PDF sheet of one employee.
func (s *Service) EmployeeSheet(ctx context.Context, id int64, w io.Writer) error {
	sheet, err := s.loadSheet(ctx, id)
	if err != nil {
		return err
	}
	return RenderSheet(w, sheet)
}

// ExportEmployees writes every employee as one xlsx row.
func (s *Service) ExportEmployees(ctx context.Context, w io.Writer) error {
	list, err := s.Source.List(ctx)
	if err != nil {
		return err
	}
	return RenderEmployees(w, list)
}
