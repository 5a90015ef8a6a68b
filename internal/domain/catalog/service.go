package catalog

import (
	"context"
	"fmt"
	"strings"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/platform/metrics"
)

type Service struct {
	Store   StoreAPI
	Metrics *metrics.Collector
}

func NewService(store StoreAPI, collector *metrics.Collector) *Service {
	return &Service{Store: store, Metrics: collector}
}

func positive(id *int64) (int64, bool) {
	if id == nil || *id <= 0 {
		return 0, false
	}
	return *id, true
}

func (s *Service) ListTemplates(ctx context.Context, filter TemplateFilter) ([]JobTemplate, error) {
	return s.Store.ListTemplates(ctx, filter)
}

func (s *Service) GetTemplate(ctx context.Context, id int64) (JobTemplate, error) {
	return s.Store.GetTemplate(ctx, id)
}

// normalizeTemplate drops non-positive anchors and checks the others exist.
func (s *Service) normalizeTemplate(ctx context.Context, in TemplateInput) (TemplateInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, apperr.Validation("title is required")
	}
	var err error
	if id, ok := positive(in.DirectionID); ok {
		_, err = s.Store.GetDirection(ctx, id)
	} else {
		in.DirectionID = nil
	}
	if err != nil {
		return in, err
	}
	if id, ok := positive(in.ServiceUnitID); ok {
		_, err = s.Store.GetServiceUnit(ctx, id)
	} else {
		in.ServiceUnitID = nil
	}
	if err != nil {
		return in, err
	}
	if id, ok := positive(in.DivisionID); ok {
		_, err = s.Store.GetDivision(ctx, id)
	} else {
		in.DivisionID = nil
	}
	return in, err
}

func (s *Service) CreateTemplate(ctx context.Context, in TemplateInput) (JobTemplate, error) {
	in, err := s.normalizeTemplate(ctx, in)
	if err != nil {
		return JobTemplate{}, err
	}
	id, err := s.Store.CreateTemplate(ctx, in)
	if err != nil {
		return JobTemplate{}, err
	}
	return s.Store.GetTemplate(ctx, id)
}

func (s *Service) UpdateTemplate(ctx context.Context, id int64, in TemplateInput) (JobTemplate, error) {
	in, err := s.normalizeTemplate(ctx, in)
	if err != nil {
		return JobTemplate{}, err
	}
	if err := s.Store.UpdateTemplate(ctx, id, in); err != nil {
		return JobTemplate{}, err
	}
	return s.Store.GetTemplate(ctx, id)
}

// DeleteTemplate refuses while employees still reference the template.
func (s *Service) DeleteTemplate(ctx context.Context, id int64) error {
	return s.Store.InTx(ctx, func(tx StoreAPI) error {
		if _, err := tx.GetTemplate(ctx, id); err != nil {
			return err
		}
		holders, err := tx.CountTemplateHolders(ctx, id)
		if err != nil {
			return err
		}
		if holders > 0 {
			return apperr.Conflict(fmt.Sprintf("Cannot delete job template: assigned to %d employee(s)", holders))
		}
		return tx.DeleteTemplate(ctx, id)
	})
}

func (s *Service) ListPositions(ctx context.Context, filter PositionFilter) ([]Position, error) {
	if filter.DivisionID > 0 {
		if _, err := s.Store.GetDivision(ctx, filter.DivisionID); err != nil {
			return nil, err
		}
	}
	if filter.EmployeeID > 0 {
		if _, err := s.Store.GetEmployeeRef(ctx, filter.EmployeeID); err != nil {
			return nil, err
		}
	}
	return s.Store.ListPositions(ctx, filter)
}

func (s *Service) GetPosition(ctx context.Context, id int64) (Position, error) {
	return s.Store.GetPosition(ctx, id)
}

func (s *Service) normalizePosition(ctx context.Context, tx StoreAPI, in PositionInput) (PositionInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, apperr.Validation("title is required")
	}
	if in.DivisionID <= 0 {
		return in, apperr.Validation("divisionId is required")
	}
	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	switch in.Status {
	case "":
		in.Status = StatusVacant
	case StatusVacant, StatusOccupied:
	default:
		return in, apperr.Validation("status must be VACANT or OCCUPIED")
	}
	if _, err := tx.GetDivision(ctx, in.DivisionID); err != nil {
		return in, err
	}
	return in, nil
}

// CreatePosition inserts a position and, when in.EmployeeID is set, assigns
// that employee through the same rules as AssignEmployee.
func (s *Service) CreatePosition(ctx context.Context, in PositionInput, actor string) (Position, error) {
	var id int64
	assigned := false
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		normalized, err := s.normalizePosition(ctx, tx, in)
		if err != nil {
			return err
		}
		if id, err = tx.CreatePosition(ctx, normalized); err != nil {
			return err
		}
		employeeID, ok := positive(in.EmployeeID)
		if !ok {
			return nil
		}
		assigned = true
		return s.assign(ctx, tx, id, employeeID, actor)
	})
	if err != nil {
		return Position{}, err
	}
	if assigned {
		s.Metrics.EmployeeAction(audit.ActionPositionAssign)
	}
	return s.Store.GetPosition(ctx, id)
}

// UpdatePosition rewrites the position fields and assigns in.EmployeeID when
// it differs from the current holder. A held position stays OCCUPIED whatever
// status the input carries.
func (s *Service) UpdatePosition(ctx context.Context, id int64, in PositionInput, actor string) (Position, error) {
	assigned := false
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		current, err := tx.LockPosition(ctx, id)
		if err != nil {
			return err
		}
		normalized, err := s.normalizePosition(ctx, tx, in)
		if err != nil {
			return err
		}
		employeeID, ok := positive(in.EmployeeID)
		if ok || current.EmployeeID != nil {
			normalized.Status = StatusOccupied
		}
		if err := tx.UpdatePosition(ctx, id, normalized); err != nil {
			return err
		}
		if !ok || (current.EmployeeID != nil && *current.EmployeeID == employeeID) {
			return nil
		}
		assigned = true
		return s.assign(ctx, tx, id, employeeID, actor)
	})
	if err != nil {
		return Position{}, err
	}
	if assigned {
		s.Metrics.EmployeeAction(audit.ActionPositionAssign)
	}
	return s.Store.GetPosition(ctx, id)
}

// DeletePosition clears the holder's link before removing the position.
func (s *Service) DeletePosition(ctx context.Context, id int64, actor string) error {
	released := false
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		pos, err := tx.LockPosition(ctx, id)
		if err != nil {
			return err
		}
		if released, err = s.vacate(ctx, tx, pos, actor); err != nil {
			return err
		}
		return tx.DeletePosition(ctx, id)
	})
	if err != nil {
		return err
	}
	if released {
		s.Metrics.EmployeeAction(audit.ActionPositionRelease)
	}
	return nil
}

// AssignEmployee gives positionID to employeeID. The employee's previous
// position becomes vacant, the position's previous holder loses it, and the
// employee's job title becomes the position title.
func (s *Service) AssignEmployee(ctx context.Context, positionID, employeeID int64, actor string) (Position, error) {
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		return s.assign(ctx, tx, positionID, employeeID, actor)
	})
	if err != nil {
		return Position{}, err
	}
	s.Metrics.EmployeeAction(audit.ActionPositionAssign)
	return s.Store.GetPosition(ctx, positionID)
}

func (s *Service) assign(ctx context.Context, tx StoreAPI, positionID, employeeID int64, actor string) error {
	pos, err := tx.LockPosition(ctx, positionID)
	if err != nil {
		return err
	}
	emp, err := tx.GetEmployeeRef(ctx, employeeID)
	if err != nil {
		return err
	}

	if previous, ok := positive(emp.PositionID); ok && previous != positionID {
		if _, err := tx.LockPosition(ctx, previous); err != nil {
			return err
		}
		if err := tx.SetPositionStatus(ctx, previous, StatusVacant); err != nil {
			return err
		}
	}

	holder, err := tx.HolderOf(ctx, positionID)
	if err != nil {
		return err
	}
	if holder != nil && holder.ID != employeeID {
		if err := tx.SetEmployeePosition(ctx, holder.ID, nil, nil); err != nil {
			return err
		}
		if _, err := tx.AppendAction(ctx, audit.NewAction(holder.ID, audit.ActionPositionRelease, actor, "Libération du poste : "+pos.Title)); err != nil {
			return err
		}
	}

	title := pos.Title
	if err := tx.SetEmployeePosition(ctx, employeeID, &positionID, &title); err != nil {
		return err
	}
	if err := tx.SetPositionStatus(ctx, positionID, StatusOccupied); err != nil {
		return err
	}
	_, err = tx.AppendAction(ctx, audit.NewAction(employeeID, audit.ActionPositionAssign, actor, "Affectation au poste : "+pos.Title))
	return err
}

// ReleasePosition marks the position vacant and clears any holder. Releasing
// a vacant position is a no-op.
func (s *Service) ReleasePosition(ctx context.Context, positionID int64, actor string) (Position, error) {
	released := false
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		pos, err := tx.LockPosition(ctx, positionID)
		if err != nil {
			return err
		}
		if released, err = s.vacate(ctx, tx, pos, actor); err != nil {
			return err
		}
		if pos.Status == StatusVacant {
			return nil
		}
		return tx.SetPositionStatus(ctx, positionID, StatusVacant)
	})
	if err != nil {
		return Position{}, err
	}
	if released {
		s.Metrics.EmployeeAction(audit.ActionPositionRelease)
	}
	return s.Store.GetPosition(ctx, positionID)
}

// vacate detaches the current holder, if any, and reports whether one was
// detached. Counting is left to the caller once the transaction commits.
func (s *Service) vacate(ctx context.Context, tx StoreAPI, pos Position, actor string) (bool, error) {
	holder, err := tx.HolderOf(ctx, pos.ID)
	if err != nil || holder == nil {
		return false, err
	}
	if err := tx.SetEmployeePosition(ctx, holder.ID, nil, nil); err != nil {
		return false, err
	}
	if _, err := tx.AppendAction(ctx, audit.NewAction(holder.ID, audit.ActionPositionRelease, actor, "Libération du poste : "+pos.Title)); err != nil {
		return false, err
	}
	return true, nil
}
