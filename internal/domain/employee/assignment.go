package employee

import (
	"context"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/organization"
)

func positive(id *int64) (int64, bool) {
	if id == nil || *id <= 0 {
		return 0, false
	}
	return *id, true
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

func divisionAncestry(div organization.Division) Ancestry {
	return Ancestry{
		DirectionID:   optionalID(div.DirectionID),
		ServiceUnitID: optionalID(div.ServiceUnitID),
		DivisionID:    optionalID(div.ID),
	}
}

// DeriveAncestry resolves the most specific anchor of target (division, then
// service unit, then direction) and rebuilds everything above it from the
// stored tree. Ids that are nil or not positive count as unset; with no
// anchor the result is empty.
func DeriveAncestry(ctx context.Context, lookup OrgLookup, target OrgTarget) (Ancestry, error) {
	if id, ok := positive(target.DivisionID); ok {
		div, err := lookup.GetDivision(ctx, id)
		if err != nil {
			return Ancestry{}, err
		}
		return divisionAncestry(div), nil
	}
	if id, ok := positive(target.ServiceUnitID); ok {
		unit, err := lookup.GetServiceUnit(ctx, id)
		if err != nil {
			return Ancestry{}, err
		}
		return Ancestry{
			DirectionID:   optionalID(unit.DirectionID),
			ServiceUnitID: optionalID(unit.ID),
		}, nil
	}
	if id, ok := positive(target.DirectionID); ok {
		dir, err := lookup.GetDirection(ctx, id)
		if err != nil {
			return Ancestry{}, err
		}
		return Ancestry{DirectionID: optionalID(dir.ID)}, nil
	}
	return Ancestry{}, nil
}

// ApplyOrganizationLinks overwrites the three organization links of emp.
func ApplyOrganizationLinks(ctx context.Context, lookup OrgLookup, target OrgTarget, emp *Employee) error {
	ancestry, err := DeriveAncestry(ctx, lookup, target)
	if err != nil {
		return err
	}
	emp.Ancestry = ancestry
	return nil
}

// CheckActorAuthorized allows only ADMIN and RH, compared case-insensitively.
// An empty actor is refused.
func CheckActorAuthorized(actor string) error {
	if !auth.IsAdministrative(actor) {
		return ErrActorForbidden
	}
	return nil
}

// AssignToDivision moves an employee under a division and records the change.
func (s *Service) AssignToDivision(ctx context.Context, employeeID, divisionID int64, actor string) (Employee, error) {
	if err := CheckActorAuthorized(actor); err != nil {
		return Employee{}, err
	}
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		emp, err := tx.Get(ctx, employeeID)
		if err != nil {
			return err
		}
		div, err := tx.GetDivision(ctx, divisionID)
		if err != nil {
			return err
		}
		emp.Ancestry = divisionAncestry(div)
		if err := tx.Update(ctx, emp); err != nil {
			return err
		}
		return s.record(ctx, tx, employeeID, audit.ActionDivisionChange, actor, DivisionChangeDetail(div.Name))
	})
	if err != nil {
		return Employee{}, err
	}
	s.Metrics.EmployeeAction(audit.ActionDivisionChange)
	return s.Store.Get(ctx, employeeID)
}

// RemoveFromDivision clears only the division link. The service unit and
// direction links are kept.
func (s *Service) RemoveFromDivision(ctx context.Context, divisionID, employeeID int64, actor string) error {
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		emp, err := tx.Get(ctx, employeeID)
		if err != nil {
			return err
		}
		current, ok := positive(emp.DivisionID)
		if !ok || current != divisionID {
			return errNotInDivision(employeeID, divisionID)
		}
		name := emp.DivisionName
		emp.DivisionID = nil
		if err := tx.Update(ctx, emp); err != nil {
			return err
		}
		return s.record(ctx, tx, employeeID, audit.ActionDivisionRemoval, actor, divisionRemovalPrefix+name)
	})
	if err != nil {
		return err
	}
	s.Metrics.EmployeeAction(audit.ActionDivisionRemoval)
	return nil
}
