package employee

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"personnel/internal/domain/audit"
)

// ReconcileActor is recorded on audit entries written by reconciliation.
const ReconcileActor = "SYSTEM"

func lastTouched(e Employee) *time.Time {
	if e.UpdatedAt != nil {
		return e.UpdatedAt
	}
	return e.CreatedAt
}

// PickSurvivor orders a duplicate group by last touch (updatedAt, else
// createdAt; missing timestamps sort oldest) and keeps the newest. Ties keep
// the input order.
func PickSurvivor(group []Employee) (Employee, []Employee) {
	if len(group) == 0 {
		return Employee{}, nil
	}
	ordered := make([]Employee, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := lastTouched(ordered[i]), lastTouched(ordered[j])
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return ordered[0], ordered[1:]
}

// ReconcileDuplicates keeps one employee per matricule (compared
// case-insensitively) and deletes the others. Each group runs in its own
// transaction, so running it again is a no-op.
func (s *Service) ReconcileDuplicates(ctx context.Context) (ReconcileResult, error) {
	result := ReconcileResult{RemovedIDs: []int64{}, KeptIDs: []int64{}}

	matricules, err := s.Store.DuplicateMatricules(ctx)
	if err != nil {
		return result, err
	}
	for _, matricule := range matricules {
		var (
			kept    Employee
			removed []Employee
		)
		err := s.Store.InTx(ctx, func(tx StoreAPI) error {
			group, err := tx.ListByMatricule(ctx, matricule)
			if err != nil {
				return err
			}
			if len(group) < 2 {
				return nil
			}
			kept, removed = PickSurvivor(group)
			for _, dup := range removed {
				if err := s.record(ctx, tx, dup.ID, audit.ActionDuplicateRemove, ReconcileActor, duplicateRemovalText+dup.Matricule); err != nil {
					return err
				}
				if err := tx.Delete(ctx, dup.ID); err != nil {
					return err
				}
				if positionID, ok := positive(dup.PositionID); ok {
					if err := tx.VacatePosition(ctx, positionID); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return result, err
		}
		if len(removed) == 0 {
			continue
		}
		result.Groups++
		result.KeptIDs = append(result.KeptIDs, kept.ID)
		for _, dup := range removed {
			result.RemovedIDs = append(result.RemovedIDs, dup.ID)
			logrus.WithFields(logrus.Fields{
				"matricule":   dup.Matricule,
				"employee_id": dup.ID,
				"kept_id":     kept.ID,
			}).Warn("deleted duplicate employee")
		}
	}

	s.Metrics.DuplicatesRemoved(len(result.RemovedIDs))
	logrus.WithFields(logrus.Fields{
		"groups":  result.Groups,
		"removed": len(result.RemovedIDs),
	}).Info("duplicate reconciliation finished")
	return result, nil
}
