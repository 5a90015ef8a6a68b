package organization

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"personnel/internal/apperr"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func normalize(details Details) (Details, error) {
	details.Name = strings.TrimSpace(details.Name)
	if details.Name == "" {
		return details, apperr.Validation("name is required")
	}
	return details, nil
}

// Tree returns every direction with its service units and divisions.
func (s *Service) Tree(ctx context.Context) ([]DirectionNode, error) {
	directions, err := s.Store.ListDirections(ctx)
	if err != nil {
		return nil, err
	}
	units, err := s.Store.ListServiceUnits(ctx, 0)
	if err != nil {
		return nil, err
	}
	divisions, err := s.Store.ListDivisions(ctx, 0)
	if err != nil {
		return nil, err
	}

	divisionsByUnit := map[int64][]Division{}
	for _, d := range divisions {
		divisionsByUnit[d.ServiceUnitID] = append(divisionsByUnit[d.ServiceUnitID], d)
	}
	unitsByDirection := map[int64][]ServiceNode{}
	for _, u := range units {
		children := divisionsByUnit[u.ID]
		if children == nil {
			children = []Division{}
		}
		unitsByDirection[u.DirectionID] = append(unitsByDirection[u.DirectionID], ServiceNode{ServiceUnit: u, Divisions: children})
	}

	out := make([]DirectionNode, 0, len(directions))
	for _, d := range directions {
		children := unitsByDirection[d.ID]
		if children == nil {
			children = []ServiceNode{}
		}
		out = append(out, DirectionNode{Direction: d, Services: children})
	}
	return out, nil
}

func (s *Service) ListDirections(ctx context.Context) ([]Direction, error) {
	return s.Store.ListDirections(ctx)
}

func (s *Service) GetDirection(ctx context.Context, id int64) (Direction, error) {
	return s.Store.GetDirection(ctx, id)
}

func (s *Service) CreateDirection(ctx context.Context, details Details) (Direction, error) {
	details, err := normalize(details)
	if err != nil {
		return Direction{}, err
	}
	return s.Store.CreateDirection(ctx, details)
}

func (s *Service) UpdateDirection(ctx context.Context, id int64, details Details) (Direction, error) {
	details, err := normalize(details)
	if err != nil {
		return Direction{}, err
	}
	return s.Store.UpdateDirection(ctx, id, details)
}

// DeleteDirection removes the direction with its service units and divisions.
func (s *Service) DeleteDirection(ctx context.Context, id int64) error {
	if err := s.Store.DeleteDirection(ctx, id); err != nil {
		return err
	}
	logrus.WithField("direction_id", id).Info("direction deleted")
	return nil
}

func (s *Service) ListServiceUnits(ctx context.Context, directionID int64) ([]ServiceUnit, error) {
	if directionID > 0 {
		if _, err := s.Store.GetDirection(ctx, directionID); err != nil {
			return nil, err
		}
	}
	return s.Store.ListServiceUnits(ctx, directionID)
}

func (s *Service) GetServiceUnit(ctx context.Context, id int64) (ServiceUnit, error) {
	return s.Store.GetServiceUnit(ctx, id)
}

func (s *Service) CreateServiceUnit(ctx context.Context, directionID int64, details Details) (ServiceUnit, error) {
	details, err := normalize(details)
	if err != nil {
		return ServiceUnit{}, err
	}
	if _, err := s.Store.GetDirection(ctx, directionID); err != nil {
		return ServiceUnit{}, err
	}
	return s.Store.CreateServiceUnit(ctx, directionID, details)
}

func (s *Service) UpdateServiceUnit(ctx context.Context, id int64, details Details) (ServiceUnit, error) {
	details, err := normalize(details)
	if err != nil {
		return ServiceUnit{}, err
	}
	return s.Store.UpdateServiceUnit(ctx, id, details)
}

func (s *Service) DeleteServiceUnit(ctx context.Context, id int64) error {
	if err := s.Store.DeleteServiceUnit(ctx, id); err != nil {
		return err
	}
	logrus.WithField("service_unit_id", id).Info("service unit deleted")
	return nil
}

func (s *Service) ListDivisions(ctx context.Context, serviceUnitID int64) ([]Division, error) {
	if serviceUnitID > 0 {
		if _, err := s.Store.GetServiceUnit(ctx, serviceUnitID); err != nil {
			return nil, err
		}
	}
	return s.Store.ListDivisions(ctx, serviceUnitID)
}

func (s *Service) GetDivision(ctx context.Context, id int64) (Division, error) {
	return s.Store.GetDivision(ctx, id)
}

func (s *Service) CreateDivision(ctx context.Context, serviceUnitID int64, details Details) (Division, error) {
	details, err := normalize(details)
	if err != nil {
		return Division{}, err
	}
	if _, err := s.Store.GetServiceUnit(ctx, serviceUnitID); err != nil {
		return Division{}, err
	}
	return s.Store.CreateDivision(ctx, serviceUnitID, details)
}

func (s *Service) UpdateDivision(ctx context.Context, id int64, details Details) (Division, error) {
	details, err := normalize(details)
	if err != nil {
		return Division{}, err
	}
	return s.Store.UpdateDivision(ctx, id, details)
}

func (s *Service) DeleteDivision(ctx context.Context, id int64) error {
	if err := s.Store.DeleteDivision(ctx, id); err != nil {
		return err
	}
	logrus.WithField("division_id", id).Info("division deleted")
	return nil
}

// EmployeeCount counts employees whose denormalized link at level points to id.
func (s *Service) EmployeeCount(ctx context.Context, level Level, id int64) (int, error) {
	var err error
	switch level {
	case LevelDirection:
		_, err = s.Store.GetDirection(ctx, id)
	case LevelServiceUnit:
		_, err = s.Store.GetServiceUnit(ctx, id)
	case LevelDivision:
		_, err = s.Store.GetDivision(ctx, id)
	default:
		return 0, apperr.Validation("unknown organization level: " + string(level))
	}
	if err != nil {
		return 0, err
	}
	return s.Store.CountEmployees(ctx, level, id)
}
