package organization

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
	"personnel/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const detailColumns = `name, COALESCE(description, ''), COALESCE(address, ''), COALESCE(manager_name, ''),
       COALESCE(missions, ''), COALESCE(objectives, '')`

func detailArgs(d Details) []any {
	return []any{
		d.Name,
		querier.NullIfEmpty(d.Description),
		querier.NullIfEmpty(d.Address),
		querier.NullIfEmpty(d.ManagerName),
		querier.NullIfEmpty(d.Missions),
		querier.NullIfEmpty(d.Objectives),
	}
}

func (d *Details) scanTargets() []any {
	return []any{&d.Name, &d.Description, &d.Address, &d.ManagerName, &d.Missions, &d.Objectives}
}

func scanDirection(row pgx.Row) (Direction, error) {
	var out Direction
	targets := append([]any{&out.ID}, out.Details.scanTargets()...)
	targets = append(targets, &out.CreatedAt, &out.UpdatedAt)
	if err := row.Scan(targets...); err != nil {
		return out, err
	}
	return out, nil
}

func scanServiceUnit(row pgx.Row) (ServiceUnit, error) {
	var out ServiceUnit
	targets := append([]any{&out.ID, &out.DirectionID}, out.Details.scanTargets()...)
	targets = append(targets, &out.CreatedAt, &out.UpdatedAt)
	if err := row.Scan(targets...); err != nil {
		return out, err
	}
	return out, nil
}

func scanDivision(row pgx.Row) (Division, error) {
	var out Division
	targets := append([]any{&out.ID, &out.ServiceUnitID, &out.DirectionID}, out.Details.scanTargets()...)
	targets = append(targets, &out.CreatedAt, &out.UpdatedAt)
	if err := row.Scan(targets...); err != nil {
		return out, err
	}
	return out, nil
}

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return errors.Wrapf(err, "load %s", entity)
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const directionSelect = "SELECT id, " + detailColumns + ", created_at, updated_at FROM directions"

func (s *Store) ListDirections(ctx context.Context) ([]Direction, error) {
	rows, err := s.DB.Query(ctx, directionSelect+" ORDER BY name, id")
	if err != nil {
		return nil, errors.Wrap(err, "list directions")
	}
	return collect(rows, scanDirection)
}

func (s *Store) GetDirection(ctx context.Context, id int64) (Direction, error) {
	out, err := scanDirection(s.DB.QueryRow(ctx, directionSelect+" WHERE id = $1", id))
	if err != nil {
		return Direction{}, notFound(err, "Direction", id)
	}
	return out, nil
}

func (s *Store) CreateDirection(ctx context.Context, details Details) (Direction, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO directions (name, description, address, manager_name, missions, objectives)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, detailArgs(details)...).Scan(&id)
	if err != nil {
		return Direction{}, errors.Wrap(err, "insert direction")
	}
	return s.GetDirection(ctx, id)
}

func (s *Store) UpdateDirection(ctx context.Context, id int64, details Details) (Direction, error) {
	args := append([]any{id}, detailArgs(details)...)
	tag, err := s.DB.Exec(ctx, `
    UPDATE directions
    SET name = $2, description = $3, address = $4, manager_name = $5, missions = $6, objectives = $7,
        updated_at = now()
    WHERE id = $1
  `, args...)
	if err != nil {
		return Direction{}, errors.Wrap(err, "update direction")
	}
	if tag.RowsAffected() == 0 {
		return Direction{}, apperr.NotFound("Direction", id)
	}
	return s.GetDirection(ctx, id)
}

func (s *Store) DeleteDirection(ctx context.Context, id int64) error {
	return s.deleteNode(ctx, "directions", "Direction", id)
}

const serviceUnitSelect = "SELECT id, direction_id, " + detailColumns + ", created_at, updated_at FROM service_units"

func (s *Store) ListServiceUnits(ctx context.Context, directionID int64) ([]ServiceUnit, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if directionID > 0 {
		rows, err = s.DB.Query(ctx, serviceUnitSelect+" WHERE direction_id = $1 ORDER BY name, id", directionID)
	} else {
		rows, err = s.DB.Query(ctx, serviceUnitSelect+" ORDER BY name, id")
	}
	if err != nil {
		return nil, errors.Wrap(err, "list service units")
	}
	return collect(rows, scanServiceUnit)
}

func (s *Store) GetServiceUnit(ctx context.Context, id int64) (ServiceUnit, error) {
	out, err := scanServiceUnit(s.DB.QueryRow(ctx, serviceUnitSelect+" WHERE id = $1", id))
	if err != nil {
		return ServiceUnit{}, notFound(err, "ServiceUnit", id)
	}
	return out, nil
}

func (s *Store) CreateServiceUnit(ctx context.Context, directionID int64, details Details) (ServiceUnit, error) {
	var id int64
	args := append([]any{directionID}, detailArgs(details)...)
	err := s.DB.QueryRow(ctx, `
    INSERT INTO service_units (direction_id, name, description, address, manager_name, missions, objectives)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, args...).Scan(&id)
	if _, ok := querier.ForeignKeyViolation(err); ok {
		return ServiceUnit{}, apperr.NotFound("Direction", directionID)
	}
	if err != nil {
		return ServiceUnit{}, errors.Wrap(err, "insert service unit")
	}
	return s.GetServiceUnit(ctx, id)
}

func (s *Store) UpdateServiceUnit(ctx context.Context, id int64, details Details) (ServiceUnit, error) {
	args := append([]any{id}, detailArgs(details)...)
	tag, err := s.DB.Exec(ctx, `
    UPDATE service_units
    SET name = $2, description = $3, address = $4, manager_name = $5, missions = $6, objectives = $7,
        updated_at = now()
    WHERE id = $1
  `, args...)
	if err != nil {
		return ServiceUnit{}, errors.Wrap(err, "update service unit")
	}
	if tag.RowsAffected() == 0 {
		return ServiceUnit{}, apperr.NotFound("ServiceUnit", id)
	}
	return s.GetServiceUnit(ctx, id)
}

func (s *Store) DeleteServiceUnit(ctx context.Context, id int64) error {
	return s.deleteNode(ctx, "service_units", "ServiceUnit", id)
}

const divisionSelect = `SELECT d.id, d.service_unit_id, COALESCE(su.direction_id, 0), d.name, COALESCE(d.description, ''),
       COALESCE(d.address, ''), COALESCE(d.manager_name, ''), COALESCE(d.missions, ''), COALESCE(d.objectives, ''),
       d.created_at, d.updated_at
FROM divisions d
LEFT JOIN service_units su ON su.id = d.service_unit_id`

func (s *Store) ListDivisions(ctx context.Context, serviceUnitID int64) ([]Division, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if serviceUnitID > 0 {
		rows, err = s.DB.Query(ctx, divisionSelect+" WHERE d.service_unit_id = $1 ORDER BY d.name, d.id", serviceUnitID)
	} else {
		rows, err = s.DB.Query(ctx, divisionSelect+" ORDER BY d.name, d.id")
	}
	if err != nil {
		return nil, errors.Wrap(err, "list divisions")
	}
	return collect(rows, scanDivision)
}

func (s *Store) GetDivision(ctx context.Context, id int64) (Division, error) {
	out, err := scanDivision(s.DB.QueryRow(ctx, divisionSelect+" WHERE d.id = $1", id))
	if err != nil {
		return Division{}, notFound(err, "Division", id)
	}
	return out, nil
}

func (s *Store) CreateDivision(ctx context.Context, serviceUnitID int64, details Details) (Division, error) {
	var id int64
	args := append([]any{serviceUnitID}, detailArgs(details)...)
	err := s.DB.QueryRow(ctx, `
    INSERT INTO divisions (service_unit_id, name, description, address, manager_name, missions, objectives)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, args...).Scan(&id)
	if _, ok := querier.ForeignKeyViolation(err); ok {
		return Division{}, apperr.NotFound("ServiceUnit", serviceUnitID)
	}
	if err != nil {
		return Division{}, errors.Wrap(err, "insert division")
	}
	return s.GetDivision(ctx, id)
}

func (s *Store) UpdateDivision(ctx context.Context, id int64, details Details) (Division, error) {
	args := append([]any{id}, detailArgs(details)...)
	tag, err := s.DB.Exec(ctx, `
    UPDATE divisions
    SET name = $2, description = $3, address = $4, manager_name = $5, missions = $6, objectives = $7,
        updated_at = now()
    WHERE id = $1
  `, args...)
	if err != nil {
		return Division{}, errors.Wrap(err, "update division")
	}
	if tag.RowsAffected() == 0 {
		return Division{}, apperr.NotFound("Division", id)
	}
	return s.GetDivision(ctx, id)
}

func (s *Store) DeleteDivision(ctx context.Context, id int64) error {
	return s.deleteNode(ctx, "divisions", "Division", id)
}

// deleteNode relies on the schema: children cascade, employee links are set null.
func (s *Store) deleteNode(ctx context.Context, table, entity string, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return errors.Wrapf(err, "delete %s", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}

var employeeLinkColumn = map[Level]string{
	LevelDirection:   "direction_id",
	LevelServiceUnit: "service_unit_id",
	LevelDivision:    "division_id",
}

func (s *Store) CountEmployees(ctx context.Context, level Level, id int64) (int, error) {
	column, ok := employeeLinkColumn[level]
	if !ok {
		return 0, apperr.Validation("unknown organization level: " + string(level))
	}
	var n int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE "+column+" = $1", id).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count employees")
	}
	return n, nil
}
