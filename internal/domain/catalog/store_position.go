package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
	"personnel/internal/platform/querier"
)

const positionSelect = `SELECT p.id, p.title, p.division_id, COALESCE(dv.name, ''),
       COALESCE(p.category, ''), COALESCE(p.level, ''), COALESCE(p.missions, ''), COALESCE(p.description, ''),
       COALESCE(p.classification_level, ''), p.status,
       emp.id, COALESCE(emp.first_name || ' ' || emp.last_name, ''),
       p.created_at, p.updated_at
FROM positions p
LEFT JOIN divisions dv ON dv.id = p.division_id
LEFT JOIN employees emp ON emp.position_id = p.id`

func scanPosition(row pgx.Row) (Position, error) {
	var p Position
	err := row.Scan(&p.ID, &p.Title, &p.DivisionID, &p.DivisionName,
		&p.Category, &p.Level, &p.Missions, &p.Description,
		&p.ClassificationLevel, &p.Status,
		&p.EmployeeID, &p.EmployeeName,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListPositions(ctx context.Context, filter PositionFilter) ([]Position, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.DivisionID > 0 {
		args = append(args, filter.DivisionID)
		clauses = append(clauses, fmt.Sprintf("p.division_id = $%d", len(args)))
	}
	if filter.EmployeeID > 0 {
		args = append(args, filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("emp.id = $%d", len(args)))
	}
	query := positionSelect
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	rows, err := s.DB.Query(ctx, query+" ORDER BY p.title, p.id", args...)
	if err != nil {
		return nil, errors.Wrap(err, "list positions")
	}
	defer rows.Close()

	out := make([]Position, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan position")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPosition(ctx context.Context, id int64) (Position, error) {
	p, err := scanPosition(s.DB.QueryRow(ctx, positionSelect+" WHERE p.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Position{}, apperr.NotFound("Position", id)
	}
	if err != nil {
		return Position{}, errors.Wrap(err, "load position")
	}
	return p, nil
}

func (s *Store) LockPosition(ctx context.Context, id int64) (Position, error) {
	var locked int64
	err := s.DB.QueryRow(ctx, "SELECT id FROM positions WHERE id = $1 FOR UPDATE", id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return Position{}, apperr.NotFound("Position", id)
	}
	if err != nil {
		return Position{}, errors.Wrap(err, "lock position")
	}
	return s.GetPosition(ctx, id)
}

func positionArgs(in PositionInput) []any {
	return []any{
		in.Title, in.DivisionID,
		querier.NullIfEmpty(in.Category), querier.NullIfEmpty(in.Level),
		querier.NullIfEmpty(in.Missions), querier.NullIfEmpty(in.Description),
		querier.NullIfEmpty(in.ClassificationLevel), in.Status,
	}
}

func (s *Store) CreatePosition(ctx context.Context, in PositionInput) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO positions (title, division_id, category, level, missions, description, classification_level, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, positionArgs(in)...).Scan(&id)
	if _, ok := querier.ForeignKeyViolation(err); ok {
		return 0, apperr.NotFound("Division", in.DivisionID)
	}
	if err != nil {
		return 0, errors.Wrap(err, "insert position")
	}
	return id, nil
}

func (s *Store) UpdatePosition(ctx context.Context, id int64, in PositionInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE positions
    SET title = $1, division_id = $2, category = $3, level = $4, missions = $5, description = $6,
        classification_level = $7, status = $8, updated_at = now()
    WHERE id = $9
  `, append(positionArgs(in), id)...)
	if _, ok := querier.ForeignKeyViolation(err); ok {
		return apperr.NotFound("Division", in.DivisionID)
	}
	if err != nil {
		return errors.Wrap(err, "update position")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Position", id)
	}
	return nil
}

func (s *Store) SetPositionStatus(ctx context.Context, id int64, status string) error {
	if _, err := s.DB.Exec(ctx, "UPDATE positions SET status = $2, updated_at = now() WHERE id = $1", id, status); err != nil {
		return errors.Wrap(err, "set position status")
	}
	return nil
}

func (s *Store) DeletePosition(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM positions WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "delete position")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Position", id)
	}
	return nil
}

func (s *Store) GetEmployeeRef(ctx context.Context, id int64) (EmployeeRef, error) {
	var ref EmployeeRef
	err := s.DB.QueryRow(ctx, "SELECT id, first_name, last_name, position_id FROM employees WHERE id = $1", id).
		Scan(&ref.ID, &ref.FirstName, &ref.LastName, &ref.PositionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeRef{}, apperr.NotFound("Employee", id)
	}
	if err != nil {
		return EmployeeRef{}, errors.Wrap(err, "load employee")
	}
	return ref, nil
}

func (s *Store) HolderOf(ctx context.Context, positionID int64) (*EmployeeRef, error) {
	var ref EmployeeRef
	err := s.DB.QueryRow(ctx, "SELECT id, first_name, last_name, position_id FROM employees WHERE position_id = $1", positionID).
		Scan(&ref.ID, &ref.FirstName, &ref.LastName, &ref.PositionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load position holder")
	}
	return &ref, nil
}

func (s *Store) SetEmployeePosition(ctx context.Context, employeeID int64, positionID *int64, jobTitle *string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET position_id = $2, job_title = COALESCE($3, job_title), updated_at = now()
    WHERE id = $1
  `, employeeID, positionID, jobTitle)
	if _, ok := querier.UniqueViolation(err); ok {
		return apperr.Conflict("position already held by another employee")
	}
	if err != nil {
		return errors.Wrap(err, "set employee position")
	}
	return nil
}
