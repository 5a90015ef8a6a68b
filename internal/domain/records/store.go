package records

import (
	"context"
	"fmt"

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

func (s *Store) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var exists bool
	if err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)", employeeID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "check employee")
	}
	return exists, nil
}

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return errors.Wrapf(err, "load %s", entity)
}

func writeError(err error, action string, employeeID int64) error {
	if _, ok := querier.ForeignKeyViolation(err); ok {
		return apperr.NotFound("Employee", employeeID)
	}
	return errors.Wrap(err, action)
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

// deleteRow removes one row; table is always a package constant.
func (s *Store) deleteRow(ctx context.Context, table, entity string, id int64) error {
	tag, err := s.DB.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return errors.Wrapf(err, "delete %s", entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}

const contractSelect = `
    SELECT id, employee_id, contract_type, start_date, end_date, probation_end_date, status,
           COALESCE(grade, ''), COALESCE(salary_level, ''), created_at, updated_at
    FROM contracts`

func scanContract(row pgx.Row) (Contract, error) {
	var c Contract
	if err := row.Scan(&c.ID, &c.EmployeeID, &c.Type, &c.StartDate, &c.EndDate, &c.ProbationEndDate, &c.Status,
		&c.Grade, &c.SalaryLevel, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Contract{}, err
	}
	return c, nil
}

func (s *Store) ListContracts(ctx context.Context, employeeID int64) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, contractSelect+" WHERE employee_id = $1 ORDER BY start_date DESC, id DESC", employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "list contracts")
	}
	return collect(rows, scanContract)
}

func (s *Store) GetContract(ctx context.Context, id int64) (Contract, error) {
	c, err := scanContract(s.DB.QueryRow(ctx, contractSelect+" WHERE id = $1", id))
	if err != nil {
		return Contract{}, notFound(err, "Contract", id)
	}
	return c, nil
}

func (s *Store) CreateContract(ctx context.Context, c Contract) (Contract, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contracts (employee_id, contract_type, start_date, end_date, probation_end_date, status, grade, salary_level)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, c.EmployeeID, c.Type, c.StartDate, c.EndDate, c.ProbationEndDate, c.Status,
		querier.NullIfEmpty(c.Grade), querier.NullIfEmpty(c.SalaryLevel)).Scan(&id)
	if err != nil {
		return Contract{}, writeError(err, "insert contract", c.EmployeeID)
	}
	return s.GetContract(ctx, id)
}

func (s *Store) UpdateContract(ctx context.Context, c Contract) (Contract, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE contracts
    SET contract_type = $1, start_date = $2, end_date = $3, probation_end_date = $4, status = $5,
        grade = $6, salary_level = $7, updated_at = now()
    WHERE id = $8
  `, c.Type, c.StartDate, c.EndDate, c.ProbationEndDate, c.Status,
		querier.NullIfEmpty(c.Grade), querier.NullIfEmpty(c.SalaryLevel), c.ID)
	if err != nil {
		return Contract{}, errors.Wrap(err, "update contract")
	}
	if tag.RowsAffected() == 0 {
		return Contract{}, apperr.NotFound("Contract", c.ID)
	}
	return s.GetContract(ctx, c.ID)
}

func (s *Store) DeleteContract(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "contracts", "Contract", id)
}
