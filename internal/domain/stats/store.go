package stats

import (
	"context"

	"github.com/go-faster/errors"

	"personnel/internal/platform/querier"
)

type StoreAPI interface {
	CountEmployees(ctx context.Context) (int64, error)
	AverageAge(ctx context.Context) (*float64, error)
	CountDivisions(ctx context.Context) (int64, error)
	EmployeesPerDivision(ctx context.Context) ([]DivisionCount, error)
	CreatedPerMonth(ctx context.Context) ([]MonthRow, error)
	GenderCounts(ctx context.Context) ([]GenderRow, error)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CountEmployees(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count employees")
	}
	return n, nil
}

func (s *Store) AverageAge(ctx context.Context) (*float64, error) {
	var avg *float64
	if err := s.DB.QueryRow(ctx, "SELECT AVG(age)::float8 FROM employees").Scan(&avg); err != nil {
		return nil, errors.Wrap(err, "average age")
	}
	return avg, nil
}

func (s *Store) CountDivisions(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM divisions").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count divisions")
	}
	return n, nil
}

func (s *Store) EmployeesPerDivision(ctx context.Context) ([]DivisionCount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name, COUNT(e.id)
    FROM divisions d
    LEFT JOIN employees e ON e.division_id = d.id
    GROUP BY d.id, d.name
    ORDER BY d.id
  `)
	if err != nil {
		return nil, errors.Wrap(err, "employees per division")
	}
	defer rows.Close()

	out := make([]DivisionCount, 0)
	for rows.Next() {
		var c DivisionCount
		if err := rows.Scan(&c.DivisionID, &c.Name, &c.Count); err != nil {
			return nil, errors.Wrap(err, "scan division count")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreatedPerMonth(ctx context.Context) ([]MonthRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int, COUNT(1)
    FROM employees
    WHERE created_at IS NOT NULL
    GROUP BY 1, 2
    ORDER BY 1, 2
  `)
	if err != nil {
		return nil, errors.Wrap(err, "created per month")
	}
	defer rows.Close()

	out := make([]MonthRow, 0)
	for rows.Next() {
		var r MonthRow
		if err := rows.Scan(&r.Year, &r.Month, &r.Count); err != nil {
			return nil, errors.Wrap(err, "scan month row")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GenderCounts(ctx context.Context) ([]GenderRow, error) {
	rows, err := s.DB.Query(ctx, "SELECT COALESCE(gender, ''), COUNT(1) FROM employees GROUP BY 1")
	if err != nil {
		return nil, errors.Wrap(err, "gender counts")
	}
	defer rows.Close()

	out := make([]GenderRow, 0)
	for rows.Next() {
		var r GenderRow
		if err := rows.Scan(&r.Gender, &r.Count); err != nil {
			return nil, errors.Wrap(err, "scan gender row")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
