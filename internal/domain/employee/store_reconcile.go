package employee

import (
	"context"

	"github.com/go-faster/errors"
)

// DuplicateMatricules lists lower-cased matricules held by more than one employee.
func (s *Store) DuplicateMatricules(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lower(matricule)
    FROM employees
    WHERE matricule IS NOT NULL AND matricule <> ''
    GROUP BY lower(matricule)
    HAVING COUNT(1) > 1
    ORDER BY 1
  `)
	if err != nil {
		return nil, errors.Wrap(err, "find duplicate matricules")
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, errors.Wrap(err, "scan matricule")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ListByMatricule(ctx context.Context, matricule string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, employeeSelect+" WHERE lower(e.matricule) = lower($1) ORDER BY e.id", matricule)
	if err != nil {
		return nil, errors.Wrap(err, "list employees by matricule")
	}
	return s.collect(rows)
}
