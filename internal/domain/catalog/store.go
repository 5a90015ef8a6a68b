package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/domain/organization"
	"personnel/internal/platform/querier"
)

type Store struct {
	DB    querier.Querier
	org   *organization.Store
	audit *audit.Store
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db, org: organization.NewStore(db), audit: audit.NewStore(db)}
}

func (s *Store) InTx(ctx context.Context, fn func(tx StoreAPI) error) error {
	beginner, ok := s.DB.(querier.TxBeginner)
	if !ok {
		return errors.New("catalog store: querier cannot begin transactions")
	}
	tx, err := beginner.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func (s *Store) GetDirection(ctx context.Context, id int64) (organization.Direction, error) {
	return s.org.GetDirection(ctx, id)
}

func (s *Store) GetServiceUnit(ctx context.Context, id int64) (organization.ServiceUnit, error) {
	return s.org.GetServiceUnit(ctx, id)
}

func (s *Store) GetDivision(ctx context.Context, id int64) (organization.Division, error) {
	return s.org.GetDivision(ctx, id)
}

func (s *Store) AppendAction(ctx context.Context, action audit.Action) (audit.Action, error) {
	return s.audit.Append(ctx, action)
}

const templateSelect = `SELECT t.id, t.title, COALESCE(t.description, ''),
       t.direction_id, COALESCE(dir.name, ''), t.service_unit_id, COALESCE(su.name, ''),
       t.division_id, COALESCE(dv.name, ''), t.created_at, t.updated_at
FROM job_templates t
LEFT JOIN directions dir ON dir.id = t.direction_id
LEFT JOIN service_units su ON su.id = t.service_unit_id
LEFT JOIN divisions dv ON dv.id = t.division_id`

func scanTemplate(row pgx.Row) (JobTemplate, error) {
	var t JobTemplate
	err := row.Scan(&t.ID, &t.Title, &t.Description,
		&t.DirectionID, &t.DirectionName, &t.ServiceUnitID, &t.ServiceUnitName,
		&t.DivisionID, &t.DivisionName, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) ListTemplates(ctx context.Context, filter TemplateFilter) ([]JobTemplate, error) {
	var (
		clauses []string
		args    []any
	)
	for _, f := range []struct {
		column string
		id     int64
	}{
		{"t.direction_id", filter.DirectionID},
		{"t.service_unit_id", filter.ServiceUnitID},
		{"t.division_id", filter.DivisionID},
	} {
		if f.id > 0 {
			args = append(args, f.id)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", f.column, len(args)))
		}
	}
	query := templateSelect
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	rows, err := s.DB.Query(ctx, query+" ORDER BY t.title, t.id", args...)
	if err != nil {
		return nil, errors.Wrap(err, "list job templates")
	}
	defer rows.Close()

	out := make([]JobTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan job template")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (JobTemplate, error) {
	t, err := scanTemplate(s.DB.QueryRow(ctx, templateSelect+" WHERE t.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return JobTemplate{}, apperr.NotFound("JobTemplate", id)
	}
	if err != nil {
		return JobTemplate{}, errors.Wrap(err, "load job template")
	}
	return t, nil
}

func (s *Store) CreateTemplate(ctx context.Context, in TemplateInput) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_templates (title, description, direction_id, service_unit_id, division_id)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, in.Title, querier.NullIfEmpty(in.Description), in.DirectionID, in.ServiceUnitID, in.DivisionID).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert job template")
	}
	return id, nil
}

func (s *Store) UpdateTemplate(ctx context.Context, id int64, in TemplateInput) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE job_templates
    SET title = $2, description = $3, direction_id = $4, service_unit_id = $5, division_id = $6, updated_at = now()
    WHERE id = $1
  `, id, in.Title, querier.NullIfEmpty(in.Description), in.DirectionID, in.ServiceUnitID, in.DivisionID)
	if err != nil {
		return errors.Wrap(err, "update job template")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("JobTemplate", id)
	}
	return nil
}

func (s *Store) DeleteTemplate(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM job_templates WHERE id = $1", id)
	if _, ok := querier.ForeignKeyViolation(err); ok {
		return apperr.Conflict("Cannot delete job template: it is still assigned to employees")
	}
	if err != nil {
		return errors.Wrap(err, "delete job template")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("JobTemplate", id)
	}
	return nil
}

func (s *Store) CountTemplateHolders(ctx context.Context, id int64) (int, error) {
	var n int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE job_template_id = $1", id).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count template holders")
	}
	return n, nil
}
