package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/domain/organization"
	cryptoutil "personnel/internal/platform/crypto"
	"personnel/internal/platform/querier"
)

type Store struct {
	DB     querier.Querier
	Crypto *cryptoutil.Service
	org    *organization.Store
	audit  *audit.Store
}

func NewStore(db querier.Querier, crypto *cryptoutil.Service) *Store {
	return &Store{
		DB:     db,
		Crypto: crypto,
		org:    organization.NewStore(db),
		audit:  audit.NewStore(db),
	}
}

func (s *Store) InTx(ctx context.Context, fn func(tx StoreAPI) error) error {
	beginner, ok := s.DB.(querier.TxBeginner)
	if !ok {
		return errors.New("employee store: querier cannot begin transactions")
	}
	tx, err := beginner.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(NewStore(tx, s.Crypto)); err != nil {
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

func (s *Store) ListActions(ctx context.Context, employeeID int64) ([]audit.Action, error) {
	return s.audit.ListByEmployee(ctx, employeeID)
}

const employeeSelect = `SELECT e.id, COALESCE(e.matricule, ''), e.first_name, e.last_name, e.email, e.gender, e.age,
       e.date_of_birth, e.ssn, e.ssn_enc,
       COALESCE(e.street, ''), COALESCE(e.zip_code, ''), COALESCE(e.city, ''), COALESCE(e.country, ''),
       COALESCE(e.mobile_phone, ''), COALESCE(e.home_phone, ''), COALESCE(e.emergency_contact, ''),
       COALESCE(e.job_title, ''), e.hire_date, e.public_service_entry_date, e.current_post_entry_date,
       COALESCE(e.previous_position, ''), COALESCE(e.administrative_status, ''), COALESCE(e.status_category, ''),
       COALESCE(e.highest_diploma, ''), COALESCE(e.current_administrative_position, ''),
       e.direction_id, COALESCE(dir.name, ''), e.service_unit_id, COALESCE(su.name, ''),
       e.division_id, COALESCE(dv.name, ''),
       e.job_template_id, COALESCE(jt.title, ''), e.position_id, COALESCE(p.title, ''),
       e.profile_photo IS NOT NULL, e.created_at, e.updated_at
FROM employees e
LEFT JOIN directions dir ON dir.id = e.direction_id
LEFT JOIN service_units su ON su.id = e.service_unit_id
LEFT JOIN divisions dv ON dv.id = e.division_id
LEFT JOIN job_templates jt ON jt.id = e.job_template_id
LEFT JOIN positions p ON p.id = e.position_id`

func (s *Store) scan(row pgx.Row) (Employee, error) {
	var (
		e        Employee
		ssnPlain *string
		ssnEnc   []byte
	)
	err := row.Scan(
		&e.ID, &e.Matricule, &e.FirstName, &e.LastName, &e.Email, &e.Gender, &e.Age,
		&e.DateOfBirth, &ssnPlain, &ssnEnc,
		&e.Street, &e.ZipCode, &e.City, &e.Country,
		&e.MobilePhone, &e.HomePhone, &e.EmergencyContact,
		&e.JobTitle, &e.HireDate, &e.PublicServiceEntryDate, &e.CurrentPostEntryDate,
		&e.PreviousPosition, &e.AdministrativeStatus, &e.StatusCategory,
		&e.HighestDiploma, &e.CurrentAdministrativePosition,
		&e.DirectionID, &e.DirectionName, &e.ServiceUnitID, &e.ServiceUnitName,
		&e.DivisionID, &e.DivisionName,
		&e.JobTemplateID, &e.JobTemplateTitle, &e.PositionID, &e.PositionTitle,
		&e.HasPhoto, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return Employee{}, err
	}
	ssn, err := s.Crypto.Join(ssnPlain, ssnEnc)
	if err != nil {
		return Employee{}, errors.Wrapf(err, "decrypt ssn of employee %d", e.ID)
	}
	e.SSN = ssn
	return e, nil
}

func (s *Store) collect(rows pgx.Rows) ([]Employee, error) {
	defer rows.Close()
	out := make([]Employee, 0)
	for rows.Next() {
		e, err := s.scan(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan employee")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, employeeSelect+" ORDER BY e.id")
	if err != nil {
		return nil, errors.Wrap(err, "list employees")
	}
	return s.collect(rows)
}

func (s *Store) ListByDivision(ctx context.Context, divisionID int64) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, employeeSelect+" WHERE e.division_id = $1 ORDER BY e.last_name, e.first_name, e.id", divisionID)
	if err != nil {
		return nil, errors.Wrap(err, "list division employees")
	}
	return s.collect(rows)
}

func (s *Store) Search(ctx context.Context, q Query) (Page, error) {
	where, args := searchFilter(q)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees e"+where, args...).Scan(&total); err != nil {
		return Page{}, errors.Wrap(err, "count employees")
	}

	order := "e.id"
	if column, ok := sortColumns[q.SortField]; ok {
		order = column
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}
	query := fmt.Sprintf("%s%s ORDER BY %s %s NULLS LAST, e.id LIMIT $%d OFFSET $%d",
		employeeSelect, where, order, direction, len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return Page{}, errors.Wrap(err, "search employees")
	}
	items, err := s.collect(rows)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total}, nil
}

func searchFilter(q Query) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if term := strings.TrimSpace(q.Search); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(lower(e.first_name) LIKE $%d OR lower(e.last_name) LIKE $%d OR lower(COALESCE(e.matricule, '')) LIKE $%d)", n, n, n))
	}
	if q.DivisionID > 0 {
		args = append(args, q.DivisionID)
		clauses = append(clauses, fmt.Sprintf("e.division_id = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) Get(ctx context.Context, id int64) (Employee, error) {
	e, err := s.scan(s.DB.QueryRow(ctx, employeeSelect+" WHERE e.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, apperr.NotFound("Employee", id)
	}
	if err != nil {
		return Employee{}, errors.Wrap(err, "load employee")
	}
	return e, nil
}

// EmailTaken compares emails exactly.
func (s *Store) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var n int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE email = $1 AND id <> $2", email, excludeID).Scan(&n); err != nil {
		return false, errors.Wrap(err, "check email")
	}
	return n > 0, nil
}

// MatriculeTaken compares matricules case-insensitively.
func (s *Store) MatriculeTaken(ctx context.Context, matricule string, excludeID int64) (bool, error) {
	var n int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE lower(matricule) = lower($1) AND id <> $2", matricule, excludeID).Scan(&n); err != nil {
		return false, errors.Wrap(err, "check matricule")
	}
	return n > 0, nil
}

func (s *Store) JobTemplateExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM job_templates WHERE id = $1", id).Scan(&n); err != nil {
		return false, errors.Wrap(err, "check job template")
	}
	return n > 0, nil
}

func (s *Store) writeArgs(e Employee) ([]any, error) {
	ssnPlain, ssnEnc, err := s.Crypto.SplitForStorage(e.SSN)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt ssn")
	}
	return []any{
		querier.NullIfEmpty(e.Matricule), e.FirstName, e.LastName, e.Email, e.Gender, e.Age,
		e.DateOfBirth, ssnPlain, ssnEnc,
		querier.NullIfEmpty(e.Street), querier.NullIfEmpty(e.ZipCode), querier.NullIfEmpty(e.City), querier.NullIfEmpty(e.Country),
		querier.NullIfEmpty(e.MobilePhone), querier.NullIfEmpty(e.HomePhone), querier.NullIfEmpty(e.EmergencyContact),
		querier.NullIfEmpty(e.JobTitle), e.HireDate, e.PublicServiceEntryDate, e.CurrentPostEntryDate,
		querier.NullIfEmpty(e.PreviousPosition), querier.NullIfEmpty(e.AdministrativeStatus), querier.NullIfEmpty(e.StatusCategory),
		querier.NullIfEmpty(e.HighestDiploma), querier.NullIfEmpty(e.CurrentAdministrativePosition),
		e.DirectionID, e.ServiceUnitID, e.DivisionID, e.JobTemplateID, e.PositionID,
	}, nil
}

func (s *Store) Insert(ctx context.Context, e Employee) (int64, error) {
	args, err := s.writeArgs(e)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      matricule, first_name, last_name, email, gender, age,
      date_of_birth, ssn, ssn_enc,
      street, zip_code, city, country,
      mobile_phone, home_phone, emergency_contact,
      job_title, hire_date, public_service_entry_date, current_post_entry_date,
      previous_position, administrative_status, status_category,
      highest_diploma, current_administrative_position,
      direction_id, service_unit_id, division_id, job_template_id, position_id,
      created_at, updated_at
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,now(),now())
    RETURNING id
  `, args...).Scan(&id)
	if err != nil {
		return 0, writeError(err, "insert employee")
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, e Employee) error {
	args, err := s.writeArgs(e)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET
      matricule = $1, first_name = $2, last_name = $3, email = $4, gender = $5, age = $6,
      date_of_birth = $7, ssn = $8, ssn_enc = $9,
      street = $10, zip_code = $11, city = $12, country = $13,
      mobile_phone = $14, home_phone = $15, emergency_contact = $16,
      job_title = $17, hire_date = $18, public_service_entry_date = $19, current_post_entry_date = $20,
      previous_position = $21, administrative_status = $22, status_category = $23,
      highest_diploma = $24, current_administrative_position = $25,
      direction_id = $26, service_unit_id = $27, division_id = $28, job_template_id = $29, position_id = $30,
      updated_at = now()
    WHERE id = $31
  `, append(args, e.ID)...)
	if err != nil {
		return writeError(err, "update employee")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Employee", e.ID)
	}
	return nil
}

func writeError(err error, op string) error {
	if constraint, ok := querier.UniqueViolation(err); ok {
		switch constraint {
		case "employees_email_key":
			return ErrEmailTaken
		case "employees_position_key":
			return apperr.Conflict("position already held by another employee")
		}
		return apperr.Conflict("employee already exists")
	}
	if _, ok := querier.ForeignKeyViolation(err); ok {
		return apperr.NotFoundf("%s: referenced record not found", op)
	}
	return errors.Wrap(err, op)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "delete employee")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Employee", id)
	}
	return nil
}

func (s *Store) VacatePosition(ctx context.Context, positionID int64) error {
	if _, err := s.DB.Exec(ctx, "UPDATE positions SET status = 'VACANT', updated_at = now() WHERE id = $1", positionID); err != nil {
		return errors.Wrap(err, "vacate position")
	}
	return nil
}

func (s *Store) LastUpdatedAt(ctx context.Context) (*time.Time, error) {
	var ts *time.Time
	if err := s.DB.QueryRow(ctx, "SELECT MAX(updated_at) FROM employees").Scan(&ts); err != nil {
		return nil, errors.Wrap(err, "last updated")
	}
	return ts, nil
}
