package documents

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
	"personnel/internal/platform/querier"
)

type StoreAPI interface {
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
	Insert(ctx context.Context, doc Document) (Document, error)
	Get(ctx context.Context, id int64) (Document, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]Document, error)
	Delete(ctx context.Context, id int64) error
}

// Blobs is the byte storage behind documents; storage.Disk satisfies it.
type Blobs interface {
	Save(key string, r io.Reader) (int64, error)
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const documentSelect = `
    SELECT id, employee_id, title, type, file_name, content_type, storage_key, size_bytes, uploaded_at
    FROM documents`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	if err := row.Scan(&d.ID, &d.EmployeeID, &d.Title, &d.Type, &d.FileName, &d.ContentType,
		&d.StorageKey, &d.SizeBytes, &d.UploadedAt); err != nil {
		return Document{}, err
	}
	return d, nil
}

func (s *Store) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	var exists bool
	if err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)", employeeID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "check employee")
	}
	return exists, nil
}

func (s *Store) Insert(ctx context.Context, doc Document) (Document, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (employee_id, title, type, file_name, content_type, storage_key, size_bytes)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id, uploaded_at
  `, doc.EmployeeID, doc.Title, doc.Type, doc.FileName, doc.ContentType, doc.StorageKey, doc.SizeBytes).
		Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		if _, ok := querier.ForeignKeyViolation(err); ok && doc.EmployeeID != nil {
			return Document{}, apperr.NotFound("Employee", *doc.EmployeeID)
		}
		return Document{}, errors.Wrap(err, "insert document")
	}
	return doc, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Document, error) {
	d, err := scanDocument(s.DB.QueryRow(ctx, documentSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, apperr.NotFound("Document", id)
		}
		return Document{}, errors.Wrap(err, "load document")
	}
	return d, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID int64) ([]Document, error) {
	rows, err := s.DB.Query(ctx, documentSelect+" WHERE employee_id = $1 ORDER BY uploaded_at DESC, id DESC", employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan document")
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "delete document")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Document", id)
	}
	return nil
}
