package employee

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
)

func (s *Store) SetPhoto(ctx context.Context, id int64, data []byte, contentType string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET profile_photo = $2, photo_type = $3, updated_at = now()
    WHERE id = $1
  `, id, data, contentType)
	if err != nil {
		return errors.Wrap(err, "store photo")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Employee", id)
	}
	return nil
}

// Photo returns an empty Photo when the employee exists without one.
func (s *Store) Photo(ctx context.Context, id int64) (Photo, error) {
	out := Photo{EmployeeID: id}
	var contentType *string
	err := s.DB.QueryRow(ctx, "SELECT profile_photo, photo_type FROM employees WHERE id = $1", id).Scan(&out.Data, &contentType)
	if errors.Is(err, pgx.ErrNoRows) {
		return Photo{}, apperr.NotFound("Employee", id)
	}
	if err != nil {
		return Photo{}, errors.Wrap(err, "load photo")
	}
	if contentType != nil {
		out.ContentType = *contentType
	}
	return out, nil
}
