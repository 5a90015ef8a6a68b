package reports

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/domain/employee"
)

type fakeSource struct {
	employees map[int64]employee.Employee
	photos    map[int64]employee.Photo
	actions   map[int64][]audit.Action
}

func (f fakeSource) Get(_ context.Context, id int64) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, apperr.NotFound("Employee", id)
	}
	return e, nil
}

func (f fakeSource) List(context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.employees))
	for id := int64(1); id <= int64(len(f.employees)); id++ {
		out = append(out, f.employees[id])
	}
	return out, nil
}

func (f fakeSource) Photo(_ context.Context, id int64) (employee.Photo, error) {
	p, ok := f.photos[id]
	if !ok {
		return employee.Photo{}, apperr.NotFound("Photo", id)
	}
	return p, nil
}

func (f fakeSource) Actions(_ context.Context, id int64) ([]audit.Action, error) {
	return f.actions[id], nil
}

func pngPhoto(t *testing.T) employee.Photo {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return employee.Photo{EmployeeID: 1, Data: buf.Bytes(), ContentType: "image/png"}
}

func newSource(t *testing.T) fakeSource {
	return fakeSource{
		employees: map[int64]employee.Employee{
			1: {ID: 1, Matricule: "M-001", FirstName: "Amina", LastName: "Benali", Email: "a@x.dz", HasPhoto: true},
			2: {ID: 2, Matricule: "M-002", FirstName: "Yacine", LastName: "Haddad", Email: "y@x.dz", HasPhoto: true},
		},
		photos: map[int64]employee.Photo{1: pngPhoto(t)},
		actions: map[int64][]audit.Action{
			1: {{ID: 1, EmployeeID: 1, ActionType: audit.ActionCreation, Actor: "RH", Details: "Création de la fiche employé", CreatedAt: time.Now()}},
		},
	}
}

func TestEmployeeSheet(t *testing.T) {
	svc := NewService(newSource(t))

	var buf bytes.Buffer
	require.NoError(t, svc.EmployeeSheet(context.Background(), 1, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	buf.Reset()
	require.NoError(t, svc.EmployeeSheet(context.Background(), 2, &buf), "missing photo is skipped")

	err := svc.EmployeeSheet(context.Background(), 9, &buf)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestExportEmployees(t *testing.T) {
	svc := NewService(newSource(t))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportEmployees(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Matricule", rows[0][1])
	assert.Equal(t, "M-001", rows[1][1])
	assert.Equal(t, "Haddad", rows[2][2])
}
