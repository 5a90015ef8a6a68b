package employee

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
)

func TestCreateWritesAuditAndLinks(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	dirX, unitS, divD := store.tree("DG", "SRH", "Formation")
	_, _, _ = store.tree("DGE", "SA", "Gestion des Dossiers")
	store.templates[7] = true

	in := baseInput("hery@dgi.mg", "EMP-0001")
	in.Target = OrgTarget{DivisionID: ptr(divD.ID), DirectionID: ptr(999)}
	in.JobTemplateID = ptr(7)

	emp, err := svc.Create(context.Background(), in, "")
	require.NoError(t, err)
	assert.Equal(t, dirX.ID, *emp.DirectionID)
	assert.Equal(t, unitS.ID, *emp.ServiceUnitID)
	assert.Equal(t, divD.ID, *emp.DivisionID)
	assert.Equal(t, "Formation", emp.DivisionName)
	assert.Equal(t, int64(7), *emp.JobTemplateID)

	entries := store.actionsOf(emp.ID, audit.ActionCreation)
	require.Len(t, entries, 1)
	assert.Equal(t, DetailCreation, entries[0].Details)
	assert.Equal(t, audit.DefaultActor, entries[0].Actor)
}

func TestCreateGuards(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	createEmployee(t, svc, baseInput("hery@dgi.mg", "EMP-0001"))
	ctx := context.Background()

	cases := []struct {
		name    string
		in      Input
		wantErr error
		message string
	}{
		{name: "same email", in: baseInput("hery@dgi.mg", "EMP-0002"), wantErr: apperr.ErrConflict, message: MsgEmailTaken},
		{name: "matricule differs only by case", in: baseInput("other@dgi.mg", "emp-0001"), wantErr: apperr.ErrConflict, message: MsgMatriculeTaken},
		{name: "missing names", in: Input{Email: "x@dgi.mg", Gender: "F"}, wantErr: apperr.ErrValidation},
		{name: "unknown division", in: func() Input {
			in := baseInput("new@dgi.mg", "")
			in.Target.DivisionID = ptr(404)
			return in
		}(), wantErr: apperr.ErrNotFound},
		{name: "unknown job template", in: func() Input {
			in := baseInput("new@dgi.mg", "")
			in.JobTemplateID = ptr(404)
			return in
		}(), wantErr: apperr.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in, "RH")
			require.ErrorIs(t, err, tc.wantErr)
			if tc.message != "" {
				assert.Equal(t, tc.message, err.Error())
			}
		})
	}

	all, _ := svc.List(ctx)
	assert.Len(t, all, 1)
}

func TestCreateEmailIsCaseSensitive(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	createEmployee(t, svc, baseInput("hery@dgi.mg", ""))

	_, err := svc.Create(context.Background(), baseInput("HERY@dgi.mg", ""), "RH")
	assert.NoError(t, err)
}

func TestUpdateExcludesItselfFromGuards(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	emp := createEmployee(t, svc, baseInput("hery@dgi.mg", "EMP-0001"))
	other := createEmployee(t, svc, baseInput("soa@dgi.mg", "EMP-0002"))
	ctx := context.Background()

	in := baseInput("hery@dgi.mg", "emp-0001")
	in.City = "Antananarivo"
	updated, err := svc.Update(ctx, emp.ID, in, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "Antananarivo", updated.City)

	_, err = svc.Update(ctx, other.ID, baseInput("hery@dgi.mg", "EMP-0002"), "ADMIN")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Update(ctx, 404, in, "ADMIN")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	entries := store.actionsOf(emp.ID, audit.ActionUpdate)
	require.Len(t, entries, 1)
	assert.Equal(t, DetailUpdate, entries[0].Details)
	assert.Equal(t, "ADMIN", entries[0].Actor)
}

func TestUpdateClearsJobTemplateAndKeepsPosition(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	store.templates[3] = true
	in := baseInput("hery@dgi.mg", "")
	in.JobTemplateID = ptr(3)
	emp := createEmployee(t, svc, in)

	held := store.employees[emp.ID]
	held.PositionID = ptr(12)
	store.employees[emp.ID] = held

	updated, err := svc.Update(context.Background(), emp.ID, baseInput("hery@dgi.mg", ""), "RH")
	require.NoError(t, err)
	assert.Nil(t, updated.JobTemplateID)
	assert.Equal(t, int64(12), *updated.PositionID)
}

func TestDeleteRecordsAuditAndVacatesPosition(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	emp := createEmployee(t, svc, baseInput("hery@dgi.mg", ""))
	held := store.employees[emp.ID]
	held.PositionID = ptr(21)
	store.employees[emp.ID] = held
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, emp.ID, "RH"))
	_, err := svc.Get(ctx, emp.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, []int64{21}, store.vacated)

	entries := store.actionsOf(emp.ID, audit.ActionDeletion)
	require.Len(t, entries, 1)
	assert.Equal(t, DetailDeletion, entries[0].Details)

	assert.ErrorIs(t, svc.Delete(ctx, emp.ID, "RH"), apperr.ErrNotFound)
}

func TestActionsNewestFirst(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	emp := createEmployee(t, svc, baseInput("hery@dgi.mg", ""))
	_, err := svc.Update(context.Background(), emp.ID, baseInput("hery@dgi.mg", ""), "RH")
	require.NoError(t, err)

	actions, err := svc.Actions(context.Background(), emp.ID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, audit.ActionUpdate, actions[0].ActionType)
	assert.Equal(t, audit.ActionCreation, actions[1].ActionType)

	_, err = svc.Actions(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadPhoto(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	emp := createEmployee(t, svc, baseInput("hery@dgi.mg", ""))
	ctx := context.Background()

	_, err := svc.Photo(ctx, emp.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UploadPhoto(ctx, emp.ID, []byte("%PDF-1.4 not an image"), "RH")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.UploadPhoto(ctx, emp.ID, make([]byte, MaxPhotoBytes+1), "RH")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	data := pngBytes(t)
	photo, err := svc.UploadPhoto(ctx, emp.ID, data, "RH")
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.ContentType)

	stored, err := svc.Photo(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, data, stored.Data)

	_, err = svc.UploadPhoto(ctx, 404, data, "RH")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSearchPaginates(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	for _, email := range []string{"a@dgi.mg", "b@dgi.mg", "c@dgi.mg"} {
		createEmployee(t, svc, baseInput(email, ""))
	}

	page, err := svc.Search(context.Background(), Query{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 1)
}
