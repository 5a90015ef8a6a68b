package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/domain/organization"
)

func ptr(v int64) *int64 { return &v }

func TestDeriveAncestry(t *testing.T) {
	store := newFakeStore()
	dirX, unitS, divD := store.tree("Direction Générale", "Service Informatique", "Exploitation et Réseaux")
	dirY, unitT, _ := store.tree("Direction des Grandes Entreprises", "Service du Recouvrement", "Poursuites")
	ctx := context.Background()

	cases := []struct {
		name   string
		target OrgTarget
		want   Ancestry
	}{
		{
			name:   "division wins over unrelated direction",
			target: OrgTarget{DivisionID: ptr(divD.ID), DirectionID: ptr(dirY.ID)},
			want:   Ancestry{DirectionID: ptr(dirX.ID), ServiceUnitID: ptr(unitS.ID), DivisionID: ptr(divD.ID)},
		},
		{
			name:   "division wins over unrelated service unit",
			target: OrgTarget{DivisionID: ptr(divD.ID), ServiceUnitID: ptr(unitT.ID)},
			want:   Ancestry{DirectionID: ptr(dirX.ID), ServiceUnitID: ptr(unitS.ID), DivisionID: ptr(divD.ID)},
		},
		{
			name:   "service unit derives direction and clears division",
			target: OrgTarget{ServiceUnitID: ptr(unitT.ID), DirectionID: ptr(dirX.ID)},
			want:   Ancestry{DirectionID: ptr(dirY.ID), ServiceUnitID: ptr(unitT.ID)},
		},
		{
			name:   "direction only",
			target: OrgTarget{DirectionID: ptr(dirY.ID)},
			want:   Ancestry{DirectionID: ptr(dirY.ID)},
		},
		{
			name:   "non positive ids are unset",
			target: OrgTarget{DivisionID: ptr(0), ServiceUnitID: ptr(-4), DirectionID: ptr(dirX.ID)},
			want:   Ancestry{DirectionID: ptr(dirX.ID)},
		},
		{
			name:   "nothing clears every link",
			target: OrgTarget{},
			want:   Ancestry{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DeriveAncestry(ctx, store, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeriveAncestryMissingNode(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	for _, target := range []OrgTarget{
		{DivisionID: ptr(404)},
		{ServiceUnitID: ptr(404)},
		{DirectionID: ptr(404)},
	} {
		_, err := DeriveAncestry(ctx, store, target)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	}
}

func TestDeriveAncestryDivisionWithoutParent(t *testing.T) {
	store := newFakeStore()
	orphan := organization.Division{ID: 50, Details: organization.Details{Name: "Orpheline"}}
	store.divisions[orphan.ID] = orphan

	got, err := DeriveAncestry(context.Background(), store, OrgTarget{DivisionID: ptr(orphan.ID)})
	require.NoError(t, err)
	assert.Equal(t, Ancestry{DivisionID: ptr(orphan.ID)}, got)
}

func TestApplyOrganizationLinksOverwrites(t *testing.T) {
	store := newFakeStore()
	dirX, unitS, divD := store.tree("DG", "SRH", "Paie")
	emp := Employee{Ancestry: Ancestry{DirectionID: ptr(99), ServiceUnitID: ptr(98), DivisionID: ptr(97)}}

	require.NoError(t, ApplyOrganizationLinks(context.Background(), store, OrgTarget{DivisionID: ptr(divD.ID)}, &emp))
	assert.Equal(t, dirX.ID, *emp.DirectionID)
	assert.Equal(t, unitS.ID, *emp.ServiceUnitID)
	assert.Equal(t, divD.ID, *emp.DivisionID)

	require.NoError(t, ApplyOrganizationLinks(context.Background(), store, OrgTarget{}, &emp))
	assert.Equal(t, Ancestry{}, emp.Ancestry)
}

func TestCheckActorAuthorized(t *testing.T) {
	for _, actor := range []string{"ADMIN", "admin", "RH", "rh"} {
		assert.NoError(t, CheckActorAuthorized(actor), actor)
	}
	for _, actor := range []string{"", "MANAGER", "EMPLOYEE", "rh "} {
		err := CheckActorAuthorized(actor)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized, actor)
		assert.Equal(t, MsgUnauthorized, err.Error())
	}
}

func createEmployee(t *testing.T, svc *Service, in Input) Employee {
	t.Helper()
	emp, err := svc.Create(context.Background(), in, "RH")
	require.NoError(t, err)
	return emp
}

func baseInput(email, matricule string) Input {
	return Input{FirstName: "Hery", LastName: "Rakoto", Email: email, Gender: "M", Age: 30, Matricule: matricule}
}

func TestAssignToDivisionScenario(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	dirX, unitS, divD := store.tree("Direction Générale", "Service des Ressources Humaines", "Recrutement")
	emp := createEmployee(t, svc, baseInput("e@dgi.mg", "EMP-0001"))
	require.Nil(t, emp.DivisionID)

	got, err := svc.AssignToDivision(context.Background(), emp.ID, divD.ID, "RH")
	require.NoError(t, err)

	assert.Equal(t, divD.ID, *got.DivisionID)
	assert.Equal(t, unitS.ID, *got.ServiceUnitID)
	assert.Equal(t, dirX.ID, *got.DirectionID)

	entries := store.actionsOf(emp.ID, audit.ActionDivisionChange)
	require.Len(t, entries, 1)
	assert.Equal(t, "Changement de division vers : Recrutement", entries[0].Details)
	assert.Equal(t, "RH", entries[0].Actor)
}

func TestAssignToDivisionRejectsActor(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	_, _, divD := store.tree("DG", "SRH", "Paie")
	emp := createEmployee(t, svc, baseInput("e@dgi.mg", ""))

	for _, actor := range []string{"", "MANAGER"} {
		_, err := svc.AssignToDivision(context.Background(), emp.ID, divD.ID, actor)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	}
	stored, _ := store.Get(context.Background(), emp.ID)
	assert.Nil(t, stored.DivisionID)
	assert.Empty(t, store.actionsOf(emp.ID, audit.ActionDivisionChange))
}

func TestAssignToDivisionNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	_, _, divD := store.tree("DG", "SRH", "Paie")
	emp := createEmployee(t, svc, baseInput("e@dgi.mg", ""))

	_, err := svc.AssignToDivision(context.Background(), 404, divD.ID, "ADMIN")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.AssignToDivision(context.Background(), emp.ID, 404, "ADMIN")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAssignToDivisionRollsBackWhenAuditFails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	_, _, divD := store.tree("DG", "SRH", "Paie")
	emp := createEmployee(t, svc, baseInput("e@dgi.mg", ""))

	store.failAudit = true
	_, err := svc.AssignToDivision(context.Background(), emp.ID, divD.ID, "ADMIN")
	require.Error(t, err)

	stored, _ := store.Get(context.Background(), emp.ID)
	assert.Nil(t, stored.DivisionID, "division link must not survive a failed audit write")
}

func TestRemoveFromDivision(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	dirX, unitS, divD := store.tree("DG", "SRH", "Paie")
	_, _, other := store.tree("DGE", "SR", "Comptabilité")
	in := baseInput("e@dgi.mg", "")
	in.Target = OrgTarget{DivisionID: ptr(divD.ID)}
	emp := createEmployee(t, svc, in)
	ctx := context.Background()

	t.Run("wrong division is not found and leaves the record unchanged", func(t *testing.T) {
		before, _ := store.Get(ctx, emp.ID)
		err := svc.RemoveFromDivision(ctx, other.ID, emp.ID, "RH")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		after, _ := store.Get(ctx, emp.ID)
		assert.Equal(t, before, after)
	})

	t.Run("clears only the division", func(t *testing.T) {
		require.NoError(t, svc.RemoveFromDivision(ctx, divD.ID, emp.ID, "RH"))
		after, _ := store.Get(ctx, emp.ID)
		assert.Nil(t, after.DivisionID)
		assert.Equal(t, unitS.ID, *after.ServiceUnitID)
		assert.Equal(t, dirX.ID, *after.DirectionID)
		assert.Len(t, store.actionsOf(emp.ID, audit.ActionDivisionRemoval), 1)
	})

	t.Run("not a member anymore", func(t *testing.T) {
		assert.ErrorIs(t, svc.RemoveFromDivision(ctx, divD.ID, emp.ID, "RH"), apperr.ErrNotFound)
	})
}
