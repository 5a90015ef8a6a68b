package employee

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/domain/organization"
)

type fakeStore struct {
	nextID     int64
	clock      time.Time
	directions map[int64]organization.Direction
	units      map[int64]organization.ServiceUnit
	divisions  map[int64]organization.Division
	employees  map[int64]Employee
	photos     map[int64]Photo
	templates  map[int64]bool
	vacated    []int64
	actions    []audit.Action
	failAudit  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:      time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		directions: map[int64]organization.Direction{},
		units:      map[int64]organization.ServiceUnit{},
		divisions:  map[int64]organization.Division{},
		employees:  map[int64]Employee{},
		photos:     map[int64]Photo{},
		templates:  map[int64]bool{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) tick() *time.Time {
	f.clock = f.clock.Add(time.Minute)
	t := f.clock
	return &t
}

// tree adds a direction, a service unit under it and a division under that.
func (f *fakeStore) tree(direction, unit, division string) (organization.Direction, organization.ServiceUnit, organization.Division) {
	dir := organization.Direction{ID: f.id(), Details: organization.Details{Name: direction}}
	f.directions[dir.ID] = dir
	su := organization.ServiceUnit{ID: f.id(), DirectionID: dir.ID, Details: organization.Details{Name: unit}}
	f.units[su.ID] = su
	div := organization.Division{ID: f.id(), ServiceUnitID: su.ID, DirectionID: dir.ID, Details: organization.Details{Name: division}}
	f.divisions[div.ID] = div
	return dir, su, div
}

func (f *fakeStore) InTx(_ context.Context, fn func(tx StoreAPI) error) error {
	snapshot := *f
	snapshot.employees = maps.Clone(f.employees)
	snapshot.photos = maps.Clone(f.photos)
	snapshot.actions = slices.Clone(f.actions)
	snapshot.vacated = slices.Clone(f.vacated)
	if err := fn(f); err != nil {
		*f = snapshot
		return err
	}
	return nil
}

func (f *fakeStore) GetDirection(_ context.Context, id int64) (organization.Direction, error) {
	d, ok := f.directions[id]
	if !ok {
		return d, apperr.NotFound("Direction", id)
	}
	return d, nil
}

func (f *fakeStore) GetServiceUnit(_ context.Context, id int64) (organization.ServiceUnit, error) {
	u, ok := f.units[id]
	if !ok {
		return u, apperr.NotFound("ServiceUnit", id)
	}
	return u, nil
}

func (f *fakeStore) GetDivision(_ context.Context, id int64) (organization.Division, error) {
	d, ok := f.divisions[id]
	if !ok {
		return d, apperr.NotFound("Division", id)
	}
	return d, nil
}

func (f *fakeStore) hydrate(e Employee) Employee {
	e.DirectionName, e.ServiceUnitName, e.DivisionName = "", "", ""
	if e.DirectionID != nil {
		e.DirectionName = f.directions[*e.DirectionID].Name
	}
	if e.ServiceUnitID != nil {
		e.ServiceUnitName = f.units[*e.ServiceUnitID].Name
	}
	if e.DivisionID != nil {
		e.DivisionName = f.divisions[*e.DivisionID].Name
	}
	_, e.HasPhoto = f.photos[e.ID]
	return e
}

func (f *fakeStore) sorted(keep func(Employee) bool) []Employee {
	out := []Employee{}
	for _, e := range f.employees {
		if keep(e) {
			out = append(out, f.hydrate(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) List(context.Context) ([]Employee, error) {
	return f.sorted(func(Employee) bool { return true }), nil
}

func (f *fakeStore) Search(_ context.Context, q Query) (Page, error) {
	term := strings.ToLower(q.Search)
	all := f.sorted(func(e Employee) bool {
		if q.DivisionID > 0 && (e.DivisionID == nil || *e.DivisionID != q.DivisionID) {
			return false
		}
		return term == "" || strings.Contains(strings.ToLower(e.FirstName+" "+e.LastName+" "+e.Matricule), term)
	})
	end := min(q.Offset+q.Limit, len(all))
	start := min(q.Offset, end)
	return Page{Items: all[start:end], Total: len(all)}, nil
}

func (f *fakeStore) ListByDivision(_ context.Context, divisionID int64) ([]Employee, error) {
	return f.sorted(func(e Employee) bool { return e.DivisionID != nil && *e.DivisionID == divisionID }), nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return Employee{}, apperr.NotFound("Employee", id)
	}
	return f.hydrate(e), nil
}

func (f *fakeStore) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, e := range f.employees {
		if e.ID != excludeID && e.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) MatriculeTaken(_ context.Context, matricule string, excludeID int64) (bool, error) {
	for _, e := range f.employees {
		if e.ID != excludeID && strings.EqualFold(e.Matricule, matricule) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) JobTemplateExists(_ context.Context, id int64) (bool, error) {
	return f.templates[id], nil
}

func (f *fakeStore) Insert(_ context.Context, e Employee) (int64, error) {
	e.ID = f.id()
	e.CreatedAt = f.tick()
	e.UpdatedAt = e.CreatedAt
	f.employees[e.ID] = e
	return e.ID, nil
}

func (f *fakeStore) Update(_ context.Context, e Employee) error {
	if _, ok := f.employees[e.ID]; !ok {
		return apperr.NotFound("Employee", e.ID)
	}
	e.UpdatedAt = f.tick()
	f.employees[e.ID] = e
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.employees[id]; !ok {
		return apperr.NotFound("Employee", id)
	}
	delete(f.employees, id)
	delete(f.photos, id)
	return nil
}

func (f *fakeStore) VacatePosition(_ context.Context, positionID int64) error {
	f.vacated = append(f.vacated, positionID)
	return nil
}

func (f *fakeStore) LastUpdatedAt(context.Context) (*time.Time, error) {
	var last *time.Time
	for _, e := range f.employees {
		if e.UpdatedAt != nil && (last == nil || e.UpdatedAt.After(*last)) {
			last = e.UpdatedAt
		}
	}
	return last, nil
}

func (f *fakeStore) SetPhoto(_ context.Context, id int64, data []byte, contentType string) error {
	if _, ok := f.employees[id]; !ok {
		return apperr.NotFound("Employee", id)
	}
	f.photos[id] = Photo{EmployeeID: id, Data: data, ContentType: contentType}
	return nil
}

func (f *fakeStore) Photo(_ context.Context, id int64) (Photo, error) {
	if _, ok := f.employees[id]; !ok {
		return Photo{}, apperr.NotFound("Employee", id)
	}
	return f.photos[id], nil
}

func (f *fakeStore) DuplicateMatricules(context.Context) ([]string, error) {
	counts := map[string]int{}
	for _, e := range f.employees {
		if e.Matricule != "" {
			counts[strings.ToLower(e.Matricule)]++
		}
	}
	out := []string{}
	for m, n := range counts {
		if n > 1 {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) ListByMatricule(_ context.Context, matricule string) ([]Employee, error) {
	return f.sorted(func(e Employee) bool { return strings.EqualFold(e.Matricule, matricule) }), nil
}

func (f *fakeStore) AppendAction(_ context.Context, action audit.Action) (audit.Action, error) {
	if f.failAudit {
		return audit.Action{}, apperr.Conflict("audit unavailable")
	}
	action.ID = int64(len(f.actions) + 1)
	action.CreatedAt = *f.tick()
	f.actions = append(f.actions, action)
	return action, nil
}

func (f *fakeStore) ListActions(_ context.Context, employeeID int64) ([]audit.Action, error) {
	out := []audit.Action{}
	for i := len(f.actions) - 1; i >= 0; i-- {
		if f.actions[i].EmployeeID == employeeID {
			out = append(out, f.actions[i])
		}
	}
	return out, nil
}

func (f *fakeStore) actionsOf(employeeID int64, actionType string) []audit.Action {
	out := []audit.Action{}
	for _, a := range f.actions {
		if a.EmployeeID == employeeID && a.ActionType == actionType {
			out = append(out, a)
		}
	}
	return out
}
