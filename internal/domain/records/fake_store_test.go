package records

import (
	"context"
	"sort"

	"personnel/internal/apperr"
)

type memTable[T any] struct {
	entity string
	nextID int64
	rows   map[int64]T
	idOf   func(T) int64
	owner  func(T) int64
	setID  func(*T, int64)
}

func newTable[T any](entity string, idOf, owner func(T) int64, setID func(*T, int64)) *memTable[T] {
	return &memTable[T]{entity: entity, rows: map[int64]T{}, idOf: idOf, owner: owner, setID: setID}
}

func (m *memTable[T]) list(employeeID int64) []T {
	out := make([]T, 0)
	for _, row := range m.rows {
		if m.owner(row) == employeeID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.idOf(out[i]) < m.idOf(out[j]) })
	return out
}

func (m *memTable[T]) get(id int64) (T, error) {
	row, ok := m.rows[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(m.entity, id)
	}
	return row, nil
}

func (m *memTable[T]) insert(row T) T {
	m.nextID++
	m.setID(&row, m.nextID)
	m.rows[m.nextID] = row
	return row
}

func (m *memTable[T]) update(row T) (T, error) {
	if _, ok := m.rows[m.idOf(row)]; !ok {
		var zero T
		return zero, apperr.NotFound(m.entity, m.idOf(row))
	}
	m.rows[m.idOf(row)] = row
	return row, nil
}

func (m *memTable[T]) remove(id int64) error {
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound(m.entity, id)
	}
	delete(m.rows, id)
	return nil
}

type fakeStore struct {
	employees  map[int64]bool
	contracts  *memTable[Contract]
	skills     *memTable[Skill]
	trainings  *memTable[Training]
	promotions *memTable[Promotion]
	reviews    *memTable[Review]
}

func newFakeStore(employeeIDs ...int64) *fakeStore {
	f := &fakeStore{
		employees: map[int64]bool{},
		contracts: newTable("Contract",
			func(c Contract) int64 { return c.ID }, func(c Contract) int64 { return c.EmployeeID },
			func(c *Contract, id int64) { c.ID = id }),
		skills: newTable("Skill",
			func(s Skill) int64 { return s.ID }, func(s Skill) int64 { return s.EmployeeID },
			func(s *Skill, id int64) { s.ID = id }),
		trainings: newTable("Training",
			func(t Training) int64 { return t.ID }, func(t Training) int64 { return t.EmployeeID },
			func(t *Training, id int64) { t.ID = id }),
		promotions: newTable("Promotion",
			func(p Promotion) int64 { return p.ID }, func(p Promotion) int64 { return p.EmployeeID },
			func(p *Promotion, id int64) { p.ID = id }),
		reviews: newTable("PerformanceReview",
			func(r Review) int64 { return r.ID }, func(r Review) int64 { return r.EmployeeID },
			func(r *Review, id int64) { r.ID = id }),
	}
	for _, id := range employeeIDs {
		f.employees[id] = true
	}
	return f
}

func (f *fakeStore) EmployeeExists(_ context.Context, id int64) (bool, error) {
	return f.employees[id], nil
}

func (f *fakeStore) ListContracts(_ context.Context, employeeID int64) ([]Contract, error) {
	return f.contracts.list(employeeID), nil
}
func (f *fakeStore) GetContract(_ context.Context, id int64) (Contract, error) { return f.contracts.get(id) }
func (f *fakeStore) CreateContract(_ context.Context, c Contract) (Contract, error) {
	return f.contracts.insert(c), nil
}
func (f *fakeStore) UpdateContract(_ context.Context, c Contract) (Contract, error) {
	return f.contracts.update(c)
}
func (f *fakeStore) DeleteContract(_ context.Context, id int64) error { return f.contracts.remove(id) }

func (f *fakeStore) ListSkills(_ context.Context, employeeID int64) ([]Skill, error) {
	return f.skills.list(employeeID), nil
}
func (f *fakeStore) GetSkill(_ context.Context, id int64) (Skill, error) { return f.skills.get(id) }
func (f *fakeStore) CreateSkill(_ context.Context, s Skill) (Skill, error) { return f.skills.insert(s), nil }
func (f *fakeStore) UpdateSkill(_ context.Context, s Skill) (Skill, error) { return f.skills.update(s) }
func (f *fakeStore) DeleteSkill(_ context.Context, id int64) error           { return f.skills.remove(id) }

func (f *fakeStore) ListTrainings(_ context.Context, employeeID int64) ([]Training, error) {
	return f.trainings.list(employeeID), nil
}
func (f *fakeStore) GetTraining(_ context.Context, id int64) (Training, error) { return f.trainings.get(id) }
func (f *fakeStore) CreateTraining(_ context.Context, t Training) (Training, error) {
	return f.trainings.insert(t), nil
}
func (f *fakeStore) UpdateTraining(_ context.Context, t Training) (Training, error) {
	return f.trainings.update(t)
}
func (f *fakeStore) DeleteTraining(_ context.Context, id int64) error { return f.trainings.remove(id) }

func (f *fakeStore) ListPromotions(_ context.Context, employeeID int64) ([]Promotion, error) {
	return f.promotions.list(employeeID), nil
}
func (f *fakeStore) GetPromotion(_ context.Context, id int64) (Promotion, error) {
	return f.promotions.get(id)
}
func (f *fakeStore) CreatePromotion(_ context.Context, p Promotion) (Promotion, error) {
	return f.promotions.insert(p), nil
}
func (f *fakeStore) UpdatePromotion(_ context.Context, p Promotion) (Promotion, error) {
	return f.promotions.update(p)
}
func (f *fakeStore) DeletePromotion(_ context.Context, id int64) error { return f.promotions.remove(id) }

func (f *fakeStore) ListReviews(_ context.Context, employeeID int64) ([]Review, error) {
	return f.reviews.list(employeeID), nil
}
func (f *fakeStore) GetReview(_ context.Context, id int64) (Review, error) { return f.reviews.get(id) }
func (f *fakeStore) CreateReview(_ context.Context, r Review) (Review, error) {
	return f.reviews.insert(r), nil
}
func (f *fakeStore) UpdateReview(_ context.Context, r Review) (Review, error) {
	return f.reviews.update(r)
}
func (f *fakeStore) DeleteReview(_ context.Context, id int64) error { return f.reviews.remove(id) }
