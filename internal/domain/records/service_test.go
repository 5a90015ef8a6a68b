package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/apperr"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func TestCreateContract(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(1))

	c, err := svc.CreateContract(ctx, 1, Contract{Type: "CDI", StartDate: day("2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.EmployeeID)
	assert.Equal(t, ContractActive, c.Status)

	list, err := svc.ListContracts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContractValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(1))

	cases := []struct {
		name string
		in   Contract
	}{
		{name: "missing type", in: Contract{StartDate: day("2024-01-01")}},
		{name: "missing start", in: Contract{Type: "CDD"}},
		{name: "end before start", in: Contract{Type: "CDD", StartDate: day("2024-05-01"), EndDate: ptr(day("2024-04-30"))}},
		{name: "probation before start", in: Contract{Type: "CDD", StartDate: day("2024-05-01"), ProbationEndDate: ptr(day("2024-01-01"))}},
		{name: "unknown status", in: Contract{Type: "CDD", StartDate: day("2024-05-01"), Status: "PENDING"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateContract(ctx, 1, tc.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	_, err := svc.CreateContract(ctx, 1, Contract{Type: "CDD", StartDate: day("2024-05-01"), EndDate: ptr(day("2024-05-01"))})
	assert.NoError(t, err)
}

func TestCreateForMissingEmployee(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore())

	_, err := svc.CreateSkill(ctx, 9, Skill{Name: "Go"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.CreateTraining(ctx, 9, Training{Name: "Audit"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.ListPromotions(ctx, 9)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateKeepsOwner(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(1, 2))

	sk, err := svc.CreateSkill(ctx, 1, Skill{Name: "Excel", Level: "Beginner"})
	require.NoError(t, err)

	updated, err := svc.UpdateSkill(ctx, sk.ID, Skill{EmployeeID: 2, Name: "Excel", Level: "Expert"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.EmployeeID)
	assert.Equal(t, "Expert", updated.Level)

	_, err = svc.UpdateSkill(ctx, 99, Skill{Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(newFakeStore(1))
	assert.ErrorIs(t, svc.DeletePromotion(context.Background(), 5), apperr.ErrNotFound)
}

func TestFinalScore(t *testing.T) {
	assert.Nil(t, FinalScore(Review{}))
	assert.Equal(t, 80.0, *FinalScore(Review{ObjectivesScore: ptr(70), SkillsScore: ptr(90)}))
	assert.Equal(t, 66.67, *FinalScore(Review{ObjectivesScore: ptr(50), SkillsScore: ptr(75), DisciplineScore: ptr(75)}))
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeStore(1))

	r, err := svc.CreateReview(ctx, 1, Review{Period: "2024", ObjectivesScore: ptr(60), ProductivityScore: ptr(80)})
	require.NoError(t, err)
	require.NotNil(t, r.FinalScore)
	assert.Equal(t, 70.0, *r.FinalScore)

	r, err = svc.CreateReview(ctx, 1, Review{ObjectivesScore: ptr(60), FinalScore: ptr(4.5)})
	require.NoError(t, err)
	assert.Equal(t, 4.5, *r.FinalScore)

	_, err = svc.CreateReview(ctx, 1, Review{SkillsScore: ptr(101)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.MessageOf(err), "skillsScore")
}
