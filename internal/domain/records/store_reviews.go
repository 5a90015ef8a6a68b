package records

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
	"personnel/internal/platform/querier"
)

const reviewSelect = `
    SELECT id, employee_id, review_date, COALESCE(period, ''), COALESCE(rating, ''),
           objectives_score, skills_score, discipline_score, productivity_score, final_score,
           COALESCE(recommendation, ''), COALESCE(comments, ''), COALESCE(reviewer, ''),
           COALESCE(objectives_achieved, ''), COALESCE(general_appreciation, ''), COALESCE(strengths, ''),
           COALESCE(areas_for_improvement, ''), COALESCE(training_plan, '')
    FROM performance_reviews`

func scanReview(row pgx.Row) (Review, error) {
	var r Review
	if err := row.Scan(&r.ID, &r.EmployeeID, &r.ReviewDate, &r.Period, &r.Rating,
		&r.ObjectivesScore, &r.SkillsScore, &r.DisciplineScore, &r.ProductivityScore, &r.FinalScore,
		&r.Recommendation, &r.Comments, &r.Reviewer,
		&r.ObjectivesAchieved, &r.GeneralAppreciation, &r.Strengths,
		&r.AreasForImprovement, &r.TrainingPlan); err != nil {
		return Review{}, err
	}
	return r, nil
}

func reviewArgs(r Review) []any {
	return []any{
		r.ReviewDate,
		querier.NullIfEmpty(r.Period),
		querier.NullIfEmpty(r.Rating),
		r.ObjectivesScore,
		r.SkillsScore,
		r.DisciplineScore,
		r.ProductivityScore,
		r.FinalScore,
		querier.NullIfEmpty(r.Recommendation),
		querier.NullIfEmpty(r.Comments),
		querier.NullIfEmpty(r.Reviewer),
		querier.NullIfEmpty(r.ObjectivesAchieved),
		querier.NullIfEmpty(r.GeneralAppreciation),
		querier.NullIfEmpty(r.Strengths),
		querier.NullIfEmpty(r.AreasForImprovement),
		querier.NullIfEmpty(r.TrainingPlan),
	}
}

func (s *Store) ListReviews(ctx context.Context, employeeID int64) ([]Review, error) {
	rows, err := s.DB.Query(ctx, reviewSelect+" WHERE employee_id = $1 ORDER BY review_date DESC NULLS LAST, id DESC", employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "list performance reviews")
	}
	return collect(rows, scanReview)
}

func (s *Store) GetReview(ctx context.Context, id int64) (Review, error) {
	r, err := scanReview(s.DB.QueryRow(ctx, reviewSelect+" WHERE id = $1", id))
	if err != nil {
		return Review{}, notFound(err, "PerformanceReview", id)
	}
	return r, nil
}

func (s *Store) CreateReview(ctx context.Context, r Review) (Review, error) {
	args := append([]any{r.EmployeeID}, reviewArgs(r)...)
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (
      employee_id, review_date, period, rating,
      objectives_score, skills_score, discipline_score, productivity_score, final_score,
      recommendation, comments, reviewer,
      objectives_achieved, general_appreciation, strengths, areas_for_improvement, training_plan
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING id
  `, args...).Scan(&id)
	if err != nil {
		return Review{}, writeError(err, "insert performance review", r.EmployeeID)
	}
	return s.GetReview(ctx, id)
}

func (s *Store) UpdateReview(ctx context.Context, r Review) (Review, error) {
	args := append(reviewArgs(r), r.ID)
	tag, err := s.DB.Exec(ctx, `
    UPDATE performance_reviews
    SET review_date = $1, period = $2, rating = $3,
        objectives_score = $4, skills_score = $5, discipline_score = $6, productivity_score = $7, final_score = $8,
        recommendation = $9, comments = $10, reviewer = $11,
        objectives_achieved = $12, general_appreciation = $13, strengths = $14,
        areas_for_improvement = $15, training_plan = $16
    WHERE id = $17
  `, args...)
	if err != nil {
		return Review{}, errors.Wrap(err, "update performance review")
	}
	if tag.RowsAffected() == 0 {
		return Review{}, apperr.NotFound("PerformanceReview", r.ID)
	}
	return s.GetReview(ctx, r.ID)
}

func (s *Store) DeleteReview(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "performance_reviews", "PerformanceReview", id)
}
