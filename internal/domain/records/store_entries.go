package records

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
	"personnel/internal/platform/querier"
)

const skillSelect = "SELECT id, employee_id, name, COALESCE(level, ''), COALESCE(category, '') FROM skills"

func scanSkill(row pgx.Row) (Skill, error) {
	var sk Skill
	if err := row.Scan(&sk.ID, &sk.EmployeeID, &sk.Name, &sk.Level, &sk.Category); err != nil {
		return Skill{}, err
	}
	return sk, nil
}

func (s *Store) ListSkills(ctx context.Context, employeeID int64) ([]Skill, error) {
	rows, err := s.DB.Query(ctx, skillSelect+" WHERE employee_id = $1 ORDER BY name, id", employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "list skills")
	}
	return collect(rows, scanSkill)
}

func (s *Store) GetSkill(ctx context.Context, id int64) (Skill, error) {
	sk, err := scanSkill(s.DB.QueryRow(ctx, skillSelect+" WHERE id = $1", id))
	if err != nil {
		return Skill{}, notFound(err, "Skill", id)
	}
	return sk, nil
}

func (s *Store) CreateSkill(ctx context.Context, sk Skill) (Skill, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO skills (employee_id, name, level, category)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, sk.EmployeeID, sk.Name, querier.NullIfEmpty(sk.Level), querier.NullIfEmpty(sk.Category)).Scan(&sk.ID)
	if err != nil {
		return Skill{}, writeError(err, "insert skill", sk.EmployeeID)
	}
	return sk, nil
}

func (s *Store) UpdateSkill(ctx context.Context, sk Skill) (Skill, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE skills SET name = $1, level = $2, category = $3 WHERE id = $4",
		sk.Name, querier.NullIfEmpty(sk.Level), querier.NullIfEmpty(sk.Category), sk.ID)
	if err != nil {
		return Skill{}, errors.Wrap(err, "update skill")
	}
	if tag.RowsAffected() == 0 {
		return Skill{}, apperr.NotFound("Skill", sk.ID)
	}
	return s.GetSkill(ctx, sk.ID)
}

func (s *Store) DeleteSkill(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "skills", "Skill", id)
}

const trainingSelect = `
    SELECT id, employee_id, name, start_date, COALESCE(duration, ''), COALESCE(institution, '')
    FROM trainings`

func scanTraining(row pgx.Row) (Training, error) {
	var t Training
	if err := row.Scan(&t.ID, &t.EmployeeID, &t.Name, &t.StartDate, &t.Duration, &t.Institution); err != nil {
		return Training{}, err
	}
	return t, nil
}

func (s *Store) ListTrainings(ctx context.Context, employeeID int64) ([]Training, error) {
	rows, err := s.DB.Query(ctx, trainingSelect+" WHERE employee_id = $1 ORDER BY start_date DESC NULLS LAST, id DESC", employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "list trainings")
	}
	return collect(rows, scanTraining)
}

func (s *Store) GetTraining(ctx context.Context, id int64) (Training, error) {
	t, err := scanTraining(s.DB.QueryRow(ctx, trainingSelect+" WHERE id = $1", id))
	if err != nil {
		return Training{}, notFound(err, "Training", id)
	}
	return t, nil
}

func (s *Store) CreateTraining(ctx context.Context, t Training) (Training, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO trainings (employee_id, name, start_date, duration, institution)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, t.EmployeeID, t.Name, t.StartDate, querier.NullIfEmpty(t.Duration), querier.NullIfEmpty(t.Institution)).Scan(&t.ID)
	if err != nil {
		return Training{}, writeError(err, "insert training", t.EmployeeID)
	}
	return t, nil
}

func (s *Store) UpdateTraining(ctx context.Context, t Training) (Training, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE trainings SET name = $1, start_date = $2, duration = $3, institution = $4
    WHERE id = $5
  `, t.Name, t.StartDate, querier.NullIfEmpty(t.Duration), querier.NullIfEmpty(t.Institution), t.ID)
	if err != nil {
		return Training{}, errors.Wrap(err, "update training")
	}
	if tag.RowsAffected() == 0 {
		return Training{}, apperr.NotFound("Training", t.ID)
	}
	return s.GetTraining(ctx, t.ID)
}

func (s *Store) DeleteTraining(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "trainings", "Training", id)
}

const promotionSelect = `
    SELECT id, employee_id, promotion_date, COALESCE(old_title, ''), COALESCE(new_title, ''), COALESCE(reason, '')
    FROM promotions`

func scanPromotion(row pgx.Row) (Promotion, error) {
	var p Promotion
	if err := row.Scan(&p.ID, &p.EmployeeID, &p.PromotionDate, &p.OldTitle, &p.NewTitle, &p.Reason); err != nil {
		return Promotion{}, err
	}
	return p, nil
}

func (s *Store) ListPromotions(ctx context.Context, employeeID int64) ([]Promotion, error) {
	rows, err := s.DB.Query(ctx, promotionSelect+" WHERE employee_id = $1 ORDER BY promotion_date DESC NULLS LAST, id DESC", employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "list promotions")
	}
	return collect(rows, scanPromotion)
}

func (s *Store) GetPromotion(ctx context.Context, id int64) (Promotion, error) {
	p, err := scanPromotion(s.DB.QueryRow(ctx, promotionSelect+" WHERE id = $1", id))
	if err != nil {
		return Promotion{}, notFound(err, "Promotion", id)
	}
	return p, nil
}

func (s *Store) CreatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO promotions (employee_id, promotion_date, old_title, new_title, reason)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, p.EmployeeID, p.PromotionDate, querier.NullIfEmpty(p.OldTitle), p.NewTitle, querier.NullIfEmpty(p.Reason)).Scan(&p.ID)
	if err != nil {
		return Promotion{}, writeError(err, "insert promotion", p.EmployeeID)
	}
	return p, nil
}

func (s *Store) UpdatePromotion(ctx context.Context, p Promotion) (Promotion, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE promotions SET promotion_date = $1, old_title = $2, new_title = $3, reason = $4
    WHERE id = $5
  `, p.PromotionDate, querier.NullIfEmpty(p.OldTitle), p.NewTitle, querier.NullIfEmpty(p.Reason), p.ID)
	if err != nil {
		return Promotion{}, errors.Wrap(err, "update promotion")
	}
	if tag.RowsAffected() == 0 {
		return Promotion{}, apperr.NotFound("Promotion", p.ID)
	}
	return s.GetPromotion(ctx, p.ID)
}

func (s *Store) DeletePromotion(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "promotions", "Promotion", id)
}
