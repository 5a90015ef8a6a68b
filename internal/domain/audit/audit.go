// Package audit is the append-only history of administrative actions taken on
// employee records.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"personnel/internal/platform/querier"
)

const (
	ActionCreation        = "CREATION"
	ActionUpdate          = "MISE_A_JOUR"
	ActionDeletion        = "SUPPRESSION"
	ActionDivisionChange  = "CHANGEMENT_DIVISION"
	ActionDivisionRemoval = "RETRAIT_DIVISION"
	ActionPositionAssign  = "AFFECTATION_POSTE"
	ActionPositionRelease = "LIBERATION_POSTE"
	ActionDuplicateRemove = "SUPPRESSION_DOUBLON"
	ActionPhotoUpdate     = "MISE_A_JOUR_PHOTO"

	DefaultActor = "RH"
)

type Action struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	ActionType string    `json:"actionType"`
	Actor      string    `json:"actor"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Filter struct {
	EmployeeID int64
	ActionType string
	Actor      string
}

// NewAction fills in the default actor.
func NewAction(employeeID int64, actionType, actor, details string) Action {
	return Action{
		EmployeeID: employeeID,
		ActionType: actionType,
		Actor:      NormalizeActor(actor),
		Details:    details,
	}
}

func NormalizeActor(actor string) string {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return DefaultActor
	}
	return actor
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Append(ctx context.Context, action Action) (Action, error) {
	action.Actor = NormalizeActor(action.Actor)
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_actions (employee_id, action_type, actor, details)
    VALUES ($1,$2,$3,$4)
    RETURNING id, created_at
  `, action.EmployeeID, action.ActionType, action.Actor, action.Details).Scan(&action.ID, &action.CreatedAt)
	if err != nil {
		return Action{}, errors.Wrap(err, "insert employee action")
	}
	return action, nil
}

// ListByEmployee returns the history of one employee, newest first.
func (s *Store) ListByEmployee(ctx context.Context, employeeID int64) ([]Action, error) {
	return s.List(ctx, Filter{EmployeeID: employeeID}, 0, 0)
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count employee actions")
	}
	return total, nil
}

// List pages through actions newest first; limit 0 means no limit.
func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Action, error) {
	query, args := buildBaseQuery("SELECT id, employee_id, action_type, actor, COALESCE(details, ''), created_at", filter)
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list employee actions")
	}
	defer rows.Close()

	out := make([]Action, 0)
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ActionType, &a.Actor, &a.Details, &a.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan employee action")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM employee_actions WHERE 1=1"
	args := []any{}
	if filter.EmployeeID > 0 {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.ActionType != "" {
		args = append(args, filter.ActionType)
		query += fmt.Sprintf(" AND action_type = $%d", len(args))
	}
	if filter.Actor != "" {
		args = append(args, filter.Actor)
		query += fmt.Sprintf(" AND lower(actor) = lower($%d)", len(args))
	}
	return query, args
}
