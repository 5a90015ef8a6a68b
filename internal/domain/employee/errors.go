package employee

import "personnel/internal/apperr"

const (
	MsgEmailTaken     = "Un employé avec cet email existe déjà"
	MsgMatriculeTaken = "Un employé avec ce matricule existe déjà"
	MsgUnauthorized   = "Unauthorized: Only ADMIN and RH can perform this action."
)

var (
	ErrEmailTaken     = apperr.Conflict(MsgEmailTaken)
	ErrMatriculeTaken = apperr.Conflict(MsgMatriculeTaken)
	ErrActorForbidden = apperr.Unauthorized(MsgUnauthorized)
)

func errNotInDivision(employeeID, divisionID int64) error {
	return apperr.NotFoundf("Employee %d is not in division %d", employeeID, divisionID)
}
