package employee

import (
	"context"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"personnel/internal/apperr"
	"personnel/internal/domain/audit"
	"personnel/internal/platform/metrics"
)

type Service struct {
	Store   StoreAPI
	Metrics *metrics.Collector
}

func NewService(store StoreAPI, collector *metrics.Collector) *Service {
	return &Service{Store: store, Metrics: collector}
}

// record appends an audit entry inside the caller's transaction; a failure
// aborts the whole operation.
func (s *Service) record(ctx context.Context, tx StoreAPI, employeeID int64, actionType, actor, details string) error {
	_, err := tx.AppendAction(ctx, audit.NewAction(employeeID, actionType, actor, details))
	return err
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.Store.List(ctx)
}

func (s *Service) Search(ctx context.Context, q Query) (Page, error) {
	return s.Store.Search(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) ListByDivision(ctx context.Context, divisionID int64) ([]Employee, error) {
	if _, err := s.Store.GetDivision(ctx, divisionID); err != nil {
		return nil, err
	}
	return s.Store.ListByDivision(ctx, divisionID)
}

func (s *Service) LastUpdatedAt(ctx context.Context) (*time.Time, error) {
	return s.Store.LastUpdatedAt(ctx)
}

// Actions returns the audit history of an employee, newest first.
func (s *Service) Actions(ctx context.Context, employeeID int64) ([]audit.Action, error) {
	if _, err := s.Store.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.Store.ListActions(ctx, employeeID)
}

func validateInput(in Input) error {
	required := []struct{ field, value string }{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"email", in.Email},
		{"gender", in.Gender},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	if in.Age < 0 {
		return apperr.Validation("age must not be negative")
	}
	return nil
}

// guard rejects an email or matricule already held by another employee.
// excludeID is the record being updated, 0 on create.
func guard(ctx context.Context, tx StoreAPI, in Input, excludeID int64) error {
	taken, err := tx.EmailTaken(ctx, in.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	if strings.TrimSpace(in.Matricule) == "" {
		return nil
	}
	taken, err = tx.MatriculeTaken(ctx, in.Matricule, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrMatriculeTaken
	}
	return nil
}

func resolveJobTemplate(ctx context.Context, tx StoreAPI, id *int64) (*int64, error) {
	templateID, ok := positive(id)
	if !ok {
		return nil, nil
	}
	exists, err := tx.JobTemplateExists(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("JobTemplate", templateID)
	}
	return &templateID, nil
}

func (s *Service) Create(ctx context.Context, in Input, actor string) (Employee, error) {
	in.Matricule = strings.TrimSpace(in.Matricule)
	if err := validateInput(in); err != nil {
		return Employee{}, err
	}

	var id int64
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		if err := guard(ctx, tx, in, 0); err != nil {
			return err
		}
		var emp Employee
		emp.apply(in)
		if err := ApplyOrganizationLinks(ctx, tx, in.Target, &emp); err != nil {
			return err
		}
		templateID, err := resolveJobTemplate(ctx, tx, in.JobTemplateID)
		if err != nil {
			return err
		}
		emp.JobTemplateID = templateID

		id, err = tx.Insert(ctx, emp)
		if err != nil {
			return err
		}
		return s.record(ctx, tx, id, audit.ActionCreation, actor, DetailCreation)
	})
	if err != nil {
		return Employee{}, err
	}
	s.Metrics.EmployeeAction(audit.ActionCreation)
	return s.Store.Get(ctx, id)
}

// Update replaces the editable fields. The organization links are re-derived
// from in.Target and the job template is cleared when none is given. The
// held position is kept.
func (s *Service) Update(ctx context.Context, id int64, in Input, actor string) (Employee, error) {
	in.Matricule = strings.TrimSpace(in.Matricule)
	if err := validateInput(in); err != nil {
		return Employee{}, err
	}

	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		emp, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := guard(ctx, tx, in, id); err != nil {
			return err
		}
		emp.apply(in)
		if err := ApplyOrganizationLinks(ctx, tx, in.Target, &emp); err != nil {
			return err
		}
		if emp.JobTemplateID, err = resolveJobTemplate(ctx, tx, in.JobTemplateID); err != nil {
			return err
		}
		if err := tx.Update(ctx, emp); err != nil {
			return err
		}
		return s.record(ctx, tx, id, audit.ActionUpdate, actor, DetailUpdate)
	})
	if err != nil {
		return Employee{}, err
	}
	s.Metrics.EmployeeAction(audit.ActionUpdate)
	return s.Store.Get(ctx, id)
}

// Delete removes the employee with its sub-records. A held position becomes
// vacant; documents and the audit history are kept.
func (s *Service) Delete(ctx context.Context, id int64, actor string) error {
	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		emp, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.record(ctx, tx, id, audit.ActionDeletion, actor, DetailDeletion); err != nil {
			return err
		}
		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		if positionID, ok := positive(emp.PositionID); ok {
			return tx.VacatePosition(ctx, positionID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Metrics.EmployeeAction(audit.ActionDeletion)
	return nil
}

var allowedPhotoTypes = []string{"image/jpeg", "image/png"}

// UploadPhoto stores a JPEG or PNG profile photo, detected from its content.
func (s *Service) UploadPhoto(ctx context.Context, id int64, data []byte, actor string) (Photo, error) {
	if len(data) == 0 {
		return Photo{}, apperr.Validation("photo is empty")
	}
	if len(data) > MaxPhotoBytes {
		return Photo{}, apperr.Validation("photo exceeds 2MB")
	}
	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedPhotoTypes...) {
		return Photo{}, apperr.Validation("photo must be a JPEG or PNG image, got " + detected.String())
	}

	err := s.Store.InTx(ctx, func(tx StoreAPI) error {
		if err := tx.SetPhoto(ctx, id, data, detected.String()); err != nil {
			return err
		}
		return s.record(ctx, tx, id, audit.ActionPhotoUpdate, actor, DetailPhoto)
	})
	if err != nil {
		return Photo{}, err
	}
	s.Metrics.EmployeeAction(audit.ActionPhotoUpdate)
	logrus.WithFields(logrus.Fields{"employee_id": id, "bytes": len(data)}).Info("employee photo updated")
	return Photo{EmployeeID: id, Data: data, ContentType: detected.String()}, nil
}

// Photo returns NotFound when the employee has no photo.
func (s *Service) Photo(ctx context.Context, id int64) (Photo, error) {
	photo, err := s.Store.Photo(ctx, id)
	if err != nil {
		return Photo{}, err
	}
	if len(photo.Data) == 0 {
		return Photo{}, apperr.NotFoundf("Photo not found for employee with id: %d", id)
	}
	return photo, nil
}
