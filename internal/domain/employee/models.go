// Package employee is the employee registry. It owns the denormalized
// organization links, the mutation guards and duplicate reconciliation.
package employee

import "time"

type Employee struct {
	ID        int64  `json:"id"`
	Matricule string `json:"matricule,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Age       int    `json:"age"`

	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	SSN         string     `json:"ssn,omitempty"`

	Street           string `json:"street,omitempty"`
	ZipCode          string `json:"zipCode,omitempty"`
	City             string `json:"city,omitempty"`
	Country          string `json:"country,omitempty"`
	MobilePhone      string `json:"mobilePhone,omitempty"`
	HomePhone        string `json:"homePhone,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`

	JobTitle                      string     `json:"jobTitle,omitempty"`
	HireDate                      *time.Time `json:"hireDate,omitempty"`
	PublicServiceEntryDate        *time.Time `json:"publicServiceEntryDate,omitempty"`
	CurrentPostEntryDate          *time.Time `json:"currentPostEntryDate,omitempty"`
	PreviousPosition              string     `json:"previousPosition,omitempty"`
	AdministrativeStatus          string     `json:"administrativeStatus,omitempty"`
	StatusCategory                string     `json:"statusCategory,omitempty"`
	HighestDiploma                string     `json:"highestDiploma,omitempty"`
	CurrentAdministrativePosition string     `json:"currentAdministrativePosition,omitempty"`

	Ancestry
	DirectionName   string `json:"directionName,omitempty"`
	ServiceUnitName string `json:"serviceName,omitempty"`
	DivisionName    string `json:"divisionName,omitempty"`

	JobTemplateID    *int64 `json:"jobTemplateId,omitempty"`
	JobTemplateTitle string `json:"jobTemplateTitle,omitempty"`
	PositionID       *int64 `json:"positionId,omitempty"`
	PositionTitle    string `json:"positionTitle,omitempty"`

	HasPhoto  bool       `json:"hasPhoto"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Ancestry is the stored direction / service unit / division triple. When
// DivisionID is set the other two are the division's ancestors.
type Ancestry struct {
	DirectionID   *int64 `json:"directionId,omitempty"`
	ServiceUnitID *int64 `json:"serviceId,omitempty"`
	DivisionID    *int64 `json:"divisionId,omitempty"`
}

// OrgTarget names the requested organization anchor. Only the most specific
// positive id is honored.
type OrgTarget struct {
	DirectionID   *int64
	ServiceUnitID *int64
	DivisionID    *int64
}

// Input carries the user-editable fields of a create or update.
type Input struct {
	Matricule   string
	FirstName   string
	LastName    string
	Email       string
	Gender      string
	Age         int
	DateOfBirth *time.Time
	SSN         string

	Street           string
	ZipCode          string
	City             string
	Country          string
	MobilePhone      string
	HomePhone        string
	EmergencyContact string

	JobTitle                      string
	HireDate                      *time.Time
	PublicServiceEntryDate        *time.Time
	CurrentPostEntryDate          *time.Time
	PreviousPosition              string
	AdministrativeStatus          string
	StatusCategory                string
	HighestDiploma                string
	CurrentAdministrativePosition string

	Target        OrgTarget
	JobTemplateID *int64
}

func (e *Employee) apply(in Input) {
	e.Matricule = in.Matricule
	e.FirstName = in.FirstName
	e.LastName = in.LastName
	e.Email = in.Email
	e.Gender = in.Gender
	e.Age = in.Age
	e.DateOfBirth = in.DateOfBirth
	e.SSN = in.SSN
	e.Street = in.Street
	e.ZipCode = in.ZipCode
	e.City = in.City
	e.Country = in.Country
	e.MobilePhone = in.MobilePhone
	e.HomePhone = in.HomePhone
	e.EmergencyContact = in.EmergencyContact
	e.JobTitle = in.JobTitle
	e.HireDate = in.HireDate
	e.PublicServiceEntryDate = in.PublicServiceEntryDate
	e.CurrentPostEntryDate = in.CurrentPostEntryDate
	e.PreviousPosition = in.PreviousPosition
	e.AdministrativeStatus = in.AdministrativeStatus
	e.StatusCategory = in.StatusCategory
	e.HighestDiploma = in.HighestDiploma
	e.CurrentAdministrativePosition = in.CurrentAdministrativePosition
}

type Photo struct {
	EmployeeID  int64  `json:"employeeId"`
	Data        []byte `json:"-"`
	ContentType string `json:"contentType"`
}

type Query struct {
	Search     string
	DivisionID int64
	SortField  string
	SortDesc   bool
	Limit      int
	Offset     int
}

type Page struct {
	Items []Employee `json:"content"`
	Total int        `json:"totalElements"`
}

type ReconcileResult struct {
	Groups     int     `json:"groups"`
	RemovedIDs []int64 `json:"removedIds"`
	KeptIDs    []int64 `json:"keptIds"`
}
