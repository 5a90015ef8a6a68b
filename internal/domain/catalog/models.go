// Package catalog holds job templates and positions. A position is occupied by
// at most one employee.
package catalog

import "time"

const (
	StatusVacant   = "VACANT"
	StatusOccupied = "OCCUPIED"
)

var Statuses = []string{StatusVacant, StatusOccupied}

type JobTemplate struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DirectionID     *int64    `json:"directionId,omitempty"`
	DirectionName   string    `json:"directionName,omitempty"`
	ServiceUnitID   *int64    `json:"serviceId,omitempty"`
	ServiceUnitName string    `json:"serviceName,omitempty"`
	DivisionID      *int64    `json:"divisionId,omitempty"`
	DivisionName    string    `json:"divisionName,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type TemplateInput struct {
	Title         string
	Description   string
	DirectionID   *int64
	ServiceUnitID *int64
	DivisionID    *int64
}

type TemplateFilter struct {
	DirectionID   int64
	ServiceUnitID int64
	DivisionID    int64
}

type Position struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	DivisionID          int64     `json:"divisionId"`
	DivisionName        string    `json:"divisionName,omitempty"`
	Category            string    `json:"category,omitempty"`
	Level               string    `json:"level,omitempty"`
	Missions            string    `json:"missions,omitempty"`
	Description         string    `json:"description,omitempty"`
	ClassificationLevel string    `json:"classificationLevel,omitempty"`
	Status              string    `json:"status"`
	EmployeeID          *int64    `json:"employeeId,omitempty"`
	EmployeeName        string    `json:"employeeName,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type PositionInput struct {
	Title               string
	DivisionID          int64
	Category            string
	Level               string
	Missions            string
	Description         string
	ClassificationLevel string
	Status              string
	EmployeeID          *int64
}

type PositionFilter struct {
	DivisionID int64
	EmployeeID int64
}

// EmployeeRef is the slice of an employee the catalog reads and writes.
type EmployeeRef struct {
	ID         int64
	FirstName  string
	LastName   string
	PositionID *int64
}
