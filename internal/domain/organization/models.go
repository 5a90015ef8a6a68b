// Package organization holds the three-level tree Direction, ServiceUnit and
// Division. Children reference their parent by id only.
package organization

import "time"

type Level string

const (
	LevelDirection   Level = "direction"
	LevelServiceUnit Level = "service_unit"
	LevelDivision    Level = "division"
)

// Details are the descriptive attributes shared by every node.
type Details struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	ManagerName string `json:"managerName,omitempty"`
	Missions    string `json:"missions,omitempty"`
	Objectives  string `json:"objectives,omitempty"`
}

type Direction struct {
	ID int64 `json:"id"`
	Details
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ServiceUnit struct {
	ID          int64 `json:"id"`
	DirectionID int64 `json:"directionId"`
	Details
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Division carries its service unit's direction, resolved by join at read time.
type Division struct {
	ID            int64 `json:"id"`
	ServiceUnitID int64 `json:"serviceId"`
	DirectionID   int64 `json:"directionId,omitempty"`
	Details
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DirectionNode struct {
	Direction
	Services []ServiceNode `json:"services"`
}

type ServiceNode struct {
	ServiceUnit
	Divisions []Division `json:"divisions"`
}
