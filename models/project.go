package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in progress"
	ProjectOnHold     ProjectStatus = "on hold"
	ProjectCompleted  ProjectStatus = "completed"
)

type Project struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	WorkspaceID primitive.ObjectID  `json:"workspaceId" bson:"workspaceId"`
	Name        string              `json:"name" bson:"name"`
	Description string              `json:"description" bson:"description"`
	Status      ProjectStatus       `json:"status" bson:"status"`
	Priority    string              `json:"priority" bson:"priority"`
	Progress    int                 `json:"progress" bson:"progress"`
	TeamLeadID  *primitive.ObjectID `json:"teamLeadId,omitempty" bson:"team_lead,omitempty"`
	StartDate   *time.Time          `json:"startDate,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time          `json:"endDate,omitempty" bson:"end_date,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

// ProjectMember links a user to a project. Unique per (projectId, userId),
// enforced by a compound index on the collection.
type ProjectMember struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID primitive.ObjectID `json:"projectId" bson:"projectId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
