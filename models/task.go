package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in progress"
	StatusCompleted  TaskStatus = "completed"
)

type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	ProjectID   primitive.ObjectID  `json:"projectId" bson:"projectId"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description" bson:"description"`
	Type        string              `json:"type" bson:"type"`
	Status      TaskStatus          `json:"status" bson:"status"`
	Priority    string              `json:"priority" bson:"priority"`
	AssigneeID  *primitive.ObjectID `json:"assigneeId,omitempty" bson:"assigneeId,omitempty"`
	DueDate     time.Time           `json:"dueDate" bson:"due_date"`
	CreatedBy   primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}
