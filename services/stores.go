package services

import (
	"context"

	"github.com/ethyne2666/project-management/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the services. The Mongo implementations live
// in the repositories package; tests substitute in-memory fakes. Lookups
// return (nil, nil) when the entity does not exist — "missing" is an outcome
// the services decide on, not a data-layer error.

type WorkspaceStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProjectStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	Insert(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Project, error)
	InsertMembers(ctx context.Context, members []models.ProjectMember) error
	ListMembers(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error)
}

type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
}

// Transactor runs fn atomically: either every write issued through the
// context commits, or none do.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers a best-effort notification to a user. Implementations
// must never block a mutation on delivery problems.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, message string)
}
