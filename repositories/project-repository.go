package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethyne2666/project-management/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectRepo persists projects and project memberships. Memberships live in
// their own collection, guarded by a unique (projectId, userId) index.
type ProjectRepo struct {
	projects *mongo.Collection
	members  *mongo.Collection
}

func NewProjectRepo(projects, members *mongo.Collection) *ProjectRepo {
	return &ProjectRepo{projects: projects, members: members}
}

func (r *ProjectRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepo) Insert(ctx context.Context, project *models.Project) error {
	result, err := r.projects.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	result, err := r.projects.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("project %s not found for update", project.ID.Hex())
	}
	return nil
}

func (r *ProjectRepo) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Project, error) {
	cursor, err := r.projects.Find(ctx, bson.M{"workspaceId": workspaceID})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepo) InsertMembers(ctx context.Context, members []models.ProjectMember) error {
	docs := make([]interface{}, len(members))
	for i, m := range members {
		docs[i] = m
	}
	if _, err := r.members.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to add project members: %w", err)
	}
	return nil
}

func (r *ProjectRepo) ListMembers(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error) {
	cursor, err := r.members.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.ProjectMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode project members: %w", err)
	}
	return members, nil
}
