package repositories

import (
	"context"
	"fmt"

	"github.com/ethyne2666/project-management/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(collection *mongo.Collection) *TaskRepo {
	return &TaskRepo{collection: collection}
}

func (r *TaskRepo) Insert(ctx context.Context, task *models.Task) error {
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}
