package repositories

import (
	"context"
	"errors"

	"github.com/ethyne2666/project-management/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type WorkspaceRepo struct {
	collection *mongo.Collection
}

func NewWorkspaceRepo(collection *mongo.Collection) *WorkspaceRepo {
	return &WorkspaceRepo{collection: collection}
}

func (r *WorkspaceRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workspace)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}
