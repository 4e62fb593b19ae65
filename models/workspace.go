package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// WorkspaceMember links a user to a workspace with a role. At most one
// entry per user exists in a workspace's member list.
type WorkspaceMember struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`
	Role   Role               `json:"role" bson:"role"`
}

type Workspace struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name    string             `json:"name" bson:"name"`
	Members []WorkspaceMember  `json:"members" bson:"members"`
}
