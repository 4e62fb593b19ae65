package services

import (
	"github.com/ethyne2666/project-management/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorizationGate holds every role and ownership decision in one place, so
// no handler or service carries its own copy of a permission rule. The
// predicates operate on already-loaded entities and have no side effects;
// callers translate a false result into a permission-denied error.
type AuthorizationGate struct{}

// IsWorkspaceAdmin reports whether userID is an ADMIN member of the workspace.
func (AuthorizationGate) IsWorkspaceAdmin(workspace *models.Workspace, userID primitive.ObjectID) bool {
	if workspace == nil {
		return false
	}
	for _, m := range workspace.Members {
		if m.UserID == userID && m.Role == models.RoleAdmin {
			return true
		}
	}
	return false
}

// IsWorkspaceMember reports whether userID belongs to the workspace,
// regardless of role.
func (AuthorizationGate) IsWorkspaceMember(workspace *models.Workspace, userID primitive.ObjectID) bool {
	if workspace == nil {
		return false
	}
	for _, m := range workspace.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsProjectLead reports whether userID is the project's team lead.
func (AuthorizationGate) IsProjectLead(project *models.Project, userID primitive.ObjectID) bool {
	return project != nil && project.TeamLeadID != nil && *project.TeamLeadID == userID
}
