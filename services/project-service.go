package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ethyne2666/project-management/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectService struct {
	workspaces WorkspaceStore
	users      UserStore
	projects   ProjectStore
	tasks      TaskStore
	tx         Transactor
	gate       AuthorizationGate
	notifier   Notifier
}

func NewProjectService(workspaces WorkspaceStore, users UserStore, projects ProjectStore, tasks TaskStore, tx Transactor, notifier Notifier) *ProjectService {
	return &ProjectService{
		workspaces: workspaces,
		users:      users,
		projects:   projects,
		tasks:      tasks,
		tx:         tx,
		notifier:   notifier,
	}
}

type CreateProjectInput struct {
	WorkspaceID primitive.ObjectID
	Name        string
	Description string
	Status      models.ProjectStatus
	Priority    string
	Progress    int
	StartDate   string
	EndDate     string
	TeamLead    string // email, resolved to a user id; unresolved emails are dropped
	TeamMembers []string
}

// UpdateProjectInput carries the mutable project fields. Nil pointers leave
// the stored value unchanged; an empty date string clears the date.
type UpdateProjectInput struct {
	ID          primitive.ObjectID
	WorkspaceID primitive.ObjectID
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	Priority    *string
	Progress    *int
	StartDate   *string
	EndDate     *string
	TeamLead    *string // email, same contract as create
}

// CreateProject creates a project in a workspace the actor administers, and
// enrolls every team_members email that belongs to a workspace member. The
// project insert and the membership batch insert commit atomically.
func (s *ProjectService) CreateProject(ctx context.Context, actorID primitive.ObjectID, input CreateProjectInput) (*models.ProjectDetail, error) {
	workspace, err := s.workspaces.GetByID(ctx, input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, NotFound("Workspace not found")
	}
	if !s.gate.IsWorkspaceAdmin(workspace, actorID) {
		return nil, PermissionDenied("You don't have permission to create a project in this workspace")
	}

	startDate, err := parseDate(input.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(input.EndDate, "end_date")
	if err != nil {
		return nil, err
	}

	var teamLeadID *primitive.ObjectID
	if input.TeamLead != "" {
		lead, err := s.users.GetByEmail(ctx, input.TeamLead)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			teamLeadID = &lead.ID
		}
	}

	status := input.Status
	if status == "" {
		status = models.ProjectPlanning
	}

	project := &models.Project{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspace.ID,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		Priority:    input.Priority,
		Progress:    input.Progress,
		TeamLeadID:  teamLeadID,
		StartDate:   startDate,
		EndDate:     endDate,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.projects.Insert(ctx, project); err != nil {
			return err
		}
		members, err := s.resolveTeamMembers(ctx, workspace, project.ID, input.TeamMembers)
		if err != nil {
			return err
		}
		if len(members) > 0 {
			return s.projects.InsertMembers(ctx, members)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.projectDetail(ctx, project)
}

// resolveTeamMembers maps candidate emails onto workspace members. Emails
// that resolve to no user, or to a user outside the workspace, are dropped.
func (s *ProjectService) resolveTeamMembers(ctx context.Context, workspace *models.Workspace, projectID primitive.ObjectID, emails []string) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	seen := make(map[primitive.ObjectID]bool)
	for _, email := range emails {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user == nil || seen[user.ID] || !s.gate.IsWorkspaceMember(workspace, user.ID) {
			continue
		}
		seen[user.ID] = true
		members = append(members, models.ProjectMember{
			ID:        primitive.NewObjectID(),
			ProjectID: projectID,
			UserID:    user.ID,
			CreatedAt: time.Now().UTC(),
		})
	}
	return members, nil
}

// UpdateProject applies the given fields to an existing project. The actor
// must administer the owning workspace and be the project's team lead.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID primitive.ObjectID, input UpdateProjectInput) (*models.ProjectDetail, error) {
	workspace, err := s.workspaces.GetByID(ctx, input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, NotFound("Workspace not found")
	}
	if !s.gate.IsWorkspaceAdmin(workspace, actorID) {
		return nil, PermissionDenied("You don't have permission to update a project in this workspace")
	}

	project, err := s.projects.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFound("Project not found")
	}
	if !s.gate.IsProjectLead(project, actorID) {
		return nil, PermissionDenied("You don't have permission to update this project")
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.Priority != nil {
		project.Priority = *input.Priority
	}
	if input.Progress != nil {
		project.Progress = *input.Progress
	}
	if input.StartDate != nil {
		startDate, err := parseDate(*input.StartDate, "start_date")
		if err != nil {
			return nil, err
		}
		project.StartDate = startDate
	}
	if input.EndDate != nil {
		endDate, err := parseDate(*input.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
		project.EndDate = endDate
	}
	if input.TeamLead != nil && *input.TeamLead != "" {
		lead, err := s.users.GetByEmail(ctx, *input.TeamLead)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			project.TeamLeadID = &lead.ID
		}
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	return s.projectDetail(ctx, project)
}

// AddMember enrolls the user behind email into the project. Only the
// project's team lead may do this, and duplicate memberships are rejected.
func (s *ProjectService) AddMember(ctx context.Context, actorID, projectID primitive.ObjectID, email string) (*models.ProjectMemberDetail, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFound("Project not found")
	}
	if !s.gate.IsProjectLead(project, actorID) {
		return nil, PermissionDenied("You don't have permission to add a member to this project")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("User not found")
	}

	existing, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		if m.UserID == user.ID {
			return nil, Conflict("User is already a member of this project")
		}
	}

	member := models.ProjectMember{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.projects.InsertMembers(ctx, []models.ProjectMember{member}); err != nil {
		return nil, err
	}

	s.notify(ctx, user.ID, fmt.Sprintf("You have been added to the project %q", project.Name))

	return &models.ProjectMemberDetail{ProjectMember: member, User: *user}, nil
}

// GetProject returns a project joined with its lead, members and tasks.
func (s *ProjectService) GetProject(ctx context.Context, projectID primitive.ObjectID) (*models.ProjectDetail, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFound("Project not found")
	}
	return s.projectDetail(ctx, project)
}

// ListProjects returns the projects of a workspace the actor belongs to.
func (s *ProjectService) ListProjects(ctx context.Context, actorID, workspaceID primitive.ObjectID) ([]models.Project, error) {
	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, NotFound("Workspace not found")
	}
	if !s.gate.IsWorkspaceMember(workspace, actorID) {
		return nil, PermissionDenied("You don't have access to this workspace")
	}
	return s.projects.ListByWorkspace(ctx, workspaceID)
}

// GetProjectMembers returns the project's memberships joined with users.
func (s *ProjectService) GetProjectMembers(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectMemberDetail, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFound("Project not found")
	}
	return s.memberDetails(ctx, projectID)
}

func (s *ProjectService) memberDetails(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectMemberDetail, error) {
	members, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	details := make([]models.ProjectMemberDetail, 0, len(members))
	for _, m := range members {
		detail := models.ProjectMemberDetail{ProjectMember: m}
		user, err := s.users.GetByID(ctx, m.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			detail.User = *user
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *ProjectService) projectDetail(ctx context.Context, project *models.Project) (*models.ProjectDetail, error) {
	detail := &models.ProjectDetail{Project: *project}

	if project.TeamLeadID != nil {
		lead, err := s.users.GetByID(ctx, *project.TeamLeadID)
		if err != nil {
			return nil, err
		}
		detail.TeamLead = lead
	}

	members, err := s.memberDetails(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	detail.Members = members

	tasks, err := s.tasks.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	detail.Tasks = make([]models.TaskDetail, 0, len(tasks))
	for _, task := range tasks {
		td := models.TaskDetail{Task: task}
		if task.AssigneeID != nil {
			assignee, err := s.users.GetByID(ctx, *task.AssigneeID)
			if err != nil {
				return nil, err
			}
			td.Assignee = assignee
		}
		detail.Tasks = append(detail.Tasks, td)
	}

	return detail, nil
}

func (s *ProjectService) notify(ctx context.Context, userID primitive.ObjectID, message string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, message)
	}
}

// parseDate maps an optional ISO date string onto a nullable time. Empty
// means "no date"; a malformed value is the caller's mistake, not a null.
func parseDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, Invalid(fmt.Sprintf("invalid %s: %q", field, value))
}
