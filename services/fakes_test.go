package services

import (
	"context"

	"github.com/ethyne2666/project-management/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory implementations of the store interfaces, standing in for the
// Mongo repositories.

type fakeWorkspaceStore struct {
	workspaces map[primitive.ObjectID]*models.Workspace
}

func (f *fakeWorkspaceStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	return f.workspaces[id], nil
}

type fakeUserStore struct {
	users []*models.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeProjectStore struct {
	projects map[primitive.ObjectID]*models.Project
	members  []models.ProjectMember
}

func (f *fakeProjectStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProjectStore) Insert(_ context.Context, project *models.Project) error {
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectStore) Update(_ context.Context, project *models.Project) error {
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f *fakeProjectStore) ListByWorkspace(_ context.Context, workspaceID primitive.ObjectID) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		if p.WorkspaceID == workspaceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) InsertMembers(_ context.Context, members []models.ProjectMember) error {
	f.members = append(f.members, members...)
	return nil
}

func (f *fakeProjectStore) ListMembers(_ context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error) {
	var out []models.ProjectMember
	for _, m := range f.members {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeTaskStore struct {
	tasks []models.Task
}

func (f *fakeTaskStore) Insert(_ context.Context, task *models.Task) error {
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeTaskStore) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeTransactor struct{}

func (fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	messages map[primitive.ObjectID][]string
}

func (f *fakeNotifier) Notify(_ context.Context, userID primitive.ObjectID, message string) {
	if f.messages == nil {
		f.messages = make(map[primitive.ObjectID][]string)
	}
	f.messages[userID] = append(f.messages[userID], message)
}

// fixture wires both services onto a shared set of fakes.
type fixture struct {
	workspaces *fakeWorkspaceStore
	users      *fakeUserStore
	projects   *fakeProjectStore
	tasks      *fakeTaskStore
	notifier   *fakeNotifier

	projectService *ProjectService
	taskService    *TaskService
}

func newFixture() *fixture {
	f := &fixture{
		workspaces: &fakeWorkspaceStore{workspaces: make(map[primitive.ObjectID]*models.Workspace)},
		users:      &fakeUserStore{},
		projects:   &fakeProjectStore{projects: make(map[primitive.ObjectID]*models.Project)},
		tasks:      &fakeTaskStore{},
		notifier:   &fakeNotifier{},
	}
	f.projectService = NewProjectService(f.workspaces, f.users, f.projects, f.tasks, fakeTransactor{}, f.notifier)
	f.taskService = NewTaskService(f.projects, f.tasks, f.users, f.notifier)
	return f
}

func (f *fixture) addUser(email string) *models.User {
	user := &models.User{ID: primitive.NewObjectID(), Email: email}
	f.users.users = append(f.users.users, user)
	return user
}

func (f *fixture) addWorkspace(members ...models.WorkspaceMember) *models.Workspace {
	workspace := &models.Workspace{
		ID:      primitive.NewObjectID(),
		Name:    "workspace",
		Members: members,
	}
	f.workspaces.workspaces[workspace.ID] = workspace
	return workspace
}

func (f *fixture) addProject(workspaceID primitive.ObjectID, teamLeadID *primitive.ObjectID) *models.Project {
	project := &models.Project{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		Name:        "project",
		TeamLeadID:  teamLeadID,
	}
	f.projects.projects[project.ID] = project
	return project
}

func (f *fixture) addProjectMember(projectID, userID primitive.ObjectID) models.ProjectMember {
	member := models.ProjectMember{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
	}
	f.projects.members = append(f.projects.members, member)
	return member
}
