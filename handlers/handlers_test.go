package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethyne2666/project-management/middleware"
	"github.com/ethyne2666/project-management/models"
	"github.com/ethyne2666/project-management/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compact in-memory stores backing real services, so these tests exercise
// the full handler -> service -> status-code path.

type memWorkspaces map[primitive.ObjectID]*models.Workspace

func (m memWorkspaces) GetByID(_ context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	return m[id], nil
}

type memUsers []*models.User

func (m memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range m {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type memProjects struct {
	projects map[primitive.ObjectID]*models.Project
	members  []models.ProjectMember
}

func (m *memProjects) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	return m.projects[id], nil
}

func (m *memProjects) Insert(_ context.Context, p *models.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *memProjects) Update(_ context.Context, p *models.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *memProjects) ListByWorkspace(_ context.Context, workspaceID primitive.ObjectID) ([]models.Project, error) {
	var out []models.Project
	for _, p := range m.projects {
		if p.WorkspaceID == workspaceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProjects) InsertMembers(_ context.Context, members []models.ProjectMember) error {
	m.members = append(m.members, members...)
	return nil
}

func (m *memProjects) ListMembers(_ context.Context, projectID primitive.ObjectID) ([]models.ProjectMember, error) {
	var out []models.ProjectMember
	for _, mem := range m.members {
		if mem.ProjectID == projectID {
			out = append(out, mem)
		}
	}
	return out, nil
}

type memTasks []models.Task

func (m *memTasks) Insert(_ context.Context, task *models.Task) error {
	*m = append(*m, *task)
	return nil
}

func (m *memTasks) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	var out []models.Task
	for _, t := range *m {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type env struct {
	workspaces memWorkspaces
	users      memUsers
	projects   *memProjects
	tasks      *memTasks
	router     *mux.Router
}

func newEnv() *env {
	e := &env{
		workspaces: make(memWorkspaces),
		projects:   &memProjects{projects: make(map[primitive.ObjectID]*models.Project)},
		tasks:      &memTasks{},
	}
	projectService := services.NewProjectService(e.workspaces, &e.users, e.projects, e.tasks, passthroughTx{}, nil)
	taskService := services.NewTaskService(e.projects, e.tasks, &e.users, nil)

	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)

	e.router = mux.NewRouter()
	e.router.HandleFunc("/api/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	e.router.HandleFunc("/api/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	e.router.HandleFunc("/api/projects/{projectId}/members", projectHandler.AddMemberToProject).Methods(http.MethodPost)
	e.router.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	return e
}

func (e *env) addUser(email string) *models.User {
	user := &models.User{ID: primitive.NewObjectID(), Email: email}
	e.users = append(e.users, user)
	return user
}

func (e *env) addWorkspace(members ...models.WorkspaceMember) *models.Workspace {
	workspace := &models.Workspace{ID: primitive.NewObjectID(), Members: members}
	e.workspaces[workspace.ID] = workspace
	return workspace
}

func (e *env) addProject(workspaceID primitive.ObjectID, teamLeadID *primitive.ObjectID) *models.Project {
	project := &models.Project{ID: primitive.NewObjectID(), WorkspaceID: workspaceID, TeamLeadID: teamLeadID}
	e.projects.projects[project.ID] = project
	return project
}

func (e *env) do(t *testing.T, actorID primitive.ObjectID, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestCreateProjectStatusMapping(t *testing.T) {
	e := newEnv()
	admin := e.addUser("a@x.com")
	member := e.addUser("b@x.com")
	workspace := e.addWorkspace(
		models.WorkspaceMember{UserID: admin.ID, Role: models.RoleAdmin},
		models.WorkspaceMember{UserID: member.ID, Role: models.RoleMember},
	)

	rec := e.do(t, admin.ID, http.MethodPost, "/api/projects",
		`{"workspaceId":"`+primitive.NewObjectID().Hex()+`","name":"Apollo"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown workspace: status = %d, want 404", rec.Code)
	}

	rec = e.do(t, member.ID, http.MethodPost, "/api/projects",
		`{"workspaceId":"`+workspace.ID.Hex()+`","name":"Apollo"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: status = %d, want 403", rec.Code)
	}
	if len(e.projects.projects) != 0 {
		t.Errorf("projects stored after denied create = %d, want 0", len(e.projects.projects))
	}

	rec = e.do(t, admin.ID, http.MethodPost, "/api/projects",
		`{"workspaceId":"`+workspace.ID.Hex()+`","name":"Apollo","team_lead":"a@x.com","team_members":["b@x.com"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if msg := message(t, rec); msg != "Project created successfully" {
		t.Errorf("message = %q", msg)
	}
}

func TestCreateProjectRejectsBadPayload(t *testing.T) {
	e := newEnv()
	admin := e.addUser("a@x.com")

	rec := e.do(t, admin.ID, http.MethodPost, "/api/projects", `{"name":"no workspace"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing workspaceId: status = %d, want 400", rec.Code)
	}

	rec = e.do(t, admin.ID, http.MethodPost, "/api/projects", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}
}

func TestAddMemberStatusMapping(t *testing.T) {
	e := newEnv()
	lead := e.addUser("lead@x.com")
	other := e.addUser("other@x.com")
	e.addUser("b@x.com")
	workspace := e.addWorkspace(models.WorkspaceMember{UserID: lead.ID, Role: models.RoleAdmin})
	project := e.addProject(workspace.ID, &lead.ID)
	path := "/api/projects/" + project.ID.Hex() + "/members"

	// Permission failure is a 403, not a 404.
	rec := e.do(t, other.ID, http.MethodPost, path, `{"email":"b@x.com"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-lead: status = %d, want 403", rec.Code)
	}

	rec = e.do(t, lead.ID, http.MethodPost, path, `{"email":"nobody@x.com"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: status = %d, want 404", rec.Code)
	}

	rec = e.do(t, lead.ID, http.MethodPost, path, `{"email":"b@x.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add member: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, lead.ID, http.MethodPost, path, `{"email":"b@x.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate member: status = %d, want 400", rec.Code)
	}
	if msg := message(t, rec); msg != "User is already a member of this project" {
		t.Errorf("message = %q", msg)
	}
}

func TestUpdateProjectReturnsUpdatedEntity(t *testing.T) {
	e := newEnv()
	lead := e.addUser("lead@x.com")
	workspace := e.addWorkspace(models.WorkspaceMember{UserID: lead.ID, Role: models.RoleAdmin})
	project := e.addProject(workspace.ID, &lead.ID)

	rec := e.do(t, lead.ID, http.MethodPut, "/api/projects/"+project.ID.Hex(),
		`{"workspaceId":"`+workspace.ID.Hex()+`","name":"Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if msg := message(t, rec); msg != "Project updated successfully" {
		t.Errorf("message = %q", msg)
	}

	var body struct {
		Project struct {
			Name string `json:"name"`
		} `json:"project"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Project.Name != "Renamed" {
		t.Errorf("returned project name = %q, want Renamed", body.Project.Name)
	}
}

func TestCreateTaskStatusMapping(t *testing.T) {
	e := newEnv()
	lead := e.addUser("lead@x.com")
	stranger := e.addUser("stranger@x.com")
	workspace := e.addWorkspace(models.WorkspaceMember{UserID: lead.ID, Role: models.RoleAdmin})
	project := e.addProject(workspace.ID, &lead.ID)

	rec := e.do(t, lead.ID, http.MethodPost, "/api/tasks",
		`{"projectId":"`+primitive.NewObjectID().Hex()+`","title":"T","due_date":"2026-03-01"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown project: status = %d, want 404", rec.Code)
	}

	rec = e.do(t, stranger.ID, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID.Hex()+`","title":"T","due_date":"2026-03-01"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-lead: status = %d, want 403", rec.Code)
	}

	rec = e.do(t, lead.ID, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID.Hex()+`","title":"T","due_date":"2026-03-01","assigneeId":"`+stranger.ID.Hex()+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("assignee not a member: status = %d, want 403", rec.Code)
	}

	rec = e.do(t, lead.ID, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID.Hex()+`","title":"T"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing due_date: status = %d, want 400", rec.Code)
	}

	rec = e.do(t, lead.ID, http.MethodPost, "/api/tasks",
		`{"projectId":"`+project.ID.Hex()+`","title":"T","due_date":"2026-03-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create task: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if msg := message(t, rec); msg != "Task created successfully" {
		t.Errorf("message = %q", msg)
	}
}

func TestHandlersRequireIdentity(t *testing.T) {
	e := newEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no identity in context: status = %d, want 401", rec.Code)
	}
}
