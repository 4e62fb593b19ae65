package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ethyne2666/project-management/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskService struct {
	projects ProjectStore
	tasks    TaskStore
	users    UserStore
	gate     AuthorizationGate
	notifier Notifier
}

func NewTaskService(projects ProjectStore, tasks TaskStore, users UserStore, notifier Notifier) *TaskService {
	return &TaskService{
		projects: projects,
		tasks:    tasks,
		users:    users,
		notifier: notifier,
	}
}

type CreateTaskInput struct {
	ProjectID   primitive.ObjectID
	Title       string
	Description string
	Type        string
	Status      models.TaskStatus
	Priority    string
	AssigneeID  *primitive.ObjectID
	DueDate     string // required
}

// CreateTask creates a task in a project led by the actor. An assignee, when
// given, must be a current member of the project.
func (s *TaskService) CreateTask(ctx context.Context, actorID primitive.ObjectID, input CreateTaskInput) (*models.TaskDetail, error) {
	project, err := s.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFound("Project not found")
	}
	if !s.gate.IsProjectLead(project, actorID) {
		return nil, PermissionDenied("You do not have admin privileges")
	}

	if input.AssigneeID != nil {
		members, err := s.projects.ListMembers(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		isMember := false
		for _, m := range members {
			if m.UserID == *input.AssigneeID {
				isMember = true
				break
			}
		}
		if !isMember {
			return nil, PermissionDenied("Assignee is not a member of the project")
		}
	}

	if input.DueDate == "" {
		return nil, Invalid("due_date is required")
	}
	dueDate, err := parseDate(input.DueDate, "due_date")
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   project.ID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      status,
		Priority:    input.Priority,
		AssigneeID:  input.AssigneeID,
		DueDate:     *dueDate,
		CreatedBy:   actorID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}

	detail := &models.TaskDetail{Task: *task}
	if task.AssigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *task.AssigneeID)
		if err != nil {
			return nil, err
		}
		detail.Assignee = assignee
		if s.notifier != nil {
			s.notifier.Notify(ctx, *task.AssigneeID, fmt.Sprintf("You have been assigned a new task: %s", task.Title))
		}
	}
	return detail, nil
}

// ListProjectTasks returns the project's tasks joined with their assignees.
func (s *TaskService) ListProjectTasks(ctx context.Context, projectID primitive.ObjectID) ([]models.TaskDetail, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFound("Project not found")
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	details := make([]models.TaskDetail, 0, len(tasks))
	for _, task := range tasks {
		detail := models.TaskDetail{Task: task}
		if task.AssigneeID != nil {
			assignee, err := s.users.GetByID(ctx, *task.AssigneeID)
			if err != nil {
				return nil, err
			}
			detail.Assignee = assignee
		}
		details = append(details, detail)
	}
	return details, nil
}
