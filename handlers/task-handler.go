package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ethyne2666/project-management/middleware"
	"github.com/ethyne2666/project-management/models"
	"github.com/ethyne2666/project-management/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	ProjectID   string `json:"projectId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssigneeID  string `json:"assigneeId"`
	DueDate     string `json:"due_date" validate:"required"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing authenticated user")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var assigneeID *primitive.ObjectID
	if req.AssigneeID != "" {
		id, err := primitive.ObjectIDFromHex(req.AssigneeID)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid assignee ID")
			return
		}
		assigneeID = &id
	}

	task, err := h.service.CreateTask(r.Context(), actorID, services.CreateTaskInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      models.TaskStatus(req.Status),
		Priority:    req.Priority,
		AssigneeID:  assigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task":    task,
		"message": "Task created successfully",
	})
}

func (h *TaskHandler) GetTasksByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	tasks, err := h.service.ListProjectTasks(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}
