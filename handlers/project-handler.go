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

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type createProjectRequest struct {
	WorkspaceID string   `json:"workspaceId" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Progress    int      `json:"progress"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	TeamLead    string   `json:"team_lead"`
	TeamMembers []string `json:"team_members"`
}

type updateProjectRequest struct {
	WorkspaceID string  `json:"workspaceId" validate:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Progress    *int    `json:"progress"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	TeamLead    *string `json:"team_lead"`
}

type addMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing authenticated user")
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	workspaceID, err := primitive.ObjectIDFromHex(req.WorkspaceID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid workspace ID")
		return
	}

	project, err := h.service.CreateProject(r.Context(), actorID, services.CreateProjectInput{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProjectStatus(req.Status),
		Priority:    req.Priority,
		Progress:    req.Progress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TeamLead:    req.TeamLead,
		TeamMembers: req.TeamMembers,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project": project,
		"message": "Project created successfully",
	})
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing authenticated user")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	workspaceID, err := primitive.ObjectIDFromHex(req.WorkspaceID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid workspace ID")
		return
	}

	input := services.UpdateProjectInput{
		ID:          projectID,
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Progress:    req.Progress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TeamLead:    req.TeamLead,
	}
	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		input.Status = &status
	}

	project, err := h.service.UpdateProject(r.Context(), actorID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project": project,
		"message": "Project updated successfully",
	})
}

func (h *ProjectHandler) AddMemberToProject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing authenticated user")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.service.AddMember(r.Context(), actorID, projectID, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"member":  member,
		"message": "Member added successfully",
	})
}

func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.service.GetProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Missing authenticated user")
		return
	}

	workspaceID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("workspaceId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid workspace ID")
		return
	}

	projects, err := h.service.ListProjects(r.Context(), actorID, workspaceID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProjectMembers(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	members, err := h.service.GetProjectMembers(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}
