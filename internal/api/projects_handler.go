package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"raildash/internal/models/dtos"
	"raildash/internal/services"
)

func respondCRUDError(w http.ResponseWriter, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

// ListProjectsHandler handles GET /api/v1/projects.
func ListProjectsHandler(svc *services.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 50)
		offset := queryInt(r, "offset", 0)

		projects, err := svc.ListProjects(r.Context(), limit, offset)
		if err != nil {
			respondCRUDError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, projects)
	}
}

// GetProjectHandler handles GET /api/v1/projects/{projectID}.
func GetProjectHandler(svc *services.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		project, err := svc.GetProject(r.Context(), projectID)
		if err != nil {
			respondCRUDError(w, err)
			return
		}
		if project == nil {
			respondWithError(w, http.StatusNotFound, "project not found")
			return
		}
		respondJSON(w, http.StatusOK, project)
	}
}

// CreateProjectHandler handles POST /api/v1/projects.
func CreateProjectHandler(svc *services.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dtos.ProjectIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		project, err := svc.CreateProject(r.Context(), in)
		if err != nil {
			respondCRUDError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, project)
	}
}

// UpdateProjectHandler handles PUT /api/v1/projects/{projectID}.
func UpdateProjectHandler(svc *services.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		var in dtos.ProjectIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		project, err := svc.UpdateProject(r.Context(), projectID, in)
		if err != nil {
			respondCRUDError(w, err)
			return
		}
		if project == nil {
			respondWithError(w, http.StatusNotFound, "project not found")
			return
		}
		respondJSON(w, http.StatusOK, project)
	}
}

// ListProjectGroupsHandler handles GET /api/v1/project-groups.
func ListProjectGroupsHandler(svc *services.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := svc.ListGroups(r.Context())
		if err != nil {
			respondCRUDError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, groups)
	}
}

// GetProjectGroupHandler handles GET /api/v1/project-groups/{groupID}.
func GetProjectGroupHandler(svc *services.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, ok := pathUUID(w, r, "groupID")
		if !ok {
			return
		}

		group, err := svc.GetGroup(r.Context(), groupID)
		if err != nil {
			respondCRUDError(w, err)
			return
		}
		if group == nil {
			respondWithError(w, http.StatusNotFound, "project group not found")
			return
		}
		respondJSON(w, http.StatusOK, group)
	}
}

// CreateProjectGroupHandler handles POST /api/v1/project-groups.
func CreateProjectGroupHandler(svc *services.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dtos.ProjectGroupIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		group, err := svc.CreateGroup(r.Context(), in)
		if err != nil {
			respondCRUDError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, group)
	}
}

// UpdateProjectGroupHandler handles PUT /api/v1/project-groups/{groupID}.
func UpdateProjectGroupHandler(svc *services.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := chi.URLParam(r, "groupID")
		if groupID == "" {
			respondWithError(w, http.StatusBadRequest, "invalid groupID")
			return
		}

		var in dtos.ProjectGroupIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		group, err := svc.UpdateGroup(r.Context(), groupID, in)
		if err != nil {
			respondCRUDError(w, err)
			return
		}
		if group == nil {
			respondWithError(w, http.StatusNotFound, "project group not found")
			return
		}
		respondJSON(w, http.StatusOK, group)
	}
}
