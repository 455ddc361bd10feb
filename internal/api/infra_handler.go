package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"raildash/internal/models/dtos"
	"raildash/internal/services"
)

// FindSectionRouteHandler handles POST /api/v1/route.
//
// Finds the shortest path between two operational points over the imported
// section-of-line network. The graph search is delegated to the database.
func FindSectionRouteHandler(svc *services.InfraRoutingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RouteSearchIn
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ids, err := svc.FindSectionRoute(r.Context(), req.StartOp, req.EndOp)
		if err != nil {
			var validation *services.ValidationError
			if errors.As(err, &validation) {
				respondWithError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if len(ids) == 0 {
			respondWithError(w, http.StatusNotFound, "no route found")
			return
		}
		respondJSON(w, http.StatusOK, dtos.RouteSearchOut{SectionOfLineIDs: ids})
	}
}
