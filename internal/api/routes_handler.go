package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"raildash/internal/models/dtos"
	"raildash/internal/models/entities"
	"raildash/internal/services"
)

// toRouteOut converts a persisted route into its external representation,
// decoding the stored WKB geometry back into GeoJSON. The bbox falls back to
// the geometry bounds when the stored polygon is missing.
func toRouteOut(route *entities.Route) (*dtos.RouteOut, error) {
	line, err := services.UnmarshalLine(route.Geom)
	if err != nil {
		return nil, err
	}

	var minx, miny, maxx, maxy float64
	if len(route.Bbox) > 0 {
		polygon, err := services.UnmarshalPolygon(route.Bbox)
		if err != nil {
			return nil, err
		}
		bounds := polygon.Bounds()
		minx, miny, maxx, maxy = bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1)
	} else {
		bounds := line.Bounds()
		minx, miny, maxx, maxy = bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1)
	}

	details := map[string]any{}
	if len(route.Details) > 0 {
		if err := json.Unmarshal(route.Details, &details); err != nil {
			return nil, err
		}
	}

	coords := line.Coords()
	coordinates := make([][]float64, 0, len(coords))
	for _, c := range coords {
		coordinates = append(coordinates, []float64{c.X(), c.Y()})
	}

	return &dtos.RouteOut{
		RouteID:    route.ID,
		ProjectID:  route.ProjectID,
		DistanceM:  route.DistanceM,
		DurationMs: route.DurationMs,
		Bbox:       []float64{minx, miny, maxx, maxy},
		GeomGeoJSON: dtos.FeatureGeometry{
			Type:        "LineString",
			Coordinates: coordinates,
		},
		Details: details,
	}, nil
}

// respondRouteError maps the service error taxonomy onto HTTP statuses:
// validation and no-path are client errors, upstream failures are a bad
// gateway, absence is not found.
func respondRouteError(w http.ResponseWriter, err error) {
	var noPath *services.NoPathError
	var upstream *services.UpstreamError
	var validation *services.ValidationError

	switch {
	case errors.As(err, &validation):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &noPath):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &upstream):
		respondWithError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, services.ErrRouteNotFound):
		respondWithError(w, http.StatusNotFound, "route not found")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// CalculateRouteHandler handles POST /api/v1/routes/calculate.
//
// Calculates a route and returns it as a GeoJSON Feature preview. Nothing is
// saved; the client can evaluate the result, then call the confirm endpoint
// to persist it.
func CalculateRouteHandler(svc *services.RouteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in dtos.RouteIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		feature, err := svc.CalculateOnly(r.Context(), in)
		if err != nil {
			respondRouteError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, feature)
	}
}

// ComputeRouteHandler handles POST /api/v1/projects/{projectID}/routes/compute.
//
// Calculates and persists in one step, answering from the durable cache when
// the identical request was computed before.
func ComputeRouteHandler(svc *services.RouteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		var in dtos.RouteIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		route, err := svc.ComputeAndStore(r.Context(), projectID, in)
		if err != nil {
			respondRouteError(w, err)
			return
		}
		writeRoute(w, http.StatusCreated, route)
	}
}

// ConfirmRouteHandler handles POST /api/v1/projects/{projectID}/routes.
//
// Persists a previously calculated GeoJSON Feature and links it to the
// project.
func ConfirmRouteHandler(svc *services.RouteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}

		var in dtos.RouteConfirmIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		route, err := svc.ConfirmAndStore(r.Context(), projectID, in.Feature)
		if err != nil {
			respondRouteError(w, err)
			return
		}
		writeRoute(w, http.StatusCreated, route)
	}
}

// ReplaceRouteHandler handles PUT /api/v1/projects/{projectID}/routes/{routeID}.
//
// Replaces an existing route's geometry and metadata in place. A route id
// belonging to a different project reads as not found.
func ReplaceRouteHandler(svc *services.RouteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}
		routeID, ok := pathUUID(w, r, "routeID")
		if !ok {
			return
		}

		var in dtos.RouteConfirmIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		route, err := svc.ConfirmAndReplace(r.Context(), projectID, routeID, in.Feature)
		if err != nil {
			respondRouteError(w, err)
			return
		}
		writeRoute(w, http.StatusOK, route)
	}
}

// ListRoutesHandler handles GET /api/v1/projects/{projectID}/routes.
func ListRoutesHandler(svc *services.RouteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := pathUUID(w, r, "projectID")
		if !ok {
			return
		}
		limit := queryInt(r, "limit", 50)
		offset := queryInt(r, "offset", 0)

		routes, err := svc.ListForProject(r.Context(), projectID, limit, offset)
		if err != nil {
			respondRouteError(w, err)
			return
		}

		out := make([]dtos.RouteOut, 0, len(routes))
		for i := range routes {
			converted, err := toRouteOut(&routes[i])
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "route geometry invalid")
				return
			}
			out = append(out, *converted)
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// GetRouteHandler handles GET /api/v1/routes/{routeID}.
func GetRouteHandler(svc *services.RouteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID, ok := pathUUID(w, r, "routeID")
		if !ok {
			return
		}

		route, err := svc.GetByID(r.Context(), routeID)
		if err != nil {
			respondRouteError(w, err)
			return
		}
		writeRoute(w, http.StatusOK, route)
	}
}

func writeRoute(w http.ResponseWriter, statusCode int, route *entities.Route) {
	out, err := toRouteOut(route)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "route geometry invalid")
		return
	}
	respondJSON(w, statusCode, out)
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	raw := chi.URLParam(r, param)
	if _, err := uuid.Parse(raw); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid "+param)
		return "", false
	}
	return raw, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
