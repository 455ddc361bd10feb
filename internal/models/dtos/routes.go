package dtos

import "encoding/json"

// Waypoint is a single input coordinate the route must pass through, in
// caller-specified order.
type Waypoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteIn is the request body for route calculation.
type RouteIn struct {
	Waypoints []Waypoint     `json:"waypoints"`
	Profile   string         `json:"profile"`
	Options   map[string]any `json:"options"`
}

// RouteConfirmIn wraps the GeoJSON Feature a client sends back to persist a
// previously calculated preview.
type RouteConfirmIn struct {
	Feature RouteFeature `json:"feature"`
}

// FeatureGeometry is a GeoJSON LineString geometry.
type FeatureGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// RouteFeature is the transient preview representation returned by the
// calculate endpoint and accepted back by the confirm endpoints. Properties
// stay loosely typed: every field is individually optional on confirm.
type RouteFeature struct {
	Type       string          `json:"type"`
	Geometry   FeatureGeometry `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// RouteOut is the external representation of a persisted route.
type RouteOut struct {
	RouteID     string          `json:"route_id"`
	ProjectID   string          `json:"project_id"`
	DistanceM   float64         `json:"distance_m"`
	DurationMs  int64           `json:"duration_ms"`
	Bbox        []float64       `json:"bbox"`
	GeomGeoJSON FeatureGeometry `json:"geom_geojson"`
	Details     map[string]any  `json:"details"`
}

// RoutingEngineResponse is the wire shape returned by the routing engine.
// Only the first path is used; the optional fields feed the details map.
type RoutingEngineResponse struct {
	Paths []RoutingPath `json:"paths"`
}

type RoutingPath struct {
	Distance         float64         `json:"distance"`
	Time             int64           `json:"time"`
	Points           *PathPoints     `json:"points"`
	SnappedWaypoints json.RawMessage `json:"snapped_waypoints,omitempty"`
	Ascend           *float64        `json:"ascend,omitempty"`
	Descend          *float64        `json:"descend,omitempty"`
}

type PathPoints struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}
