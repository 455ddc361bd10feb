package services

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"

	"raildash/internal/models/dtos"
)

// BuildLine converts a raw routing path into a LineString, keeping the
// engine's (lon, lat) coordinate order. A line needs at least two points; a
// single coordinate is not a path.
func BuildLine(path *dtos.RoutingPath) (*geom.LineString, error) {
	if path.Points == nil || len(path.Points.Coordinates) < 2 {
		return nil, &NoPathError{Message: "routing path needs at least two coordinates"}
	}
	coords := make([]geom.Coord, 0, len(path.Points.Coordinates))
	for _, pair := range path.Points.Coordinates {
		if len(pair) < 2 {
			return nil, &NoPathError{Message: "routing path contains malformed coordinates"}
		}
		coords = append(coords, geom.Coord{pair[0], pair[1]})
	}
	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, fmt.Errorf("building line geometry: %w", err)
	}
	return line, nil
}

// BuildBbox returns the closed rectangular ring covering every point of the
// line. The bbox is always derived from geometry, never supplied by upstream.
func BuildBbox(line *geom.LineString) *geom.Polygon {
	bounds := line.Bounds()
	minx, miny := bounds.Min(0), bounds.Min(1)
	maxx, maxy := bounds.Max(0), bounds.Max(1)

	ring := []geom.Coord{
		{minx, miny},
		{maxx, miny},
		{maxx, maxy},
		{minx, maxy},
		{minx, miny},
	}
	polygon, _ := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	return polygon
}

// BuildDetails copies the allow-listed optional upstream fields into the
// metadata map. Absent fields are omitted, not defaulted to null.
func BuildDetails(path *dtos.RoutingPath) map[string]any {
	respMeta := map[string]any{}
	if path.SnappedWaypoints != nil {
		respMeta["snapped_waypoints"] = json.RawMessage(path.SnappedWaypoints)
	}
	if path.Ascend != nil {
		respMeta["ascend"] = *path.Ascend
	}
	if path.Descend != nil {
		respMeta["descend"] = *path.Descend
	}
	return map[string]any{
		"raw_service": "graphhopper",
		"encoded":     false,
		"resp_meta":   respMeta,
	}
}

func lineCoordinates(line *geom.LineString) [][]float64 {
	coords := line.Coords()
	out := make([][]float64, 0, len(coords))
	for _, c := range coords {
		out = append(out, []float64{c.X(), c.Y()})
	}
	return out
}

// MarshalGeometry encodes a geometry as WKB for storage.
func MarshalGeometry(g geom.T) ([]byte, error) {
	return wkb.Marshal(g, binary.LittleEndian)
}

// UnmarshalLine decodes a stored WKB LineString.
func UnmarshalLine(data []byte) (*geom.LineString, error) {
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding geometry: %w", err)
	}
	line, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("stored geometry is %T, expected LineString", g)
	}
	return line, nil
}

// UnmarshalPolygon decodes a stored WKB Polygon.
func UnmarshalPolygon(data []byte) (*geom.Polygon, error) {
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding bbox: %w", err)
	}
	polygon, ok := g.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("stored bbox is %T, expected Polygon", g)
	}
	return polygon, nil
}

// RouteParts is the reconstructed triple shared by the confirm paths: the
// geometry, its bbox and the validated properties.
type RouteParts struct {
	Line         *geom.LineString
	Bbox         *geom.Polygon
	Profile      string
	GraphVersion string
	DistanceM    float64
	DurationMs   int64
	Details      map[string]any
	CacheKey     string
}

// FeatureToParts extracts geometry and validated properties from a GeoJSON
// Feature previously emitted by CalculateOnly. Only geometry.coordinates is
// strictly required; every property is individually defaulted.
func (s *RouteService) FeatureToParts(feature dtos.RouteFeature) (*RouteParts, error) {
	if len(feature.Geometry.Coordinates) < 2 {
		return nil, &ValidationError{Message: "feature needs at least two coordinates"}
	}

	coords := make([]geom.Coord, 0, len(feature.Geometry.Coordinates))
	for _, pair := range feature.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, &ValidationError{Message: "feature contains malformed coordinates"}
		}
		coords = append(coords, geom.Coord{pair[0], pair[1]})
	}
	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, &ValidationError{Message: "feature geometry invalid: " + err.Error()}
	}

	props := feature.Properties
	if props == nil {
		props = map[string]any{}
	}

	parts := &RouteParts{
		Line:         line,
		Bbox:         BuildBbox(line),
		Profile:      propString(props, "profile", "rail_default"),
		GraphVersion: propString(props, "graph_version", s.graphVersion),
		DistanceM:    propFloat(props, "distance_m"),
		DurationMs:   propInt(props, "duration_ms"),
		Details:      propMap(props, "details"),
		CacheKey:     propString(props, "cache_key", ""),
	}
	if parts.CacheKey == "" {
		// Fallback for confirm payloads that omit the cache key: rehash with
		// empty waypoints and options. Such keys cannot collide with the
		// route's natural key, so dedup is effectively off for these rows.
		parts.CacheKey = RouteHash(nil, propString(props, "profile", ""), nil, s.graphVersion)
	}
	return parts, nil
}

func propString(props map[string]any, key, fallback string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func propFloat(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func propInt(props map[string]any, key string) int64 {
	switch v := props[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		i, _ := v.Int64()
		return i
	}
	return 0
}

func propMap(props map[string]any, key string) map[string]any {
	if v, ok := props[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}
