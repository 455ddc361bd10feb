package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"

	"raildash/internal/models/dtos"
)

// NormalizeWaypoints rounds each coordinate to 6 decimal places (~0.11 m) so
// GPS jitter and float round-trips hash identically. Order is preserved:
// waypoint order is route direction, not a set.
func NormalizeWaypoints(waypoints []dtos.Waypoint) [][]float64 {
	normalized := make([][]float64, 0, len(waypoints))
	for _, wp := range waypoints {
		normalized = append(normalized, []float64{roundCoord(wp.Lat), roundCoord(wp.Lon)})
	}
	return normalized
}

func roundCoord(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// RouteHash derives the content hash that doubles as the store's dedup key.
// The key is a pure function of (normalized waypoints, profile, options,
// graph version) and never of geometry or distance. encoding/json emits map
// keys in sorted order with no extra whitespace, so semantically identical
// inputs always serialize identically.
func RouteHash(waypoints []dtos.Waypoint, profile string, options map[string]any, graphVersion string) string {
	if options == nil {
		options = map[string]any{}
	}
	key := map[string]any{
		"w": NormalizeWaypoints(waypoints),
		"p": profile,
		"o": options,
		"g": graphVersion,
	}

	serialized, _ := json.Marshal(key)
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}
