package entities

import "time"

// Route is a persisted, cache-deduplicated route computation. Geometry and
// bbox are stored as WKB; details as raw JSON. The cache_key column carries a
// unique constraint, which is what makes Insert's dedup race-safe.
type Route struct {
	ID           string    `db:"id"`
	ProjectID    string    `db:"project_id"`
	Profile      string    `db:"profile"`
	GraphVersion string    `db:"graph_version"`
	DistanceM    float64   `db:"distance_m"`
	DurationMs   int64     `db:"duration_ms"`
	Geom         []byte    `db:"geom"`
	Bbox         []byte    `db:"bbox"`
	Details      []byte    `db:"details"`
	CacheKey     string    `db:"cache_key"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
