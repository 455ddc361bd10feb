package gorm

import "time"

// Route mirrors the routes table for the GORM-backed store. The sqlx store
// reads the same table through entities.Route.
type Route struct {
	ID           string    `gorm:"column:id;primaryKey"`
	ProjectID    string    `gorm:"column:project_id;index"`
	Profile      string    `gorm:"column:profile;not null"`
	GraphVersion string    `gorm:"column:graph_version;not null"`
	DistanceM    float64   `gorm:"column:distance_m;not null"`
	DurationMs   int64     `gorm:"column:duration_ms;not null"`
	Geom         []byte    `gorm:"column:geom;not null"`
	Bbox         []byte    `gorm:"column:bbox"`
	Details      []byte    `gorm:"column:details"`
	CacheKey     string    `gorm:"column:cache_key;uniqueIndex;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Route) TableName() string {
	return "routes"
}
