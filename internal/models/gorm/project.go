package gorm

// Project is an infrastructure project shown on the dashboard map. Only the
// fields the dashboard edits are modelled here; the import tooling owns the
// remaining attribute columns.
type Project struct {
	ID                string   `gorm:"column:id;primaryKey;type:uuid"`
	Name              string   `gorm:"column:name;not null"`
	ProjectNumber     string   `gorm:"column:project_number;uniqueIndex;not null"`
	SuperiorProjectID *string  `gorm:"column:superior_project_id;type:uuid"`
	Description       string   `gorm:"column:description"`
	LengthKm          *float64 `gorm:"column:length"`

	Groups []ProjectGroup `gorm:"many2many:project_to_project_group;joinForeignKey:ProjectID;joinReferences:ProjectGroupID"`
}

// TableName specifies the table name for GORM
func (Project) TableName() string {
	return "project"
}
