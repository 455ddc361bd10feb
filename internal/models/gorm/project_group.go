package gorm

type ProjectGroup struct {
	ID          string `gorm:"column:id;primaryKey;type:uuid"`
	Name        string `gorm:"column:name;size:100"`
	ShortName   string `gorm:"column:short_name;size:20;uniqueIndex"`
	Description string `gorm:"column:description"`
	Public      bool   `gorm:"column:public;default:false"`
	Color       string `gorm:"column:color;size:10;default:#FF0000"`

	Projects []Project `gorm:"many2many:project_to_project_group;joinForeignKey:ProjectGroupID;joinReferences:ProjectID"`
}

// TableName specifies the table name for GORM
func (ProjectGroup) TableName() string {
	return "project_group"
}
