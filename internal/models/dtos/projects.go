package dtos

// ProjectIn carries the writable fields of a project.
type ProjectIn struct {
	Name              string   `json:"name"`
	ProjectNumber     string   `json:"project_number"`
	SuperiorProjectID *string  `json:"superior_project_id,omitempty"`
	Description       string   `json:"description"`
	LengthKm          *float64 `json:"length_km,omitempty"`
	GroupIDs          []string `json:"group_ids,omitempty"`
}

type ProjectOut struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	ProjectNumber     string   `json:"project_number"`
	SuperiorProjectID *string  `json:"superior_project_id,omitempty"`
	Description       string   `json:"description"`
	LengthKm          *float64 `json:"length_km,omitempty"`
	GroupIDs          []string `json:"group_ids"`
}

type ProjectGroupIn struct {
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Color       string `json:"color"`
}

type ProjectGroupOut struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	Color       string `json:"color"`
}
