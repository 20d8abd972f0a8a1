package portfolio

import "strings"

// Project is one card of the project gallery.
type Project struct {
	ID           ID         `json:"id,omitempty" yaml:"id,omitempty"`
	Title        string     `json:"title" yaml:"title"`
	Description  string     `json:"description" yaml:"description"`
	Image        string     `json:"image" yaml:"image"`
	Technologies []string   `json:"technologies" yaml:"technologies"`
	Category     []string   `json:"category" yaml:"category"`
	CreatedAt    *Timestamp `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt    *Timestamp `json:"updated_at,omitempty" yaml:"-"`
}

var _ Entity = Project{}

func (Project) EntityKind() Kind {
	return KindProject
}

func (p Project) EntityID() ID {
	return p.ID
}

func (p Project) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(p.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		errs["description"] = "Description is required"
	}
	if strings.TrimSpace(p.Image) == "" {
		errs["image"] = "Image URL is required"
	}
	if len(p.Technologies) == 0 {
		errs["technologies"] = "At least one technology is required"
	}
	if len(p.Category) == 0 {
		errs["category"] = "At least one category is required"
	}
	return errs
}

// HasCategory reports whether the project is tagged with category.
func (p Project) HasCategory(category string) bool {
	for _, c := range p.Category {
		if c == category {
			return true
		}
	}
	return false
}
