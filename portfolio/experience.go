package portfolio

import "strings"

// Experience is one entry of the work-experience timeline.
type Experience struct {
	ID           ID         `json:"id,omitempty" yaml:"id,omitempty"`
	Title        string     `json:"title" yaml:"title"`
	Company      string     `json:"company" yaml:"company"`
	Duration     string     `json:"duration" yaml:"duration"`
	Description  []string   `json:"description" yaml:"description"`
	Technologies []string   `json:"technologies" yaml:"technologies"`
	Image        string     `json:"image" yaml:"image"`
	CreatedAt    *Timestamp `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt    *Timestamp `json:"updated_at,omitempty" yaml:"-"`
}

var _ Entity = Experience{}

func (Experience) EntityKind() Kind {
	return KindExperience
}

func (e Experience) EntityID() ID {
	return e.ID
}

// Validate applies the experience form rules. An empty result means the
// experience may be submitted.
func (e Experience) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(e.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(e.Company) == "" {
		errs["company"] = "Company is required"
	}
	if strings.TrimSpace(e.Duration) == "" {
		errs["duration"] = "Duration is required"
	}
	if len(e.Description) == 0 {
		errs["description"] = "At least one description point is required"
	}
	if len(e.Technologies) == 0 {
		errs["technologies"] = "At least one technology is required"
	}
	return errs
}
