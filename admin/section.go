package admin

import (
	"fmt"
	"strings"

	"github.com/appadook/full-stack-portfolio/internal/errors"
)

// Section is the admin view currently shown.
type Section string

const (
	SectionDashboard   Section = "dashboard"
	SectionExperiences Section = "experiences"
	SectionProjects    Section = "projects"
	SectionSkills      Section = "skills"
)

var Sections = []Section{SectionDashboard, SectionExperiences, SectionProjects, SectionSkills}

func ParseSection(s string) (Section, error) {
	section := Section(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sections {
		if section == known {
			return section, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownSection, s)
}
