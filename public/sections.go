// Package public backs the read-only portfolio views. Unlike the admin
// portal, these views fall back to the bundled content when the backend is
// unavailable.
package public

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/appadook/full-stack-portfolio/portfolio"
	"github.com/appadook/full-stack-portfolio/seed"
)

const (
	AllCategories = "All"
	OtherCategory = "Other"
)

// Lister is the read side of a portfolio repository.
type Lister[T portfolio.Entity] interface {
	ListAll(ctx context.Context) ([]T, error)
}

type Sections struct {
	experiences Lister[portfolio.Experience]
	projects    Lister[portfolio.Project]
	local       *seed.Data
}

func NewSections(experiences Lister[portfolio.Experience], projects Lister[portfolio.Project], local *seed.Data) *Sections {
	return &Sections{
		experiences: experiences,
		projects:    projects,
		local:       local,
	}
}

// Experiences returns the experience timeline. usingLocalData is true when
// the backend failed and the bundled entries are returned instead.
func (s *Sections) Experiences(ctx context.Context) (items []portfolio.Experience, usingLocalData bool) {
	items, err := s.experiences.ListAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Falling back to local experience data")
		return s.local.Experiences, true
	}
	return items, false
}

func (s *Sections) Projects(ctx context.Context) (items []portfolio.Project, usingLocalData bool) {
	items, err := s.projects.ListAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Falling back to local project data")
		return s.local.Projects, true
	}
	return items, false
}

// Categories lists the project filter options: "All", each category in the
// order first seen, then "Other". Duplicates are dropped.
func Categories(projects []portfolio.Project) []string {
	seen := map[string]bool{AllCategories: true}
	categories := []string{AllCategories}
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}

	for _, p := range projects {
		for _, c := range p.Category {
			add(c)
		}
	}
	add(OtherCategory)
	return categories
}

// FilterProjects returns the projects tagged with category, or all of them
// for "All".
func FilterProjects(projects []portfolio.Project, category string) []portfolio.Project {
	if category == AllCategories {
		return projects
	}
	filtered := make([]portfolio.Project, 0, len(projects))
	for _, p := range projects {
		if p.HasCategory(category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
