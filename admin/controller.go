// Package admin holds the state behind the admin portal: the cached entity
// lists, the active section, and the per-kind editors that write through the
// repositories.
package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/appadook/full-stack-portfolio/portfolio"
	"github.com/appadook/full-stack-portfolio/seed"
)

const LoadFailedMessage = "Failed to load data from server."

// Counts feeds the dashboard summary cards.
type Counts struct {
	Experiences int
	Projects    int
	Skills      int
}

// Controller owns one list cache per entity kind. A cache is only ever
// replaced wholesale by a successful fetch, and each fetch carries a request
// id so a slow response can never overwrite a newer one.
type Controller struct {
	experienceRepo portfolio.Repo[portfolio.Experience]
	projectRepo    portfolio.Repo[portfolio.Project]
	skills         []seed.SkillCategory

	experienceEditor *Editor[portfolio.Experience]
	projectEditor    *Editor[portfolio.Project]

	mu          sync.RWMutex
	experiences []portfolio.Experience
	projects    []portfolio.Project
	loading     bool
	errMsg      string
	section     Section
	issued      map[portfolio.Kind]uint64
	applied     map[portfolio.Kind]uint64
}

func NewController(experiences portfolio.Repo[portfolio.Experience], projects portfolio.Repo[portfolio.Project], skills []seed.SkillCategory) *Controller {
	c := &Controller{
		experienceRepo: experiences,
		projectRepo:    projects,
		skills:         skills,
		section:        SectionDashboard,
		issued:         make(map[portfolio.Kind]uint64),
		applied:        make(map[portfolio.Kind]uint64),
	}
	c.experienceEditor = newEditor(c, experiences, portfolio.KindExperience)
	c.projectEditor = newEditor(c, projects, portfolio.KindProject)
	return c
}

// Mount loads both lists concurrently. Both caches are replaced only when both
// fetches succeed; otherwise the error message is set and nothing is cached.
// Failures only surface through Error.
func (c *Controller) Mount(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	expID := c.nextRequestLocked(portfolio.KindExperience)
	projID := c.nextRequestLocked(portfolio.KindProject)
	c.mu.Unlock()

	var (
		experiences []portfolio.Experience
		projects    []portfolio.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		experiences, err = c.experienceRepo.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = c.projectRepo.ListAll(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		log.Err(err).Msg("Error fetching admin data")
		c.errMsg = LoadFailedMessage
		return
	}

	if c.acceptLocked(portfolio.KindExperience, expID) {
		c.experiences = experiences
	}
	if c.acceptLocked(portfolio.KindProject, projID) {
		c.projects = projects
	}
	c.errMsg = ""
}

// Refetch re-lists one kind after a mutation. The other kind's cache is left
// alone. Failures only surface through Error.
func (c *Controller) Refetch(ctx context.Context, kind portfolio.Kind) {
	c.mu.Lock()
	id := c.nextRequestLocked(kind)
	c.mu.Unlock()

	switch kind {
	case portfolio.KindExperience:
		items, err := c.experienceRepo.ListAll(ctx)
		c.finishRefetch(kind, id, err, func() { c.experiences = items })
	case portfolio.KindProject:
		items, err := c.projectRepo.ListAll(ctx)
		c.finishRefetch(kind, id, err, func() { c.projects = items })
	default:
		log.Error().Str("kind", string(kind)).Msg("Refetch of unknown kind ignored")
	}
}

func (c *Controller) finishRefetch(kind portfolio.Kind, id uint64, err error, apply func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Err(err).Str("kind", string(kind)).Msg("Error refetching")
		if c.issued[kind] == id {
			c.errMsg = fmt.Sprintf("Failed to refresh %s.", kind.Collection())
		}
		return
	}
	if !c.acceptLocked(kind, id) {
		log.Debug().Str("kind", string(kind)).Uint64("request", id).Msg("Discarding stale refetch")
		return
	}
	apply()
	c.errMsg = ""
}

func (c *Controller) nextRequestLocked(kind portfolio.Kind) uint64 {
	c.issued[kind]++
	return c.issued[kind]
}

// acceptLocked reports whether a response for request id is newer than the
// cache, and records it as applied if so.
func (c *Controller) acceptLocked(kind portfolio.Kind, id uint64) bool {
	if id <= c.applied[kind] {
		return false
	}
	c.applied[kind] = id
	return true
}

func (c *Controller) Experiences() []portfolio.Experience {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.experiences
}

func (c *Controller) Projects() []portfolio.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projects
}

func (c *Controller) Skills() []seed.SkillCategory {
	return c.skills
}

// Generation is the request id of the fetch currently held in kind's cache,
// zero before the first successful fetch.
func (c *Controller) Generation(kind portfolio.Kind) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied[kind]
}

func (c *Controller) Counts() Counts {
	c.mu.RLock()
	defer c.mu.RUnlock()

	skills := 0
	for _, category := range c.skills {
		skills += len(category.Skills)
	}
	return Counts{
		Experiences: len(c.experiences),
		Projects:    len(c.projects),
		Skills:      skills,
	}
}

// Navigate switches the active section. It never fetches.
func (c *Controller) Navigate(section string) error {
	s, err := ParseSection(section)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.section = s
	return nil
}

func (c *Controller) ActiveSection() Section {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.section
}

func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Error is the message shown in the portal's error banner, empty when there
// is none.
func (c *Controller) Error() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

func (c *Controller) ExperienceEditor() *Editor[portfolio.Experience] {
	return c.experienceEditor
}

func (c *Controller) ProjectEditor() *Editor[portfolio.Project] {
	return c.projectEditor
}
