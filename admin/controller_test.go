package admin_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/appadook/full-stack-portfolio/admin"
	"github.com/appadook/full-stack-portfolio/gateway"
	"github.com/appadook/full-stack-portfolio/internal/errors"
	"github.com/appadook/full-stack-portfolio/internal/fakebackend"
	"github.com/appadook/full-stack-portfolio/portfolio"
	"github.com/appadook/full-stack-portfolio/seed"
	tokenfakerepo "github.com/appadook/full-stack-portfolio/token/repofake"
)

const (
	listExperiences = "GET /api/experiences/"
	listProjects    = "GET /api/projects/"
)

func experience(title string) portfolio.Experience {
	return portfolio.Experience{
		Title:        title,
		Company:      "Acme",
		Duration:     "2023 - 2024",
		Description:  []string{"Shipped things"},
		Technologies: []string{"Go"},
		Image:        "/acme.png",
	}
}

func project(title string) portfolio.Project {
	return portfolio.Project{
		Title:        title,
		Description:  "A project",
		Image:        "/project.png",
		Technologies: []string{"Go"},
		Category:     []string{"SWE"},
	}
}

type fixture struct {
	backend    *fakebackend.Backend
	controller *admin.Controller
}

func newFixture(t *testing.T, opts ...fakebackend.Option) *fixture {
	t.Helper()
	opts = append([]fakebackend.Option{fakebackend.WithUser("admin", "pw")}, opts...)
	backend, srv := fakebackend.NewServer(t, opts...)

	store := tokenfakerepo.NewSeededTokenStore(backend.IssueAccess("admin", time.Hour), backend.IssueRefresh("admin"))
	client := gateway.New(srv.URL, store)
	controller := admin.NewController(portfolio.NewExperienceRepo(client), portfolio.NewProjectRepo(client), seed.MustLoad().Skills)

	return &fixture{backend: backend, controller: controller}
}

func mount(t *testing.T, ctx context.Context, c *admin.Controller) {
	t.Helper()
	c.Mount(ctx)
	require.Empty(t, c.Error())
}

func TestController_Mount(t *testing.T) {
	ctx := context.Background()

	t.Run("loads both kinds", func(t *testing.T) {
		f := newFixture(t,
			fakebackend.WithRecords("experiences", experience("one"), experience("two")),
			fakebackend.WithRecords("projects", project("p1")))

		mount(t, ctx, f.controller)
		require.False(t, f.controller.Loading())
		require.Empty(t, f.controller.Error())
		require.Len(t, f.controller.Experiences(), 2)
		require.Len(t, f.controller.Projects(), 1)
		require.Equal(t, admin.Counts{Experiences: 2, Projects: 1, Skills: 13}, f.controller.Counts())
	})

	t.Run("one failure caches nothing", func(t *testing.T) {
		f := newFixture(t, fakebackend.WithRecords("experiences", experience("one")))
		f.backend.Fail(listProjects, http.StatusInternalServerError)

		f.controller.Mount(ctx)
		require.False(t, f.controller.Loading())
		require.Equal(t, admin.LoadFailedMessage, f.controller.Error())
		require.Nil(t, f.controller.Experiences())
		require.Nil(t, f.controller.Projects())
		require.Zero(t, f.controller.Generation(portfolio.KindExperience))
	})

	t.Run("a later mount clears the error", func(t *testing.T) {
		f := newFixture(t)
		f.backend.Fail(listExperiences, http.StatusBadGateway)
		f.controller.Mount(ctx)
		require.Equal(t, admin.LoadFailedMessage, f.controller.Error())

		f.backend.Heal(listExperiences)
		mount(t, ctx, f.controller)
		require.Empty(t, f.controller.Error())
		require.NotNil(t, f.controller.Experiences())
	})
}

func TestController_Navigate(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, admin.SectionDashboard, f.controller.ActiveSection())

	for _, section := range admin.Sections {
		require.NoError(t, f.controller.Navigate(string(section)))
		require.Equal(t, section, f.controller.ActiveSection())
	}

	require.ErrorIs(t, f.controller.Navigate("settings"), errors.ErrUnknownSection)
	require.Equal(t, admin.SectionSkills, f.controller.ActiveSection())
	require.Equal(t, 0, f.backend.TotalCalls(), "navigation never fetches")
}

func TestController_CreateRefetchesOnlyItsKind(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		fakebackend.WithRecords("experiences", experience("existing")),
		fakebackend.WithRecords("projects", project("p1"), project("p2")))
	mount(t, ctx, f.controller)

	projectsBefore := f.controller.Projects()
	projectGen := f.controller.Generation(portfolio.KindProject)
	experienceGen := f.controller.Generation(portfolio.KindExperience)

	require.True(t, f.controller.ExperienceEditor().Submit(ctx, experience("new")))

	experiences := f.controller.Experiences()
	require.Len(t, experiences, 2)
	require.Equal(t, "new", experiences[1].Title)
	require.False(t, experiences[1].ID.IsNew())
	require.Greater(t, f.controller.Generation(portfolio.KindExperience), experienceGen)

	projectsAfter := f.controller.Projects()
	require.Equal(t, projectGen, f.controller.Generation(portfolio.KindProject))
	require.Same(t, &projectsBefore[0], &projectsAfter[0])
	require.Equal(t, 1, f.backend.Calls(listProjects))
	require.Equal(t, 2, f.backend.Calls(listExperiences))
}

func TestController_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fakebackend.WithRecords("projects", project("p1"), project("p2")))
	mount(t, ctx, f.controller)
	editor := f.controller.ProjectEditor()

	edited := f.controller.Projects()[0]
	edited.Title = "renamed"
	require.True(t, editor.Submit(ctx, edited))
	require.Equal(t, "renamed", f.controller.Projects()[0].Title)
	require.NotNil(t, f.controller.Projects()[0].UpdatedAt)

	require.True(t, editor.Delete(ctx, f.controller.Projects()[1]))
	require.Len(t, f.controller.Projects(), 1)
	require.Equal(t, 3, f.backend.Calls(listProjects))
	require.Equal(t, 1, f.backend.Calls(listExperiences))
}

func TestController_RefetchFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fakebackend.WithRecords("projects", project("p1")))
	mount(t, ctx, f.controller)

	f.backend.Fail(listProjects, http.StatusInternalServerError)
	f.controller.Refetch(ctx, portfolio.KindProject)

	require.Equal(t, "Failed to refresh projects.", f.controller.Error())
	require.Len(t, f.controller.Projects(), 1, "failed refetch keeps the cache")
}

// gatedRepo hands each ListAll call to the test, which decides when and with
// what it returns.
type gatedRepo struct {
	portfolio.Repo[portfolio.Experience]
	calls chan chan []portfolio.Experience
}

func (g *gatedRepo) ListAll(context.Context) ([]portfolio.Experience, error) {
	reply := make(chan []portfolio.Experience)
	g.calls <- reply
	return <-reply, nil
}

func TestController_StaleRefetchIsDiscarded(t *testing.T) {
	ctx := context.Background()
	repo := &gatedRepo{calls: make(chan chan []portfolio.Experience)}
	controller := admin.NewController(repo, nil, nil)

	refetch := func() chan struct{} {
		done := make(chan struct{})
		go func() {
			controller.Refetch(ctx, portfolio.KindExperience)
			close(done)
		}()
		return done
	}

	doneOld := refetch()
	replyOld := <-repo.calls
	doneNew := refetch()
	replyNew := <-repo.calls

	replyNew <- []portfolio.Experience{experience("new-1"), experience("new-2")}
	<-doneNew
	replyOld <- []portfolio.Experience{experience("old")}
	<-doneOld

	require.Len(t, controller.Experiences(), 2)
	require.Equal(t, uint64(2), controller.Generation(portfolio.KindExperience))
}
