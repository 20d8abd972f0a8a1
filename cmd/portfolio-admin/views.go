package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/appadook/full-stack-portfolio/admin"
	"github.com/appadook/full-stack-portfolio/internal/utils"
	"github.com/appadook/full-stack-portfolio/portfolio"
	"github.com/appadook/full-stack-portfolio/public"
	"github.com/appadook/full-stack-portfolio/seed"
)

func (a *app) cmdHome(ctx context.Context) error {
	displayAppname(a.cfg.GetAppName())
	sections := public.NewSections(a.experiences, a.projects, a.local)

	experiences, usingLocal := sections.Experiences(ctx)
	heading("Experience")
	if usingLocal {
		color.Yellow("  (backend unavailable, showing bundled experiences)\n")
	}
	printExperiences(experiences)

	projects, usingLocal := sections.Projects(ctx)
	heading("Projects")
	if usingLocal {
		color.Yellow("  (backend unavailable, showing bundled projects)\n")
	}
	fmt.Printf("  Filters: %s\n\n", utils.JoinOrDash(public.Categories(projects)))
	printProjects(projects)
	return nil
}

func (a *app) newController() *admin.Controller {
	return admin.NewController(a.experiences, a.projects, a.local.Skills)
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	section := a.cfg.GetDefaultSection()
	if len(args) > 0 {
		section = args[0]
	}

	return a.guarded(ctx, func(ctx context.Context) error {
		controller := a.newController()
		if err := controller.Navigate(section); err != nil {
			return err
		}
		controller.Mount(ctx)
		if msg := controller.Error(); msg != "" {
			return fmt.Errorf("%s", msg)
		}

		switch controller.ActiveSection() {
		case admin.SectionDashboard:
			printDashboard(controller.Counts())
		case admin.SectionExperiences:
			heading("Manage Experiences")
			printExperiences(controller.Experiences())
		case admin.SectionProjects:
			heading("Manage Projects")
			printProjects(controller.Projects())
		case admin.SectionSkills:
			heading("Manage Skills")
			printSkills(controller.Skills())
		}
		return nil
	})
}

func heading(title string) {
	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  " + title)
	cyan.Println("  " + strings.Repeat("-", len(title)))
}

func printDashboard(counts admin.Counts) {
	heading("Dashboard")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Experiences\t%d\n", counts.Experiences)
	fmt.Fprintf(w, "  Projects\t%d\n", counts.Projects)
	fmt.Fprintf(w, "  Skills\t%d\n", counts.Skills)
	w.Flush()
	fmt.Println()
}

func printExperiences(items []portfolio.Experience) {
	if len(items) == 0 {
		fmt.Println("  (no experiences)")
		fmt.Println()
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tTITLE\tCOMPANY\tDURATION\tTECHNOLOGIES\tCREATED")
	fmt.Fprintln(w, "  --\t-----\t-------\t--------\t------------\t-------")
	for _, e := range items {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			idOrDash(e.ID),
			utils.Truncate(e.Title, 32),
			utils.Truncate(e.Company, 24),
			e.Duration,
			utils.Truncate(utils.JoinOrDash(e.Technologies), 32),
			portfolio.FormatTimestamp(e.CreatedAt))
	}
	w.Flush()
	fmt.Println()
}

func printProjects(items []portfolio.Project) {
	if len(items) == 0 {
		fmt.Println("  (no projects)")
		fmt.Println()
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tTITLE\tCATEGORIES\tTECHNOLOGIES\tCREATED")
	fmt.Fprintln(w, "  --\t-----\t----------\t------------\t-------")
	for _, p := range items {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			idOrDash(p.ID),
			utils.Truncate(p.Title, 32),
			utils.Truncate(utils.JoinOrDash(p.Category), 28),
			utils.Truncate(utils.JoinOrDash(p.Technologies), 32),
			portfolio.FormatTimestamp(p.CreatedAt))
	}
	w.Flush()
	fmt.Println()
}

func printSkills(categories []seed.SkillCategory) {
	for i, c := range categories {
		names := make([]string, 0, len(c.Skills))
		for _, s := range c.Skills {
			names = append(names, s.Name)
		}
		fmt.Printf("  %d. %s: %s\n", i+1, c.Category, utils.JoinOrDash(names))
	}
	fmt.Println()
}

func idOrDash(id portfolio.ID) string {
	if id.IsNew() {
		return "-"
	}
	return utils.Truncate(id.String(), 12)
}
