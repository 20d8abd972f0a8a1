package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/appadook/full-stack-portfolio/admin"
	"github.com/appadook/full-stack-portfolio/portfolio"
)

// entityCommand binds the generic CRUD subcommands to one entity kind.
type entityCommand[T portfolio.Entity] struct {
	kind   portfolio.Kind
	repo   portfolio.Repo[T]
	editor func(*admin.Controller) *admin.Editor[T]
	cached func(*admin.Controller) []T
	withID func(T, portfolio.ID) T
	print  func([]T)
}

func (a *app) cmdExperiences(ctx context.Context, args []string) error {
	return runEntityCommand(ctx, a, entityCommand[portfolio.Experience]{
		kind:   portfolio.KindExperience,
		repo:   a.experiences,
		editor: (*admin.Controller).ExperienceEditor,
		cached: (*admin.Controller).Experiences,
		withID: func(e portfolio.Experience, id portfolio.ID) portfolio.Experience {
			e.ID = id
			return e
		},
		print: printExperiences,
	}, args)
}

func (a *app) cmdProjects(ctx context.Context, args []string) error {
	return runEntityCommand(ctx, a, entityCommand[portfolio.Project]{
		kind:   portfolio.KindProject,
		repo:   a.projects,
		editor: (*admin.Controller).ProjectEditor,
		cached: (*admin.Controller).Projects,
		withID: func(p portfolio.Project, id portfolio.ID) portfolio.Project {
			p.ID = id
			return p
		},
		print: printProjects,
	}, args)
}

func runEntityCommand[T portfolio.Entity](ctx context.Context, a *app, cmd entityCommand[T], args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}
	collection := cmd.kind.Collection()

	switch subcmd {
	case "list", "ls":
		return a.guarded(ctx, func(ctx context.Context) error {
			items, err := cmd.repo.ListAll(ctx)
			if err != nil {
				return err
			}
			heading("Manage " + collection)
			cmd.print(items)
			return nil
		})

	case "get":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s get <id>", collection)
		}
		return a.guarded(ctx, func(ctx context.Context) error {
			item, err := cmd.repo.GetByID(ctx, portfolio.ID(args[0]))
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(item)
		})

	case "create", "add":
		item, err := readEntityFile[T](args)
		if err != nil {
			return fmt.Errorf("%w (usage: %s create -f <file.yaml>)", err, collection)
		}
		return a.guarded(ctx, func(ctx context.Context) error {
			return submit(ctx, a, cmd, cmd.withID(item, ""))
		})

	case "update", "edit":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s update <id> -f <file.yaml>", collection)
		}
		id := portfolio.ID(args[0])
		item, err := readEntityFile[T](args[1:])
		if err != nil {
			return fmt.Errorf("%w (usage: %s update <id> -f <file.yaml>)", err, collection)
		}
		return a.guarded(ctx, func(ctx context.Context) error {
			return submit(ctx, a, cmd, cmd.withID(item, id))
		})

	case "delete", "rm", "remove":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s delete <id>", collection)
		}
		var zero T
		target := cmd.withID(zero, portfolio.ID(args[0]))
		return a.guarded(ctx, func(ctx context.Context) error {
			controller := a.newController()
			editor := cmd.editor(controller)
			if !editor.Delete(ctx, target) {
				return fmt.Errorf("%s", editor.Banner())
			}
			color.Green("✓ Deleted %s %s\n", cmd.kind, target.EntityID())
			return showRefetched(controller, cmd)
		})

	default:
		return fmt.Errorf("unknown %s subcommand: %s (use list, get, create, update, delete)", collection, subcmd)
	}
}

func submit[T portfolio.Entity](ctx context.Context, a *app, cmd entityCommand[T], item T) error {
	controller := a.newController()
	editor := cmd.editor(controller)
	if !editor.Submit(ctx, item) {
		if fieldErrors := editor.FieldErrors(); !fieldErrors.OK() {
			return fieldErrors.Err()
		}
		return fmt.Errorf("%s", editor.Banner())
	}

	color.Green("✓ Saved %s\n", cmd.kind)
	return showRefetched(controller, cmd)
}

func showRefetched[T portfolio.Entity](controller *admin.Controller, cmd entityCommand[T]) error {
	if msg := controller.Error(); msg != "" {
		color.Yellow("⚠ %s\n", msg)
		return nil
	}
	heading("Manage " + cmd.kind.Collection())
	cmd.print(cmd.cached(controller))
	return nil
}

// readEntityFile decodes the YAML file named by -f. Unknown keys are rejected
// so typos do not silently drop fields.
func readEntityFile[T portfolio.Entity](args []string) (T, error) {
	var item T

	fs := flag.NewFlagSet("entity", flag.ContinueOnError)
	file := fs.String("f", "", "YAML file")
	if err := fs.Parse(args); err != nil {
		return item, err
	}
	if *file == "" {
		return item, fmt.Errorf("missing -f <file.yaml>")
	}

	f, err := os.Open(*file)
	if err != nil {
		return item, fmt.Errorf("opening %s: %w", *file, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&item); err != nil {
		return item, fmt.Errorf("parsing %s: %w", *file, err)
	}
	return item, nil
}
