package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/appadook/full-stack-portfolio/auth"
	"github.com/appadook/full-stack-portfolio/gateway"
	"github.com/appadook/full-stack-portfolio/internal/config"
	"github.com/appadook/full-stack-portfolio/internal/errors"
	"github.com/appadook/full-stack-portfolio/portfolio"
	"github.com/appadook/full-stack-portfolio/seed"
	"github.com/appadook/full-stack-portfolio/sessions"
	"github.com/appadook/full-stack-portfolio/token"
)

// app is everything a command needs. It is built once per invocation, so
// each guarded command starts from a fresh session guard.
type app struct {
	cfg         config.Config
	store       *token.FileStore
	auth        *auth.Service
	experiences *portfolio.Repository[portfolio.Experience]
	projects    *portfolio.Repository[portfolio.Project]
	local       *seed.Data
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Resolve()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.GetLogLevel())

	a, err := newApp(cfg)
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "home":
		err = a.cmdHome(ctx)
	case "login":
		err = a.cmdLogin(ctx, args)
	case "logout":
		err = a.cmdLogout(ctx)
	case "register":
		err = a.cmdRegister(ctx, args)
	case "admin":
		err = a.cmdAdmin(ctx, args)
	case "experiences", "experience":
		err = a.cmdExperiences(ctx, args)
	case "projects", "project":
		err = a.cmdProjects(ctx, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Not found: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			color.Yellow("Not logged in or session expired. Run: portfolio-admin login\n")
		} else {
			color.Red("Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApp(cfg config.Config) (*app, error) {
	local, err := seed.Load()
	if err != nil {
		return nil, fmt.Errorf("loading bundled data: %w", err)
	}

	store := token.NewFileStore(cfg.GetTokenFile())
	client := gateway.New(cfg.GetAPIURL(), store, gateway.WithTimeout(cfg.GetRequestTimeout()))

	return &app{
		cfg:         cfg,
		store:       store,
		auth:        auth.NewService(client, store),
		experiences: portfolio.NewExperienceRepo(client),
		projects:    portfolio.NewProjectRepo(client),
		local:       local,
	}, nil
}

// guarded runs fn behind a new session guard.
func (a *app) guarded(ctx context.Context, fn func(context.Context) error) error {
	guard := sessions.NewGuard(a.store, a.auth)
	return sessions.Protect(ctx, guard, fn)
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: portfolio-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  home                              Show the public experiences and projects")
	fmt.Println("  login [-u user]                   Log in and store the token pair")
	fmt.Println("  logout                            Forget both tokens")
	fmt.Println("  register -u user                  Create a backend account")
	fmt.Println("  admin [section]                   Show the admin portal (dashboard, experiences, projects, skills)")
	fmt.Println("  experiences list                  List experiences")
	fmt.Println("  experiences get <id>              Show one experience as YAML")
	fmt.Println("  experiences create -f <file>      Create an experience from a YAML file")
	fmt.Println("  experiences update <id> -f <file> Replace an experience from a YAML file")
	fmt.Println("  experiences delete <id>           Delete an experience")
	fmt.Println("  projects ...                      Same subcommands as experiences")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  PORTFOLIO_API_URL       Backend base URL (default: http://localhost:8000)")
	fmt.Println("  PORTFOLIO_TOKEN_FILE    Token file (default: $XDG_CONFIG_HOME/portfolio/tokens.json)")
	fmt.Println("  PORTFOLIO_CONFIG        Optional YAML config file")
	fmt.Println("  PORTFOLIO_PASSWORD      Password for login/register instead of prompting")
	fmt.Println("  LOG_LEVEL               zerolog level (default: info)")
	fmt.Println()
}
