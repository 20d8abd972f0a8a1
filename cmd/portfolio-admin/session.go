package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const passwordEnvVar = "PORTFOLIO_PASSWORD"

var stdin = bufio.NewReader(os.Stdin)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := promptIfEmpty(*username, "Username: ")
	if err != nil {
		return err
	}
	password, err := readPassword()
	if err != nil {
		return err
	}

	if err := a.auth.Login(ctx, user, password); err != nil {
		return err
	}
	color.Green("✓ Logged in as %s\n", user)
	fmt.Printf("  Tokens: %s\n", a.store.Path())
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.auth.Logout(); err != nil {
		return err
	}
	color.Green("✓ Logged out\n")
	return a.cmdHome(ctx)
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("usage: register -u <username>")
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, *username, password)
	if err != nil {
		return err
	}
	color.Green("✓ Registered %s (id %d)\n", user.Username, user.ID)
	fmt.Println("  Run: portfolio-admin login -u " + user.Username)
	return nil
}

func readPassword() (string, error) {
	if password := os.Getenv(passwordEnvVar); password != "" {
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine()
	}

	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

func promptIfEmpty(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	return readLine()
}

func readLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
