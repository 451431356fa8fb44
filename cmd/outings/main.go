package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/outings/internal/cli"
	"github.com/alexanderramin/outings/internal/domain"
	"github.com/alexanderramin/outings/internal/journal"
	"github.com/alexanderramin/outings/internal/planner"
	"github.com/alexanderramin/outings/internal/session"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	plannerCfg := planner.LoadConfig()
	sessionCfg := session.LoadConfig()

	var callObserver planner.Observer = planner.NoopObserver{}
	if plannerCfg.LogCalls {
		callObserver = planner.NewLogObserver(os.Stderr)
	}

	// The journal lives for the process only.
	j, closeJournal, err := journal.Open(
		journal.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))),
	)
	if err != nil {
		return err
	}
	defer closeJournal()

	observers := []session.Observer{j}
	if sessionCfg.LogTransitions {
		observers = append(observers, session.NewLogObserver(os.Stderr))
	}

	controller := session.NewController(
		planner.NewHTTPClient(plannerCfg, callObserver),
		session.WithObserver(session.MultiObserver(observers...)),
		session.WithMaxRegenerations(sessionCfg.MaxRegenerations),
	)

	app := &cli.App{
		Session: controller,
		Journal: j,
		Prefs:   domain.NewPreferences(),
	}

	// The shell needs a terminal; otherwise the root command prints help.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
