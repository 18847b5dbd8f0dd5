// Command scolary is the admin client of the Scolary REST API.
//
// Usage:
//
//	scolary <command> [subcommand] [options]
//
// Configuration comes from CONFIG_PATH (fallback ./scolary.yaml) and the
// SCOLARY_* environment variables. Exit codes: 0 = success, 1 = error,
// 2 = usage error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/heartmarshall/scolary/internal/app"
	"github.com/heartmarshall/scolary/internal/config"
)

// env is what every command runs against.
type env struct {
	app    *app.App
	stdin  io.Reader
	stdout io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"login":                {"exchange credentials for a token", runLogin},
	"logout":               {"forget the stored token", runLogout},
	"whoami":               {"show the current session and account", runWhoami},
	"mentions":             {"list|create|delete mentions", runMentions},
	"journeys":             {"list journeys", runJourneys},
	"teaching-units":       {"list teaching units", runTeachingUnits},
	"constituent-elements": {"list constituent elements", runConstituentElements},
	"groups":               {"list groups", runGroups},
	"offerings":            {"list constituent element offerings", runOfferings},
	"cards":                {"list cards or render one to PDF", runCards},
	"students":             {"list students or look one up by card number", runStudents},
	"notifications":        {"watch the notification stream", runNotifications},
	"theme":                {"get|set the UI theme", runTheme},
	"users":                {"promote a user to admin", runUsers},
	"filters":              {"clear the saved page filters", runFilters},
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		return 2
	}
	if args[0] == "version" {
		fmt.Fprintln(stdout, app.BuildVersion())
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "scolary: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "scolary: %v\n", err)
		return 1
	}
	logger := app.NewLogger(cfg.Log)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("init", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close", slog.String("error", err.Error()))
		}
	}()

	err = cmd.run(ctx, &env{app: a, stdin: stdin, stdout: stdout}, args[1:])
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "scolary %s: %v\n", args[0], err)
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %s\n", message(err))
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: scolary <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-22s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "  %-22s %s\n", "version", "print the build version")
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("scolary "+name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// subcommand splits "list -x" style arguments.
func subcommand(args []string, allowed ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%w: expected one of %v", errUsage, allowed)
	}
	for _, a := range allowed {
		if args[0] == a {
			return a, args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("%w: unknown subcommand %q, expected one of %v", errUsage, args[0], allowed)
}
