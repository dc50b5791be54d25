package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/specialistvlad/suitegraph/internal/app"
	"github.com/specialistvlad/suitegraph/internal/planner"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode reports the process exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("suitegraph", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
suitegraph - Resolves test suite catalogs into a dependency-ordered plan.

Usage:
  suitegraph [options] CATALOG_PATH...

Arguments:
  CATALOG_PATH
    A .hcl, .yaml or .yml file, or a directory searched recursively for them.

Options:
`)
		flagSet.PrintDefaults()
	}

	catalogs := flagSet.StringArrayP("catalog", "c", nil, "Catalog file or directory. May be repeated.")
	library := flagSet.StringArrayP("library", "l", nil, "Library file or directory whose suites are loaded only when needed. May be repeated.")
	roots := flagSet.StringSliceP("root", "r", nil, "Suite to plan, as <kind>.<name> or id. Defaults to every suite in the catalog.")
	vars := flagSet.StringToString("var", nil, "Variable available to HCL catalogs as var.<name>, e.g. --var region=eu.")
	order := flagSet.String("order", planner.DependentsFirst.String(), "Plan order: 'dependents-first' or 'dependencies-first'.")
	ignoreCycles := flagSet.Bool("ignore-cycles", false, "Order cyclic catalogs anyway instead of failing.")
	wait := flagSet.Duration("wait", 0, "How long to wait for missing dependencies to be registered. 0 fails immediately.")
	watch := flagSet.BoolP("watch", "w", false, "Keep running and re-plan whenever the catalog changes.")
	healthPort := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	help := flagSet.BoolP("help", "h", false, "Show this help.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	if *help {
		flagSet.Usage()
		return nil, true, nil
	}

	paths := append(append([]string{}, *catalogs...), flagSet.Args()...)
	slog.Debug("Catalog paths determined.", "paths", paths)
	if len(paths) == 0 {
		slog.Debug("No catalog path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	parsedOrder, err := planner.ParseOrder(*order)
	if err != nil {
		return nil, false, usageError("invalid order: %v", err)
	}

	config, err := app.NewConfig(app.Config{
		CatalogPaths:    paths,
		LibraryPaths:    *library,
		Variables:       *vars,
		Roots:           *roots,
		Order:           parsedOrder,
		IgnoreCycles:    *ignoreCycles,
		WaitTimeout:     *wait,
		Watch:           *watch,
		LogFormat:       strings.ToLower(*logFormat),
		LogLevel:        strings.ToLower(*logLevel),
		HealthcheckPort: *healthPort,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
