// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's internal configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/hclmod/internal/app"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("hclmod", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
hclmod - Resolve and inspect HCL modules.

Usage:
  hclmod [options] MODULE_ID

Arguments:
  MODULE_ID
    Dotted module identifier to resolve, e.g. "geo.points".

Options:
`)
		flagSet.PrintDefaults()
	}

	entryDirFlag := flagSet.String("entry-dir", ".", "Directory treated as the entry script's location; always first on the search path.")
	pathFlag := flagSet.String("path", "", "Extra search path entries, separated by the platform path list separator.")
	noCacheFlag := flagSet.Bool("no-cache", false, "Skip reading and writing the compiled module cache.")
	discoverFlag := flagSet.Bool("discover", false, "List every resolvable module on the search path instead of resolving one.")
	outputFlag := flagSet.String("output", "text", "Namespace listing format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	moduleID := ""
	if flagSet.NArg() > 0 {
		moduleID = flagSet.Arg(0)
	}

	if moduleID == "" && !*discoverFlag {
		slog.Debug("No module identifier provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	outputFormat := strings.ToLower(*outputFlag)
	if outputFormat != "text" && outputFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'text' or 'json'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ModuleID:  moduleID,
		EntryDir:  *entryDirFlag,
		ExtraPath: *pathFlag,
		NoCache:   *noCacheFlag,
		Discover:  *discoverFlag,
		Output:    outputFormat,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
