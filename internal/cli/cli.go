package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/oconfig/internal/app"
	"github.com/spf13/pflag"
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

func printUsage(output io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(output, `
oconfig - decodes a collectd-style configuration tree into typed plugin configs.

Usage:
  oconfig [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to a single .hcl, .conf, .yaml or .yml file, or a directory of them.

Options:
`)
	fmt.Fprint(output, flagSet.FlagUsages())
}

// Parse processes command-line arguments. It returns a populated AppConfig,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("oconfig", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() { printUsage(output, flagSet) }

	configFlag := flagSet.StringP("config", "c", "", "Path to the config file or directory.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	strictFlag := flagSet.Bool("strict", false, "Reject unknown keys in every config record.")
	checkedFlag := flagSet.Bool("checked-numbers", false, "Reject fractional or out of range numbers for integer fields.")
	dumpFlag := flagSet.Bool("dump", false, "Print the decoded configuration as YAML.")
	helpFlag := flagSet.BoolP("help", "h", false, "Show this help.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *helpFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	path := *configFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 || (*configFlag != "" && flagSet.NArg() > 0) {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument: %s", flagSet.Arg(flagSet.NArg()-1))}
	}
	slog.Debug("Config path determined.", "path", path)

	if path == "" {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath:     path,
		LogFormat:      strings.ToLower(*logFormatFlag),
		LogLevel:       strings.ToLower(*logLevelFlag),
		Strict:         *strictFlag,
		CheckedNumbers: *checkedFlag,
		Dump:           *dumpFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
