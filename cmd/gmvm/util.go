package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scope"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = formatError(msg)
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

// formatError renders script faults with their call stack.
func formatError(err error) string {
	var se *errz.StructuredError
	if errors.As(err, &se) {
		return strings.TrimRight(se.FriendlyErrorMessage(), "\n")
	}
	return err.Error()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func isTerminalIO() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// Reads global flags from the config and adjusts the environment
// accordingly.
func (a *app) processGlobalFlags(cmd *cobra.Command) error {
	noColor := a.v.GetBool("no-color") || !isTerminal(os.Stderr)
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if a.v.GetBool("verbose") && level > zerolog.TraceLevel {
		level = zerolog.TraceLevel
	}
	a.logger = newLogger(cmd.ErrOrStderr(), level, noColor)
	return nil
}

func newLogger(w io.Writer, level zerolog.Level, noColor bool) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

var outputFormatsCompletion = []string{"json", "text"}

func (a *app) getOutput(result object.Object, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		// With an unspecified format, we'll try to do the most helpful thing:
		//  1. If the result is undefined, we want to print nothing
		//  2. If the result marshals to JSON, we'll print that
		//  3. Otherwise, we'll print the result's string representation
		if object.IsUndefined(result) {
			return "", nil
		}
		output, err := a.getOutputJSON(result.Interface())
		if err != nil {
			return result.Inspect(), nil
		}
		return string(output), nil
	case "json":
		output, err := a.getOutputJSON(result.Interface())
		if err != nil {
			return "", err
		}
		return string(output), nil
	case "text":
		return object.AsString(result), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func (a *app) getOutputJSON(value any) ([]byte, error) {
	if a.v.GetBool("no-color") || color.NoColor {
		return json.MarshalIndent(value, "", "  ")
	}
	return prettyjson.Marshal(value)
}

// globalsJSON renders the global table as a JSON object.
func (a *app) globalsJSON(globals *scope.Table) ([]byte, error) {
	snapshot := globals.Snapshot()
	values := make(map[string]any, len(snapshot))
	for name, value := range snapshot {
		values[name] = value.Interface()
	}
	return a.getOutputJSON(values)
}
