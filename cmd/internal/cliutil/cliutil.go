// Package cliutil holds the plumbing shared by the img2ascii commands:
// environment defaults, tracing setup, terminal output and exit codes.
package cliutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/wbrown/img2ascii"
)

// Environment variables that provide flag defaults.
const (
	EnvTable = "IMG2ASCII_TABLE"
	EnvFont  = "IMG2ASCII_FONT"
	EnvTrace = "IMG2ASCII_TRACE"
)

// TraceKey is the tracer key used by the library.
const TraceKey = "img2ascii"

// LoadEnv reads .env.local and .env from the working directory, if
// present. Variables already set in the environment win.
func LoadEnv() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			pterm.Warning.Printfln("ignoring %s: %v", name, err)
		}
	}
}

// Getenv returns the value of key, or def if it is unset or empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// InitDisplay sets up pterm prefixes.
func InitDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// SetupTracing routes library tracing to the Go logger at the given
// level ("Debug", "Info" or "Error").
func SetupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":   "go",
		"trace." + TraceKey: level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("error configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracing.Select(TraceKey).SetTraceLevel(tracing.TraceLevelFromString(level))
	return nil
}

// Exit status per error kind. 1 is left for usage errors.
const (
	ExitOK = iota
	ExitUsage
	ExitFailure
	ExitInvalidPixelFormat
	ExitMissingMetadata
	ExitParse
	ExitMissingField
	ExitEmptyTable
	ExitDegenerateRange
	ExitInvalidScale
	ExitInvalidCode
)

var exitCodes = []struct {
	err  error
	code int
}{
	{img2ascii.ErrInvalidPixelFormat, ExitInvalidPixelFormat},
	{img2ascii.ErrMissingMetadata, ExitMissingMetadata},
	{img2ascii.ErrParse, ExitParse},
	{img2ascii.ErrMissingField, ExitMissingField},
	{img2ascii.ErrEmptyTable, ExitEmptyTable},
	{img2ascii.ErrDegenerateRange, ExitDegenerateRange},
	{img2ascii.ErrInvalidScale, ExitInvalidScale},
	{img2ascii.ErrInvalidCode, ExitInvalidCode},
}

// ExitCode maps err to a process exit status. Errors of a known kind get
// their own status; any other error yields ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ExitFailure
}

// Fail prints err and exits with its status.
func Fail(err error) {
	pterm.Error.Println(err.Error())
	os.Exit(ExitCode(err))
}

// Usage prints msg and the flag defaults and exits with ExitUsage.
func Usage(msg string, printDefaults func()) {
	pterm.Error.Println(msg)
	printDefaults()
	os.Exit(ExitUsage)
}
