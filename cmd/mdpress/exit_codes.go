package main

import (
	"errors"
	"os"

	mdpress "github.com/alnah/go-mdpress"
)

// Exit codes for the mdpress CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // successful run
	ExitGeneral = 1 // general/unexpected error
	ExitUsage   = 2 // invalid flags or arguments
	ExitIO      = 3 // file not found, permission denied
	ExitPlugin  = 4 // plugin resolution or loading error
)

// Sentinel errors for CLI operations.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrNoInput      = errors.New("no input file given")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, mdpress.ErrPluginLoad) {
		return ExitPlugin
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) || errors.Is(err, ErrNoInput) {
		return ExitUsage
	}

	return ExitGeneral
}
