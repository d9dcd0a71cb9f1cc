package cli

import (
	"context"
	"errors"

	deperrors "github.com/matzehuels/depsize/pkg/errors"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitInterrupt = 130 // shell convention for SIGINT
)

// errorHints suggest a next step for failures the user can usually fix.
var errorHints = map[deperrors.Code]string{
	deperrors.ErrCodeInterpreter:   "check --python, or pass --site-dir to read site directories without an interpreter",
	deperrors.ErrCodeInvalidConfig: "config keys: python, site_dirs, output, engine, seed, title, plotly_js",
	deperrors.ErrCodeInvalidInput:  "run 'depsize --help' for the accepted values",
	deperrors.ErrCodeFileNotFound:  "paths may start with ~; relative paths resolve from the working directory",
}

// ReportError prints err, and a hint when one applies, to the CLI's status
// writer and returns the exit code for it. An interrupted run prints
// nothing.
func (c *CLI) ReportError(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	printError(c.status, "Error: %v", err)
	code := deperrors.GetCode(err)
	if hint, ok := errorHints[code]; ok {
		printDetail(c.status, "hint: %s", hint)
	}

	switch code {
	case deperrors.ErrCodeInvalidInput, deperrors.ErrCodeInvalidConfig:
		return ExitUsage
	default:
		return ExitFailure
	}
}
