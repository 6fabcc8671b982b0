package exit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/gunner/internal/queryfile"
	"github.com/jacoelho/gunner/pkg/gunner"
)

// Exit codes returned by the gunner command.
const (
	CodeOK          = 0
	CodeFailure     = 1
	CodeUsage       = 2
	CodeInterrupted = 130
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	if r.Message == "" {
		return
	}
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful exit result that outputs to stdout with exit code 0.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeOK,
		Message:  message,
	}
}

// Error creates an error exit result that outputs to stderr with exit code 1.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeFailure,
		Message:  message,
	}
}

// Errorf creates an error exit result with formatted message.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// FromError classifies err: configuration problems are usage errors, cancellation
// is an interruption, everything else is a failure. A nil err is success.
func FromError(err error) *Result {
	if err == nil {
		return Success("")
	}

	r := Errorf("Error: %v\n", err)
	switch {
	case errors.Is(err, gunner.ErrConfiguration),
		errors.Is(err, queryfile.ErrParse),
		errors.Is(err, queryfile.ErrInvalid):
		r.ExitCode = CodeUsage
	case errors.Is(err, gunner.ErrCancelled), errors.Is(err, context.Canceled):
		r.ExitCode = CodeInterrupted
	}
	return r
}
