package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/cricket"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failed, replay diverged, policy invalid
	ExitCommandError = 2 // Command error (missing files, unreadable database, etc.)
)

// ExitError carries the exit code a command should end with.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string
	Err     error // optional
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError describes a failure. Code is a scoring error code when the
// failure came from the engine.
type CLIError struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// Result writes data. In text mode render is called instead; a nil render
// prints data with fmt.
func (f *OutputFormatter) Result(data any, render func(w io.Writer)) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	if render == nil {
		fmt.Fprintln(f.Writer, data)
		return nil
	}
	render(f.Writer)
	return nil
}

// Failure writes data together with an error. The caller still returns an
// ExitError to set the exit code.
func (f *OutputFormatter) Failure(data any, code, message string, render func(w io.Writer)) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: code, Message: message},
		})
	}
	if render != nil {
		render(f.Writer)
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return nil
}

// ScoringFailure reports an error from the engine with its code and
// reason.
func (f *OutputFormatter) ScoringFailure(err error) error {
	code := string(cricket.CodeOf(err))
	if code == "" {
		code = "E_INTERNAL"
	}
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Reason: cricket.ReasonOf(err), Message: err.Error()},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %v\n", code, err)
	return nil
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
