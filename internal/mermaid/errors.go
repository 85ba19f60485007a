package mermaid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMmdcNotFound is returned when the mermaid-cli binary cannot be located.
// The message is written for end users, telling them how to install it.
var ErrMmdcNotFound = errors.New("mmdc command not found. Ensure @mermaid-js/mermaid-cli is installed and available on PATH")

// RenderError means mmdc was executed but did not produce a usable diagram:
// either it exited non-zero, or it exited zero without writing the output
// file. The captured process output is kept verbatim for diagnosis, since
// mmdc's stderr is usually the only clue to a syntax error in the diagram.
type RenderError struct {
	// Message is the one-line summary of what went wrong.
	Message string

	// ExitCode is mmdc's exit status. Zero when the process reported
	// success but the output file was missing.
	ExitCode int

	// Stdout and Stderr hold the process output, untrimmed.
	Stdout string
	Stderr string
}

func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if out := strings.TrimSpace(e.Stdout); out != "" {
		fmt.Fprintf(&b, "\nstdout: %s", out)
	}
	if errOut := strings.TrimSpace(e.Stderr); errOut != "" {
		fmt.Fprintf(&b, "\nstderr: %s", errOut)
	}
	return b.String()
}

// DestinationError means the caller-supplied output location cannot receive
// a file: the directory does not exist, or the path names something that is
// not a directory.
type DestinationError struct {
	// Path is the resolved absolute path that was rejected.
	Path string

	// Reason describes why, e.g. "output directory does not exist".
	Reason string
}

func (e *DestinationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}
