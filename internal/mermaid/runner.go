package mermaid

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// runResult carries the observable outcome of one finished command.
type runResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
}

// runner abstracts process execution so that every failure class (missing
// binary, non-zero exit, timeout) can be simulated in tests without a real
// mmdc installation.
type runner interface {
	run(ctx context.Context, name string, args []string) (runResult, error)
}

// execRunner runs commands on the local host via os/exec.
type execRunner struct{}

func (execRunner) run(ctx context.Context, name string, args []string) (runResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := runResult{stdout: stdout.Bytes(), stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	// A killed process surfaces as an ExitError too, so the context has to
	// be consulted first to keep timeouts from masquerading as exit codes.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, err
}
