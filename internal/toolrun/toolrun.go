// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolrun executes external converter tools as subprocesses.
// Each invocation spawns exactly one process, waits synchronously, and
// captures exit status and stderr. Retry policy belongs to the caller.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// Invoker runs external converter tools. The pipeline depends on this
// interface so tests can substitute fakes without spawning processes.
type Invoker interface {
	// Invoke runs one tool invocation to completion. It fails with
	// types.ErrDependencyMissing when the executable cannot be located,
	// types.ErrToolTimeout when the time budget is exceeded (the child is
	// killed), or types.ErrToolFailed on a non-zero exit. The returned
	// StageResult carries the exit status and captured stderr either way.
	Invoke(ctx context.Context, inv types.ToolInvocation) (types.StageResult, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()

	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		code = -1
	}
	return code, err
}

// Runner is the production Invoker. It locates binaries on PATH and runs
// them under a per-invocation timeout, killing the child on expiry.
type Runner struct {
	exec           executor
	defaultTimeout time.Duration
	log            *logrus.Logger
}

// New creates a Runner with the given default timeout. A zero timeout
// falls back to the built-in default from DefaultPipelineConfig.
func New(defaultTimeout time.Duration, log *logrus.Logger) *Runner {
	return newRunner(&osExecutor{}, defaultTimeout, log)
}

func newRunner(exec executor, defaultTimeout time.Duration, log *logrus.Logger) *Runner {
	if defaultTimeout <= 0 {
		defaultTimeout = types.DefaultPipelineConfig().Tools.Timeout
	}
	if log == nil {
		log = logrus.New()
	}
	return &Runner{exec: exec, defaultTimeout: defaultTimeout, log: log}
}

// Invoke implements Invoker.
func (r *Runner) Invoke(ctx context.Context, inv types.ToolInvocation) (types.StageResult, error) {
	if _, err := r.exec.LookPath(inv.Executable); err != nil {
		return types.StageResult{ExitStatus: -1},
			fmt.Errorf("locating %s: %w", inv.Executable, types.ErrDependencyMissing)
	}

	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.log.WithFields(logrus.Fields{
		"tool":    inv.Executable,
		"args":    strings.Join(inv.Args, " "),
		"timeout": timeout,
	}).Debug("invoking external tool")

	var stdout, stderr bytes.Buffer
	started := time.Now()
	code, err := r.exec.Run(runCtx, inv.Executable, inv.Args, inv.WorkDir, &stdout, &stderr)

	result := types.StageResult{
		ExitStatus:     code,
		DiagnosticText: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return result, fmt.Errorf("%s exceeded %v: %w", inv.Executable, timeout, types.ErrToolTimeout)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Cancelled by the caller; the child has been killed.
			return result, ctxErr
		}
		detail := result.DiagnosticText
		if detail == "" {
			detail = err.Error()
		}
		return result, fmt.Errorf("%s exited %d: %s: %w", inv.Executable, code, detail, types.ErrToolFailed)
	}

	r.log.WithFields(logrus.Fields{
		"tool":     inv.Executable,
		"duration": time.Since(started).Round(time.Millisecond),
	}).Debug("external tool finished")
	return result, nil
}

// Available reports whether the named binary can be located on PATH.
func (r *Runner) Available(executable string) bool {
	_, err := r.exec.LookPath(executable)
	return err == nil
}

// Transient reports whether a tool failure looks transient and is worth a
// single retry. Currently this covers Office lock files held by another
// process; missing binaries and timeouts are never transient.
func Transient(err error, result types.StageResult) bool {
	if !errors.Is(err, types.ErrToolFailed) {
		return false
	}
	diag := strings.ToLower(result.DiagnosticText)
	return strings.Contains(diag, "lock") || strings.Contains(diag, ".~lock")
}
