// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolrun

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-normalizer/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runFunc       func(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error)

	lastName string
	lastArgs []string
	lastDir  string
	runs     int
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error) {
	m.lastName, m.lastArgs, m.lastDir = name, args, dir
	m.runs++
	if m.runFunc != nil {
		return m.runFunc(ctx, name, args, dir, stdout, stderr)
	}
	return 0, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestInvoke_Success(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"pandoc": true},
		runFunc: func(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error) {
			stderr.WriteString("warning: something benign\n")
			return 0, nil
		},
	}
	r := newRunner(exec, time.Minute, quietLogger())

	result, err := r.Invoke(context.Background(), types.ToolInvocation{
		Executable: "pandoc",
		Args:       []string{"in.md", "--to", "docx"},
		WorkDir:    "/tmp/run",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitStatus)
	assert.Equal(t, "warning: something benign", result.DiagnosticText)
	assert.Equal(t, "pandoc", exec.lastName)
	assert.Equal(t, []string{"in.md", "--to", "docx"}, exec.lastArgs)
	assert.Equal(t, "/tmp/run", exec.lastDir)
}

func TestInvoke_DependencyMissing(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{}}
	r := newRunner(exec, time.Minute, quietLogger())

	_, err := r.Invoke(context.Background(), types.ToolInvocation{Executable: "pandoc"})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDependencyMissing)
	assert.Contains(t, err.Error(), "pandoc")
	assert.Zero(t, exec.runs, "no subprocess should run when the binary is missing")
}

func TestInvoke_ToolFailed(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"libreoffice": true},
		runFunc: func(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error) {
			stderr.WriteString("Error: source file could not be loaded\n")
			return 77, errors.New("exit status 77")
		},
	}
	r := newRunner(exec, time.Minute, quietLogger())

	result, err := r.Invoke(context.Background(), types.ToolInvocation{Executable: "libreoffice"})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrToolFailed)
	assert.Equal(t, 77, result.ExitStatus)
	assert.Contains(t, err.Error(), "source file could not be loaded")
	assert.Contains(t, result.DiagnosticText, "source file could not be loaded")
}

func TestInvoke_Timeout(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"pdftoppm": true},
		runFunc: func(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error) {
			<-ctx.Done()
			return -1, ctx.Err()
		},
	}
	r := newRunner(exec, time.Minute, quietLogger())

	_, err := r.Invoke(context.Background(), types.ToolInvocation{
		Executable: "pdftoppm",
		Timeout:    10 * time.Millisecond,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrToolTimeout)
}

func TestInvoke_CallerCancellation(t *testing.T) {
	exec := &mockExecutor{
		availableBins: map[string]bool{"pdftoppm": true},
		runFunc: func(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error) {
			<-ctx.Done()
			return -1, ctx.Err()
		},
	}
	r := newRunner(exec, time.Minute, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.Invoke(ctx, types.ToolInvocation{Executable: "pdftoppm", Timeout: time.Minute})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, types.ErrToolTimeout)
}

func TestInvoke_DefaultTimeoutApplied(t *testing.T) {
	var sawDeadline bool
	exec := &mockExecutor{
		availableBins: map[string]bool{"pandoc": true},
		runFunc: func(ctx context.Context, name string, args []string, dir string, stdout, stderr *bytes.Buffer) (int, error) {
			_, sawDeadline = ctx.Deadline()
			return 0, nil
		},
	}
	r := newRunner(exec, 30*time.Second, quietLogger())

	_, err := r.Invoke(context.Background(), types.ToolInvocation{Executable: "pandoc"})

	require.NoError(t, err)
	assert.True(t, sawDeadline, "invocation context should carry a deadline")
}

func TestAvailable(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"pandoc": true}}
	r := newRunner(exec, time.Minute, quietLogger())

	assert.True(t, r.Available("pandoc"))
	assert.False(t, r.Available("markitdown"))
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result types.StageResult
		want   bool
	}{
		{
			name:   "lock file failure is transient",
			err:    types.ErrToolFailed,
			result: types.StageResult{DiagnosticText: "Office document is locked by another process (.~lock.report.docx#)"},
			want:   true,
		},
		{
			name:   "ordinary failure is not transient",
			err:    types.ErrToolFailed,
			result: types.StageResult{DiagnosticText: "parse error on line 3"},
			want:   false,
		},
		{
			name:   "missing binary is never transient",
			err:    types.ErrDependencyMissing,
			result: types.StageResult{DiagnosticText: "lock"},
			want:   false,
		},
		{
			name:   "timeout is never transient",
			err:    types.ErrToolTimeout,
			result: types.StageResult{DiagnosticText: "lock"},
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transient(tt.err, tt.result))
		})
	}
}
