package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotInstalled is returned when the requested binary cannot be found on PATH
var ErrNotInstalled = errors.New("executable not found")

type implExecutor struct {
	logger *zap.Logger
	dir    string
}

// New creates a new Executor instance
func New(logger *zap.Logger) Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &implExecutor{logger: logger}
}

// NewInDir creates an Executor whose commands run in dir
func NewInDir(logger *zap.Logger, dir string) Executor {
	e := New(logger).(*implExecutor)
	e.dir = dir
	return e
}

// Execute runs an external command and returns its stdout.
// Failures carry the trimmed stderr output.
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	e.logger.Debug("command finished",
		zap.String("command", name),
		zap.Strings("args", args),
		zap.Duration("elapsed", time.Since(started)),
		zap.Error(err))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("command '%s' interrupted: %w", name, ctxErr)
		}
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return stdout.String(), nil
}
