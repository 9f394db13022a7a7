// Package pipeline invokes the external correction pipeline as one bounded
// unit of work per batch.
//
// The runner communicates with the pipeline solely through process arguments,
// exit code, and captured output tails. It never raises an invocation fault
// to the caller: a missing binary, a non-zero exit, and a timeout all come
// back as an unsuccessful Outcome, and the caller decides what to commit.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"cardwatch/internal/config"
	"cardwatch/internal/logging"
	"cardwatch/internal/remote"
)

var commandContext = exec.CommandContext

const (
	stdoutTailLines = 5
	stderrTailLines = 3

	// waitDelay bounds the grace period between context cancellation and a
	// forced kill, so a pipeline ignoring SIGKILL-adjacent cleanup cannot
	// wedge the loop.
	waitDelay = 10 * time.Second
)

// Outcome reports the process-level result of one pipeline invocation.
type Outcome struct {
	Succeeded        bool
	ExitCode         int
	StdoutTail       []string
	StderrTail       []string
	DurationExceeded bool
	Duration         time.Duration
}

// Runner spawns the correction pipeline with a hard wall-clock timeout.
type Runner struct {
	command string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRunner builds a runner from the pipeline configuration.
func NewRunner(cfg config.Pipeline, logger *slog.Logger) *Runner {
	return &Runner{
		command: cfg.Command,
		args:    append([]string(nil), cfg.Args...),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the pipeline once for the whole batch. The watched folder id
// is appended as the final argument so the pipeline knows where to pick up
// the cards. The batch itself is not passed item by item; the pipeline owns
// discovery within the folder.
func (r *Runner) Run(ctx context.Context, folderID string, batch []remote.Item) Outcome {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string(nil), r.args...), folderID)
	cmd := commandContext(runCtx, r.command, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	r.logger.Debug("invoking correction pipeline",
		logging.String("command", r.command),
		logging.Int(logging.FieldBatchSize, len(batch)),
		logging.Duration("timeout", r.timeout),
	)

	err := cmd.Run()

	outcome := Outcome{
		Duration:   time.Since(start),
		StdoutTail: lastLines(stdout.String(), stdoutTailLines),
		StderrTail: lastLines(stderr.String(), stderrTailLines),
	}

	if err == nil {
		outcome.Succeeded = true
		return outcome
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
	} else {
		// Spawn-level fault: binary missing, not executable, etc.
		outcome.ExitCode = -1
		outcome.StderrTail = append(outcome.StderrTail, err.Error())
		if len(outcome.StderrTail) > stderrTailLines {
			outcome.StderrTail = outcome.StderrTail[len(outcome.StderrTail)-stderrTailLines:]
		}
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		outcome.DurationExceeded = true
	}
	return outcome
}

// lastLines returns the trailing n non-empty lines of output.
func lastLines(output string, n int) []string {
	if n <= 0 {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
