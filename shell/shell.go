// Package shell runs shell command lines and collects their standard output
// line by line.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ErrCommandFailed is wrapped by *ExitError.
var ErrCommandFailed = errors.New("shell: command failed")

// ExitError reports a command that exited with a non-zero status.
type ExitError struct {
	Cmd  string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("shell: command %q failed with return code %d", e.Cmd, e.Code)
}

func (e *ExitError) Unwrap() error { return ErrCommandFailed }

type config struct {
	dir     string
	verbose bool
	stderr  io.Writer
	log     *zap.Logger
}

// Option customizes Run.
type Option func(*config)

// WithDir runs the command in dir instead of the current directory.
func WithDir(dir string) Option { return func(c *config) { c.dir = dir } }

// WithVerbose toggles logging of every stdout line (default on).
func WithVerbose(v bool) Option { return func(c *config) { c.verbose = v } }

// WithStderr redirects the command's stderr (default os.Stderr).
func WithStderr(w io.Writer) Option { return func(c *config) { c.stderr = w } }

// WithLogger sets the logger for verbose output and failures.
func WithLogger(l *zap.Logger) Option { return func(c *config) { c.log = l } }

// Run executes cmd with `sh -c` and returns its stdout split into
// whitespace-trimmed lines. On a non-zero exit the lines read so far are
// returned together with an *ExitError. Cancelling ctx kills the process.
func Run(ctx context.Context, cmd string, opts ...Option) ([]string, error) {
	c := config{verbose: true, stderr: os.Stderr, log: zap.NewNop()}
	for _, o := range opts {
		o(&c)
	}

	proc := exec.CommandContext(ctx, "sh", "-c", cmd)
	proc.Dir = c.dir
	proc.Stderr = c.stderr
	stdout, err := proc.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("shell: %w", err)
	}
	if err := proc.Start(); err != nil {
		return nil, fmt.Errorf("shell: start %q: %w", cmd, err)
	}

	var lines []string
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if c.verbose {
			c.log.Info(line, zap.String("cmd", cmd))
		}
		lines = append(lines, line)
	}
	scanErr := sc.Err()
	if scanErr != nil {
		// unblock the child before waiting on it
		_, _ = io.Copy(io.Discard, stdout)
	}

	waitErr := proc.Wait()
	if ctx.Err() != nil {
		return lines, ctx.Err()
	}
	if waitErr != nil {
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			c.log.Warn("command failed", zap.String("cmd", cmd), zap.Int("code", ee.ExitCode()))
			return lines, &ExitError{Cmd: cmd, Code: ee.ExitCode()}
		}
		return lines, fmt.Errorf("shell: %w", waitErr)
	}
	if scanErr != nil {
		return lines, fmt.Errorf("shell: read stdout: %w", scanErr)
	}

	return lines, nil
}
