package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"snajper/internal/config"
	"snajper/internal/domain"
	"snajper/internal/parser"
)

// Runner executes selected tests with pytest
type Runner struct {
	config *config.Config
	parser parser.Parser
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a new Runner streaming to the process stdout and stderr
func NewRunner(cfg *config.Config, outputParser parser.Parser) *Runner {
	return &Runner{config: cfg, parser: outputParser, stdout: os.Stdout, stderr: os.Stderr}
}

// SetOutput redirects the streamed engine output
func (r *Runner) SetOutput(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// Execute runs pytest for the given tests. A failing test run is reported in
// the result, not as an error; the error is only set when pytest could not be
// started at all.
func (r *Runner) Execute(ctx context.Context, tests []domain.Invocation) (domain.RunResult, error) {
	result := domain.RunResult{Invocations: tests, ExitCode: -1}
	if len(tests) == 0 {
		return result, nil
	}

	cmd, err := r.command(ctx, tests)
	if err != nil {
		return result, err
	}

	// pytest reports on stdout; stderr is streamed only
	var captured bytes.Buffer
	cmd.Stdout = io.MultiWriter(r.stdout, &captured)
	cmd.Stderr = r.stderr

	start := time.Now()
	err = cmd.Run()
	result.Duration = time.Since(start)
	result.Output = captured.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Success = true
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("run %s: %w", cmd.Path, err)
	}

	if r.parser != nil {
		result.Passed, result.Failed = r.parser.ParseTestCounts(result)
		result.Failures = r.parser.ParseFailures(result)
	}
	return result, nil
}

// command builds the pytest invocation: working directory at the watch root
// and the test root appended to the module search path variable
func (r *Runner) command(ctx context.Context, tests []domain.Invocation) (*exec.Cmd, error) {
	pytest, err := exec.LookPath(r.config.Pytest)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.config.Pytest, err)
	}

	args := make([]string, 0, len(r.config.PytestArgs)+len(tests))
	args = append(args, r.config.PytestArgs...)
	for _, t := range tests {
		args = append(args, t.String())
	}

	cmd := exec.CommandContext(ctx, pytest, args...)
	cmd.Env = r.environ(os.Environ())
	cmd.Dir = r.config.GetWatchRoot()
	return cmd, nil
}

// environ returns env with the test root prepended to the search path variable
func (r *Runner) environ(env []string) []string {
	key := r.config.TestRootEnv
	value := r.config.GetTestRoot()

	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		if k == key {
			if v != "" {
				value = value + string(os.PathListSeparator) + v
			}
			continue
		}
		out = append(out, kv)
	}
	return append(out, key+"="+value)
}
