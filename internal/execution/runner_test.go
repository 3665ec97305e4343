package execution

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"snajper/internal/config"
	"snajper/internal/domain"
	"snajper/internal/parser"
)

// fakePytest writes an executable that echoes its arguments and environment
// the way a failing pytest run would
func fakePytest(t *testing.T, exitCode string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine not available on windows")
	}
	path := filepath.Join(t.TempDir(), "pytest")
	script := `#!/bin/sh
echo "args: $*"
echo "pythonpath: $PYTHONPATH"
echo "cwd: $(pwd)"
echo "FAILED tests/test_a.py::test_two - assert 1 == 2"
echo "==== 1 failed, 1 passed in 0.01s ===="
exit ` + exitCode + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake pytest: %v", err)
	}
	return path
}

func TestRunner_Execute(t *testing.T) {
	root := t.TempDir()
	cfg := config.New()
	cfg.WatchRoot = root
	cfg.TestRoot = filepath.Join(root, "src")
	cfg.Pytest = fakePytest(t, "1")
	t.Setenv("PYTHONPATH", "/existing")

	runner := NewRunner(cfg, parser.NewPytestParser())
	var out bytes.Buffer
	runner.SetOutput(&out, &out)

	tests := []domain.Invocation{
		{File: "tests/test_a.py", Name: "test_one"},
		{File: "tests/test_a.py", Name: "test_two"},
	}
	result, err := runner.Execute(context.Background(), tests)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Success || result.ExitCode != 1 {
		t.Errorf("expected exit code 1, got success=%v code=%d", result.Success, result.ExitCode)
	}
	if result.Output != out.String() {
		t.Error("captured output should match streamed output")
	}
	if !strings.Contains(result.Output, "args: -v tests/test_a.py::test_one tests/test_a.py::test_two") {
		t.Errorf("unexpected args in output:\n%s", result.Output)
	}
	wantPath := cfg.TestRoot + string(os.PathListSeparator) + "/existing"
	if !strings.Contains(result.Output, "pythonpath: "+wantPath) {
		t.Errorf("expected PYTHONPATH %s in output:\n%s", wantPath, result.Output)
	}
	if result.Passed != 1 || result.Failed != 1 {
		t.Errorf("expected 1 passed/1 failed, got %d/%d", result.Passed, result.Failed)
	}
	if len(result.Failures) != 1 || result.Failures[0].Invocation != "tests/test_a.py::test_two" {
		t.Errorf("unexpected failures: %v", result.Failures)
	}
}

func TestRunner_ExecuteSuccess(t *testing.T) {
	cfg := config.New()
	cfg.WatchRoot = t.TempDir()
	cfg.Pytest = fakePytest(t, "0")

	runner := NewRunner(cfg, nil)
	runner.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	result, err := runner.Execute(context.Background(), []domain.Invocation{{File: "t.py", Name: "test_x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.ExitCode != 0 {
		t.Errorf("expected success, got %+v", result)
	}
}

func TestRunner_ExecuteEmpty(t *testing.T) {
	cfg := config.New()
	cfg.Pytest = "/does/not/exist/pytest"

	result, err := NewRunner(cfg, nil).Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty selection must not start the engine: %v", err)
	}
	if result.ExitCode != -1 {
		t.Errorf("expected exit code -1, got %d", result.ExitCode)
	}
}

func TestRunner_MissingEngine(t *testing.T) {
	cfg := config.New()
	cfg.Pytest = "/does/not/exist/pytest"

	_, err := NewRunner(cfg, nil).Execute(context.Background(), []domain.Invocation{{File: "t.py", Name: "test_x"}})
	if err == nil {
		t.Fatal("expected error for missing engine")
	}
}

func TestRunner_Environ(t *testing.T) {
	cfg := config.New()
	cfg.TestRoot = "/project/src"
	runner := NewRunner(cfg, nil)

	t.Run("adds variable", func(t *testing.T) {
		env := runner.environ([]string{"HOME=/home/me"})
		if len(env) != 2 || env[1] != "PYTHONPATH=/project/src" {
			t.Errorf("unexpected env %v", env)
		}
	})

	t.Run("prepends to existing value", func(t *testing.T) {
		env := runner.environ([]string{"PYTHONPATH=/lib", "HOME=/home/me"})
		want := "PYTHONPATH=/project/src" + string(os.PathListSeparator) + "/lib"
		if len(env) != 2 || env[1] != want {
			t.Errorf("expected %s, got %v", want, env)
		}
	})

	t.Run("custom variable name", func(t *testing.T) {
		custom := config.New()
		custom.TestRoot = "/project/src"
		custom.TestRootEnv = "MYPATH"
		env := NewRunner(custom, nil).environ(nil)
		if len(env) != 1 || env[0] != "MYPATH=/project/src" {
			t.Errorf("unexpected env %v", env)
		}
	})
}
