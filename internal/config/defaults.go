package config

import "time"

const (
	// DefaultWatchRoot is the directory watched when no argument is given
	DefaultWatchRoot = "."
	// DefaultCoverageFile is the coverage.py data file, relative to the working directory
	DefaultCoverageFile = ".coverage"
	// DefaultStoreDriver is the database/sql driver used to read coverage contexts
	DefaultStoreDriver = "sqlite"
	// DefaultSuffix is the file extension that triggers test selection
	DefaultSuffix = ".py"
	// DefaultTestRootEnv is the variable that carries the test root to the engine
	DefaultTestRootEnv = "PYTHONPATH"
	// DefaultPytest is the pytest executable, looked up on PATH
	DefaultPytest = "pytest"
	// DefaultCoalesceWindow collapses repeated writes of one file (editors often save twice)
	DefaultCoalesceWindow = 200 * time.Millisecond
)

// DefaultPytestArgs are passed to pytest before the selected tests
var DefaultPytestArgs = []string{"-v"}

// DefaultPathsToIgnore are directories never registered with the watcher
var DefaultPathsToIgnore = []string{
	".git",
	".hg",
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".tox",
	".venv",
	"venv",
	"node_modules",
	"build",
	"dist",
}
