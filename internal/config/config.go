package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load
const (
	EnvCoverageFile = "SNAJPER_COVERAGE_FILE"
	EnvStoreDriver  = "SNAJPER_STORE_DRIVER"
	EnvStoreDSN     = "SNAJPER_STORE_DSN"
	EnvSuffix       = "SNAJPER_SUFFIX"
	EnvTestRoot     = "SNAJPER_TEST_ROOT"
	EnvTestRootEnv  = "SNAJPER_TEST_ROOT_ENV"
	EnvPytest       = "SNAJPER_PYTEST"
	EnvPytestArgs   = "SNAJPER_PYTEST_ARGS"
	EnvCoalesce     = "SNAJPER_COALESCE"
	EnvNoClear      = "SNAJPER_NO_CLEAR"
	EnvIgnore       = "SNAJPER_IGNORE"
)

// Config holds all configuration for the application
type Config struct {
	// Watch settings
	WatchRoot      string
	Suffix         string
	CoalesceWindow time.Duration
	PathsToIgnore  []string

	// Coverage store settings
	CoverageFile string
	StoreDriver  string
	StoreDSN     string

	// Execution settings
	Pytest      string
	PytestArgs  []string
	TestRoot    string
	TestRootEnv string

	// Display settings
	ClearScreen bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		WatchRoot:      DefaultWatchRoot,
		Suffix:         DefaultSuffix,
		CoalesceWindow: DefaultCoalesceWindow,
		CoverageFile:   DefaultCoverageFile,
		StoreDriver:    DefaultStoreDriver,
		Pytest:         DefaultPytest,
		TestRootEnv:    DefaultTestRootEnv,
		ClearScreen:    true,
	}
	cfg.PytestArgs = make([]string, len(DefaultPytestArgs))
	copy(cfg.PytestArgs, DefaultPytestArgs)
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config for the given watch root, reading <root>/.env first and
// then SNAJPER_* variables from the environment
func Load(watchRoot string) (*Config, error) {
	cfg := New()
	if watchRoot != "" {
		cfg.WatchRoot = watchRoot
	}

	envPath := filepath.Join(cfg.WatchRoot, ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	getenv := func(key string) string {
		v, _ := lookupEnv(key)
		return v
	}

	if v := getenv(EnvCoverageFile); v != "" {
		c.CoverageFile = v
	}
	if v := getenv(EnvStoreDriver); v != "" {
		c.StoreDriver = v
	}
	if v := getenv(EnvStoreDSN); v != "" {
		c.StoreDSN = v
	}
	if v := getenv(EnvSuffix); v != "" {
		if !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		c.Suffix = v
	}
	if v := getenv(EnvTestRoot); v != "" {
		c.TestRoot = v
	}
	if v := getenv(EnvTestRootEnv); v != "" {
		c.TestRootEnv = v
	}
	if v := getenv(EnvPytest); v != "" {
		c.Pytest = v
	}
	// Set but empty clears the default arguments
	if v, ok := lookupEnv(EnvPytestArgs); ok {
		c.PytestArgs = strings.Fields(v)
	}
	if v := getenv(EnvCoalesce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvCoalesce, v, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s %q: must not be negative", EnvCoalesce, v)
		}
		c.CoalesceWindow = d
	}
	if v := getenv(EnvNoClear); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		c.ClearScreen = false
	}
	if v := getenv(EnvIgnore); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.PathsToIgnore = append(c.PathsToIgnore, p)
			}
		}
	}

	switch c.StoreDriver {
	case "sqlite":
	case "mysql":
		if c.StoreDSN == "" {
			return fmt.Errorf("%s=mysql requires %s", EnvStoreDriver, EnvStoreDSN)
		}
	default:
		return fmt.Errorf("unsupported store driver %q", c.StoreDriver)
	}
	return nil
}

// GetCoveragePath returns the absolute path to the coverage data file.
// Relative paths are taken from the watch root.
func (c *Config) GetCoveragePath() string {
	return c.fromWatchRoot(c.CoverageFile)
}

// GetStoreDSN returns the data source name handed to the store driver
func (c *Config) GetStoreDSN() string {
	if c.StoreDriver == "mysql" {
		return c.StoreDSN
	}
	return c.GetCoveragePath()
}

// GetTestRoot returns the directory exported to the engine's module search path.
// It defaults to the watch root.
func (c *Config) GetTestRoot() string {
	if c.TestRoot == "" {
		return c.GetWatchRoot()
	}
	return c.fromWatchRoot(c.TestRoot)
}

// GetWatchRoot returns the absolute watch root
func (c *Config) GetWatchRoot() string {
	if abs, err := filepath.Abs(c.WatchRoot); err == nil {
		return abs
	}
	return c.WatchRoot
}

func (c *Config) fromWatchRoot(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.GetWatchRoot(), path)
}
