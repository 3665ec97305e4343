package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.WatchRoot != DefaultWatchRoot {
		t.Errorf("expected WatchRoot %s, got %s", DefaultWatchRoot, cfg.WatchRoot)
	}

	if cfg.Suffix != DefaultSuffix {
		t.Errorf("expected Suffix %s, got %s", DefaultSuffix, cfg.Suffix)
	}

	if cfg.CoalesceWindow != DefaultCoalesceWindow {
		t.Errorf("expected CoalesceWindow %s, got %s", DefaultCoalesceWindow, cfg.CoalesceWindow)
	}

	if !cfg.ClearScreen {
		t.Error("expected ClearScreen to default to true")
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}

	cfg.PytestArgs[0] = "-q"
	if DefaultPytestArgs[0] != "-v" {
		t.Error("New must copy DefaultPytestArgs")
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "no variables keeps defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.StoreDriver != "sqlite" || cfg.Pytest != "pytest" {
					t.Errorf("defaults changed: %+v", cfg)
				}
			},
		},
		{
			name: "suffix without dot",
			env:  map[string]string{EnvSuffix: "pyx"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Suffix != ".pyx" {
					t.Errorf("expected .pyx, got %s", cfg.Suffix)
				}
			},
		},
		{
			name: "coalesce window",
			env:  map[string]string{EnvCoalesce: "1s"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.CoalesceWindow != time.Second {
					t.Errorf("expected 1s, got %s", cfg.CoalesceWindow)
				}
			},
		},
		{
			name:    "bad coalesce window",
			env:     map[string]string{EnvCoalesce: "soon"},
			wantErr: true,
		},
		{
			name:    "negative coalesce window",
			env:     map[string]string{EnvCoalesce: "-1s"},
			wantErr: true,
		},
		{
			name: "empty pytest args clears defaults",
			env:  map[string]string{EnvPytestArgs: ""},
			check: func(t *testing.T, cfg *Config) {
				if len(cfg.PytestArgs) != 0 {
					t.Errorf("expected no args, got %v", cfg.PytestArgs)
				}
			},
		},
		{
			name: "pytest args split on whitespace",
			env:  map[string]string{EnvPytestArgs: "-x  -q"},
			check: func(t *testing.T, cfg *Config) {
				if len(cfg.PytestArgs) != 2 || cfg.PytestArgs[0] != "-x" || cfg.PytestArgs[1] != "-q" {
					t.Errorf("unexpected args %v", cfg.PytestArgs)
				}
			},
		},
		{
			name: "no clear",
			env:  map[string]string{EnvNoClear: "1"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.ClearScreen {
					t.Error("expected ClearScreen false")
				}
			},
		},
		{
			name: "no clear set to false keeps clearing",
			env:  map[string]string{EnvNoClear: "false"},
			check: func(t *testing.T, cfg *Config) {
				if !cfg.ClearScreen {
					t.Error("expected ClearScreen true")
				}
			},
		},
		{
			name: "extra ignore paths",
			env:  map[string]string{EnvIgnore: "docs, migrations ,"},
			check: func(t *testing.T, cfg *Config) {
				n := len(DefaultPathsToIgnore)
				if len(cfg.PathsToIgnore) != n+2 {
					t.Fatalf("expected %d ignore paths, got %v", n+2, cfg.PathsToIgnore)
				}
				if cfg.PathsToIgnore[n] != "docs" || cfg.PathsToIgnore[n+1] != "migrations" {
					t.Errorf("unexpected ignore paths %v", cfg.PathsToIgnore[n:])
				}
			},
		},
		{
			name:    "mysql without dsn",
			env:     map[string]string{EnvStoreDriver: "mysql"},
			wantErr: true,
		},
		{
			name: "mysql with dsn",
			env:  map[string]string{EnvStoreDriver: "mysql", EnvStoreDSN: "ci:secret@tcp(db:3306)/coverage"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.GetStoreDSN() != "ci:secret@tcp(db:3306)/coverage" {
					t.Errorf("unexpected dsn %s", cfg.GetStoreDSN())
				}
			},
		},
		{
			name:    "unknown driver",
			env:     map[string]string{EnvStoreDriver: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			err := cfg.applyEnv(envFrom(tt.env))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestConfig_GetTestRoot(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "defaults to watch root",
			config:   &Config{WatchRoot: "/project"},
			expected: "/project",
		},
		{
			name:     "explicit test root",
			config:   &Config{WatchRoot: "/project", TestRoot: "/project/src"},
			expected: "/project/src",
		},
		{
			name:     "relative test root is taken from watch root",
			config:   &Config{WatchRoot: "/project", TestRoot: "src"},
			expected: "/project/src",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetTestRoot()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_GetStoreDSN_SQLiteIsAbsolute(t *testing.T) {
	cfg := New()
	dsn := cfg.GetStoreDSN()
	if !filepath.IsAbs(dsn) {
		t.Errorf("expected absolute coverage path, got %s", dsn)
	}
	if filepath.Base(dsn) != DefaultCoverageFile {
		t.Errorf("expected %s, got %s", DefaultCoverageFile, filepath.Base(dsn))
	}
}

func TestConfig_GetCoveragePath(t *testing.T) {
	cfg := &Config{WatchRoot: "/project", CoverageFile: ".coverage"}
	if got := cfg.GetCoveragePath(); got != "/project/.coverage" {
		t.Errorf("expected /project/.coverage, got %s", got)
	}
	cfg.CoverageFile = "/ci/data/.coverage"
	if got := cfg.GetCoveragePath(); got != "/ci/data/.coverage" {
		t.Errorf("expected absolute path to be kept, got %s", got)
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "SNAJPER_COVERAGE_FILE=/tmp/ci.coverage\nSNAJPER_TEST_ROOT=src\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv(EnvCoverageFile, "")
	t.Setenv(EnvTestRoot, "")
	os.Unsetenv(EnvCoverageFile)
	os.Unsetenv(EnvTestRoot)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CoverageFile != "/tmp/ci.coverage" {
		t.Errorf("expected coverage file from .env, got %s", cfg.CoverageFile)
	}
	if cfg.TestRoot != "src" {
		t.Errorf("expected test root from .env, got %s", cfg.TestRoot)
	}
	if cfg.WatchRoot != dir {
		t.Errorf("expected watch root %s, got %s", dir, cfg.WatchRoot)
	}
}

func TestLoad_MissingDotEnv(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("missing .env must not fail: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config")
	}
}
