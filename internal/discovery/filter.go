package discovery

import (
	"path/filepath"
	"strings"
)

// Filter decides which changed paths are source files worth a selection cycle
type Filter struct {
	root     string
	suffix   string
	patterns []string
}

// NewFilter creates a Filter for files ending in suffix. Paths with a
// component below root that matches one of the ignore patterns are rejected.
func NewFilter(root, suffix string, ignore []string) *Filter {
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	return &Filter{root: root, suffix: suffix, patterns: ignore}
}

// Suffix returns the recognized source-file suffix
func (f *Filter) Suffix() string {
	return f.suffix
}

// Accept reports whether path has the source suffix and is not ignored
func (f *Filter) Accept(path string) bool {
	if !strings.HasSuffix(path, f.suffix) {
		return false
	}
	return !f.Ignored(path)
}

// Ignored reports whether any component of path below the root matches an
// ignore pattern. Patterns support the * and ? wildcards of filepath.Match.
func (f *Filter) Ignored(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(f.relative(path)), "/") {
		if part == "" {
			continue
		}
		for _, pattern := range f.patterns {
			if matched, err := filepath.Match(pattern, part); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// relative strips the root from absolute paths inside it. Directories above
// the root never count as ignored components.
func (f *Filter) relative(path string) string {
	if f.root == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(f.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
