// Package resolver turns the dotted test ids recorded as coverage contexts
// into pytest node ids.
//
// A context such as "tests.test_user.test_login" carries no file extension,
// so the file is recovered from the coverage records themselves: test files
// are measured too, and their paths contain "tests/test_user".
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"snajper/internal/discovery"
	"snajper/internal/domain"
)

// Resolver maps raw test ids onto invocations
type Resolver struct {
	root   string
	suffix string
	parser *discovery.Parser
}

// NewResolver creates a Resolver. root is the directory the engine runs in and
// is only consulted when no record matches; suffix is the test file extension.
func NewResolver(root, suffix string, parser *discovery.Parser) *Resolver {
	return &Resolver{root: root, suffix: suffix, parser: parser}
}

// Resolve converts raw into an invocation using records as the path table
func (r *Resolver) Resolve(raw string, records []domain.CoverageRecord) (domain.Invocation, error) {
	if inv, ok := nodeID(raw); ok {
		return inv, nil
	}

	segments := strings.Split(raw, ".")
	if len(segments) < 2 || segments[len(segments)-1] == "" {
		return domain.Invocation{}, fmt.Errorf("%w: %s", domain.ErrUnresolvedTestID, raw)
	}

	// Try the full module path first, then move trailing segments into the
	// name for tests defined on classes: pkg.test_mod.TestX.test_y. Shortened
	// module paths must name the file exactly.
	for split := len(segments) - 1; split >= 1; split-- {
		if !classSplit(segments, split) {
			continue
		}
		fragment := strings.Join(segments[:split], "/")
		name := strings.Join(segments[split:], "::")
		if file, ok := r.match(fragment, records, split < len(segments)-1); ok {
			return domain.Invocation{File: file, Name: name}, nil
		}
	}

	for split := len(segments) - 1; split >= 1; split-- {
		if !classSplit(segments, split) {
			continue
		}
		fragment := strings.Join(segments[:split], "/")
		name := strings.Join(segments[split:], "::")
		if file, ok := r.probe(fragment, name); ok {
			return domain.Invocation{File: file, Name: name}, nil
		}
	}

	return domain.Invocation{}, fmt.Errorf("%w: %s", domain.ErrUnresolvedTestID, raw)
}

// classSplit reports whether segments may be split at split. Only the last
// segment may be a plain name; anything moved in front of it must start with
// a pytest test class, such as TestUser in pkg.test_mod.TestUser.test_login.
func classSplit(segments []string, split int) bool {
	if split == len(segments)-1 {
		return true
	}
	return strings.HasPrefix(segments[split], "Test")
}

// match picks the record path for fragment. Among paths containing the
// fragment, one whose extension-less form ends in "/fragment" wins, then the
// shorter path, then the lexically smaller one. With exactOnly set, plain
// substring matches are not candidates.
func (r *Resolver) match(fragment string, records []domain.CoverageRecord, exactOnly bool) (string, bool) {
	best := ""
	bestExact := false
	for _, rec := range records {
		path := rec.SourcePath
		if !strings.Contains(path, fragment) {
			continue
		}
		exact := r.corresponds(path, fragment)
		if exactOnly && !exact {
			continue
		}
		switch {
		case best == "":
		case exact != bestExact:
			if !exact {
				continue
			}
		case len(path) != len(best):
			if len(path) > len(best) {
				continue
			}
		case path >= best:
			continue
		}
		best, bestExact = path, exact
	}
	return best, best != ""
}

func (r *Resolver) corresponds(path, fragment string) bool {
	stem := strings.TrimSuffix(filepath.ToSlash(path), r.suffix)
	return stem == fragment || strings.HasSuffix(stem, "/"+fragment)
}

// probe looks for <root>/<fragment><suffix> on disk, for test files that were
// excluded from measurement. The returned path is relative to root.
func (r *Resolver) probe(fragment, name string) (string, bool) {
	if r.root == "" {
		return "", false
	}
	rel := filepath.FromSlash(fragment) + r.suffix
	full := filepath.Join(r.root, rel)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	if r.parser != nil && !r.parser.Defines(full, name) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// nodeID accepts contexts already written as pytest node ids, as recorded by
// pytest-cov: "tests/test_a.py::test_one|run"
func nodeID(raw string) (domain.Invocation, bool) {
	if i := strings.LastIndex(raw, "|"); i >= 0 {
		raw = raw[:i]
	}
	file, name, ok := strings.Cut(raw, "::")
	if !ok || file == "" || name == "" {
		return domain.Invocation{}, false
	}
	return domain.Invocation{File: file, Name: name}, true
}
