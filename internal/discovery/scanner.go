package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scanner walks a project tree and collects the directories to watch
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Skip reports whether a directory with this base name is never watched
func (s *Scanner) Skip(name string) bool {
	// Skip hidden directories (starting with .)
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return s.skipDirs[name]
}

// Scan returns root and every directory below it that is not skipped
func (s *Scanner) Scan(root string) ([]string, error) {
	var dirs []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && s.Skip(d.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})

	return dirs, err
}
