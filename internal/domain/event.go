package domain

// ChangeKind is the kind of filesystem change reported by the watcher
type ChangeKind int

const (
	// Modified means the file contents were written
	Modified ChangeKind = iota
	// Deleted means the path was removed
	Deleted
	// Moved means the path was renamed away
	Moved
)

func (k ChangeKind) String() string {
	switch k {
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Moved:
		return "moved"
	}
	return "unknown"
}

// ChangeEvent is a single filesystem notification
type ChangeEvent struct {
	Path  string
	Kind  ChangeKind
	IsDir bool
}
