package domain

// CoverageRecord is one (source file, covering test) pair from the coverage store
type CoverageRecord struct {
	SourcePath string // Absolute path of the measured source file
	TestID     string // Dotted test context that executed lines in SourcePath
}
