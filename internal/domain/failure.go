package domain

// TestFailure represents a failed test reported by the engine
type TestFailure struct {
	Invocation string // path::name as printed by pytest
	Message    string // Short reason after the " - " separator, if any
}
