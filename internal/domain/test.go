package domain

// Invocation addresses a single test to the execution engine
type Invocation struct {
	File string // Path to the test file
	Name string // Test name, may contain "::" for class-based tests
}

// String renders the invocation the way pytest expects it on the command line
func (i Invocation) String() string {
	return i.File + "::" + i.Name
}

// Selection is the outcome of one selection cycle for a changed file
type Selection struct {
	Path        string       // Absolute path of the changed file
	TestIDs     []string     // Raw test ids returned by the coverage store
	Invocations []Invocation // Successfully resolved invocations, in lookup order
	Unresolved  []string     // Raw ids that could not be resolved
}

// Empty reports whether there is nothing to run
func (s Selection) Empty() bool {
	return len(s.Invocations) == 0
}
