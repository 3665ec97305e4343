package domain

import "time"

// RunResult represents the result of one execution engine invocation
type RunResult struct {
	Invocations []Invocation  // Tests that were passed to the engine
	Success     bool          // Whether the engine exited with status 0
	ExitCode    int           // Engine exit code, -1 if it never started
	Output      string        // Captured copy of the streamed output
	Duration    time.Duration // Time taken to execute
	Passed      int           // Passed test count parsed from the output
	Failed      int           // Failed or errored test count parsed from the output
	Failures    []TestFailure // Failing tests parsed from the output
}
