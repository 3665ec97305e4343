package parser

import (
	"regexp"
	"strconv"
	"strings"

	"snajper/internal/domain"
)

var (
	// "==== 2 failed, 3 passed, 1 error in 0.42s ====" or "3 passed in 0.01s"
	summaryLine  = regexp.MustCompile(`(?m)^=*\s*((?:\d+ \w+(?:, )?)+) in [\d.]+s`)
	summaryCount = regexp.MustCompile(`(\d+) (\w+)`)
	// "FAILED tests/test_a.py::test_one - assert 1 == 2" from the short test summary
	failedLine = regexp.MustCompile(`(?m)^(FAILED|ERROR) (\S+::\S+)(?: - (.*))?$`)
)

// PytestParser parses pytest terminal output
type PytestParser struct{}

// NewPytestParser creates a new PytestParser
func NewPytestParser() *PytestParser {
	return &PytestParser{}
}

// ParseTestCounts extracts passed and failed test counts from the final
// summary line. Errors count as failures. Without a summary line it falls back
// to one test per invocation, split on the exit status.
func (p *PytestParser) ParseTestCounts(result domain.RunResult) (passed, failed int) {
	matches := summaryLine.FindAllStringSubmatch(result.Output, -1)
	if len(matches) > 0 {
		summary := matches[len(matches)-1][1]
		for _, m := range summaryCount.FindAllStringSubmatch(summary, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			switch m[2] {
			case "passed", "xpassed":
				passed += n
			case "failed", "error", "errors":
				failed += n
			}
		}
		return passed, failed
	}

	if result.Success {
		return len(result.Invocations), 0
	}
	return 0, len(result.Invocations)
}

// ParseFailures returns the FAILED and ERROR entries of the short test summary
func (p *PytestParser) ParseFailures(result domain.RunResult) []domain.TestFailure {
	var failures []domain.TestFailure
	seen := make(map[string]bool)
	for _, m := range failedLine.FindAllStringSubmatch(result.Output, -1) {
		id := m[2]
		if seen[id] {
			continue
		}
		seen[id] = true
		failures = append(failures, domain.TestFailure{
			Invocation: id,
			Message:    strings.TrimSpace(m[3]),
		})
	}
	return failures
}
