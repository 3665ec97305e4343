package parser

import "snajper/internal/domain"

// Parser parses engine output and extracts failures
type Parser interface {
	ParseTestCounts(result domain.RunResult) (passed, failed int)
	ParseFailures(result domain.RunResult) []domain.TestFailure
}
