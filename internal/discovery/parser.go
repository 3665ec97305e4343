package discovery

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var (
	testFuncPattern  = regexp.MustCompile(`(?m)^\s*(?:async\s+)?def\s+(test\w*)\s*\(`)
	testClassPattern = regexp.MustCompile(`(?m)^class\s+(Test\w*)\s*[(:]`)
)

// Parser extracts pytest test names from Python test files
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindTestCases returns the sorted, unique test function and test class names
// defined in filePath
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	found := make(map[string]bool)
	for _, pattern := range []*regexp.Regexp{testFuncPattern, testClassPattern} {
		for _, match := range pattern.FindAllStringSubmatch(string(content), -1) {
			if len(match) > 1 {
				found[match[1]] = true
			}
		}
	}

	testCases := make([]string, 0, len(found))
	for name := range found {
		testCases = append(testCases, name)
	}
	sort.Strings(testCases)

	return testCases, nil
}

// Defines reports whether filePath defines every part of a pytest name such
// as "test_one" or "TestUser::test_login"
func (p *Parser) Defines(filePath, name string) bool {
	cases, err := p.FindTestCases(filePath)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(name, "::") {
		i := sort.SearchStrings(cases, part)
		if i == len(cases) || cases[i] != part {
			return false
		}
	}
	return true
}
