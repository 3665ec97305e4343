// Package selection runs the tests that cover a changed file.
package selection

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"snajper/internal/coverage"
	"snajper/internal/domain"
	"snajper/internal/execution"
	"snajper/internal/resolver"
	"snajper/internal/ui"
)

// Runner orchestrates lookup, resolution and execution for one changed file
type Runner struct {
	store     coverage.Store
	resolver  *resolver.Resolver
	engine    execution.Engine
	logger    *ui.Logger
	formatter *ui.Formatter
}

// NewRunner creates a new Runner
func NewRunner(
	store coverage.Store,
	res *resolver.Resolver,
	engine execution.Engine,
	logger *ui.Logger,
	formatter *ui.Formatter,
) *Runner {
	return &Runner{
		store:     store,
		resolver:  res,
		engine:    engine,
		logger:    logger,
		formatter: formatter,
	}
}

// Select computes the invocations covering path without running them.
// Unresolvable ids are collected in the selection, not returned as errors.
func (r *Runner) Select(ctx context.Context, path string) (domain.Selection, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("normalize %s: %w", path, err)
	}
	sel := domain.Selection{Path: absPath}

	tests, err := r.store.Lookup(ctx, absPath)
	if err != nil {
		return sel, err
	}
	sel.TestIDs = tests
	if len(tests) == 0 {
		return sel, nil
	}

	records, err := r.store.Records(ctx)
	if err != nil {
		return sel, err
	}

	for _, raw := range tests {
		inv, err := r.resolver.Resolve(raw, records)
		if err != nil {
			if !errors.Is(err, domain.ErrUnresolvedTestID) {
				return sel, err
			}
			sel.Unresolved = append(sel.Unresolved, raw)
			continue
		}
		sel.Invocations = append(sel.Invocations, inv)
	}
	return sel, nil
}

// Run selects the tests covering path and hands them to the engine. An empty
// selection never starts the engine. The returned result is the zero value
// when nothing ran.
func (r *Runner) Run(ctx context.Context, path string) (domain.Selection, domain.RunResult, error) {
	sel, err := r.Select(ctx, path)
	if err != nil {
		return sel, domain.RunResult{}, err
	}

	for _, raw := range sel.Unresolved {
		r.logger.Warnf("Could not find a test file for %s, skipping it", raw)
	}
	if sel.Empty() {
		r.logger.Infof("No tests found for %s", sel.Path)
		return sel, domain.RunResult{}, nil
	}

	r.formatter.PrintSelection(domain.Selection{Path: sel.Path, Invocations: sel.Invocations})
	result, err := r.engine.Execute(ctx, sel.Invocations)
	if err != nil {
		return sel, result, fmt.Errorf("execute tests for %s: %w", sel.Path, err)
	}
	r.formatter.PrintRunSummary(result)
	return sel, result, nil
}
