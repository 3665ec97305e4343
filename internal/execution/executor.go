package execution

import (
	"context"

	"snajper/internal/domain"
)

// Engine runs a set of selected tests and blocks until they finish
type Engine interface {
	Execute(ctx context.Context, tests []domain.Invocation) (domain.RunResult, error)
}
