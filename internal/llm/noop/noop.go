package noop

import (
	"context"
	"errors"

	"bullbear-qa/internal/logger"
)

// ErrNotConfigured is returned by every call. Callers fall back to their
// deterministic paths.
var ErrNotConfigured = errors.New("no language model configured")

// Model is used when no provider is configured.
type Model struct{}

func New() *Model {
	return &Model{}
}

func (m *Model) Classify(ctx context.Context, text string, labels []string) (string, error) {
	logger.Debug(ctx, "Noop model asked to classify")
	return "", ErrNotConfigured
}

func (m *Model) Generate(ctx context.Context, system, prompt string) (string, error) {
	logger.Debug(ctx, "Noop model asked to generate")
	return "", ErrNotConfigured
}
