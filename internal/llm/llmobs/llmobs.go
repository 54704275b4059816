package llmobs

import (
	"context"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/trace"

	"go.opentelemetry.io/otel/attribute"
)

// observableLLM wraps an LLM with observability (logging & tracing)
type observableLLM struct {
	llm      interfaces.LLM
	provider string
}

// Compile-time interface check
var _ interfaces.LLM = (*observableLLM)(nil)

// Wrap wraps a model with observability middleware
func Wrap(llm interfaces.LLM, provider string) interfaces.LLM {
	return &observableLLM{llm: llm, provider: provider}
}

// Classify requests a label with observability
func (o *observableLLM) Classify(ctx context.Context, text string, labels []string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm", "llm.Classify",
		attribute.String("provider", o.provider),
		attribute.Int("labels", len(labels)))
	defer span.End()

	timer := logger.StartOperation(ctx, "llm.classify", "provider", o.provider)
	label, err := o.llm.Classify(ctx, text, labels)
	if err != nil {
		timer.EndWithError(err)
		return "", err
	}

	span.SetAttributes(attribute.String("label", label))
	timer.End("label", label)
	return label, nil
}

// Generate requests free text with observability
func (o *observableLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm", "llm.Generate",
		attribute.String("provider", o.provider),
		attribute.Int("prompt_chars", len(prompt)))
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting generation", "provider", o.provider, "prompt_chars", len(prompt))

	out, err := o.llm.Generate(ctx, system, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Generation failed", err, "provider", o.provider)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Generation received", "provider", o.provider, "chars", len(out))
	return out, nil
}
