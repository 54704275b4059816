package interfaces

import "context"

// Classifier assigns text to one of a closed set of labels. The returned
// label is raw model output; callers validate it.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (string, error)
}

// Generator produces free text from a system instruction and a prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// LLM is a language model provider usable for both routing and synthesis.
type LLM interface {
	Classifier
	Generator
}
