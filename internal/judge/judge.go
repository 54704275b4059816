// Package judge turns analyzer evidence into a single report and a bounded
// investment score.
package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/types"
)

const synthesisSystemPrompt = "You are a senior equity analyst. Combine the analyses you are given into one professional, balanced investment view."

const (
	degradedNotice   = "Note: automated synthesis is unavailable, showing the raw analyzer reports."
	allFailedNotice  = "Note: every analyzer failed for this question, the report below only explains what went wrong."
	noEvidenceReport = "No analysis could be produced for this question."
)

var errEmptySynthesis = errors.New("generator returned an empty report")

var sectionHeaders = map[types.Intent]string{
	types.IntentFundamental: "Fundamental Analysis",
	types.IntentTechnical:   "Technical Analysis",
	types.IntentSentiment:   "Market Sentiment",
	types.IntentComparison:  "Stock Comparison",
}

type Options struct {
	Weights Weights
	Scheme  Scheme
	Tables  map[types.Dimension]Table
	// SynthesisTimeout bounds the generator call. Zero means no extra bound.
	SynthesisTimeout time.Duration
}

type Judge struct {
	generator interfaces.Generator
	opts      Options
}

var _ interfaces.Judge = (*Judge)(nil)

// New builds a judge. generator may be nil, in which case multi-analyzer
// synthesis always uses the deterministic fallback.
func New(generator interfaces.Generator, opts Options) *Judge {
	if opts.Weights == nil {
		opts.Weights = DefaultWeights
	}
	if len(opts.Scheme.Bands) == 0 {
		opts.Scheme = ThreeTier
	}
	if opts.Tables == nil {
		opts.Tables = DefaultTables
	}
	return &Judge{generator: generator, opts: opts}
}

func (j *Judge) Scheme() Scheme {
	return j.opts.Scheme
}

// Synthesize never fails: a single report is returned as-is under a header,
// several reports are merged by the generator, and generator failures fall
// back to labelled concatenation.
func (j *Judge) Synthesize(ctx context.Context, question string, outputs []types.AnalyzerOutput) string {
	switch len(outputs) {
	case 0:
		return noEvidenceReport
	case 1:
		out := section(outputs[0])
		if outputs[0].Failed {
			return allFailedNotice + "\n\n" + out
		}
		return out
	}

	if allFailed(outputs) {
		return allFailedNotice + "\n\n" + concatenate(outputs)
	}
	if j.generator == nil {
		return degradedNotice + "\n\n" + concatenate(outputs)
	}

	if j.opts.SynthesisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.opts.SynthesisTimeout)
		defer cancel()
	}

	report, err := j.generator.Generate(ctx, synthesisSystemPrompt, synthesisPrompt(question, outputs))
	if err != nil || strings.TrimSpace(report) == "" {
		if err == nil {
			err = errEmptySynthesis
		}
		logger.ErrorWithErr(ctx, "Synthesis failed, falling back to concatenation", err,
			"analyzers", len(outputs))
		return degradedNotice + "\n\n" + concatenate(outputs)
	}
	return strings.TrimSpace(report)
}

// Score quantifies the evidence. Failed analyzer outputs carry no evidence and
// are ignored; outputs feeding the same dimension are scored together.
func (j *Judge) Score(outputs []types.AnalyzerOutput) types.InvestmentScore {
	texts := make(map[types.Dimension][]string)
	for _, o := range outputs {
		if o.Failed {
			continue
		}
		d := DimensionOf(o.Intent)
		texts[d] = append(texts[d], o.Text)
	}

	dims := make(map[types.Dimension]int, len(texts))
	for d, parts := range texts {
		dims[d] = DimensionScore(strings.Join(parts, "\n"), j.opts.Tables[d])
	}
	return Combine(dims, j.opts.Weights, j.opts.Scheme)
}

func synthesisPrompt(question string, outputs []types.AnalyzerOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\nAnalyses:\n", question)
	for _, o := range outputs {
		fmt.Fprintf(&b, "\n[%s]\n%s\n", header(o.Intent), o.Text)
	}
	b.WriteString(`
Write the combined report in exactly these sections:

Summary
(2-3 sentences with the key findings)

Recommendation
(buy, hold or sell, with the reasoning)

Key Risks
(2-3 risk points)

Opportunities
(2-3 opportunities)

Conclusion
(1-2 sentences)
`)
	return b.String()
}

func header(i types.Intent) string {
	if h, ok := sectionHeaders[i]; ok {
		return h
	}
	return string(i)
}

func section(o types.AnalyzerOutput) string {
	return "## " + header(o.Intent) + "\n\n" + strings.TrimSpace(o.Text)
}

func concatenate(outputs []types.AnalyzerOutput) string {
	parts := make([]string, 0, len(outputs))
	for _, o := range outputs {
		parts = append(parts, section(o))
	}
	return strings.Join(parts, "\n\n")
}

func allFailed(outputs []types.AnalyzerOutput) bool {
	for _, o := range outputs {
		if !o.Failed {
			return false
		}
	}
	return true
}
