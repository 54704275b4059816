// Package analyzer holds the four specialist analyzers and the dispatcher
// that runs the one a routing decision selects.
//
// Each analyzer gathers a data snapshot and asks the language model for
// prose. When the model is unavailable the snapshot itself is returned,
// marked as raw data, so the judge still has evidence to score.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/news"
)

var (
	// ErrNeedTwoSymbols is returned by the comparison analyzer for fewer
	// than two tickers.
	ErrNeedTwoSymbols = errors.New("comparison needs at least two ticker symbols")

	errNoTicker = errors.New("no ticker symbol found in the question")
)

// rawDataNotice prefixes snapshot text returned without model prose.
const rawDataNotice = "[Raw data: language model unavailable]"

// HeadlineSource supplies recent news for a symbol.
type HeadlineSource interface {
	Headlines(ctx context.Context, symbol string, n int) ([]news.Headline, error)
}

// Deps are the collaborators shared by all analyzers. News may be nil.
type Deps struct {
	Market interfaces.MarketData
	LLM    interfaces.Generator
	News   HeadlineSource
}

// narrate asks the model to write up snapshot. On failure the snapshot is
// returned with the raw data notice.
func narrate(ctx context.Context, gen interfaces.Generator, name, system, prompt, snapshot string) string {
	if gen != nil {
		out, err := gen.Generate(ctx, system, prompt+"\n\nData:\n"+snapshot)
		if err == nil && strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
		if err != nil {
			logger.Warn(ctx, "Analyzer model call failed, returning raw data", "analyzer", name, "error", err)
		}
	}
	return rawDataNotice + "\n" + snapshot
}

func primary(tickers []string) (string, error) {
	if len(tickers) == 0 {
		return "", errNoTicker
	}
	return tickers[0], nil
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func pct(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", v)
}
