package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const sentimentSystem = `You are a market sentiment analyst. From the headlines, judge whether news
flow and analyst opinion are positive or negative, note upgrades or downgrades,
and say whether the mood is optimistic or pessimistic. Answer in the language of the
question.`

const sentimentHeadlines = 10

// Sentiment reports recent headlines for the primary ticker.
type Sentiment struct {
	deps Deps
}

func NewSentiment(deps Deps) *Sentiment {
	return &Sentiment{deps: deps}
}

func (s *Sentiment) Analyze(ctx context.Context, question string, tickers []string) (string, error) {
	symbol, err := primary(tickers)
	if err != nil {
		return "", err
	}
	if s.deps.News == nil {
		return "", errors.New("no news source configured")
	}
	headlines, err := s.deps.News.Headlines(ctx, symbol, sentimentHeadlines)
	if err != nil {
		return "", fmt.Errorf("headlines %s: %w", symbol, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Symbol: %s\n", symbol)
	if len(headlines) == 0 {
		sb.WriteString("No recent headlines found.\n")
	}
	for i, h := range headlines {
		fmt.Fprintf(&sb, "%d. [%s] %s", i+1, h.Source, h.Title)
		if h.PublishedAt != "" {
			fmt.Fprintf(&sb, " (%s)", h.PublishedAt)
		}
		sb.WriteString("\n")
		if h.Summary != "" {
			fmt.Fprintf(&sb, "   %s\n", h.Summary)
		}
	}

	prompt := fmt.Sprintf("Question: %s\nProvide the sentiment analysis of %s.", question, symbol)
	return narrate(ctx, s.deps.LLM, "sentiment", sentimentSystem, prompt, sb.String()), nil
}
