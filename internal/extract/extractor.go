// Package extract pulls instrument symbols out of free-form questions.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"bullbear-qa/internal/textmatch"
)

var (
	// Runs of ASCII letters; CJK text around a symbol acts as a boundary.
	// Only all-caps runs are symbol candidates, so "now" or "Low" never are.
	tokenPattern = regexp.MustCompile(`[A-Za-z]+`)

	positionalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z]{2,5})(?:的|股票|如何|怎么样)`),
		regexp.MustCompile(`(?:分析|看看|查询)([A-Z]{2,5})`),
	}
)

const maxSymbolLen = 5

// Extractor is a pure function of text plus its two lookup tables. It is
// safe for concurrent use once constructed.
type Extractor struct {
	symbols map[string]bool
	names   map[string]string
	stop    map[string]bool
}

type Option func(*Extractor)

// WithSymbols adds symbols to the curated set.
func WithSymbols(symbols ...string) Option {
	return func(e *Extractor) {
		for _, s := range symbols {
			e.symbols[strings.ToUpper(strings.TrimSpace(s))] = true
		}
	}
}

// WithNames adds company-name references.
func WithNames(names map[string]string) Option {
	return func(e *Extractor) {
		for name, sym := range names {
			e.names[strings.ToLower(name)] = strings.ToUpper(sym)
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		symbols: make(map[string]bool, len(knownSymbols)),
		names:   make(map[string]string, len(companyNames)),
		stop:    make(map[string]bool, len(stopWords)),
	}
	for _, s := range knownSymbols {
		e.symbols[s] = true
	}
	for name, sym := range companyNames {
		e.names[strings.ToLower(name)] = sym
	}
	for _, w := range stopWords {
		e.stop[w] = true
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type hit struct {
	pos    int
	symbol string
}

// Extract returns the symbols referenced by text, uppercase, deduplicated and
// ordered by first appearance. Bare symbols must be written in capitals;
// company names match case-insensitively on word boundaries.
func (e *Extractor) Extract(text string) []string {
	lower := asciiLower(text)

	var hits []hit

	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		tok := text[loc[0]:loc[1]]
		if len(tok) <= maxSymbolLen && isUpper(tok) && e.accept(tok) {
			hits = append(hits, hit{pos: loc[0], symbol: tok})
		}
	}

	for name, sym := range e.names {
		if idx := textmatch.Index(lower, name); idx >= 0 {
			hits = append(hits, hit{pos: idx, symbol: sym})
		}
	}

	for _, p := range positionalPatterns {
		for _, m := range p.FindAllStringSubmatchIndex(text, -1) {
			tok := text[m[2]:m[3]]
			if e.accept(tok) {
				hits = append(hits, hit{pos: m[2], symbol: tok})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		// Overlapping name keys (阿里 / 阿里巴巴) must not depend on map order.
		return hits[i].symbol < hits[j].symbol
	})

	seen := make(map[string]bool, len(hits))
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if seen[h.symbol] {
			continue
		}
		seen[h.symbol] = true
		out = append(out, h.symbol)
	}
	return out
}

func (e *Extractor) accept(tok string) bool {
	return e.symbols[tok] && !e.stop[tok]
}

func isUpper(tok string) bool {
	for i := 0; i < len(tok); i++ {
		if tok[i] < 'A' || tok[i] > 'Z' {
			return false
		}
	}
	return true
}

// asciiLower keeps byte offsets equal to those of the original text, which
// strings.ToLower does not guarantee for non-ASCII input.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
