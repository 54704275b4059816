// Package news scrapes recent headlines for a symbol. The sentiment
// analyzer reads them as evidence.
package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bullbear-qa/internal/cache"
	"bullbear-qa/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Headline is one scraped news item.
type Headline struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Summary     string `json:"summary,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Source defines a news site and how to read its listing page.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // e.g. "/quote/{symbol}/news"
	Selectors  Selectors
	RateLimit  time.Duration
}

// Selectors are CSS selectors relative to each item container.
type Selectors struct {
	Item        string
	Title       string
	Link        string
	Summary     string
	PublishedAt string
}

// Config configures a Scraper.
type Config struct {
	Enabled     bool
	MaxArticles int
	CacheTTL    time.Duration
	Timeout     time.Duration
	Sources     []Source
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		MaxArticles: 10,
		CacheTTL:    time.Hour,
		Timeout:     20 * time.Second,
		Sources:     DefaultSources(),
	}
}

// DefaultSources returns the listing pages scraped for headlines.
func DefaultSources() []Source {
	return []Source{
		{
			Name:       "YahooFinance",
			BaseURL:    "https://finance.yahoo.com",
			SearchPath: "/quote/{symbol}/news",
			Selectors: Selectors{
				Item:        "li.stream-item, div.news-stream li",
				Title:       "h3",
				Link:        "a",
				Summary:     "p",
				PublishedAt: "div.publishing",
			},
			RateLimit: time.Second,
		},
		{
			Name:       "GoogleNews",
			BaseURL:    "https://news.google.com",
			SearchPath: "/search?q={symbol}+stock&hl=en-US&gl=US&ceid=US:en",
			Selectors: Selectors{
				Item:        "article",
				Title:       "h3, h4, a.JtKRv",
				Link:        "a",
				PublishedAt: "time",
			},
			RateLimit: time.Second,
		},
	}
}

// Scraper fetches headlines from the configured sources and caches them per
// symbol.
type Scraper struct {
	cfg   Config
	cache *cache.Cache[[]Headline]
}

func NewScraper(cfg Config) *Scraper {
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = 10
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Sources == nil {
		cfg.Sources = DefaultSources()
	}
	return &Scraper{cfg: cfg, cache: cache.New[[]Headline](cfg.CacheTTL, 256)}
}

// Headlines returns up to n headlines for symbol, newest listing first.
// Sources that fail are skipped; an error is returned only when every
// source failed.
func (s *Scraper) Headlines(ctx context.Context, symbol string, n int) ([]Headline, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}
	if n <= 0 || n > s.cfg.MaxArticles {
		n = s.cfg.MaxArticles
	}
	key := strings.ToUpper(symbol)
	if cached, age, ok := s.cache.Get(key); ok {
		logger.Debug(ctx, "Using cached headlines", "symbol", key, "age", age)
		return limit(cached, n), nil
	}

	var (
		all     []Headline
		lastErr error
		failed  int
	)
	for i, src := range s.cfg.Sources {
		if len(all) >= s.cfg.MaxArticles {
			break
		}
		if i > 0 && src.RateLimit > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(src.RateLimit):
			}
		}
		hs, err := s.scrapeSource(ctx, src, key, s.cfg.MaxArticles-len(all))
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", src.Name, "symbol", key)
			lastErr = err
			failed++
			continue
		}
		all = append(all, hs...)
	}
	if failed == len(s.cfg.Sources) && lastErr != nil {
		return nil, fmt.Errorf("all news sources failed: %w", lastErr)
	}

	all = dedupe(all)
	s.cache.Put(key, all)
	logger.Info(ctx, "News scraping completed", "symbol", key, "headlines", len(all))
	return limit(all, n), nil
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source, symbol string, n int) ([]Headline, error) {
	var (
		found    []Headline
		visitErr error
	)

	c := colly.NewCollector(
		colly.AllowedDomains(hostname(src.BaseURL)),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
		colly.UserAgent(userAgent),
	)
	c.SetRequestTimeout(s.cfg.Timeout)

	c.OnResponse(func(r *colly.Response) {
		hs, err := ExtractHeadlines(r.Body, src, n)
		if err != nil {
			visitErr = err
			return
		}
		found = hs
	})
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	searchURL := src.BaseURL + strings.ReplaceAll(src.SearchPath, "{symbol}", url.QueryEscape(symbol))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", searchURL, err)
	}
	c.Wait()
	if visitErr != nil {
		return nil, visitErr
	}
	return found, nil
}

// ExtractHeadlines parses a listing page. Items without a title or link are
// skipped and relative links are resolved against the source base URL.
func ExtractHeadlines(body []byte, src Source, n int) ([]Headline, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", src.Name, err)
	}

	var out []Headline
	doc.Find(src.Selectors.Item).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if n > 0 && len(out) >= n {
			return false
		}
		title := collapse(item.Find(src.Selectors.Title).First().Text())
		link, _ := item.Find(src.Selectors.Link).First().Attr("href")
		if title == "" || link == "" {
			return true
		}
		h := Headline{
			Title:  title,
			URL:    absolute(src.BaseURL, link),
			Source: src.Name,
		}
		if src.Selectors.Summary != "" {
			h.Summary = collapse(item.Find(src.Selectors.Summary).First().Text())
		}
		if src.Selectors.PublishedAt != "" {
			h.PublishedAt = collapse(item.Find(src.Selectors.PublishedAt).First().Text())
		}
		out = append(out, h)
		return true
	})
	return out, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func absolute(base, link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	b, err := url.Parse(base)
	if err != nil {
		return link
	}
	return b.ResolveReference(u).String()
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func dedupe(hs []Headline) []Headline {
	seen := make(map[string]bool, len(hs))
	out := hs[:0]
	for _, h := range hs {
		k := strings.ToLower(h.Title)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, h)
	}
	return out
}

func limit(hs []Headline, n int) []Headline {
	if len(hs) > n {
		return hs[:n]
	}
	return hs
}
