// Package store loads the YAML configuration.
package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		Provider       string  `yaml:"provider"`
		Model          string  `yaml:"model"`
		Endpoint       string  `yaml:"endpoint"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float64 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"llm"`
	MarketData struct {
		Provider        string             `yaml:"provider"`
		TimeoutSeconds  int                `yaml:"timeout_seconds"`
		Proxy           string             `yaml:"proxy"`
		QuoteTTLSeconds int                `yaml:"quote_ttl_seconds"`
		KiteExchange    string             `yaml:"kite_exchange"`
		StaticPrices    map[string]float64 `yaml:"static_prices"`
	} `yaml:"market_data"`
	Router struct {
		CrossCheckMedium       bool              `yaml:"cross_check_medium"`
		SingleTickerComparison string            `yaml:"single_ticker_comparison"`
		ClassifyTimeoutSeconds int               `yaml:"classify_timeout_seconds"`
		ExtraSymbols           []string          `yaml:"extra_symbols"`
		ExtraNames             map[string]string `yaml:"extra_names"`
	} `yaml:"router"`
	Judge struct {
		RatingScheme            string `yaml:"rating_scheme"`
		SynthesisTimeoutSeconds int    `yaml:"synthesis_timeout_seconds"`
		Weights                 struct {
			Fundamental float64 `yaml:"fundamental"`
			Technical   float64 `yaml:"technical"`
			Sentiment   float64 `yaml:"sentiment"`
		} `yaml:"weights"`
	} `yaml:"judge"`
	Strategy struct {
		DefaultRiskTier     string `yaml:"default_risk_tier"`
		HoldPolicy          string `yaml:"hold_policy"`
		QuoteTimeoutSeconds int    `yaml:"quote_timeout_seconds"`
	} `yaml:"strategy"`
	Analyzer struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"analyzer"`
	Ledger struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"ledger"`
	News struct {
		Enabled         bool `yaml:"enabled"`
		MaxArticles     int  `yaml:"max_articles"`
		CacheTTLMinutes int  `yaml:"cache_ttl_minutes"`
		TimeoutSeconds  int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
	Schedule struct {
		UpdateCron   string `yaml:"update_cron"`
		CompressCron string `yaml:"compress_cron"`
	} `yaml:"schedule"`
	Journal struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
		Timezone      string `yaml:"timezone"`
	} `yaml:"journal"`
}

// DefaultConfig returns a configuration that runs without a file: Yahoo
// quotes, no language model, JSON ledger.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	c.News.Enabled = true
	return &c
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NOOP"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1500
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.MarketData.Provider == "" {
		c.MarketData.Provider = "YAHOO"
	}
	if c.MarketData.TimeoutSeconds == 0 {
		c.MarketData.TimeoutSeconds = 15
	}
	if c.MarketData.QuoteTTLSeconds == 0 {
		c.MarketData.QuoteTTLSeconds = 300
	}
	if c.MarketData.KiteExchange == "" {
		c.MarketData.KiteExchange = "NSE"
	}
	if c.Router.SingleTickerComparison == "" {
		c.Router.SingleTickerComparison = "keep"
	}
	if c.Router.ClassifyTimeoutSeconds == 0 {
		c.Router.ClassifyTimeoutSeconds = 20
	}
	if c.Judge.RatingScheme == "" {
		c.Judge.RatingScheme = "three_tier"
	}
	if c.Judge.SynthesisTimeoutSeconds == 0 {
		c.Judge.SynthesisTimeoutSeconds = 90
	}
	w := &c.Judge.Weights
	if w.Fundamental == 0 && w.Technical == 0 && w.Sentiment == 0 {
		w.Fundamental, w.Technical, w.Sentiment = 0.4, 0.3, 0.3
	}
	if c.Strategy.DefaultRiskTier == "" {
		c.Strategy.DefaultRiskTier = "medium"
	}
	if c.Strategy.HoldPolicy == "" {
		c.Strategy.HoldPolicy = "skip"
	}
	if c.Strategy.QuoteTimeoutSeconds == 0 {
		c.Strategy.QuoteTimeoutSeconds = 15
	}
	if c.Analyzer.TimeoutSeconds == 0 {
		c.Analyzer.TimeoutSeconds = 120
	}
	if c.Ledger.Backend == "" {
		c.Ledger.Backend = "json"
	}
	if c.Ledger.Path == "" {
		if c.Ledger.Backend == "sqlite" {
			c.Ledger.Path = "data/trades.db"
		} else {
			c.Ledger.Path = "data/trades.json"
		}
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 10
	}
	if c.News.CacheTTLMinutes == 0 {
		c.News.CacheTTLMinutes = 60
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 20
	}
	if c.Schedule.UpdateCron == "" {
		c.Schedule.UpdateCron = "0 */15 * * * *"
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "logs"
	}
}

// applyEnv lets deployment environments override the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("QA_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("QA_MARKET_DATA_PROVIDER"); v != "" {
		c.MarketData.Provider = v
	}
	if v := os.Getenv("QA_LEDGER_BACKEND"); v != "" {
		c.Ledger.Backend = v
	}
	if v := os.Getenv("QA_LEDGER_PATH"); v != "" {
		c.Ledger.Path = v
	}
	if v := os.Getenv("QA_RISK_TIER"); v != "" {
		c.Strategy.DefaultRiskTier = v
	}
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid %s '%s': must be one of %s", field, value, strings.Join(allowed, ", "))
}

func (c *Config) Validate() error {
	checks := []error{
		oneOf("llm.provider", c.LLM.Provider, "OPENAI", "DEEPSEEK", "CLAUDE", "NOOP"),
		oneOf("market_data.provider", c.MarketData.Provider, "YAHOO", "KITE", "ALPACA", "STATIC"),
		oneOf("router.single_ticker_comparison", c.Router.SingleTickerComparison, "keep", "degrade"),
		oneOf("judge.rating_scheme", c.Judge.RatingScheme, "three_tier", "five_tier"),
		oneOf("strategy.default_risk_tier", c.Strategy.DefaultRiskTier, "low", "medium", "high"),
		oneOf("strategy.hold_policy", c.Strategy.HoldPolicy, "skip", "reference"),
		oneOf("ledger.backend", c.Ledger.Backend, "json", "sqlite"),
	}
	if err := errors.Join(checks...); err != nil {
		return err
	}
	w := c.Judge.Weights
	if w.Fundamental < 0 || w.Technical < 0 || w.Sentiment < 0 {
		return errors.New("judge.weights must not be negative")
	}
	if w.Fundamental+w.Technical+w.Sentiment <= 0 {
		return errors.New("judge.weights must not all be zero")
	}
	if strings.EqualFold(c.MarketData.Provider, "STATIC") && len(c.MarketData.StaticPrices) == 0 {
		return errors.New("market_data.static_prices cannot be empty for the STATIC provider")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0-2, got %.2f", c.LLM.Temperature)
	}
	return nil
}

// LoadConfig reads path, applies defaults and environment overrides, then
// validates. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	c := &Config{}
	c.News.Enabled = true

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	c.applyDefaults()
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}
