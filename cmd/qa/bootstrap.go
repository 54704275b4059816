package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"bullbear-qa/internal/analyzer"
	"bullbear-qa/internal/extract"
	"bullbear-qa/internal/interfaces"
	"bullbear-qa/internal/judge"
	"bullbear-qa/internal/ledger"
	"bullbear-qa/internal/llm"
	"bullbear-qa/internal/logger"
	"bullbear-qa/internal/marketdata"
	"bullbear-qa/internal/marketdata/marketobs"
	"bullbear-qa/internal/news"
	"bullbear-qa/internal/pipeline"
	"bullbear-qa/internal/router"
	"bullbear-qa/internal/store"
	"bullbear-qa/internal/strategy"
	"bullbear-qa/internal/tradelog"
	"bullbear-qa/internal/types"

	"github.com/joho/godotenv"
)

// App holds the wired components shared by the commands.
type App struct {
	Config   *store.Config
	Market   interfaces.MarketData
	Router   *router.Router
	Ledger   *ledger.Ledger
	Journal  *tradelog.Journal
	Pipeline *pipeline.Pipeline

	closers []func() error
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			fmt.Fprintf(os.Stderr, "close: %v\n", err)
		}
	}
}

// initializeSystem loads .env and initializes the logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig resolves the config path from the flag, then QA_CONFIG.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	if path == "" {
		path = os.Getenv("QA_CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// initializeLLM builds the configured model. Providers without a key fall
// back to the noop model so the pipeline still answers with raw data.
func initializeLLM(ctx context.Context, cfg *store.Config) interfaces.LLM {
	model, err := llm.New(llm.Params{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		Endpoint:    cfg.LLM.Endpoint,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     seconds(cfg.LLM.TimeoutSeconds),
	})
	if err != nil {
		logger.Warn(ctx, "Language model unavailable, continuing without it", "provider", cfg.LLM.Provider, "error", err)
		model, _ = llm.New(llm.Params{Provider: llm.ProviderNoop})
	}
	return model
}

// initializeMarket builds the quote source with caching and observability.
func initializeMarket(cfg *store.Config) (interfaces.MarketData, error) {
	provider := strings.ToUpper(cfg.MarketData.Provider)
	src, err := marketdata.New(marketdata.Params{
		Provider:        provider,
		Timeout:         seconds(cfg.MarketData.TimeoutSeconds),
		Proxy:           cfg.MarketData.Proxy,
		KiteAPIKey:      os.Getenv("KITE_API_KEY"),
		KiteAccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		KiteExchange:    cfg.MarketData.KiteExchange,
		AlpacaKeyID:     os.Getenv("APCA_API_KEY_ID"),
		AlpacaSecret:    os.Getenv("APCA_API_SECRET_KEY"),
		StaticPrices:    cfg.MarketData.StaticPrices,
	})
	if err != nil {
		return nil, err
	}
	cached := marketdata.NewCached(marketobs.Wrap(src, provider), seconds(cfg.MarketData.QuoteTTLSeconds))
	return cached, nil
}

// initializeLedger opens the configured trade store.
func initializeLedger(cfg *store.Config) (*ledger.Ledger, func() error, error) {
	switch strings.ToLower(cfg.Ledger.Backend) {
	case "sqlite":
		st, err := ledger.OpenSQLiteStore(cfg.Ledger.Path)
		if err != nil {
			return nil, nil, err
		}
		return ledger.New(st), st.Close, nil
	default:
		return ledger.New(ledger.NewFileStore(cfg.Ledger.Path)), nil, nil
	}
}

func initializeJournal(ctx context.Context, cfg *store.Config) *tradelog.Journal {
	var loc *time.Location
	if cfg.Journal.Timezone != "" {
		l, err := time.LoadLocation(cfg.Journal.Timezone)
		if err != nil {
			logger.Warn(ctx, "Unknown journal timezone, using local time", "timezone", cfg.Journal.Timezone, "error", err)
		} else {
			loc = l
		}
	}
	return tradelog.New(cfg.Journal.Dir, loc)
}

// newApp wires every component from cfg.
func newApp(ctx context.Context, cfg *store.Config) (*App, error) {
	app := &App{Config: cfg}

	market, err := initializeMarket(cfg)
	if err != nil {
		return nil, fmt.Errorf("market data: %w", err)
	}
	app.Market = market

	l, closer, err := initializeLedger(cfg)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	app.Ledger = l
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	model := initializeLLM(ctx, cfg)

	deps := analyzer.Deps{Market: market, LLM: model}
	if cfg.News.Enabled {
		nc := news.DefaultConfig()
		nc.MaxArticles = cfg.News.MaxArticles
		nc.CacheTTL = time.Duration(cfg.News.CacheTTLMinutes) * time.Minute
		nc.Timeout = seconds(cfg.News.TimeoutSeconds)
		deps.News = news.NewScraper(nc)
	}

	var extractOpts []extract.Option
	if len(cfg.Router.ExtraSymbols) > 0 {
		extractOpts = append(extractOpts, extract.WithSymbols(cfg.Router.ExtraSymbols...))
	}
	if len(cfg.Router.ExtraNames) > 0 {
		extractOpts = append(extractOpts, extract.WithNames(cfg.Router.ExtraNames))
	}
	app.Router = router.New(extract.New(extractOpts...), model, router.Options{
		CrossCheckMedium:       cfg.Router.CrossCheckMedium,
		SingleTickerComparison: strings.ToLower(cfg.Router.SingleTickerComparison),
		ClassifyTimeout:        seconds(cfg.Router.ClassifyTimeoutSeconds),
	})

	scheme, err := judge.SchemeByName(cfg.Judge.RatingScheme)
	if err != nil {
		return nil, err
	}
	j := judge.New(model, judge.Options{
		Scheme: scheme,
		Weights: judge.Weights{
			types.DimensionFundamental: cfg.Judge.Weights.Fundamental,
			types.DimensionTechnical:   cfg.Judge.Weights.Technical,
			types.DimensionSentiment:   cfg.Judge.Weights.Sentiment,
		},
		SynthesisTimeout: seconds(cfg.Judge.SynthesisTimeoutSeconds),
	})

	gen := strategy.New(market, strategy.Options{
		HoldPolicy:   strings.ToLower(cfg.Strategy.HoldPolicy),
		QuoteTimeout: seconds(cfg.Strategy.QuoteTimeoutSeconds),
	})

	tier, err := types.ParseRiskTier(cfg.Strategy.DefaultRiskTier)
	if err != nil {
		return nil, err
	}

	app.Journal = initializeJournal(ctx, cfg)
	app.Pipeline = pipeline.New(pipeline.Config{
		Router:      app.Router,
		Dispatcher:  analyzer.NewDefaultDispatcher(deps, seconds(cfg.Analyzer.TimeoutSeconds)),
		Judge:       j,
		Strategy:    gen,
		Ledger:      app.Ledger,
		Journal:     app.Journal,
		DefaultRisk: tier,
	})

	logger.Info(ctx, "Components initialized",
		"llm", cfg.LLM.Provider, "market_data", cfg.MarketData.Provider,
		"ledger", cfg.Ledger.Backend, "news", cfg.News.Enabled)
	return app, nil
}
