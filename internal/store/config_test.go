package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "NOOP", c.LLM.Provider)
	assert.Equal(t, "YAHOO", c.MarketData.Provider)
	assert.Equal(t, "keep", c.Router.SingleTickerComparison)
	assert.Equal(t, "skip", c.Strategy.HoldPolicy)
	assert.Equal(t, 0.4, c.Judge.Weights.Fundamental)
	assert.Equal(t, "data/trades.json", c.Ledger.Path)
	assert.True(t, c.News.Enabled)
}

func TestLoadConfigMissingFile(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "0 */15 * * * *", c.Schedule.UpdateCron)
}

func TestLoadConfigFromFile(t *testing.T) {
	p := writeConfig(t, `
llm:
  provider: DEEPSEEK
  model: deepseek-chat
market_data:
  provider: STATIC
  static_prices:
    AAPL: 190.5
router:
  single_ticker_comparison: degrade
judge:
  rating_scheme: five_tier
ledger:
  backend: sqlite
news:
  enabled: false
`)
	c, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "DEEPSEEK", c.LLM.Provider)
	assert.Equal(t, 190.5, c.MarketData.StaticPrices["AAPL"])
	assert.Equal(t, "degrade", c.Router.SingleTickerComparison)
	assert.Equal(t, "five_tier", c.Judge.RatingScheme)
	assert.Equal(t, "data/trades.db", c.Ledger.Path)
	assert.False(t, c.News.Enabled)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QA_LLM_PROVIDER", "CLAUDE")
	t.Setenv("QA_RISK_TIER", "high")
	t.Setenv("QA_LEDGER_PATH", "/tmp/x.json")
	c, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "CLAUDE", c.LLM.Provider)
	assert.Equal(t, "high", c.Strategy.DefaultRiskTier)
	assert.Equal(t, "/tmp/x.json", c.Ledger.Path)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"provider":     "llm:\n  provider: PALM\n",
		"hold policy":  "strategy:\n  hold_policy: force\n",
		"risk tier":    "strategy:\n  default_risk_tier: yolo\n",
		"static empty": "market_data:\n  provider: STATIC\n",
		"weights":      "judge:\n  weights:\n    fundamental: -1\n    technical: 1\n",
		"bad yaml":     "llm: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
