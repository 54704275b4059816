// Package marketdata provides quote and price-history sources.
package marketdata

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bullbear-qa/internal/interfaces"
)

// ErrUnavailable is returned when a source has no usable price for a symbol.
var ErrUnavailable = errors.New("price unavailable")

const (
	ProviderYahoo  = "YAHOO"
	ProviderKite   = "KITE"
	ProviderAlpaca = "ALPACA"
	ProviderStatic = "STATIC"
)

// Params selects and configures a provider.
type Params struct {
	Provider string
	Timeout  time.Duration
	Proxy    string

	KiteAPIKey      string
	KiteAccessToken string
	KiteExchange    string

	AlpacaKeyID  string
	AlpacaSecret string

	StaticPrices map[string]float64
}

// New builds the configured provider. Kite has no keyless history endpoint,
// so history for Kite comes from Yahoo.
func New(p Params) (interfaces.MarketData, error) {
	switch strings.ToUpper(p.Provider) {
	case "", ProviderYahoo:
		return NewYahoo(p.Timeout, p.Proxy), nil
	case ProviderKite:
		if p.KiteAPIKey == "" || p.KiteAccessToken == "" {
			return nil, errors.New("kite: missing API key/access token")
		}
		return NewKite(p.KiteAPIKey, p.KiteAccessToken, p.KiteExchange), nil
	case ProviderAlpaca:
		if p.AlpacaKeyID == "" || p.AlpacaSecret == "" {
			return nil, errors.New("alpaca: missing key id/secret")
		}
		return NewAlpaca(p.AlpacaKeyID, p.AlpacaSecret), nil
	case ProviderStatic:
		return NewStatic(p.StaticPrices), nil
	default:
		return nil, fmt.Errorf("unknown market data provider %q", p.Provider)
	}
}

func validPrice(symbol string, price float64) (float64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("%s: %w", symbol, ErrUnavailable)
	}
	return price, nil
}
