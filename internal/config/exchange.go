package config

import (
	"strings"
	"time"
)

// ExchangeConfig controls the currency exchange resolver and its background
// refresh job.  The upstream is queried only by the refresh job, never on the
// request path.
type ExchangeConfig struct {
	UpstreamURL     string        // rate provider endpoint, queried with ?base=...&symbols=...
	RequestTimeout  time.Duration // HTTP timeout for one refresh call
	FreshnessWindow time.Duration // how long a live snapshot is trusted
	RefreshSpec     string        // cron spec for the refresh job
	ExtraPairs      []string      // non-tier-1 pairs to pre-seed, e.g. "CHF:EUR"
}

// LoadExchangeConfig reads environment variables to build an ExchangeConfig.
// The defaults match the production setup: exchangerate.host as upstream, a
// 24h freshness window and a daily refresh at 08:00.
func LoadExchangeConfig() ExchangeConfig {
	return ExchangeConfig{
		UpstreamURL:     envStr("EXCHANGE_UPSTREAM_URL", "https://api.exchangerate.host/latest"),
		RequestTimeout:  envDur("EXCHANGE_REQUEST_TIMEOUT", 5*time.Second),
		FreshnessWindow: envDur("EXCHANGE_FRESHNESS_WINDOW", 24*time.Hour),
		RefreshSpec:     envStr("EXCHANGE_REFRESH_SPEC", "0 8 * * *"),
		ExtraPairs:      splitPairs(envStr("EXCHANGE_EXTRA_PAIRS", "")),
	}
}

// splitPairs parses a comma-separated list of FROM:TO pairs, dropping blanks.
func splitPairs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
