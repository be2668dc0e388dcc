package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPProvider fetches rates from an exchangerate.host-style endpoint: a GET
// with base and symbols query parameters returning {"base": ..., "rates":
// {...}}.  It is used exclusively by the refresh job.
type HTTPProvider struct {
	URL    string
	Client *http.Client
}

// NewHTTPProvider constructs a provider with the given endpoint and request
// timeout.
func NewHTTPProvider(endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		URL:    endpoint,
		Client: &http.Client{Timeout: timeout},
	}
}

// FetchRates requests base→symbol rates for all symbols in one call.
func (p *HTTPProvider) FetchRates(ctx context.Context, base string, symbols []string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("base", base)
	q.Set("symbols", strings.Join(symbols, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rate response: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rate provider returned no rates")
	}
	return body.Rates, nil
}
