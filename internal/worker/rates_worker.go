// Package worker hosts the scheduled background jobs.
package worker

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/matchprice/ticket-market/internal/exchange"
)

// RatesWorker refreshes the exchange rate snapshot on a cron schedule and
// pre-seeds the Redis pair cache with any configured non-tier-1 pairs. One
// refresh runs immediately on Start so the resolver does not serve fallback
// constants until the first scheduled tick.
type RatesWorker struct {
	resolver *exchange.Resolver
	provider exchange.RateProvider
	pairs    *exchange.RedisPairCache // nil disables pair seeding
	extra    []string                 // "FROM:TO" pairs
	spec     string
	cron     *cron.Cron
}

// NewRatesWorker constructs a RatesWorker. spec uses the standard five-field
// cron format, e.g. "0 8 * * *" for a daily 08:00 run.
func NewRatesWorker(resolver *exchange.Resolver, provider exchange.RateProvider, pairs *exchange.RedisPairCache, extra []string, spec string) *RatesWorker {
	return &RatesWorker{
		resolver: resolver,
		provider: provider,
		pairs:    pairs,
		extra:    extra,
		spec:     spec,
		cron:     cron.New(),
	}
}

// Start runs one refresh synchronously, then schedules the recurring job.
// A failed initial refresh is logged, not fatal: the resolver degrades to
// its fallback chain until the next tick succeeds.
func (w *RatesWorker) Start(ctx context.Context) error {
	w.refresh(ctx)

	_, err := w.cron.AddFunc(w.spec, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		w.refresh(refreshCtx)
	})
	if err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

// Stop halts the schedule. Any in-flight refresh finishes on its own.
func (w *RatesWorker) Stop() {
	w.cron.Stop()
}

func (w *RatesWorker) refresh(ctx context.Context) {
	if err := w.resolver.Refresh(ctx); err != nil {
		log.Printf("rates-worker: snapshot refresh failed, resolver degraded to fallbacks: %v", err)
	} else {
		log.Printf("rates-worker: snapshot refreshed at %s", w.resolver.LastLoaded().Format(time.RFC3339))
	}
	w.seedPairs(ctx)
}

// seedPairs fetches each configured FROM:TO pair from the upstream and
// stores it in the pair cache so non-tier-1 lookups hit without waiting for
// request traffic. Failures are per-pair and logged.
func (w *RatesWorker) seedPairs(ctx context.Context) {
	if w.pairs == nil || len(w.extra) == 0 {
		return
	}
	for _, pair := range w.extra {
		from, to, ok := strings.Cut(pair, ":")
		if !ok || from == "" || to == "" {
			log.Printf("rates-worker: skipping malformed pair %q", pair)
			continue
		}
		from, to = strings.ToUpper(from), strings.ToUpper(to)
		rates, err := w.provider.FetchRates(ctx, from, []string{to})
		if err != nil {
			log.Printf("rates-worker: seed pair %s:%s failed: %v", from, to, err)
			continue
		}
		rate, ok := rates[to]
		if !ok || rate <= 0 {
			log.Printf("rates-worker: upstream returned no usable rate for %s:%s", from, to)
			continue
		}
		w.pairs.Store(ctx, from, to, rate)
	}
}
