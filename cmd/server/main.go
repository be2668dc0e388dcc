package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/matchprice/ticket-market/internal/cache"
	"github.com/matchprice/ticket-market/internal/config"
	"github.com/matchprice/ticket-market/internal/database"
	"github.com/matchprice/ticket-market/internal/exchange"
	"github.com/matchprice/ticket-market/internal/handler"
	"github.com/matchprice/ticket-market/internal/middleware"
	"github.com/matchprice/ticket-market/internal/queue"
	"github.com/matchprice/ticket-market/internal/repository"
	"github.com/matchprice/ticket-market/internal/router"
	"github.com/matchprice/ticket-market/internal/service"
	"github.com/matchprice/ticket-market/internal/service/queue_publisher"
	"github.com/matchprice/ticket-market/internal/worker"
)

func main() {
	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	exCfg := config.LoadExchangeConfig()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the pair cache and rate limiter degrade
	// to pass-through behaviour.
	rdb := config.NewRedisClient()

	offerRepo := repository.NewOfferRepo(db)
	fixtureRepo := repository.NewFixtureRepo(db)
	teamRepo := repository.NewTeamRepo(db)
	leagueRepo := repository.NewLeagueRepo(db)

	teamCache := cache.NewTeamFixtures(cacheCfg.TeamFixtures.Capacity, cacheCfg.TeamFixtures.TTL)
	leagueCache := cache.NewLeagueFixtures(cacheCfg.LeagueFixtures.Capacity, cacheCfg.LeagueFixtures.TTL)
	offerCache := cache.NewFixtureOffers(cacheCfg.FixtureOffers.Capacity, cacheCfg.FixtureOffers.TTL)

	provider := exchange.NewHTTPProvider(exCfg.UpstreamURL, exCfg.RequestTimeout)
	var pairCache *exchange.RedisPairCache
	var pairs exchange.PairLookup
	if rdb != nil {
		pairCache = exchange.NewRedisPairCache(rdb, exCfg.FreshnessWindow)
		pairs = pairCache
	}
	resolver := exchange.NewResolver(provider, pairs, exCfg.FreshnessWindow)

	queries := service.NewFixtureQueries(fixtureRepo, teamRepo, leagueRepo, teamCache, leagueCache)
	comparator := service.NewComparator(offerRepo, resolver)
	minSync := service.NewMinPriceSync(fixtureRepo, comparator)
	cascade := service.NewCascade(queries, teamCache, leagueCache, offerCache, queue_publisher.PublishPriceChanged)
	offerSvc := service.NewOfferService(offerRepo, fixtureRepo, offerCache, minSync, cascade)

	ratesWorker := worker.NewRatesWorker(resolver, provider, pairCache, exCfg.ExtraPairs, exCfg.RefreshSpec)
	if err := ratesWorker.Start(context.Background()); err != nil {
		log.Fatalf("rates worker: %v", err)
	}
	defer ratesWorker.Stop()

	go func() {
		if err := queue.StartPriceConsumer(); err != nil {
			log.Printf("price consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)

	offerHandler := &handler.OfferHandler{Offers: offerSvc}
	fixtureHandler := &handler.FixtureHandler{Queries: queries}
	ratesHandler := &handler.RatesHandler{Resolver: resolver}
	cacheAdmin := &handler.CacheAdminHandler{Teams: teamCache, Leagues: leagueCache, Offers: offerCache}

	router.RegisterPublic(e, fixtureHandler, offerHandler, ratesHandler)
	router.RegisterOffers(e, offerHandler, cfg.JWTSecret, middleware.NewTokenBucket(rlCfg, rdb))
	router.RegisterAdmin(e, cacheAdmin, ratesHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
