package di

import (
	"fmt"

	"StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	"StockPulse/internal/handler/ws"
	"StockPulse/internal/service/alphavantage"
	"StockPulse/internal/service/events"
	"StockPulse/internal/service/modelmeta"
	"StockPulse/internal/service/seriescache"
	"StockPulse/internal/service/synthetic"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheStore picks the cache backend per configuration.
func ProvideCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		store, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return store, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

// ProvideSeriesSource picks the live gateway or the synthetic generator.
func ProvideSeriesSource(cfg *config.Config) repository.SeriesSource {
	if cfg.Market.Source == "live" {
		return alphavantage.New(
			cfg.AlphaVantage.APIKey,
			cfg.AlphaVantage.BaseURL,
			alphavantage.WithHTTPTimeout(cfg.AlphaVantage.Timeout),
			alphavantage.WithRateLimit(cfg.AlphaVantage.RateCapacity, cfg.AlphaVantage.RateRefill),
		)
	}
	return synthetic.NewSource(
		cfg.Market.Symbol,
		cfg.Market.SyntheticDays,
		cfg.Market.SyntheticOpen,
		0,
	)
}

// ProvidePublisher creates the Kafka event publisher, or a no-op when
// eventing is disabled.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if !cfg.Events.Enabled {
		return events.NopPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return events.NewKafkaPublisher(producer, cfg.Events.Topic), nil
}

// ProvideSeriesCache creates the typed series cache.
func ProvideSeriesCache(cfg *config.Config, store cache.Store) *seriescache.Cache {
	return seriescache.New(store, cfg.Market.CacheTTL)
}

// ProvideModelRegistry creates the model metadata registry use case.
func ProvideModelRegistry() *usecase.ModelRegistry {
	return usecase.NewModelRegistry(modelmeta.NewRegistry())
}

// ProvideMarketData creates the data access facade.
func ProvideMarketData(
	cfg *config.Config,
	source repository.SeriesSource,
	sc *seriescache.Cache,
	m repository.Metrics,
	pub repository.Publisher,
	registry *usecase.ModelRegistry,
	log *applogger.Logger,
) *usecase.MarketData {
	return usecase.NewMarketData(cfg.Market.Symbol, source, sc,
		usecase.WithMetrics(m),
		usecase.WithPublisher(pub),
		usecase.WithLogger(log),
		usecase.WithPredictionWindow(cfg.Market.PredictionWindow),
		usecase.WithModelCount(registry.VersionCount()),
	)
}

// ProvideLiveFeed creates the periodic latest-price fan-out loop.
func ProvideLiveFeed(cfg *config.Config, data *usecase.MarketData, log *applogger.Logger) *usecase.LiveFeed {
	return usecase.NewLiveFeed(data, cfg.Live.Interval, log)
}

// ProvideHTTPServer builds the Echo server with all route registrars.
func ProvideHTTPServer(
	cfg *config.Config,
	data *usecase.MarketData,
	registry *usecase.ModelRegistry,
	feed *usecase.LiveFeed,
	log *applogger.Logger,
) *xhttp.Server {
	handler := xhttp.Handlers(
		api.NewDashboardHandler(data, registry, log),
		ws.NewLiveHandler(feed, log),
	)
	return xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(log),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	feed *usecase.LiveFeed,
	store cache.Store,
	pub repository.Publisher,
) *server.App {
	return server.New(cfg, log, httpServer, feed, store, pub)
}
