package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"FXPulse/internal/domain/repository"
	"FXPulse/internal/handler/api"
	internalrepo "FXPulse/internal/repository"
	icache "FXPulse/internal/service/cache"
	"FXPulse/internal/service/ratelimit"
	"FXPulse/internal/services/comment"
	"FXPulse/internal/services/features"
	"FXPulse/internal/services/sentiment"
	"FXPulse/internal/services/signal"
	"FXPulse/internal/usecase"
	pkgch "FXPulse/pkg/clickhouse"
	"FXPulse/pkg/config"
	xhttp "FXPulse/pkg/http"
	pkgkafka "FXPulse/pkg/kafka"
	applogger "FXPulse/pkg/logger"
	"FXPulse/pkg/metrics"
	"FXPulse/pkg/scheduler"
	"FXPulse/pkg/server"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the rates table exists.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.RatesSchema(cfg.ClickHouse.Database, cfg.ClickHouse.RatesTable)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, closeWith(l, "clickhouse", client.Close), nil
}

// ProvideRateStore reads daily rates from ClickHouse.
func ProvideRateStore(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) *internalrepo.CHRateStore {
	table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.RatesTable
	return internalrepo.NewCHRateStore(ch, table, l.With("rates"))
}

func ProvideNewsStore(cfg *config.Config) *internalrepo.MemoryNewsStore {
	return internalrepo.NewMemoryNewsStore(cfg.News.Capacity, cfg.News.Retention)
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithClientID("fxpulse-"+cfg.Environment),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, closeWith(l, "kafka producer", producer.Close), nil
}

// ProvideSignalPublisher publishes refreshed signals to the signals topic.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerHandleTimeout(cfg.Kafka.Consumer.HandleTimeout),
		pkgkafka.WithConsumerLogger(l.With("kafka")),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaNewsHandler feeds the news topic into the news store.
func ProvideKafkaNewsHandler(cfg *config.Config, store *internalrepo.MemoryNewsStore, m repository.Metrics) *usecase.KafkaNewsHandler {
	return usecase.NewKafkaNewsHandler(cfg.Kafka.NewsTopic, store, m)
}

// ProvideCache builds the configured backend and pings it when it is remote.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (icache.BytesCache, func(), error) {
	c, err := icache.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: %w", err)
	}
	cleanup := func() {}
	if closer, ok := c.(io.Closer); ok {
		cleanup = closeWith(l, "cache", closer.Close)
	}
	if p, ok := c.(icache.Pinger); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("cache ping %s: %w", cfg.Redis.Addr, err)
		}
	}
	return c, cleanup, nil
}

// closeWith adapts a Close method to a wire cleanup that logs failures.
func closeWith(l *applogger.Logger, name string, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			l.Warn(name+" close error", applogger.Error(err))
		}
	}
}

// ProvideCommentSource wraps the comment service in the response cache.
func ProvideCommentSource(cfg *config.Config, c icache.BytesCache, m repository.Metrics) *comment.Cached {
	return comment.NewCached(comment.NewHTTPGenerator(cfg), c, cfg.Cache.CommentTTL, m)
}

func ProvideKPIEngine(cfg *config.Config) *features.KPIEngine {
	return features.NewKPIEngine(features.VolatilityThresholds{
		Low:  cfg.Signal.VolatilityLow,
		High: cfg.Signal.VolatilityHigh,
	})
}

// ProvideSignalEngine overlays the configured weights and thresholds on the default policy.
func ProvideSignalEngine(cfg *config.Config) (*signal.Engine, error) {
	p := signal.DefaultPolicy()
	p.TrendWeight = cfg.Signal.TrendWeight
	p.NewsWeight = cfg.Signal.NewsWeight
	p.VolatilityWeight = cfg.Signal.VolatilityWeight
	p.LongThreshold = cfg.Signal.LongThreshold
	p.ShortThreshold = cfg.Signal.ShortThreshold
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("signal policy: %w", err)
	}
	return signal.NewEngine(p), nil
}

func ProvideDashboardUseCase(
	rates *internalrepo.CHRateStore,
	news *internalrepo.MemoryNewsStore,
	kpi *features.KPIEngine,
	engine *signal.Engine,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.DashboardUseCase {
	uc := usecase.NewDashboardUseCase(rates, news, kpi, engine, usecase.SentimentOptions{
		Mode:     sentiment.Mode(cfg.Signal.SentimentMode),
		HalfLife: cfg.Signal.RecencyHalfLife,
	}, m, l.With("dashboard"))
	uc.SetTimeout(cfg.Server.RequestTimeout)
	return uc
}

func ProvideMarketCommentUseCase(dashboards *usecase.DashboardUseCase, comments *comment.Cached, l *applogger.Logger) *usecase.MarketCommentUseCase {
	return usecase.NewMarketCommentUseCase(dashboards, comments, l.With("comment"))
}

func ProvideSignalRefresher(
	dashboards *usecase.DashboardUseCase,
	pub repository.SignalPublisher,
	m repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.SignalRefresher {
	return usecase.NewSignalRefresher(dashboards, pub, cfg.Refresher.Pairs, cfg.Refresher.Range, m, l.With("refresher"))
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideHTTPServer registers the REST and websocket handlers on one Echo server.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	dashboards *usecase.DashboardUseCase,
	comments *usecase.MarketCommentUseCase,
	rates *internalrepo.CHRateStore,
	c icache.BytesCache,
	rl *ratelimit.Limiter,
) *xhttp.Server {
	rest := api.NewDashboardEchoHandler(dashboards, comments, rates,
		api.WithResponseCache(c, cfg.Cache.DashboardTTL),
		api.WithRateLimiter(rl),
		api.WithHandlerLogger(l.With("api")),
	)
	stream := api.NewDashboardStreamHandler(dashboards, cfg.Stream.Interval, l.With("stream"))

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
	}
	return xhttp.NewServer([]xhttp.Handler{rest, stream},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l.With("http")),
		xhttp.WithMetricsPath(metricsPath),
	)
}

func ProvideScheduler(l *applogger.Logger) *scheduler.Runner {
	return scheduler.New(l.With("scheduler"))
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	newsHandler *usecase.KafkaNewsHandler,
	sched *scheduler.Runner,
	refresher *usecase.SignalRefresher,
	rl *ratelimit.Limiter,
	c icache.BytesCache,
) *server.App {
	return server.New(cfg, l, httpServer, consumer, newsHandler, sched, refresher, rl, c)
}
