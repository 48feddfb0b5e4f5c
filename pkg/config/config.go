package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RequestTimeout  time.Duration `yaml:"request_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		NewsTopic    string   `yaml:"news_topic"`
		SignalsTopic string   `yaml:"signals_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
			// HandleTimeout bounds one handler attempt on a news message.
			HandleTimeout time.Duration `yaml:"handle_timeout"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		RatesTable       string        `yaml:"rates_table" default:"fx_rates_daily"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Cache struct {
		Backend      string        `yaml:"backend" default:"memory"`
		DashboardTTL time.Duration `yaml:"dashboard_ttl" default:"30s"`
		CommentTTL   time.Duration `yaml:"comment_ttl" default:"15m"`
	} `yaml:"cache"`
	Comment struct {
		URL     string        `yaml:"url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout" default:"10s"`
		Retries int           `yaml:"retries"`
	} `yaml:"comment"`
	Signal struct {
		TrendWeight      float64       `yaml:"trend_weight" default:"0.6"`
		NewsWeight       float64       `yaml:"news_weight" default:"0.4"`
		VolatilityWeight float64       `yaml:"volatility_weight" default:"0.2"`
		LongThreshold    float64       `yaml:"long_threshold" default:"0.2"`
		ShortThreshold   float64       `yaml:"short_threshold" default:"-0.2"`
		VolatilityLow    float64       `yaml:"volatility_low" default:"0.005"`
		VolatilityHigh   float64       `yaml:"volatility_high" default:"0.015"`
		SentimentMode    string        `yaml:"sentiment_mode" default:"mean"`
		RecencyHalfLife  time.Duration `yaml:"recency_half_life" default:"24h"`
	} `yaml:"signal"`
	News struct {
		Capacity  int           `yaml:"capacity" default:"100"`
		Retention time.Duration `yaml:"retention" default:"72h"`
	} `yaml:"news"`
	Refresher struct {
		Enabled bool     `yaml:"enabled"`
		Spec    string   `yaml:"spec" default:"0 */5 * * * *"`
		Pairs   []string `yaml:"pairs"`
		Range   string   `yaml:"range" default:"1M"`
	} `yaml:"refresher"`
	Stream struct {
		Interval time.Duration `yaml:"interval" default:"30s"`
	} `yaml:"stream"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity" default:"10"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"2"`
	} `yaml:"ratelimit"`
}

// envOverrides lists the settings deployments override without editing YAML.
type envOverrides struct {
	Environment    string   `env:"FXPULSE_ENV"`
	LogLevel       string   `env:"FXPULSE_LOG_LEVEL"`
	Port           int      `env:"FXPULSE_PORT"`
	KafkaBrokers   []string `env:"FXPULSE_KAFKA_BROKERS" envSeparator:","`
	NewsTopic      string   `env:"FXPULSE_NEWS_TOPIC"`
	SignalsTopic   string   `env:"FXPULSE_SIGNALS_TOPIC"`
	ClickHouseHost string   `env:"FXPULSE_CLICKHOUSE_HOST"`
	ClickHouseUser string   `env:"FXPULSE_CLICKHOUSE_USER"`
	ClickHousePass string   `env:"FXPULSE_CLICKHOUSE_PASSWORD"`
	RedisAddr      string   `env:"FXPULSE_REDIS_ADDR"`
	RedisPassword  string   `env:"FXPULSE_REDIS_PASSWORD"`
	CacheBackend   string   `env:"FXPULSE_CACHE_BACKEND"`
	CommentURL     string   `env:"FXPULSE_COMMENT_URL"`
	CommentAPIKey  string   `env:"FXPULSE_COMMENT_API_KEY"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	c, err := decode(b)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// decode fills the `default` tags first so YAML only replaces the keys it
// names, including explicit zeros.
func decode(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. Validation runs after the overrides, so required settings may
// come from either source.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overlays FXPULSE_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	setString(&c.Environment, o.Environment)
	setString(&c.Log.Level, o.LogLevel)
	if o.Port > 0 {
		c.Server.Port = o.Port
	}
	if len(o.KafkaBrokers) > 0 {
		c.Kafka.Brokers = o.KafkaBrokers
	}
	setString(&c.Kafka.NewsTopic, o.NewsTopic)
	setString(&c.Kafka.SignalsTopic, o.SignalsTopic)
	setString(&c.ClickHouse.Host, o.ClickHouseHost)
	setString(&c.ClickHouse.User, o.ClickHouseUser)
	setString(&c.ClickHouse.Password, o.ClickHousePass)
	setString(&c.Redis.Addr, o.RedisAddr)
	setString(&c.Redis.Password, o.RedisPassword)
	setString(&c.Cache.Backend, o.CacheBackend)
	setString(&c.Comment.URL, o.CommentURL)
	setString(&c.Comment.APIKey, o.CommentAPIKey)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty")
	}
	if c.Kafka.NewsTopic == "" || c.Kafka.SignalsTopic == "" {
		return fmt.Errorf("kafka.news_topic and kafka.signals_topic are required")
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis", "layered":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when cache.backend is '%s'", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Signal.LongThreshold <= c.Signal.ShortThreshold {
		return fmt.Errorf("signal.long_threshold must exceed signal.short_threshold")
	}
	if c.Signal.VolatilityLow > c.Signal.VolatilityHigh {
		return fmt.Errorf("signal.volatility_low must not exceed signal.volatility_high")
	}
	if c.Stream.Interval <= 0 || c.News.Capacity <= 0 {
		return fmt.Errorf("stream.interval and news.capacity must be positive")
	}
	if c.Signal.SentimentMode != "mean" && c.Signal.SentimentMode != "recency" {
		return fmt.Errorf("signal.sentiment_mode must be 'mean' or 'recency', got '%s'", c.Signal.SentimentMode)
	}
	for _, p := range c.Refresher.Pairs {
		if len(p) != 7 || p[3] != '_' {
			return fmt.Errorf("refresher.pairs: invalid pair id '%s'", p)
		}
	}
	return nil
}
