package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EventsMemory = "memory"
	EventsKafka  = "kafka"

	SearchElastic  = "elasticsearch"
	SearchDatabase = "database"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Events   EventsConfig
	Kafka    KafkaConfig
	Search   SearchConfig
	SMTP     SMTPConfig
	Twilio   TwilioConfig
}

type DatabaseConfig struct {
	Host     string `env:"DATABASE_HOST,     default=localhost"`
	Port     int    `env:"DATABASE_PORT,     default=5432"`
	User     string `env:"DATABASE_USER,     default=postgres"`
	Password string `env:"DATABASE_PASSWORD"`
	Name     string `env:"DATABASE_NAME,     default=job_board"`
	SSLMode  string `env:"DATABASE_SSLMODE,  default=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=job_board"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type EventsConfig struct {
	Backend    string        `env:"EVENTS_BACKEND,      default=memory"`
	Workers    int           `env:"WORKERS,             default=8"`
	QueueSize  int           `env:"EVENT_QUEUE_SIZE,    default=256"`
	MaxRetries uint64        `env:"EVENT_MAX_RETRIES,   default=5"`
	RetryDelay time.Duration `env:"EVENT_RETRY_DELAY,   default=200ms"`
	DedupTTL   time.Duration `env:"EVENT_DEDUP_TTL,     default=24h"`
}

type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS,    default=localhost:9092"`
	Topic      string   `env:"KAFKA_TOPIC,      default=jobboard.events"`
	GroupID    string   `env:"KAFKA_GROUP_ID,   default=jobboard-notifier"`
	Partitions int      `env:"KAFKA_PARTITIONS, default=3"`
}

type SearchConfig struct {
	Backend  string   `env:"SEARCH_BACKEND,         default=elasticsearch"`
	URLs     []string `env:"ELASTICSEARCH_URLS,     default=http://localhost:9200"`
	Index    string   `env:"ELASTICSEARCH_INDEX"`
	Username string   `env:"ELASTICSEARCH_USERNAME"`
	Password string   `env:"ELASTICSEARCH_PASSWORD"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT,     default=587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM,     default=noreply@jobboard.local"`
}

type TwilioConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `env:"TWILIO_FROM_NUMBER"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Search.Index == "" {
		cfg.Search.Index = "jobs_" + cfg.Env
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Events.Backend {
	case EventsMemory, EventsKafka:
	default:
		return fmt.Errorf("EVENTS_BACKEND must be %q or %q, got %q", EventsMemory, EventsKafka, c.Events.Backend)
	}
	switch c.Search.Backend {
	case SearchElastic, SearchDatabase:
	default:
		return fmt.Errorf("SEARCH_BACKEND must be %q or %q, got %q", SearchElastic, SearchDatabase, c.Search.Backend)
	}
	return nil
}

// IsDevelopment enables pretty console logging.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
